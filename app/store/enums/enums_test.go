package enums

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"timer", KindTimer, false},
		{"stopwatch", KindStopwatch, false},
		{"unknown", KindUnknown, false},
		{"", Kind{}, true},
		{"countdown", Kind{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
	assert.Panics(t, func() { MustKind("countdown") })
	assert.Equal(t, KindStopwatch, MustKind("stopwatch"))
}

func TestKindValid(t *testing.T) {
	assert.True(t, KindTimer.Valid())
	assert.True(t, KindStopwatch.Valid())
	assert.False(t, KindUnknown.Valid())
	var k Kind
	assert.False(t, k.Valid(), "zero value is invalid")
}

func TestParseState(t *testing.T) {
	for i, s := range []string{"paused", "running", "stopped", "completed"} {
		st, err := ParseState(s)
		require.NoError(t, err)
		assert.True(t, st.Valid())
		assert.Equal(t, s, st.String())
		assert.Equal(t, i+1, st.Index())
	}
	_, err := ParseState("idle")
	assert.Error(t, err)
	assert.False(t, StateUnknown.Valid())
	assert.False(t, State{}.Valid())
	assert.Equal(t, []string{"unknown", "paused", "running", "stopped", "completed"}, StateNames())
}

func TestTheme(t *testing.T) {
	var th Theme
	assert.Equal(t, ThemeSystem, th.Normalize(), "omitted theme is system")
	assert.Equal(t, ThemeDark, ThemeDark.Normalize())

	got, err := ParseTheme("dark")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, got)

	_, err = ParseTheme("solarized")
	assert.Error(t, err)
	assert.Len(t, ThemeValues(), 3)
}

func TestJSON(t *testing.T) {
	type rec struct {
		Kind  Kind  `json:"kind"`
		State State `json:"state"`
		Theme Theme `json:"theme"`
	}

	data, err := json.Marshal(rec{Kind: KindStopwatch, State: StateRunning, Theme: ThemeLight})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"stopwatch","state":"running","theme":"light"}`, string(data))

	var r rec
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"timer","state":"paused"}`), &r))
	assert.Equal(t, KindTimer, r.Kind)
	assert.Equal(t, StatePaused, r.State)
	assert.Equal(t, ThemeSystem, r.Theme.Normalize())

	r = rec{}
	require.NoError(t, json.Unmarshal([]byte(`{"state":"paused"}`), &r))
	assert.False(t, r.Kind.Valid(), "omitted kind stays invalid")

	err = json.Unmarshal([]byte(`{"kind":"bad"}`), &r)
	assert.Error(t, err)
}

func TestScanValue(t *testing.T) {
	var k Kind
	require.NoError(t, k.Scan("stopwatch"))
	assert.Equal(t, KindStopwatch, k)
	require.NoError(t, k.Scan([]byte("timer")))
	assert.Equal(t, KindTimer, k)
	assert.Error(t, k.Scan(42))
	assert.Error(t, k.Scan("countdown"))

	v, err := KindTimer.Value()
	require.NoError(t, err)
	assert.Equal(t, "timer", v)

	var th Theme
	require.NoError(t, th.Scan(nil))
	assert.Equal(t, ThemeSystem, th)

	var st State
	require.NoError(t, st.Scan("completed"))
	assert.Equal(t, StateCompleted, st)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, NotFound, OutcomeOf(0))
	assert.Equal(t, Applied, OutcomeOf(1))
	assert.True(t, Applied.Applied())
	assert.False(t, NotFound.Applied())
	assert.Equal(t, "not_found", NotFound.String())
	assert.Equal(t, "outcome(7)", Outcome(7).String())

	o, err := ParseOutcome("applied")
	require.NoError(t, err)
	assert.Equal(t, Applied, o)
	_, err = ParseOutcome("done")
	assert.Error(t, err)
}

func TestJSONSchema(t *testing.T) {
	s := KindTimer.JSONSchema()
	assert.Equal(t, "string", s.Type)
	assert.Equal(t, []any{"timer", "stopwatch"}, s.Enum)
	assert.Equal(t, []any{"paused", "running", "stopped", "completed"}, StateRunning.JSONSchema().Enum)
	assert.Len(t, ThemeSystem.JSONSchema().Enum, 3)
}
