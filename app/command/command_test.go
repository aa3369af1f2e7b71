package command

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotnoklu/crane/app/store"
	"github.com/gotnoklu/crane/app/store/enums"
	"github.com/gotnoklu/crane/app/tray"
)

func TestDispatcher_Workspaces(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	res, err := d.Invoke(ctx, "fetch_current_workspace", nil)
	require.NoError(t, err)
	assert.Nil(t, res, "no selection is not a fault")

	res, err = d.Invoke(ctx, "add_workspace",
		json.RawMessage(`{"workspace":{"title":"Work","description":"","is_favourite":false,"is_selected":true}}`))
	require.NoError(t, err)
	assert.Equal(t, true, res)

	res, err = d.Invoke(ctx, "fetch_current_workspace", nil)
	require.NoError(t, err)
	ws, ok := res.(store.Workspace)
	require.True(t, ok)
	assert.Equal(t, "Work", ws.Title)
	assert.Equal(t, int64(1), ws.ID)

	res, err = d.Invoke(ctx, "update_workspace",
		json.RawMessage(`{"id":1,"workspace":{"title":"Home","description":"d","is_favourite":true,"is_selected":true}}`))
	require.NoError(t, err)
	assert.Equal(t, true, res)

	res, err = d.Invoke(ctx, "update_workspace", json.RawMessage(`{"id":42,"workspace":{"title":"x"}}`))
	require.NoError(t, err)
	assert.Equal(t, false, res, "missing workspace is not an error")

	res, err = d.Invoke(ctx, "fetch_all_workspaces", json.RawMessage(`{}`))
	require.NoError(t, err)
	list, ok := res.([]store.Workspace)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "Home", list[0].Title)
	assert.True(t, list[0].IsFavourite)

	res, err = d.Invoke(ctx, "delete_workspace", json.RawMessage(`{"id":1}`))
	require.NoError(t, err)
	assert.Equal(t, true, res)
	res, err = d.Invoke(ctx, "delete_workspace", json.RawMessage(`{"id":1}`))
	require.NoError(t, err)
	assert.Equal(t, false, res)
}

func TestDispatcher_Chronographs(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	_, err := d.Invoke(ctx, "add_workspace", json.RawMessage(`{"workspace":{"title":"Work"}}`))
	require.NoError(t, err)

	for _, body := range []string{
		`{"chronograph":{"workspace_id":1,"name":"t1","kind":"timer","state":"paused","duration":3600}}`,
		`{"chronograph":{"workspace_id":1,"name":"s1","kind":"stopwatch","state":"paused","duration":0}}`,
		`{"chronograph":{"workspace_id":1,"name":"t2","kind":"timer","state":"running","duration":60}}`,
	} {
		res, e := d.Invoke(ctx, "add_chronograph", json.RawMessage(body))
		require.NoError(t, e)
		require.Equal(t, true, res)
	}

	res, err := d.Invoke(ctx, "fetch_all_chronographs", json.RawMessage(`{"workspace_id":1,"kind":"timer"}`))
	require.NoError(t, err)
	list, ok := res.([]store.Chronograph)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, "t2", list[0].Name)
	assert.Equal(t, "t1", list[1].Name)

	res, err = d.Invoke(ctx, "update_chronograph",
		json.RawMessage(`{"id":2,"workspace_id":1,"chronograph":{"name":"sw","kind":"stopwatch","state":"running","duration":5}}`))
	require.NoError(t, err)
	assert.Equal(t, true, res)

	res, err = d.Invoke(ctx, "update_chronograph",
		json.RawMessage(`{"id":2,"workspace_id":7,"chronograph":{"name":"sw","kind":"stopwatch","state":"running","duration":5}}`))
	require.NoError(t, err)
	assert.Equal(t, false, res, "wrong workspace")

	res, err = d.Invoke(ctx, "delete_chronograph", json.RawMessage(`{"workspace_id":1,"id":2}`))
	require.NoError(t, err)
	assert.Equal(t, true, res)

	res, err = d.Invoke(ctx, "fetch_all_chronographs", json.RawMessage(`{"workspace_id":1,"kind":"stopwatch"}`))
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestDispatcher_Settings(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	res, err := d.Invoke(ctx, "fetch_user_settings", nil)
	require.NoError(t, err)
	us, ok := res.(store.UserSettings)
	require.True(t, ok)
	assert.Equal(t, enums.ThemeSystem, us.Theme)
	assert.False(t, us.ShowAppInSystemTray)

	res, err = d.Invoke(ctx, "update_user_settings",
		json.RawMessage(`{"settings":{"theme":"dark","show_app_in_system_tray":true,"notify_on_timer_complete":true}}`))
	require.NoError(t, err)
	assert.Equal(t, true, res)

	res, err = d.Invoke(ctx, "update_user_settings", json.RawMessage(`{"settings":{"show_app_in_system_tray":true}}`))
	require.NoError(t, err)
	assert.Equal(t, true, res)

	res, err = d.Invoke(ctx, "fetch_user_settings", nil)
	require.NoError(t, err)
	us = res.(store.UserSettings)
	assert.Equal(t, enums.ThemeSystem, us.Theme, "omitted theme resets")
	assert.True(t, us.ShowAppInSystemTray)
	assert.False(t, us.NotifyOnTimerComplete)
}

func TestDispatcher_InvocationErrors(t *testing.T) {
	d, pool := newTestDispatcher(t)
	ctx := context.Background()

	tbl := []struct {
		name string
		cmd  string
		args string
	}{
		{"unknown command", "drop_everything", `{}`},
		{"malformed args", "add_workspace", `{"workspace":`},
		{"wrong arg type", "delete_workspace", `{"id":"one"}`},
		{"invalid kind", "fetch_all_chronographs", `{"workspace_id":1,"kind":"clock"}`},
		{"missing kind", "fetch_all_chronographs", `{"workspace_id":1}`},
		{"invalid state", "add_chronograph", `{"chronograph":{"workspace_id":1,"name":"x","kind":"timer","state":"lost"}}`},
		{"missing workspace", "add_chronograph", `{"chronograph":{"workspace_id":99,"name":"x","kind":"timer","state":"paused"}}`},
		{"invalid theme", "update_user_settings", `{"settings":{"theme":"pink"}}`},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Invoke(ctx, tt.cmd, json.RawMessage(tt.args))
			assert.ErrorIs(t, err, ErrInvocation)
			assert.Nil(t, res)
		})
	}

	t.Run("store closed", func(t *testing.T) {
		require.NoError(t, pool.Close())
		_, err := d.Invoke(ctx, "fetch_all_workspaces", nil)
		assert.ErrorIs(t, err, ErrInvocation)
		_, err = d.Invoke(ctx, "fetch_current_workspace", nil)
		assert.ErrorIs(t, err, ErrInvocation)
	})
}

func TestDispatcher_TimerCompleted(t *testing.T) {
	ctx := context.Background()
	completed := json.RawMessage(`{"id":1,"workspace_id":1,"chronograph":{"name":"tea","kind":"timer","state":"completed","duration":0}}`)

	prep := func(t *testing.T, notify bool) (*Dispatcher, chan tray.Event) {
		d, _ := newTestDispatcher(t)
		ch := make(chan tray.Event, 5)
		d.Events = ch
		_, err := d.Settings.Update(ctx, store.SettingsInput{NotifyOnTimerComplete: notify})
		require.NoError(t, err)
		_, err = d.Invoke(ctx, "add_workspace", json.RawMessage(`{"workspace":{"title":"Work"}}`))
		require.NoError(t, err)
		_, err = d.Invoke(ctx, "add_chronograph",
			json.RawMessage(`{"chronograph":{"workspace_id":1,"name":"tea","kind":"timer","state":"running","duration":180}}`))
		require.NoError(t, err)
		return d, ch
	}

	t.Run("notify enabled", func(t *testing.T) {
		d, ch := prep(t, true)
		res, err := d.Invoke(ctx, "update_chronograph", completed)
		require.NoError(t, err)
		assert.Equal(t, true, res)
		require.Len(t, ch, 1)
		assert.Equal(t, tray.Event{Type: tray.EventTimerComplete, Name: "tea"}, <-ch)

		// already completed, no second notice
		_, err = d.Invoke(ctx, "update_chronograph", completed)
		require.NoError(t, err)
		assert.Empty(t, ch)
	})

	t.Run("concurrent completions", func(t *testing.T) {
		d, ch := prep(t, true)
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := d.Invoke(ctx, "update_chronograph", completed)
				assert.NoError(t, err)
				assert.Equal(t, true, res)
			}()
		}
		wg.Wait()
		require.Len(t, ch, 1, "single notice for a single completion")
		assert.Equal(t, tray.Event{Type: tray.EventTimerComplete, Name: "tea"}, <-ch)
	})

	t.Run("notify disabled", func(t *testing.T) {
		d, ch := prep(t, false)
		_, err := d.Invoke(ctx, "update_chronograph", completed)
		require.NoError(t, err)
		assert.Empty(t, ch)
	})

	t.Run("not a timer", func(t *testing.T) {
		d, ch := prep(t, true)
		_, err := d.Invoke(ctx, "update_chronograph",
			json.RawMessage(`{"id":1,"workspace_id":1,"chronograph":{"name":"tea","kind":"stopwatch","state":"completed"}}`))
		require.NoError(t, err)
		assert.Empty(t, ch)
	})

	t.Run("missing chronograph", func(t *testing.T) {
		d, ch := prep(t, true)
		res, err := d.Invoke(ctx, "update_chronograph",
			json.RawMessage(`{"id":5,"workspace_id":1,"chronograph":{"name":"tea","kind":"timer","state":"completed"}}`))
		require.NoError(t, err)
		assert.Equal(t, false, res)
		assert.Empty(t, ch)
	})
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{
		"add_chronograph", "add_workspace", "delete_chronograph", "delete_workspace", "fetch_all_chronographs",
		"fetch_all_workspaces", "fetch_current_workspace", "fetch_user_settings", "update_chronograph",
		"update_user_settings", "update_workspace",
	}, Names())
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *store.Pool) {
	t.Helper()
	ctx := context.Background()
	pool, err := store.Open(ctx, store.Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })
	require.NoError(t, store.Migrate(ctx, pool))
	return &Dispatcher{
		Workspaces:   store.NewWorkspaces(pool),
		Chronographs: store.NewChronographs(pool),
		Settings:     store.NewSettings(pool),
	}, pool
}
