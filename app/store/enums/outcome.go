package enums

import "fmt"

// Outcome reports whether a write touched a row
type Outcome int

// Outcome values
const (
	NotFound Outcome = iota
	Applied
)

var outcomeNames = []string{"not_found", "applied"}

// OutcomeOf makes Outcome from the number of affected rows
func OutcomeOf(rowsAffected int64) Outcome {
	if rowsAffected > 0 {
		return Applied
	}
	return NotFound
}

// ParseOutcome converts a name to Outcome
func ParseOutcome(s string) (Outcome, error) {
	for i, n := range outcomeNames {
		if n == s {
			return Outcome(i), nil
		}
	}
	return NotFound, fmt.Errorf("invalid outcome: %s", s)
}

// Applied reports whether the write touched a row
func (o Outcome) Applied() bool { return o == Applied }

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// MarshalText implements encoding.TextMarshaler
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }
