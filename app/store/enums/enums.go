// Package enums provides type-safe enumeration types for stored records.
//
// This package uses code generation via go-pkgz/enum to create type-safe enums.
// The unexported types (kind, state, theme) are the source definitions used by the generator.
// The generator creates exported types (Kind, State, Theme) with:
//   - String() method for text representation
//   - Parse functions (e.g., ParseKind) for string-to-enum conversion
//   - Must functions (e.g., MustKind) that panic on invalid input
//   - Database methods (Scan/Value) for SQL storage as names
//   - JSON marshaling via MarshalText/UnmarshalText
//   - Values/Names functions listing all members
//
// Usage:
//
//	kind, err := enums.ParseKind("timer")
//	if err != nil {
//	    // handle invalid input
//	}
//	fmt.Println(kind.String()) // "timer"
//
// Kind and State lead with an unknown member, so neither a zero value nor "unknown" passes Valid.
// A zero Theme is treated as ThemeSystem by Normalize.
package enums

//go:generate go run github.com/go-pkgz/enum@latest -type kind -lower
//go:generate go run github.com/go-pkgz/enum@latest -type state -lower
//go:generate go run github.com/go-pkgz/enum@latest -type theme -lower

// kind discriminates chronographs.
// This is an unexported type used only as input for the code generator.
// Use the exported Kind type and its constants in actual code.
type kind int

const (
	kindUnknown kind = iota
	kindTimer
	kindStopwatch
)

// state is the run status of a chronograph.
// This is an unexported type used only as input for the code generator.
// Use the exported State type and its constants in actual code.
type state int

const (
	stateUnknown state = iota
	statePaused
	stateRunning
	stateStopped
	stateCompleted
)

// theme is the colour scheme selected in user settings.
// This is an unexported type used only as input for the code generator.
// Use the exported Theme type and its constants in actual code.
type theme int

const (
	themeSystem theme = iota
	themeLight
	themeDark
)
