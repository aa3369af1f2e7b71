package enums

import (
	"slices"

	"github.com/invopop/jsonschema"
)

// Valid reports whether the kind is a known one other than KindUnknown
func (e Kind) Valid() bool { return e != KindUnknown && slices.Contains(KindValues(), e) }

// Valid reports whether the state is a known one other than StateUnknown
func (e State) Valid() bool { return e != StateUnknown && slices.Contains(StateValues(), e) }

// Normalize returns ThemeSystem for an omitted theme
func (e Theme) Normalize() Theme {
	if e == (Theme{}) {
		return ThemeSystem
	}
	return e
}

// JSONSchema describes Kind as a string enum
func (Kind) JSONSchema() *jsonschema.Schema { return enumSchema(KindNames()[1:]) }

// JSONSchema describes State as a string enum
func (State) JSONSchema() *jsonschema.Schema { return enumSchema(StateNames()[1:]) }

// JSONSchema describes Theme as a string enum
func (Theme) JSONSchema() *jsonschema.Schema { return enumSchema(ThemeNames()) }

func enumSchema(names []string) *jsonschema.Schema {
	res := &jsonschema.Schema{Type: "string"}
	for _, n := range names {
		res.Enum = append(res.Enum, n)
	}
	return res
}
