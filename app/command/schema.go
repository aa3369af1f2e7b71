package command

import (
	"github.com/invopop/jsonschema"
)

// Schema returns JSON schema of arguments for every command, keyed by command name.
// The shell uses it to generate its typed bindings.
func Schema() map[string]*jsonschema.Schema {
	r := &jsonschema.Reflector{ExpandedStruct: true}
	res := make(map[string]*jsonschema.Schema, len(commands))
	for name, cmd := range commands {
		s := r.Reflect(cmd.args)
		s.Title = name
		res[name] = s
	}
	return res
}
