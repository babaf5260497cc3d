// Package schema builds a JSON schema document for the session
// configuration accepted by map-loading tools and the demo server,
// mirroring the teacher's effect-catalog schema generator.
package schema

import (
	"reflect"

	"github.com/invopop/jsonschema"

	"gridwarden/internal/board"
)

// Build reflects board.Config into a JSON schema document for editor and
// validation tooling.
func Build() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	configSchema := reflector.ReflectFromType(reflect.TypeOf(board.Config{}))
	configSchema.Version = jsonschema.Version
	configSchema.Title = "Session Configuration"
	configSchema.Description = "Tunables a path-planning session is constructed with."
	return configSchema
}
