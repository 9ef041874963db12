package config

import (
	"bytes"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v6"
	schemareflector "github.com/swaggest/jsonschema-go"

	ext_config "github.com/tagmill/tagmill/config"
)

// rootSchema validates raw configuration documents before decoding.
var rootSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	js, err := jsonschema.UnmarshalJSON(bytes.NewReader(ext_config.Schema()))
	if err != nil {
		panic(err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft2020)
	if err := compiler.AddResource("schema.json", js); err != nil {
		panic(err)
	}

	schema, err := compiler.Compile("schema.json")
	if err != nil {
		panic(err)
	}
	return schema
}

// ReflectSchema renders the JSON schema for Root. The gen-config-schema
// command writes it to config/schema.json, where it is embedded.
func ReflectSchema() ([]byte, error) {
	reflector := schemareflector.Reflector{}

	s, err := reflector.Reflect(Root{})
	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(s, "", "  ")
}

func (Duration) PrepareJSONSchema(schema *schemareflector.Schema) error {
	schema.Type = nil
	schema.AddType(schemareflector.String)
	return nil
}

// We do this so that the following YAML config is considered valid:
//
//	assets:
//	  roots:
//	    - web/static
//
// A bare string is shorthand for a root with that path and no mount.
func (*AssetRoot) PrepareJSONSchema(schema *schemareflector.Schema) error {
	schema.AddType(schemareflector.String)
	return nil
}
