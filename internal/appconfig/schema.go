package appconfig

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON string

var documentSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded document schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("appconfig/schema.json", doc); err != nil {
		panic(fmt.Sprintf("failed to add document schema resource: %v", err))
	}
	schema, err := compiler.Compile("appconfig/schema.json")
	if err != nil {
		panic(fmt.Sprintf("failed to compile document schema: %v", err))
	}
	return schema
}
