package trace

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/tracekit/synthnorm/pkg/types"
)

// documentSchema is the shape every trace file must have before
// normalization is attempted. Event record fields are checked later by
// the Normalizer; the schema only pins down the document envelope.
const documentSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["globalObjID", "trace"],
	"properties": {
		"globalObjID": {"type": "integer"},
		"trace": {
			"type": "array",
			"items": {"type": "object"}
		}
	}
}`

var (
	schemaOnce sync.Once
	docSchema  *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var doc any
		doc, schemaErr = jsonschema.UnmarshalJSON(strings.NewReader(documentSchema))
		if schemaErr != nil {
			return
		}
		c := jsonschema.NewCompiler()
		if schemaErr = c.AddResource("trace.schema.json", doc); schemaErr != nil {
			return
		}
		docSchema, schemaErr = c.Compile("trace.schema.json")
	})
	return docSchema, schemaErr
}

// Validate checks that data is a JSON document with an integer
// globalObjID and a trace array of records. Returns a SchemaError
// describing the first violation, or nil.
func Validate(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile document schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &types.SchemaError{Detail: "document is not valid JSON", Err: err}
	}
	if err := sch.Validate(inst); err != nil {
		return &types.SchemaError{Detail: "document does not match the trace schema", Err: err}
	}
	return nil
}
