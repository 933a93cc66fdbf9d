// Package document loads and renders synth trace files. The normalizer
// core never touches I/O; callers hand it a parsed Document and get an
// equivalent one back.
package document

import (
	stdjson "encoding/json"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/tracekit/synthnorm/internal/trace"
	"github.com/tracekit/synthnorm/pkg/types"
)

// Parse validates data against the trace document schema and decodes it.
// Unknown top-level fields are retained so they survive to the output.
func Parse(data []byte) (*types.Document, error) {
	if err := trace.Validate(data); err != nil {
		return nil, err
	}

	var top map[string]stdjson.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &types.SchemaError{Detail: "document is not a JSON object", Err: err}
	}

	doc := &types.Document{Extra: top}
	if err := json.Unmarshal(top[types.FieldGlobalObjID], &doc.GlobalObjID); err != nil {
		return nil, &types.SchemaError{Detail: "globalObjID is not an integer", Err: err}
	}
	if err := json.Unmarshal(top[types.FieldTrace], &doc.Trace); err != nil {
		return nil, &types.SchemaError{Detail: "trace is not an array of records", Err: err}
	}
	delete(top, types.FieldGlobalObjID)
	delete(top, types.FieldTrace)
	return doc, nil
}

// Render marshals doc back to pretty-printed JSON with the given indent
// width. Map keys are emitted sorted, so rendering is deterministic.
func Render(doc *types.Document, indent int) ([]byte, error) {
	top := make(map[string]stdjson.RawMessage, len(doc.Extra)+2)
	for k, v := range doc.Extra {
		top[k] = v
	}

	gid, err := json.Marshal(doc.GlobalObjID)
	if err != nil {
		return nil, err
	}
	top[types.FieldGlobalObjID] = gid

	tr, err := json.Marshal(doc.Trace)
	if err != nil {
		return nil, err
	}
	top[types.FieldTrace] = tr

	return json.MarshalIndent(top, "", strings.Repeat(" ", indent))
}
