package types

import "encoding/json"

// Recognized event record fields. Anything else passes through untouched.
const (
	FieldTime         = "time"
	FieldObjID        = "objID"
	FieldFunctionID   = "functionID"
	FieldHostObjectID = "hostObjectID"
	FieldValue        = "value"
	FieldRetval       = "retval"
	FieldArgs         = "args"
)

// Top-level document fields.
const (
	FieldGlobalObjID = "globalObjID"
	FieldTrace       = "trace"
)

// Event is a single trace record. Field values are kept as raw JSON so
// unrecognized fields survive normalization byte-for-byte.
type Event map[string]json.RawMessage

// Document is a parsed synth trace file.
type Document struct {
	// GlobalObjID is the baseline object identifier declared by the
	// recording runtime. It always normalizes to 0.
	GlobalObjID int64

	// Trace is the ordered event sequence.
	Trace []Event

	// Extra holds every top-level field other than globalObjID and
	// trace, preserved unchanged in the output.
	Extra map[string]json.RawMessage
}
