package trace

import (
	stdjson "encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/segmentio/encoding/json"

	"github.com/tracekit/synthnorm/pkg/types"
)

// identifierFields hold raw integer IDs and bypass the value codec.
var identifierFields = []string{
	types.FieldObjID,
	types.FieldFunctionID,
	types.FieldHostObjectID,
}

// valueFields hold single encoded value strings.
var valueFields = []string{
	types.FieldValue,
	types.FieldRetval,
}

// Normalizer rewrites one trace document. It owns the identifier remap
// table: volatile runtime object IDs are replaced with small indices
// assigned in first-seen order, so two traces of logically equivalent
// runs can be compared with a plain diff.
type Normalizer struct {
	normal         map[int64]int64
	nextID         int64
	convertNumbers bool
}

// Assignment is one row of the identifier remap table.
type Assignment struct {
	Raw        int64
	Normalized int64
}

// NewNormalizer seeds the remap table so globalObjID always normalizes
// to 0, wherever and whether it appears in the body. When convertNumbers
// is true, number-tagged values are rewritten from their hex bit pattern
// to a readable decimal form; object-tagged values are remapped
// regardless of the flag.
func NewNormalizer(globalObjID int64, convertNumbers bool) *Normalizer {
	return &Normalizer{
		normal:         map[int64]int64{globalObjID: 0},
		nextID:         1,
		convertNumbers: convertNumbers,
	}
}

// lookupOrAssign returns the normalized ID for raw, assigning the next
// sequential index on first sight. This is the only mutation path into
// the remap table; an ID keeps its first assignment for the lifetime of
// the Normalizer.
func (n *Normalizer) lookupOrAssign(raw int64) int64 {
	if id, ok := n.normal[raw]; ok {
		return id
	}
	id := n.nextID
	n.nextID++
	n.normal[raw] = id
	return id
}

// NormalizeValue rewrites a single encoded value string. Strings that
// are neither object- nor number-tagged are opaque literals and pass
// through unchanged.
func (n *Normalizer) NormalizeValue(v string) (string, error) {
	switch {
	case IsObjectValue(v):
		raw, err := DecodeObject(v)
		if err != nil {
			return "", err
		}
		return EncodeObject(n.lookupOrAssign(raw)), nil
	case n.convertNumbers && IsNumberValue(v):
		num, err := DecodeNumber(v)
		if err != nil {
			return "", err
		}
		return EncodeNumber(num), nil
	default:
		return v, nil
	}
}

// NormalizeRecord rewrites the recognized fields of rec in place:
// identifier fields go straight to the remap table, value and retval
// through the codec, and args element-wise preserving order and length.
// Absent fields are skipped; everything else is untouched.
func (n *Normalizer) NormalizeRecord(rec types.Event) error {
	for _, key := range identifierFields {
		raw, ok := rec[key]
		if !ok {
			continue
		}
		var id int64
		if err := json.Unmarshal(raw, &id); err != nil {
			return types.NewFormatError(string(raw), key+" is not an integer identifier")
		}
		rec[key] = stdjson.RawMessage(strconv.AppendInt(nil, n.lookupOrAssign(id), 10))
	}

	for _, key := range valueFields {
		raw, ok := rec[key]
		if !ok {
			continue
		}
		norm, err := n.normalizeRawValue(raw)
		if err != nil {
			return err
		}
		rec[key] = norm
	}

	if raw, ok := rec[types.FieldArgs]; ok {
		var args []stdjson.RawMessage
		if err := json.Unmarshal(raw, &args); err != nil {
			return types.NewFormatError(string(raw), "args is not an array")
		}
		for i, a := range args {
			norm, err := n.normalizeRawValue(a)
			if err != nil {
				return err
			}
			args[i] = norm
		}
		packed, err := json.Marshal(args)
		if err != nil {
			return fmt.Errorf("re-encode args: %w", err)
		}
		rec[types.FieldArgs] = packed
	}

	return nil
}

// normalizeRawValue unwraps a JSON string, normalizes it, and wraps it
// back up. Non-string values carry no encoded identifiers and pass
// through untouched.
func (n *Normalizer) normalizeRawValue(raw stdjson.RawMessage) (stdjson.RawMessage, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return raw, nil
	}
	norm, err := n.NormalizeValue(s)
	if err != nil {
		return nil, err
	}
	if norm == s {
		return raw, nil
	}
	out, err := json.Marshal(norm)
	if err != nil {
		return nil, fmt.Errorf("re-encode value: %w", err)
	}
	return out, nil
}

// Assignments returns the remap table ordered by normalized ID. The
// baseline seed (normalized 0) is included.
func (n *Normalizer) Assignments() []Assignment {
	out := make([]Assignment, 0, len(n.normal))
	for raw, id := range n.normal {
		out = append(out, Assignment{Raw: raw, Normalized: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Normalized < out[j].Normalized })
	return out
}

// NormalizeDocument strips timestamps and remaps identifiers across
// every event of doc, in original order, then forces the document's
// globalObjID to 0. The first malformed record aborts the run; there is
// no per-record recovery. The Normalizer is returned so the finished
// remap table can be inspected or persisted.
func NormalizeDocument(doc *types.Document, convertNumbers bool) (*Normalizer, error) {
	n := NewNormalizer(doc.GlobalObjID, convertNumbers)
	for i, rec := range doc.Trace {
		if _, ok := rec[types.FieldTime]; !ok {
			return nil, &types.MissingFieldError{Field: types.FieldTime, Index: i}
		}
		delete(rec, types.FieldTime)
		if err := n.NormalizeRecord(rec); err != nil {
			return nil, fmt.Errorf("trace[%d]: %w", i, err)
		}
	}
	doc.GlobalObjID = 0
	return n, nil
}
