package trace

import (
	"math"
	"strconv"
	"strings"

	"github.com/tracekit/synthnorm/pkg/types"
)

const (
	objectPrefix = "object:"
	numberPrefix = "number:"
)

// IsObjectValue reports whether v is an object-tagged value string.
func IsObjectValue(v string) bool { return strings.HasPrefix(v, objectPrefix) }

// IsNumberValue reports whether v is a number-tagged value string.
func IsNumberValue(v string) bool { return strings.HasPrefix(v, numberPrefix) }

// DecodeObject extracts the raw object ID from an object-tagged value.
func DecodeObject(v string) (int64, error) {
	parts := strings.Split(v, ":")
	if len(parts) != 2 {
		return 0, types.NewFormatError(v, "expected exactly one ':' separator")
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, types.NewFormatError(v, "object suffix is not a decimal integer")
	}
	return id, nil
}

// DecodeNumber extracts the double from a number-tagged value. The suffix
// is the 16-hex-digit big-endian bit pattern of an IEEE-754 double and is
// reinterpreted bit-for-bit, with no rounding.
func DecodeNumber(v string) (float64, error) {
	parts := strings.Split(v, ":")
	if len(parts) != 2 {
		return 0, types.NewFormatError(v, "expected exactly one ':' separator")
	}
	if len(parts[1]) != 16 {
		return 0, types.NewFormatError(v, "number suffix must be 16 hex digits")
	}
	bits, err := strconv.ParseUint(parts[1], 16, 64)
	if err != nil {
		return 0, types.NewFormatError(v, "number suffix is not valid hex")
	}
	return math.Float64frombits(bits), nil
}

// EncodeObject renders an object ID as an object-tagged value.
func EncodeObject(id int64) string {
	return objectPrefix + strconv.FormatInt(id, 10)
}

// EncodeNumber renders a double as a number-tagged decimal value.
// Integral doubles collapse to an integer literal. This form is easier
// to read than the hex bit pattern but may lose precision, so it is only
// produced when conversion is requested.
func EncodeNumber(num float64) string {
	return numberPrefix + formatNumber(num)
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		if f >= math.MinInt64 && f < math.MaxInt64 {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
