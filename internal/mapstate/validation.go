package mapstate

import (
	"strconv"
	"strings"
)

// Messages attached to fields that fail validation.
const (
	LatitudeErrorMessage  = "Latitude must be between -90 and 90"
	LongitudeErrorMessage = "Longitude must be between -180 and 180"
	NameErrorMessage      = "Please provide a name"
)

// Range is an inclusive numeric interval.
type Range struct {
	Low  float64
	High float64
}

var (
	// LatitudeRange bounds latitude in decimal degrees.
	LatitudeRange = Range{Low: -90, High: 90}
	// LongitudeRange bounds longitude in decimal degrees.
	LongitudeRange = Range{Low: -180, High: 180}
)

// Contains reports whether v lies in [r.Low, r.High]. NaN is never contained.
func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// ParseCoordinate parses a decimal degree value. Surrounding whitespace is
// ignored. Values that overflow float64 are rejected, and so is Go literal
// syntax (digit separators, hex mantissas) that strconv would accept.
func ParseCoordinate(input string) (float64, bool) {
	s := strings.TrimSpace(input)
	if !isDecimal(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isDecimal(s string) bool {
	if strings.ContainsRune(s, '_') {
		return false
	}
	digits := strings.TrimLeft(s, "+-")
	return !strings.HasPrefix(digits, "0x") && !strings.HasPrefix(digits, "0X")
}

// FormatCoordinate renders v so that it parses back to the same value and
// always shows a fractional part (10 becomes "10.0").
func FormatCoordinate(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.ContainsAny(s, ".NI") {
		return s
	}
	return s + ".0"
}

// Validate returns errText when input does not parse as a number or parses
// to a value outside r. It returns "" otherwise.
func Validate(input string, r Range, errText string) string {
	v, ok := ParseCoordinate(input)
	if !ok || !r.Contains(v) {
		return errText
	}
	return ""
}

// ValidateName returns errText when input is empty after trimming.
func ValidateName(input string, errText string) string {
	if strings.TrimSpace(input) == "" {
		return errText
	}
	return ""
}
