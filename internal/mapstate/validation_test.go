package mapstate

import (
	"math"
	"testing"
)

// TestValidate tests numeric range validation
func TestValidate(t *testing.T) {
	const msg = "out of range"

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Valid: zero", "0", ""},
		{"Valid: lower bound", "-90", ""},
		{"Valid: upper bound", "90", ""},
		{"Valid: decimal", "45.5", ""},
		{"Valid: surrounding whitespace", "  12.25 ", ""},
		{"Valid: exponent", "1e1", ""},
		{"Invalid: just above", "90.0001", msg},
		{"Invalid: just below", "-90.0001", msg},
		{"Invalid: empty", "", msg},
		{"Invalid: blank", "   ", msg},
		{"Invalid: letters", "abc", msg},
		{"Invalid: trailing garbage", "45deg", msg},
		{"Invalid: NaN", "NaN", msg},
		{"Invalid: infinity", "Inf", msg},
		{"Invalid: overflow", "1e400", msg},
		{"Invalid: digit separator", "1_0", msg},
		{"Invalid: separator inside", "4_5.5", msg},
		{"Invalid: hex float", "0x1p4", msg},
		{"Invalid: signed hex float", "-0X1P4", msg},
		{"Invalid: hex mantissa with fraction", "0x1.8p1", msg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.input, LatitudeRange, msg)
			if got != tt.want {
				t.Errorf("Validate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestValidateLongitude tests the wider longitude range
func TestValidateLongitude(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"180", ""},
		{"-180", ""},
		{"120", ""},
		{"200", LongitudeErrorMessage},
		{"-180.5", LongitudeErrorMessage},
	}

	for _, tt := range tests {
		got := Validate(tt.input, LongitudeRange, LongitudeErrorMessage)
		if got != tt.want {
			t.Errorf("Validate(%q, LongitudeRange) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// TestValidateName tests blank-name detection
func TestValidateName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Home", ""},
		{"  Office  ", ""},
		{"", NameErrorMessage},
		{"   ", NameErrorMessage},
		{"\t\n", NameErrorMessage},
	}

	for _, tt := range tests {
		got := ValidateName(tt.input, NameErrorMessage)
		if got != tt.want {
			t.Errorf("ValidateName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRangeContains(t *testing.T) {
	if LatitudeRange.Contains(math.NaN()) {
		t.Error("LatitudeRange.Contains(NaN) = true, want false")
	}
	if !LongitudeRange.Contains(-180) || !LongitudeRange.Contains(180) {
		t.Error("LongitudeRange should include both bounds")
	}
}

func TestFormatCoordinate(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{10, "10.0"},
		{-73, "-73.0"},
		{0, "0.0"},
		{45.123, "45.123"},
		{-0.5, "-0.5"},
		{0.00001, "0.00001"},
	}

	for _, tt := range tests {
		got := FormatCoordinate(tt.in)
		if got != tt.want {
			t.Errorf("FormatCoordinate(%v) = %q, want %q", tt.in, got, tt.want)
		}
		if v, ok := ParseCoordinate(got); !ok || v != tt.in {
			t.Errorf("ParseCoordinate(%q) = %v, %v, want %v, true", got, v, ok, tt.in)
		}
	}
}
