// Package numbers holds the numeric sequence type and the two text parsers
// that produce it: the OCR extractor and the stricter edit parser.
package numbers

import (
	"bytes"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// Sequence is an ordered list of values in order of appearance.
// It is replaced wholesale, never patched in place.
type Sequence []float64

// Len returns the number of values
func (s Sequence) Len() int {
	return len(s)
}

// Clone returns an independent copy
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Sorted returns an ascending copy; the receiver is left untouched.
func (s Sequence) Sorted() Sequence {
	out := s.Clone()
	sort.Float64s(out)
	return out
}

// Min returns the smallest value, false when the sequence is empty.
func (s Sequence) Min() (float64, bool) {
	if len(s) == 0 {
		return math.NaN(), false
	}
	return floats.Min(s), true
}

// Max returns the largest value, false when the sequence is empty.
func (s Sequence) Max() (float64, bool) {
	if len(s) == 0 {
		return math.NaN(), false
	}
	return floats.Max(s), true
}

// HasNonFinite reports whether any entry is NaN or infinite.
func (s Sequence) HasNonFinite() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// Strings renders every value with FormatValue.
func (s Sequence) Strings() []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = FormatValue(v)
	}
	return out
}

// MarshalJSON writes non-finite entries as null since JSON has no NaN.
func (s Sequence) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf.WriteString("null")
			continue
		}
		buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// FormatValue renders a value in plain decimal notation, shortest form that
// parses back to the same float. Exponents are never used so the output
// stays recognisable by Extract.
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
