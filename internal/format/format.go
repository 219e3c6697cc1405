// Package format renders a number sequence for display.
package format

import (
	"fmt"
	"strings"

	"go-image-stats/internal/numbers"
)

// DisplayMode selects how the sequence is rendered.
type DisplayMode int

const (
	// Raw shows the text the sequence was derived from.
	Raw DisplayMode = iota
	// Array shows "[a, b, c]".
	Array
	// LineBroken shows one value per line.
	LineBroken
)

// DefaultMode is the mode a fresh session starts in.
const DefaultMode = Array

var modeNames = map[DisplayMode]string{
	Raw:        "raw",
	Array:      "array",
	LineBroken: "line_broken",
}

func (m DisplayMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("DisplayMode(%d)", int(m))
}

// MarshalText lets DisplayMode appear by name in JSON.
func (m DisplayMode) MarshalText() ([]byte, error) {
	if _, ok := modeNames[m]; !ok {
		return nil, fmt.Errorf("unknown display mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *DisplayMode) UnmarshalText(text []byte) error {
	parsed, err := ParseDisplayMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseDisplayMode accepts a mode name, case-insensitive. "linebroken" and
// "lines" are accepted for LineBroken.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "raw":
		return Raw, nil
	case "array":
		return Array, nil
	case "line_broken", "linebroken", "lines":
		return LineBroken, nil
	}
	return Raw, fmt.Errorf("unknown display mode %q", s)
}

// Options is the pair of display toggles. At most one is ever set.
type Options struct {
	AsArray        bool `json:"as_array"`
	WithLineBreaks bool `json:"with_line_breaks"`
}

// OptionsFor returns the toggles that select mode.
func OptionsFor(mode DisplayMode) Options {
	return Options{AsArray: mode == Array, WithLineBreaks: mode == LineBroken}
}

// Mode maps the toggles to a display mode.
func (o Options) Mode() DisplayMode {
	switch {
	case o.AsArray:
		return Array
	case o.WithLineBreaks:
		return LineBroken
	default:
		return Raw
	}
}

// ToggleArray flips AsArray and clears WithLineBreaks.
func (o Options) ToggleArray() Options {
	return Options{AsArray: !o.AsArray}
}

// ToggleLineBreaks flips WithLineBreaks and clears AsArray.
func (o Options) ToggleLineBreaks() Options {
	return Options{WithLineBreaks: !o.WithLineBreaks}
}

// Format renders seq under mode. Raw ignores seq and returns raw unchanged.
// Array and LineBroken output parse back to seq through numbers.Extract as
// long as every value is finite and non-negative.
func Format(raw string, seq numbers.Sequence, mode DisplayMode) string {
	switch mode {
	case Array:
		return "[" + strings.Join(seq.Strings(), ", ") + "]"
	case LineBroken:
		return strings.Join(seq.Strings(), "\n")
	default:
		return raw
	}
}

// EditText is the text offered when the user starts editing: the values
// comma separated, which numbers.ParseEdited reads back exactly.
func EditText(seq numbers.Sequence) string {
	return strings.Join(seq.Strings(), ", ")
}
