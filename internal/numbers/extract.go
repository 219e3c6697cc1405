package numbers

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numberPattern matches unsigned integers and decimals. Signs, exponents and
// thousands separators are deliberately not part of a match.
var numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// Extract scans text left to right and returns every maximal numeric
// substring as a float64, in order of appearance. A match that cannot be
// represented (overflow) becomes NaN rather than being dropped.
func Extract(text string) Sequence {
	matches := numberPattern.FindAllString(text, -1)
	out := make(Sequence, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			v = math.NaN()
		}
		out = append(out, v)
	}
	return out
}

// ErrInvalidNumber is the cause carried by every ParseError.
var ErrInvalidNumber = errors.New("not a finite number")

// ParseError reports the first token of an edit that is not a number.
type ParseError struct {
	Index int // zero-based token position
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("token %d (%q): %v", e.Index+1, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseEdited parses user-edited text: comma separated values, each
// coerced with strconv. Unlike Extract it accepts signs and exponents, but
// any token that is empty or not a finite number rejects the whole edit.
// A single pair of enclosing brackets is tolerated so "[1, 2]" round-trips.
// Blank input yields an empty sequence.
func ParseEdited(text string) (Sequence, error) {
	body := strings.TrimSpace(text)
	if strings.HasPrefix(body, "[") && strings.HasSuffix(body, "]") {
		body = strings.TrimSpace(body[1 : len(body)-1])
	}
	if body == "" {
		return Sequence{}, nil
	}

	tokens := strings.Split(body, ",")
	out := make(Sequence, 0, len(tokens))
	for i, raw := range tokens {
		tok := strings.TrimSpace(raw)
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ParseError{Index: i, Token: tok, Err: ErrInvalidNumber}
		}
		out = append(out, v)
	}
	return out, nil
}
