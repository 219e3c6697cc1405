package numbers

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Sequence
	}{
		{"empty text", "", Sequence{}},
		{"no digits", "no numbers here", Sequence{}},
		{"sign dropped", "abc 12, 3.5 and -7", Sequence{12, 3.5, 7}},
		{"decimal without fraction digits", "5. and .5", Sequence{5, 5}},
		{"exponent not recognised", "1e5", Sequence{1, 5}},
		{"thousands separator splits", "1,234", Sequence{1, 234}},
		{"second decimal point splits", "1.2.3", Sequence{1.2, 3}},
		{"leading zeros", "007 0.50", Sequence{7, 0.5}},
		{"multiline ocr text", "Score\n90\n85.5\n\n72", Sequence{90, 85.5, 72}},
		{"order of appearance", "9 1 5", Sequence{9, 1, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text))
		})
	}
}

func TestExtractOverflowBecomesNaN(t *testing.T) {
	huge := "1" + strings.Repeat("0", 400)
	got := Extract("2 " + huge)

	require.Len(t, got, 2)
	assert.Equal(t, 2.0, got[0])
	assert.True(t, math.IsNaN(got[1]))
	assert.True(t, got.HasNonFinite())
}

func TestParseEdited(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Sequence
	}{
		{"blank", "   ", Sequence{}},
		{"comma separated", "3, 1, 2", Sequence{3, 1, 2}},
		{"no spaces", "3,1,2", Sequence{3, 1, 2}},
		{"brackets tolerated", "[3, 1.5, 2]", Sequence{3, 1.5, 2}},
		{"empty brackets", "[]", Sequence{}},
		{"negative and exponent", "-4, 2e3", Sequence{-4, 2000}},
		{"single value", "42", Sequence{42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEdited(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEditedRejects(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantIndex int
		wantToken string
	}{
		{"word token", "1, two, 3", 1, "two"},
		{"empty token", "1,,3", 1, ""},
		{"trailing comma", "1, 2,", 2, ""},
		{"nan literal", "NaN", 0, "NaN"},
		{"infinity literal", "1, Inf", 1, "Inf"},
		{"unit suffix", "5kg", 0, "5kg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEdited(tt.text)
			assert.Nil(t, got)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "expected ParseError, got %v", err)
			assert.Equal(t, tt.wantIndex, pe.Index)
			assert.Equal(t, tt.wantToken, pe.Token)
			assert.ErrorIs(t, err, ErrInvalidNumber)
		})
	}
}

func TestSequenceHelpers(t *testing.T) {
	s := Sequence{3, 1, 2}

	sorted := s.Sorted()
	assert.Equal(t, Sequence{1, 2, 3}, sorted)
	assert.Equal(t, Sequence{3, 1, 2}, s, "Sorted must not mutate the receiver")

	min, ok := s.Min()
	assert.True(t, ok)
	assert.Equal(t, 1.0, min)

	max, ok := s.Max()
	assert.True(t, ok)
	assert.Equal(t, 3.0, max)

	_, ok = Sequence{}.Min()
	assert.False(t, ok)
	_, ok = Sequence(nil).Max()
	assert.False(t, ok)

	assert.Equal(t, []string{"3", "1", "2"}, s.Strings())
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "3", FormatValue(3))
	assert.Equal(t, "3.5", FormatValue(3.5))
	assert.Equal(t, "0.1", FormatValue(0.1))
	assert.Equal(t, "-2.25", FormatValue(-2.25))
	assert.Equal(t, "NaN", FormatValue(math.NaN()))
	assert.Equal(t, "Infinity", FormatValue(math.Inf(1)))
	assert.Equal(t, "-Infinity", FormatValue(math.Inf(-1)))
	assert.NotContains(t, FormatValue(1e25), "e")
}

func TestSequenceMarshalJSON(t *testing.T) {
	data, err := json.Marshal(Sequence{1, math.NaN(), 2.5, math.Inf(1)})
	require.NoError(t, err)
	assert.JSONEq(t, `[1, null, 2.5, null]`, string(data))

	data, err = json.Marshal(struct {
		Numbers Sequence `json:"numbers"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"numbers": []}`, string(data))
}
