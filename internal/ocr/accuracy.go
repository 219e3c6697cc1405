package ocr

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/arbovm/levenshtein"
	"github.com/codycollier/wer"
)

// Accuracy compares recognised text against a known transcription.
type Accuracy struct {
	// CER is the character error rate: edit distance over expected length.
	CER float64 `json:"cer"`
	// WER is the same measure over whitespace separated words.
	WER float64 `json:"wer"`
	// MatchScore is (1 - CER) as a percentage, floored at 0.
	MatchScore float64 `json:"match_score"`
}

// MeasureAccuracy scores actual against expected. Runs of whitespace are
// collapsed before comparing so line layout does not count as errors.
func MeasureAccuracy(expected, actual string) Accuracy {
	expWords := strings.Fields(expected)
	actWords := strings.Fields(actual)

	exp := strings.Join(expWords, " ")
	act := strings.Join(actWords, " ")

	cer := errorRate(levenshtein.Distance(exp, act), utf8.RuneCountInString(exp), act == "")
	wordRate := wordErrorRate(expWords, actWords)

	return Accuracy{
		CER:        round(cer),
		WER:        round(wordRate),
		MatchScore: round(math.Max(0, 1-cer) * 100),
	}
}

func wordErrorRate(expected, actual []string) float64 {
	// wer.WER divides by the reference length
	if len(expected) == 0 {
		return errorRate(0, 0, len(actual) == 0)
	}
	rate, _ := wer.WER(expected, actual)
	return rate
}

func errorRate(distance, reference int, actualEmpty bool) float64 {
	if reference == 0 {
		if actualEmpty {
			return 0
		}
		return 1
	}
	return float64(distance) / float64(reference)
}

func round(v float64) float64 {
	return math.Round(v*10000) / 10000
}
