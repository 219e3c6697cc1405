// Package stats computes descriptive statistics over a numeric sequence.
//
// All functions are pure: they never modify their input. Inputs that are too
// short for a meaningful answer produce ErrEmptyInput or ErrInsufficientData
// instead of NaN or Inf.
package stats

import (
	"errors"
	"math"

	mstats "github.com/montanaflynn/stats"
)

var (
	// ErrEmptyInput is returned by mean, median, mode and standard deviation on an empty sequence.
	ErrEmptyInput = errors.New("statistics: input must not be empty")

	// ErrInsufficientData is returned when the sequence has values but too few
	// of them: sample standard deviation and IQR need at least two.
	ErrInsufficientData = errors.New("statistics: not enough values")

	// ErrNonFinite marks a result that came out NaN or infinite because the
	// input itself carried such values.
	ErrNonFinite = errors.New("statistics: result is not a finite number")
)

// OutlierFenceFactor scales the IQR to place the outlier fences.
const OutlierFenceFactor = 1.5

// Deviation holds both standard deviation variants.
type Deviation struct {
	Population float64
	Sample     float64
}

// IQR is the interquartile range together with its quartiles and fences.
type IQR struct {
	Q1         float64
	Q3         float64
	Range      float64
	LowerFence float64
	UpperFence float64
}

// Mean returns the arithmetic mean.
func Mean(seq []float64) (float64, error) {
	if len(seq) == 0 {
		return math.NaN(), ErrEmptyInput
	}
	return mstats.Mean(seq)
}

// Median returns the middle value of an ascending sequence: the average of
// the two middle elements for even length, the middle element otherwise.
func Median(sorted []float64) (float64, error) {
	if len(sorted) == 0 {
		return math.NaN(), ErrEmptyInput
	}
	return mstats.Median(sorted)
}

// Mode returns every value that reaches the highest frequency, in the order
// the values were first seen. When all values are unique every value is a
// mode. NaN entries are counted together as a single value.
func Mode(seq []float64) ([]float64, error) {
	if len(seq) == 0 {
		return nil, ErrEmptyInput
	}

	counts := make(map[float64]int, len(seq))
	order := make([]float64, 0, len(seq))
	nanCount, nanPos := 0, -1

	for _, v := range seq {
		if math.IsNaN(v) {
			if nanCount == 0 {
				nanPos = len(order)
				order = append(order, v)
			}
			nanCount++
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	freq := func(i int) int {
		if i == nanPos {
			return nanCount
		}
		return counts[order[i]]
	}

	best := 0
	for i := range order {
		if f := freq(i); f > best {
			best = f
		}
	}

	modes := make([]float64, 0, 1)
	for i, v := range order {
		if freq(i) == best {
			modes = append(modes, v)
		}
	}
	return modes, nil
}

// PopulationStandardDeviation divides the squared deviations by n.
func PopulationStandardDeviation(seq []float64) (float64, error) {
	if len(seq) == 0 {
		return math.NaN(), ErrEmptyInput
	}
	return mstats.StandardDeviationPopulation(seq)
}

// SampleStandardDeviation divides the squared deviations by n-1 and so
// needs at least two values.
func SampleStandardDeviation(seq []float64) (float64, error) {
	switch len(seq) {
	case 0:
		return math.NaN(), ErrEmptyInput
	case 1:
		return math.NaN(), ErrInsufficientData
	}
	return mstats.StandardDeviationSample(seq)
}

// StandardDeviation computes both variants. With a single value the
// population figure (0) is still filled in and ErrInsufficientData reports
// the missing sample figure.
func StandardDeviation(seq []float64) (Deviation, error) {
	pop, err := PopulationStandardDeviation(seq)
	if err != nil {
		return Deviation{Population: math.NaN(), Sample: math.NaN()}, err
	}
	sample, err := SampleStandardDeviation(seq)
	return Deviation{Population: pop, Sample: sample}, err
}

// InterquartileRange splits an ascending sequence at floor(n/2). Q1 is the
// median of the lower half and Q3 the median of the upper half; for odd n
// the middle element belongs to neither half. Fences sit 1.5 IQR beyond the
// quartiles.
func InterquartileRange(sorted []float64) (IQR, error) {
	if len(sorted) < 2 {
		return IQR{
			Q1: math.NaN(), Q3: math.NaN(), Range: math.NaN(),
			LowerFence: math.NaN(), UpperFence: math.NaN(),
		}, ErrInsufficientData
	}

	qs, err := mstats.Quartile(sorted)
	if err != nil {
		return IQR{}, err
	}

	r := qs.Q3 - qs.Q1
	return IQR{
		Q1:         qs.Q1,
		Q3:         qs.Q3,
		Range:      r,
		LowerFence: qs.Q1 - OutlierFenceFactor*r,
		UpperFence: qs.Q3 + OutlierFenceFactor*r,
	}, nil
}

// Outliers returns the values of seq lying strictly outside the fences.
func Outliers(seq []float64, iqr IQR) []float64 {
	var out []float64
	for _, v := range seq {
		if v < iqr.LowerFence || v > iqr.UpperFence {
			out = append(out, v)
		}
	}
	return out
}
