package stats

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	"go-image-stats/internal/numbers"
)

// NotAvailable is shown in place of a value that cannot be computed.
const NotAvailable = "N/A"

// Measure is one computed statistic, or the reason it is missing.
type Measure struct {
	Value float64
	Err   error
}

func measure(v float64, err error) Measure {
	if err == nil && !isFinite(v) {
		err = ErrNonFinite
	}
	return Measure{Value: v, Err: err}
}

// OK reports whether Value is usable.
func (m Measure) OK() bool {
	return m.Err == nil
}

// Display renders the value for people, or "N/A".
func (m Measure) Display() string {
	if m.Err != nil {
		return NotAvailable
	}
	return numbers.FormatValue(m.Value)
}

type measureJSON struct {
	Value   *float64 `json:"value"`
	Display string   `json:"display"`
	Error   string   `json:"error,omitempty"`
}

func (m Measure) MarshalJSON() ([]byte, error) {
	out := measureJSON{Display: m.Display(), Error: ErrorKind(m.Err)}
	if m.Err == nil {
		v := m.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

// ModeMeasure carries every mode value in first-seen order.
type ModeMeasure struct {
	Values numbers.Sequence
	Err    error
}

// Display shows a single mode as a scalar and several joined by ", ".
func (m ModeMeasure) Display() string {
	if m.Err != nil {
		return NotAvailable
	}
	return strings.Join(m.Values.Strings(), ", ")
}

func (m ModeMeasure) MarshalJSON() ([]byte, error) {
	out := struct {
		Values  numbers.Sequence `json:"values"`
		Display string           `json:"display"`
		Error   string           `json:"error,omitempty"`
	}{
		Values:  m.Values,
		Display: m.Display(),
		Error:   ErrorKind(m.Err),
	}
	return json.Marshal(out)
}

// Result is the full statistics panel for one sequence.
type Result struct {
	Count            int              `json:"count"`
	Min              Measure          `json:"min"`
	Max              Measure          `json:"max"`
	Mean             Measure          `json:"mean"`
	Median           Measure          `json:"median"`
	Mode             ModeMeasure      `json:"mode"`
	PopulationStdDev Measure          `json:"population_std_dev"`
	SampleStdDev     Measure          `json:"sample_std_dev"`
	Q1               Measure          `json:"q1"`
	Q3               Measure          `json:"q3"`
	IQR              Measure          `json:"iqr"`
	LowerFence       Measure          `json:"lower_fence"`
	UpperFence       Measure          `json:"upper_fence"`
	Outliers         numbers.Sequence `json:"outliers"`
}

// Compute runs every statistic over seq. Order-sensitive ones (median,
// quartiles) use an ascending copy; mode keeps the original order so ties
// are reported as first seen. Failures are recorded per measure, never
// returned.
func Compute(seq numbers.Sequence) Result {
	sorted := seq.Sorted()
	res := Result{Count: len(seq), Outliers: numbers.Sequence{}}

	if lo, ok := seq.Min(); ok {
		hi, _ := seq.Max()
		res.Min = measure(lo, nil)
		res.Max = measure(hi, nil)
	} else {
		res.Min = Measure{Value: math.NaN(), Err: ErrEmptyInput}
		res.Max = Measure{Value: math.NaN(), Err: ErrEmptyInput}
	}

	res.Mean = measure(Mean(seq))
	res.Median = measure(Median(sorted))

	modes, err := Mode(seq)
	if err == nil && numbers.Sequence(modes).HasNonFinite() {
		err = ErrNonFinite
	}
	res.Mode = ModeMeasure{Values: numbers.Sequence(modes), Err: err}
	if res.Mode.Values == nil {
		res.Mode.Values = numbers.Sequence{}
	}

	res.PopulationStdDev = measure(PopulationStandardDeviation(seq))
	res.SampleStdDev = measure(SampleStandardDeviation(seq))

	iqr, err := InterquartileRange(sorted)
	res.Q1 = measure(iqr.Q1, err)
	res.Q3 = measure(iqr.Q3, err)
	res.IQR = measure(iqr.Range, err)
	res.LowerFence = measure(iqr.LowerFence, err)
	res.UpperFence = measure(iqr.UpperFence, err)
	if res.IQR.OK() && res.LowerFence.OK() && res.UpperFence.OK() {
		res.Outliers = append(res.Outliers, Outliers(seq, iqr)...)
	}

	return res
}

// ErrorKind maps a statistics error to the short code used in API payloads.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, ErrNonFinite):
		return "non_finite"
	default:
		return "internal"
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
