// Package chart builds the graphing-calculator description of a number
// sequence: a list expression with histogram, dot plot and box plot over it,
// the viewport bounds, and precomputed histogram bins.
package chart

import (
	"errors"
	"math"
	"strings"

	"go-image-stats/internal/numbers"

	"gonum.org/v1/gonum/stat"
)

// Expression ids understood by the calculator widget.
const (
	ListID      = "list"
	HistogramID = "histogram-function"
	DotPlotID   = "dotplot-function"
	BoxPlotID   = "boxplot-function"
)

const (
	// DefaultBinWidth matches histogram(L,3).
	DefaultBinWidth = 3.0

	boundsPadding = 5.0
	minTop        = 10.0
	maxBins       = 1000
)

// ErrNoData is returned when there is nothing finite to plot.
var ErrNoData = errors.New("chart: no finite values to plot")

// Expression is one calculator expression.
type Expression struct {
	ID    string `json:"id"`
	Latex string `json:"latex"`
}

// Bounds is the visible math viewport.
type Bounds struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Top    float64 `json:"top"`
}

// Bin is one histogram bar covering [Lower, Upper).
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Spec is everything a renderer needs to draw the chart.
type Spec struct {
	Expressions []Expression `json:"expressions"`
	Bounds      Bounds       `json:"bounds"`
	BinWidth    float64      `json:"bin_width"`
	Bins        []Bin        `json:"bins"`
	Count       int          `json:"count"`
}

// Build describes seq as a chart. Non-finite entries are left out; if none
// remain ErrNoData is returned. binWidth <= 0 selects DefaultBinWidth.
// The result depends only on seq and binWidth.
func Build(seq numbers.Sequence, binWidth float64) (Spec, error) {
	if binWidth <= 0 || math.IsNaN(binWidth) || math.IsInf(binWidth, 0) {
		binWidth = DefaultBinWidth
	}

	values := make(numbers.Sequence, 0, len(seq))
	for _, v := range seq {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return Spec{}, ErrNoData
	}

	lo, _ := values.Min()
	hi, _ := values.Max()

	return Spec{
		Expressions: []Expression{
			{ID: ListID, Latex: "L=[" + strings.Join(values.Strings(), ", ") + "]"},
			{ID: HistogramID, Latex: "histogram(L," + numbers.FormatValue(binWidth) + ")"},
			{ID: DotPlotID, Latex: "dotplot(L)"},
			{ID: BoxPlotID, Latex: "boxplot(L)"},
		},
		Bounds: Bounds{
			Left:   lo - boundsPadding,
			Right:  hi + boundsPadding,
			Bottom: 0,
			Top:    math.Max(float64(len(values)), minTop),
		},
		BinWidth: binWidth,
		Bins:     histogram(values.Sorted(), binWidth),
		Count:    len(values),
	}, nil
}

// histogram counts sorted values into bins of width w aligned to multiples
// of w. Ranges needing more than maxBins bins yield no bins.
func histogram(sorted []float64, w float64) []Bin {
	lo, hi := sorted[0], sorted[len(sorted)-1]
	start := math.Floor(lo/w) * w
	if start > lo {
		start -= w
	}
	if !(start+w > start) || (hi-start)/w >= maxBins {
		return []Bin{}
	}

	dividers := []float64{start}
	for i := 1; dividers[len(dividers)-1] <= hi; i++ {
		dividers = append(dividers, start+float64(i)*w)
	}

	counts := stat.Histogram(nil, dividers, sorted, nil)

	bins := make([]Bin, len(counts))
	for i, c := range counts {
		bins[i] = Bin{Lower: dividers[i], Upper: dividers[i+1], Count: int(c)}
	}
	return bins
}
