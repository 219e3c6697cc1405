package stats

import (
	"encoding/json"
	"math"
	"math/rand"
	"sort"
	"testing"

	"go-image-stats/internal/numbers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	got, err := Mean([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 2.5, got)

	_, err = Mean(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		want   float64
	}{
		{"odd length", []float64{1, 2, 3}, 2},
		{"even length", []float64{1, 2, 3, 4}, 2.5},
		{"single", []float64{7}, 7},
		{"duplicates", []float64{1, 1, 1, 9}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Median(tt.sorted)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Median([]float64{})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestMode(t *testing.T) {
	tests := []struct {
		name string
		seq  []float64
		want []float64
	}{
		{"single mode", []float64{4, 4, 1}, []float64{4}},
		{"tie keeps first-seen order", []float64{3, 2, 2, 3, 1}, []float64{3, 2}},
		{"all unique returns everything", []float64{5, 1, 3}, []float64{5, 1, 3}},
		{"single value", []float64{9}, []float64{9}},
		{"negative zero equals zero", []float64{0, math.Copysign(0, -1), 1}, []float64{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Mode(tt.seq)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Mode(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestModeCountsNaNTogether(t *testing.T) {
	got, err := Mode([]float64{math.NaN(), 1, math.NaN()})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, math.IsNaN(got[0]))
}

func TestStandardDeviation(t *testing.T) {
	d, err := StandardDeviation([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.Equal(t, 2.0, d.Population)
	assert.InDelta(t, math.Sqrt(32.0/7.0), d.Sample, 1e-12)
	assert.GreaterOrEqual(t, d.Sample, d.Population)

	d, err = StandardDeviation([]float64{5})
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Equal(t, 0.0, d.Population)
	assert.True(t, math.IsNaN(d.Sample))

	_, err = StandardDeviation(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	d, err = StandardDeviation([]float64{3, 3, 3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, d.Population)
	assert.Equal(t, 0.0, d.Sample)
}

func TestInterquartileRange(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		want   IQR
	}{
		{
			name:   "even length",
			sorted: []float64{1, 2, 3, 4, 5, 6, 7, 8},
			want:   IQR{Q1: 2.5, Q3: 6.5, Range: 4, LowerFence: -3.5, UpperFence: 12.5},
		},
		{
			name:   "odd length excludes the median",
			sorted: []float64{1, 2, 3, 4, 5},
			want:   IQR{Q1: 1.5, Q3: 4.5, Range: 3, LowerFence: -3, UpperFence: 9},
		},
		{
			name:   "two values",
			sorted: []float64{2, 6},
			want:   IQR{Q1: 2, Q3: 6, Range: 4, LowerFence: -4, UpperFence: 12},
		},
		{
			name:   "three values",
			sorted: []float64{1, 2, 3},
			want:   IQR{Q1: 1, Q3: 3, Range: 2, LowerFence: -2, UpperFence: 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InterquartileRange(tt.sorted)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterquartileRangeNeedsTwoValues(t *testing.T) {
	for _, in := range [][]float64{nil, {4}} {
		got, err := InterquartileRange(in)
		assert.ErrorIs(t, err, ErrInsufficientData)
		assert.True(t, math.IsNaN(got.Range))
	}
}

func TestOutliers(t *testing.T) {
	seq := []float64{1, 2, 3, 100, 4, 5, 6, 7}
	sorted := numbers.Sequence(seq).Sorted()

	iqr, err := InterquartileRange(sorted)
	require.NoError(t, err)
	assert.Equal(t, []float64{100}, Outliers(seq, iqr))
}

func TestPureFunctionsDoNotMutateInput(t *testing.T) {
	seq := []float64{3, 1, 2, 2}
	orig := append([]float64(nil), seq...)

	_, _ = Mean(seq)
	_, _ = Median(seq)
	_, _ = Mode(seq)
	_, _ = StandardDeviation(seq)
	_, _ = InterquartileRange(seq)

	assert.Equal(t, orig, seq)
}

func TestCompute(t *testing.T) {
	res := Compute(numbers.Sequence{3, 1, 2, 2})

	assert.Equal(t, 4, res.Count)
	assert.Equal(t, "1", res.Min.Display())
	assert.Equal(t, "3", res.Max.Display())
	assert.Equal(t, "2", res.Mean.Display())
	assert.Equal(t, "2", res.Median.Display())
	assert.Equal(t, "2", res.Mode.Display())
	assert.True(t, res.SampleStdDev.OK())
	assert.Equal(t, 1.5, res.Q1.Value)
	assert.Equal(t, 2.5, res.Q3.Value)
	assert.Equal(t, 1.0, res.IQR.Value)
	assert.Empty(t, res.Outliers)
}

func TestComputeMultipleModesDisplay(t *testing.T) {
	res := Compute(numbers.Sequence{1, 1, 2, 2})
	assert.Equal(t, "1, 2", res.Mode.Display())
}

func TestComputeEmpty(t *testing.T) {
	res := Compute(numbers.Sequence{})

	assert.Equal(t, 0, res.Count)
	for name, m := range map[string]Measure{
		"mean": res.Mean, "median": res.Median, "pop": res.PopulationStdDev,
		"sample": res.SampleStdDev, "min": res.Min,
	} {
		assert.ErrorIs(t, m.Err, ErrEmptyInput, name)
		assert.Equal(t, NotAvailable, m.Display(), name)
	}
	assert.ErrorIs(t, res.Mode.Err, ErrEmptyInput)
	assert.ErrorIs(t, res.IQR.Err, ErrInsufficientData)
}

func TestComputeSingleValue(t *testing.T) {
	res := Compute(numbers.Sequence{5})

	assert.Equal(t, "5", res.Mean.Display())
	assert.Equal(t, "5", res.Median.Display())
	assert.Equal(t, "5", res.Mode.Display())
	assert.Equal(t, "0", res.PopulationStdDev.Display())
	assert.ErrorIs(t, res.SampleStdDev.Err, ErrInsufficientData)
	assert.Equal(t, NotAvailable, res.IQR.Display())
}

func TestComputeNonFiniteInput(t *testing.T) {
	res := Compute(numbers.Sequence{1, math.NaN(), 3})

	assert.ErrorIs(t, res.Mean.Err, ErrNonFinite)
	assert.Equal(t, NotAvailable, res.Mean.Display())
}

func TestMeasureJSON(t *testing.T) {
	data, err := json.Marshal(Measure{Value: 2.5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"value": 2.5, "display": "2.5"}`, string(data))

	data, err = json.Marshal(Measure{Value: math.NaN(), Err: ErrEmptyInput})
	require.NoError(t, err)
	assert.JSONEq(t, `{"value": null, "display": "N/A", "error": "empty_input"}`, string(data))
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "", ErrorKind(nil))
	assert.Equal(t, "empty_input", ErrorKind(ErrEmptyInput))
	assert.Equal(t, "insufficient_data", ErrorKind(ErrInsufficientData))
	assert.Equal(t, "non_finite", ErrorKind(ErrNonFinite))
	assert.Equal(t, "internal", ErrorKind(assert.AnError))
}

// randomSequence mixes small integers and halves so duplicates are common.
func randomSequence(rng *rand.Rand) []float64 {
	seq := make([]float64, 1+rng.Intn(40))
	for i := range seq {
		v := float64(rng.Intn(41) - 20)
		if rng.Intn(3) == 0 {
			v += 0.5
		}
		seq[i] = v
	}
	return seq
}

func TestStatisticsHoldOnRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		seq := randomSequence(rng)
		sorted := append([]float64(nil), seq...)
		sort.Float64s(sorted)
		lo, hi := sorted[0], sorted[len(sorted)-1]

		median, err := Median(sorted)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, median, lo, "median of %v", seq)
		assert.LessOrEqual(t, median, hi, "median of %v", seq)

		counts := make(map[float64]int)
		best := 0
		for _, v := range seq {
			counts[v]++
			if counts[v] > best {
				best = counts[v]
			}
		}
		atBest := 0
		for _, c := range counts {
			if c == best {
				atBest++
			}
		}
		modes, err := Mode(seq)
		require.NoError(t, err)
		assert.Len(t, modes, atBest, "modes of %v", seq)
		for _, m := range modes {
			assert.Equal(t, best, counts[m], "mode %v of %v", m, seq)
		}

		dev, err := StandardDeviation(seq)
		if len(seq) == 1 {
			assert.ErrorIs(t, err, ErrInsufficientData)
			assert.Equal(t, 0.0, dev.Population)
			continue
		}
		require.NoError(t, err)
		assert.LessOrEqual(t, dev.Population, dev.Sample+1e-12, "deviations of %v", seq)

		iqr, err := InterquartileRange(sorted)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, iqr.Range, 0.0, "iqr of %v", seq)
		assert.LessOrEqual(t, iqr.LowerFence, iqr.Q1, "iqr of %v", seq)
		assert.LessOrEqual(t, iqr.Q1, iqr.Q3, "iqr of %v", seq)
		assert.LessOrEqual(t, iqr.Q3, iqr.UpperFence, "iqr of %v", seq)
	}
}
