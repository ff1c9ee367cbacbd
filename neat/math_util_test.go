package neat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanAndStdev(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 3.0, Mean(values), 1e-9)
	assert.Greater(t, Stdev(values), 0.0)
}

func TestMeanOfEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
}

func TestStdevOfSingleValueIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Stdev([]float64{5.0}))
}

func TestSumMaxMin(t *testing.T) {
	values := []float64{3, -1, 4, 1, 5}
	assert.Equal(t, 12.0, Sum(values))
	assert.Equal(t, 5.0, MaxFloat(values))
	assert.Equal(t, -1.0, MinFloat(values))
}

func TestMaxMinOfEmptyAreInfinite(t *testing.T) {
	assert.True(t, math.IsInf(MaxFloat(nil), -1))
	assert.True(t, math.IsInf(MinFloat(nil), 1))
}

func TestMedianOddAndEven(t *testing.T) {
	assert.InDelta(t, 2.0, Median([]float64{1, 3, 2}), 1e-9)
	assert.InDelta(t, 2.5, Median([]float64{1, 2, 3, 4}), 1e-9)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, clamp(5.0, -1.0, 1.0))
	assert.Equal(t, -1.0, clamp(-5.0, -1.0, 1.0))
	assert.Equal(t, 0.5, clamp(0.5, -1.0, 1.0))
}

func TestStatFunctionsTableCoversAllNames(t *testing.T) {
	for _, name := range []string{"mean", "stdev", "sum", "max", "min", "median"} {
		fn, ok := StatFunctions[name]
		assert.True(t, ok, "missing stat function %q", name)
		assert.NotPanics(t, func() { fn([]float64{1, 2, 3}) })
	}
}
