package signal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	got := Normalize([]int{2, 4, 4, 4, 5, 5, 7, 9})
	want := []float64{-1.5, -0.5, -0.5, -0.5, 0, 0, 1, 2}
	require.Len(t, got, len(want))
	assert.InDeltaSlice(t, want, got, 1e-12)
}

func TestNormalize_Degenerate(t *testing.T) {
	assert.Empty(t, Normalize([]float64{}))
	assert.Equal(t, []float64{0, 0, 0}, Normalize([]int16{7, 7, 7}))
}

func TestNormalize_ComposesWithDownsample(t *testing.T) {
	trace := randomTrace(t, 5, 20000)

	ds, err := Downsample(Normalize(trace), 100)
	require.NoError(t, err)
	assert.Len(t, ds.Values, 100)

	// statistics come from the full trace, so bins of a stationary trace
	// sit close to zero
	for _, v := range ds.Values {
		assert.Less(t, math.Abs(v), 1.0)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]int16{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 8, s.Count)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.InDelta(t, 5.0, s.Mean, 1e-12)
	assert.InDelta(t, 2.0, s.StdDev, 1e-12)
	assert.Equal(t, 4.5, s.Median)

	assert.Equal(t, Summary{}, Summarize([]float64(nil)))
}

func TestCalibrate(t *testing.T) {
	got := Calibrate([]int16{0, 10, -5}, 5, 0.5)
	assert.Equal(t, []float64{2.5, 7.5, 0}, got)
}

func TestBounds(t *testing.T) {
	lo, hi, ok := Bounds([]float64{3, math.NaN(), -1}, []float64{8})
	assert.True(t, ok)
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 8.0, hi)

	_, _, ok = Bounds([]float64{math.NaN()}, nil)
	assert.False(t, ok)
}

func TestADCRoundTrip(t *testing.T) {
	adc := []int16{0, 1, -1, math.MaxInt16, math.MinInt16, 512}
	got, err := DecodeADC(EncodeADC(adc))
	require.NoError(t, err)
	assert.Equal(t, adc, got)

	_, err = DecodeADC([]byte{1, 2, 3})
	assert.Error(t, err)
}
