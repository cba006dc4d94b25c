package signal

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomTrace(t *testing.T, seed int64, n int) []int16 {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(rng.Intn(2000) - 1000)
	}
	return out
}

func TestDownsample(t *testing.T) {
	tests := []struct {
		name      string
		input     []float64
		count     int
		want      []float64
		wantWidth int
		reduced   bool
	}{
		{
			name:      "even bins",
			input:     []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			count:     5,
			want:      []float64{1.5, 3.5, 5.5, 7.5, 9.5},
			wantWidth: 2,
			reduced:   true,
		},
		{
			name:      "single sample below cap",
			input:     []float64{5},
			count:     10000,
			want:      []float64{5},
			wantWidth: 1,
		},
		{
			name:      "empty signal",
			input:     []float64{},
			count:     10000,
			want:      []float64{},
			wantWidth: 1,
		},
		{
			name:      "length equals cap",
			input:     []float64{3, 1, 2},
			count:     3,
			want:      []float64{3, 1, 2},
			wantWidth: 1,
		},
		{
			name:      "last bin absorbs remainder",
			input:     []float64{1, 2, 3, 4, 5, 6, 7},
			count:     3,
			want:      []float64{1.5, 3.5, 6},
			wantWidth: 2,
			reduced:   true,
		},
		{
			name:      "median ignores spikes",
			input:     []float64{10, 10, 900, 10, 10, -800},
			count:     2,
			want:      []float64{10, 10},
			wantWidth: 3,
			reduced:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Downsample(tt.input, tt.count)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Values)
			assert.Equal(t, tt.wantWidth, got.BinWidth)
			assert.Equal(t, tt.reduced, got.Reduced)
			assert.Equal(t, len(tt.input), got.SourceLen)
			assert.Len(t, got.Positions, len(got.Values))
		})
	}
}

func TestDownsample_InvalidCount(t *testing.T) {
	for _, count := range []int{0, -1, -10000} {
		_, err := Downsample([]float64{1, 2, 3}, count)
		assert.ErrorIs(t, err, ErrInvalidBinCount)

		_, err = Downsample([]float64{}, count)
		assert.ErrorIs(t, err, ErrInvalidBinCount)
	}
}

func TestDownsample_Identity(t *testing.T) {
	trace := randomTrace(t, 1, 5000)
	for _, count := range []int{5000, 5001, 10000} {
		got, err := Downsample(trace, count)
		require.NoError(t, err)
		assert.False(t, got.Reduced)
		assert.Equal(t, 1, got.BinWidth)
		assert.Equal(t, Float64s(trace), got.Values)
	}
}

func TestDownsample_ExactLength(t *testing.T) {
	trace := randomTrace(t, 2, 12345)
	for count := 1; count < len(trace); count += 997 {
		got, err := Downsample(trace, count)
		require.NoError(t, err)
		assert.Len(t, got.Values, count)
		assert.Equal(t, len(trace)/count, got.BinWidth)
	}
}

func TestDownsample_DoesNotMutateInput(t *testing.T) {
	trace := []float64{9, 8, 7, 6, 5, 4, 3, 2, 1}
	before := append([]float64(nil), trace...)

	_, err := Downsample(trace, 2)
	require.NoError(t, err)
	assert.Equal(t, before, trace)
}

func TestDownsample_Deterministic(t *testing.T) {
	trace := randomTrace(t, 3, 40000)
	a, err := Downsample(trace, 10000)
	require.NoError(t, err)
	b, err := Downsample(trace, 10000)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDownsample_LargerCapKeepsLength(t *testing.T) {
	trace := randomTrace(t, 4, 30000)
	prev := 0
	for _, count := range []int{1000, 5000, 10000, 29999} {
		got, err := Downsample(trace, count)
		require.NoError(t, err)
		assert.Len(t, got.Values, count)
		assert.Greater(t, len(got.Values), prev)
		prev = len(got.Values)
	}
}

func TestBins_Coverage(t *testing.T) {
	for _, tc := range []struct{ n, count int }{
		{10, 5}, {7, 3}, {1, 1}, {0, 4}, {100003, 10000}, {9999, 10000}, {40000, 10000},
	} {
		bins, err := Bins(tc.n, tc.count)
		require.NoError(t, err)

		total := 0
		next := 0
		for _, b := range bins {
			assert.Equal(t, next, b.Start, "gap or overlap at %d", b.Start)
			assert.Greater(t, b.Len(), 0)
			total += b.Len()
			next = b.End
		}
		assert.Equal(t, tc.n, total)
		assert.LessOrEqual(t, len(bins), tc.count)
	}
}

func TestDownsample_PositionsAreBinStarts(t *testing.T) {
	got, err := Downsample([]int16{1, 2, 3, 4, 5, 6, 7}, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4}, got.Positions)

	shifted := got.Offset(100)
	assert.Equal(t, []int{100, 102, 104}, shifted.Positions)
	assert.Equal(t, []int{0, 2, 4}, got.Positions)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median([]float64{}))
	assert.Equal(t, 4.0, Median([]int{4}))
	assert.Equal(t, 2.5, Median([]int{4, 1, 3, 2}))
	assert.Equal(t, 3.0, Median([]float32{5, 1, 3}))
}

func TestSubsetLabel(t *testing.T) {
	assert.Equal(t, "No subsetting performed - each point corresponds to one measurement.", SubsetLabel(1))
	assert.Equal(t, "Subsetting active - one point corresponds to 4 measurements.", SubsetLabel(4))
}

func BenchmarkDownsample(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	trace := make([]int16, 1_000_000)
	for i := range trace {
		trace[i] = int16(rng.Intn(2000))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Downsample(trace, 10000); err != nil {
			b.Fatal(err)
		}
	}
}
