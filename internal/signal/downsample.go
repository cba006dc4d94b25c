// Package signal holds the pure transforms applied to a read's current trace
// before it is plotted, paged or exported.
//
// Downsampling folds contiguous bins of samples into their median so that a
// trace of millions of samples can be drawn with a bounded number of points:
//
//	ds, err := signal.Downsample(adc, 10000)
//	// ds.Values has at most 10000 points, ds.BinWidth samples per point
//
// Normalization is a separate stage and is computed over the full signal:
//
//	ds, err := signal.Downsample(signal.Normalize(adc), 10000)
package signal

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidBinCount is returned when a bin count (cap) is not positive.
var ErrInvalidBinCount = errors.New("bin count must be positive")

// Sample is any numeric type a trace can be stored in.
type Sample interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~float32 | ~float64
}

// Downsampled is a reduced representation of a trace.
type Downsampled struct {
	Values    []float64 `json:"values" yaml:"values,flow"`
	Positions []int     `json:"positions" yaml:"positions,flow"`
	BinWidth  int       `json:"bin_width" yaml:"bin_width"`
	Reduced   bool      `json:"reduced" yaml:"reduced"`
	SourceLen int       `json:"source_len" yaml:"source_len"`
}

// Bin is the half-open sample range [Start, End) folded into one point.
type Bin struct {
	Start int
	End   int
}

// Len returns the number of samples in the bin.
func (b Bin) Len() int { return b.End - b.Start }

// Bins partitions n samples into count contiguous bins of width n/count.
// The last bin absorbs the remainder. When n <= count every sample gets a
// bin of its own.
func Bins(n, count int) ([]Bin, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBinCount, count)
	}
	if n <= count {
		bins := make([]Bin, n)
		for i := range bins {
			bins[i] = Bin{Start: i, End: i + 1}
		}
		return bins, nil
	}

	width := n / count
	bins := make([]Bin, count)
	for i := range bins {
		bins[i] = Bin{Start: i * width, End: (i + 1) * width}
	}
	bins[count-1].End = n
	return bins, nil
}

// Downsample reduces samples to at most count points, each the median of
// one bin. Traces with no more than count samples are returned unchanged
// with a bin width of 1. The input is never modified.
func Downsample[T Sample](samples []T, count int) (Downsampled, error) {
	bins, err := Bins(len(samples), count)
	if err != nil {
		return Downsampled{}, err
	}

	out := Downsampled{
		Values:    make([]float64, len(bins)),
		Positions: make([]int, len(bins)),
		BinWidth:  1,
		SourceLen: len(samples),
	}

	if len(samples) <= count {
		for i, v := range samples {
			out.Values[i] = float64(v)
			out.Positions[i] = i
		}
		return out, nil
	}

	out.BinWidth = len(samples) / count
	out.Reduced = true

	// one scratch buffer sized for the widest bin, which is always the last
	scratch := make([]float64, bins[len(bins)-1].Len())
	for i, b := range bins {
		buf := scratch[:b.Len()]
		for j, v := range samples[b.Start:b.End] {
			buf[j] = float64(v)
		}
		out.Values[i] = medianInPlace(buf)
		out.Positions[i] = b.Start
	}

	return out, nil
}

// Median returns the median of values, averaging the two middle elements
// for even lengths. It returns 0 for an empty slice.
func Median[T Sample](values []T) float64 {
	buf := make([]float64, len(values))
	for i, v := range values {
		buf[i] = float64(v)
	}
	return medianInPlace(buf)
}

func medianInPlace(buf []float64) float64 {
	n := len(buf)
	switch n {
	case 0:
		return 0
	case 1:
		return buf[0]
	}
	slices.Sort(buf)
	if n%2 == 1 {
		return buf[n/2]
	}
	return (buf[n/2-1] + buf[n/2]) / 2
}

// Offset shifts every position by start, mapping bin positions of a window
// back onto the full trace.
func (d Downsampled) Offset(start int) Downsampled {
	if start == 0 {
		return d
	}
	positions := make([]int, len(d.Positions))
	for i, p := range d.Positions {
		positions[i] = p + start
	}
	d.Positions = positions
	return d
}

// SubsetLabel describes how many measurements one plotted point stands for.
func SubsetLabel(binWidth int) string {
	if binWidth <= 1 {
		return "No subsetting performed - each point corresponds to one measurement."
	}
	return fmt.Sprintf("Subsetting active - one point corresponds to %d measurements.", binWidth)
}
