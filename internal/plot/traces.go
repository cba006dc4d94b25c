package plot

import (
	"errors"
	"fmt"
	"sort"

	"github.com/RMahshie/poreview/internal/signal"
)

// ColorCycle is assigned to traces in order, longest trace first.
var ColorCycle = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// ErrNoTraces is returned by Build when no reads are given.
var ErrNoTraces = errors.New("no traces to plot")

// Input is one read's full signal, already in the requested unit.
type Input struct {
	ReadID string
	Values []float64
}

// Options controls how traces are reduced.
type Options struct {
	BinCount         int
	OverviewBinCount int
	Normalized       bool
	InPA             bool

	// zoom by ratio of the longest trace
	StartRatio float64
	EndRatio   float64

	// zoom by sample index; takes precedence over ratios when To > From
	From int
	To   int
}

// Trace is a downsampled, coloured line.
type Trace struct {
	ReadID string             `json:"read_id"`
	Color  string             `json:"color"`
	Data   signal.Downsampled `json:"data"`
}

// Figure is everything needed to draw a plot and its overview.
type Figure struct {
	Traces      []Trace `json:"traces"`
	Overview    []Trace `json:"overview"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
	BinWidth    int     `json:"bin_width"`
	SubsetLabel string  `json:"subset_label"`
	YLabel      string  `json:"y_label"`

	// range of the plotted main-view points
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`

	// range of the full signals shown in the overview
	OverviewYMin float64 `json:"overview_y_min"`
	OverviewYMax float64 `json:"overview_y_max"`
}

// Build downsamples every input for the main view and the overview.
// Normalization, when requested, is computed over each full signal before
// the zoom window is applied.
func Build(inputs []Input, opts Options) (*Figure, error) {
	if len(inputs) == 0 {
		return nil, ErrNoTraces
	}
	if opts.BinCount <= 0 || opts.OverviewBinCount <= 0 {
		return nil, fmt.Errorf("%w: plot %d, overview %d", signal.ErrInvalidBinCount, opts.BinCount, opts.OverviewBinCount)
	}

	sorted := make([]Input, len(inputs))
	copy(sorted, inputs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Values) > len(sorted[j].Values)
	})

	longest := len(sorted[0].Values)
	start, end, err := window(longest, opts)
	if err != nil {
		return nil, err
	}

	fig := &Figure{
		Start:  start,
		End:    end,
		YLabel: YLabel(opts.Normalized, opts.InPA),
	}

	full := make([][]float64, len(sorted))
	shown := make([][]float64, len(sorted))
	for i, in := range sorted {
		values := in.Values
		if opts.Normalized {
			values = signal.Normalize(values)
		}
		full[i] = values

		color := ColorCycle[i%len(ColorCycle)]

		lo, hi := min(start, len(values)), min(end, len(values))
		ds, err := signal.Downsample(values[lo:hi], opts.BinCount)
		if err != nil {
			return nil, err
		}
		shown[i] = ds.Values
		fig.Traces = append(fig.Traces, Trace{ReadID: in.ReadID, Color: color, Data: ds.Offset(lo)})
		fig.BinWidth = max(fig.BinWidth, ds.BinWidth)

		ov, err := signal.Downsample(values, opts.OverviewBinCount)
		if err != nil {
			return nil, err
		}
		fig.Overview = append(fig.Overview, Trace{ReadID: in.ReadID, Color: color, Data: ov})
	}

	fig.SubsetLabel = signal.SubsetLabel(fig.BinWidth)
	if lo, hi, ok := signal.Bounds(shown...); ok {
		fig.YMin, fig.YMax = lo, hi
	}
	if lo, hi, ok := signal.Bounds(full...); ok {
		fig.OverviewYMin, fig.OverviewYMax = lo, hi
	}
	return fig, nil
}

func window(n int, opts Options) (int, int, error) {
	if opts.To > opts.From {
		return signal.SampleWindow(n, opts.From, opts.To)
	}
	if opts.StartRatio == 0 && opts.EndRatio == 0 {
		return 0, n, nil
	}
	return signal.Window(n, opts.StartRatio, opts.EndRatio)
}

// YLabel returns the y-axis caption for the given data mode.
func YLabel(normalized, inPA bool) string {
	label := "Signal intensity"
	if normalized {
		label = "Norm. " + label
	}
	if inPA {
		label += " [pA]"
	}
	return label
}
