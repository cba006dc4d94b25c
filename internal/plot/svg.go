package plot

import (
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Default export size in pixels.
const (
	ExportWidth  = 1000
	ExportHeight = 600
)

// RenderSVG draws the main view of fig as an SVG document with a legend.
func RenderSVG(w io.Writer, fig *Figure) error {
	series := make([]chart.Series, 0, len(fig.Traces))
	for _, tr := range fig.Traces {
		n := len(tr.Data.Values)
		if n == 0 {
			continue
		}

		xs := make([]float64, n)
		for i, p := range tr.Data.Positions {
			xs[i] = float64(p)
		}
		ys := tr.Data.Values

		// go-chart rejects a zero-width x range
		if n == 1 {
			xs = []float64{xs[0], xs[0] + 1}
			ys = []float64{ys[0], ys[0]}
		}

		series = append(series, chart.ContinuousSeries{
			Name:    tr.ReadID,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex(strings.TrimPrefix(tr.Color, "#")),
				StrokeWidth: 1,
			},
		})
	}
	if len(series) == 0 {
		return ErrNoTraces
	}

	yMin, yMax := fig.YMin, fig.YMax
	if yMin == yMax {
		yMin, yMax = yMin-1, yMax+1
	}

	ch := chart.Chart{
		Title:      fig.SubsetLabel,
		Width:      ExportWidth,
		Height:     ExportHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Sample"},
		YAxis: chart.YAxis{
			Name:  fig.YLabel,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}
	return nil
}
