package signal

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidWindow reports zoom bounds outside the trace or out of order.
	ErrInvalidWindow = errors.New("invalid zoom window")
	// ErrInvalidChunkSize reports a non-positive page or column size.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")
)

// Window converts zoom ratios in [0, 1] into a sample range [start, end)
// of a trace of length n. start rounds down and end rounds up.
func Window(n int, startRatio, endRatio float64) (start, end int, err error) {
	if math.IsNaN(startRatio) || math.IsNaN(endRatio) ||
		startRatio < 0 || endRatio > 1 || startRatio >= endRatio {
		return 0, 0, fmt.Errorf("%w: ratios %g..%g", ErrInvalidWindow, startRatio, endRatio)
	}
	start = int(math.Floor(float64(n) * startRatio))
	end = int(math.Ceil(float64(n) * endRatio))
	return start, min(end, n), nil
}

// SampleWindow clamps an absolute sample range to a trace of length n.
func SampleWindow(n, from, to int) (start, end int, err error) {
	if from >= to {
		return 0, 0, fmt.Errorf("%w: samples %d..%d", ErrInvalidWindow, from, to)
	}
	return max(0, min(from, n)), max(0, min(to, n)), nil
}

// Row is one labelled line of the paged raw view.
type Row struct {
	Position int       `json:"position" yaml:"position"`
	Values   []float64 `json:"values" yaml:"values"`
}

// Page is one screen of raw values.
type Page struct {
	Index      int   `json:"index" yaml:"index"`
	PageCount  int   `json:"page_count" yaml:"page_count"`
	Start      int   `json:"start" yaml:"start"`
	End        int   `json:"end" yaml:"end"`
	Rows       []Row `json:"rows" yaml:"rows"`
	TotalCount int   `json:"total_count" yaml:"total_count"`
}

// displayDecimals is the rounding applied to raw values shown in a page.
const displayDecimals = 4

// Chunk returns page index of values, size values per page split into rows
// of columns values each. An index past the last page returns the last page.
func Chunk(values []float64, index, size, columns int) (Page, error) {
	if size <= 0 {
		return Page{}, fmt.Errorf("%w: %d", ErrInvalidChunkSize, size)
	}
	if columns <= 0 || columns > size {
		columns = size
	}

	n := len(values)
	pages := (n + size - 1) / size
	page := Page{PageCount: pages, TotalCount: n}
	if pages == 0 {
		return page, nil
	}

	index = max(0, min(index, pages-1))
	page.Index = index
	page.Start = index * size
	page.End = min(page.Start+size, n)

	scale := math.Pow(10, displayDecimals)
	for pos := page.Start; pos < page.End; pos += columns {
		rowEnd := min(pos+columns, page.End)
		row := Row{Position: pos, Values: make([]float64, rowEnd-pos)}
		for i, v := range values[pos:rowEnd] {
			row.Values[i] = math.Round(v*scale) / scale
		}
		page.Rows = append(page.Rows, row)
	}
	return page, nil
}
