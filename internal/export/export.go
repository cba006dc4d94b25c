package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/sbinet/npyio"
	"gopkg.in/yaml.v3"
)

// Format is a supported export format.
type Format string

const (
	FormatText Format = "txt"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatNPY  Format = "npy"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatYAML, FormatNPY:
		return Format(s), nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unsupported export format: %s", s)
}

// ContentType returns the MIME type of a format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatNPY:
		return "application/octet-stream"
	}
	return "text/plain; charset=utf-8"
}

// Extension returns the file extension of a format, with the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Document is the full record written by an export: read metadata plus the
// complete, never downsampled signal.
type Document struct {
	ReadID      string    `json:"read_id" yaml:"read_id"`
	FilePath    string    `json:"file_path" yaml:"file_path"`
	InPA        bool      `json:"in_pa" yaml:"in_pa"`
	SampleCount int       `json:"sample_count" yaml:"sample_count"`
	Metadata    any       `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Signal      []float64 `json:"signal" yaml:"signal,flow"`
}

// Write encodes doc in the given format. Text and npy output hold only the
// signal; npy is a 1-D little-endian float64 array.
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatText:
		return WriteText(w, doc.Signal)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml export: %w", err)
		}
		return enc.Close()
	case FormatNPY:
		if err := npyio.Write(w, doc.Signal); err != nil {
			return fmt.Errorf("failed to encode npy export: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported export format: %s", f)
}

// WriteText writes one value per line in scientific notation with 18
// fractional digits, which round-trips every float64.
func WriteText(w io.Writer, values []float64) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)
	for _, v := range values {
		buf = strconv.AppendFloat(buf[:0], v, 'e', 18, 64)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}
