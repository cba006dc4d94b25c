package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/RMahshie/poreview/internal/signal"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	parser := newParser()
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if globalOpts.Verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		if cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func (c *DownsampleCommand) Execute([]string) error {
	values, err := c.load()
	if err != nil {
		return err
	}
	if c.Normalize {
		values = signal.Normalize(values)
	}

	start, end, err := signal.Window(len(values), c.StartRatio, c.EndRatio)
	if err != nil {
		return err
	}
	ds, err := signal.Downsample(values[start:end], c.Bins)
	if err != nil {
		return err
	}
	log.Debug().Int("samples", end-start).Int("points", len(ds.Values)).Int("binWidth", ds.BinWidth).Msg("Downsampled")

	return write(os.Stdout, struct {
		Start       int                `json:"start" yaml:"start"`
		End         int                `json:"end" yaml:"end"`
		SubsetLabel string             `json:"subset_label" yaml:"subset_label"`
		Data        signal.Downsampled `json:"data" yaml:"data"`
	}{start, end, signal.SubsetLabel(ds.BinWidth), ds.Offset(start)})
}

func (c *NormalizeCommand) Execute([]string) error {
	values, err := c.load()
	if err != nil {
		return err
	}
	return write(os.Stdout, struct {
		Values []float64 `json:"values" yaml:"values,flow"`
	}{signal.Normalize(values)})
}

func (c *SummaryCommand) Execute([]string) error {
	values, err := c.load()
	if err != nil {
		return err
	}
	return write(os.Stdout, signal.Summarize(values))
}

func (c *ChunkCommand) Execute([]string) error {
	values, err := c.load()
	if err != nil {
		return err
	}
	page, err := signal.Chunk(values, c.Page, c.Size, c.Columns)
	if err != nil {
		return err
	}
	return write(os.Stdout, page)
}

// load reads the input file and applies calibration when requested
func (o *InputOptions) load() ([]float64, error) {
	path := o.Args.Path
	log.Debug().Str("path", path).Bool("pa", o.PA).Msg("Reading signal")

	if strings.EqualFold(filepath.Ext(path), ".bin") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		adc, err := signal.DecodeADC(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		if o.PA {
			return signal.Calibrate(adc, o.Offset, o.Scale), nil
		}
		return signal.Float64s(adc), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	values, err := readText(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if o.PA {
		for i, v := range values {
			values[i] = (v + o.Offset) * o.Scale
		}
	}
	return values, nil
}

// readText parses one number per line; blank lines are skipped
func readText(r io.Reader) ([]float64, error) {
	var values []float64
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		values = append(values, v)
	}
	return values, scanner.Err()
}

func write(w io.Writer, v any) error {
	if globalOpts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
