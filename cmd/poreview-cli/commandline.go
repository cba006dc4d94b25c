package main

import (
	"github.com/jessevdk/go-flags"
)

// InputOptions select the signal file and its unit
type InputOptions struct {
	PA     bool    `long:"pa" description:"convert ADC counts to pA before processing"`
	Offset float64 `long:"offset" description:"calibration offset added to ADC counts"`
	Scale  float64 `long:"scale" default:"1" description:"calibration scale applied after the offset"`

	Args struct {
		Path string `positional-arg-name:"FILE" description:"signal file: .bin little-endian int16 blob, otherwise one value per line"`
	} `positional-args:"yes" required:"yes"`
}

// GlobalOptions apply to every command
type GlobalOptions struct {
	Format  string `short:"f" long:"format" choice:"yaml" choice:"json" default:"yaml" description:"output format"`
	Verbose bool   `short:"v" long:"verbose" description:"log debug output"`
}

type DownsampleCommand struct {
	InputOptions
	Bins       int     `short:"b" long:"bins" default:"10000" description:"maximum number of points"`
	Normalize  bool    `short:"n" long:"normalize" description:"z-score the full signal before downsampling"`
	StartRatio float64 `long:"start" default:"0" description:"zoom start as a fraction of the signal"`
	EndRatio   float64 `long:"end" default:"1" description:"zoom end as a fraction of the signal"`
}

type NormalizeCommand struct {
	InputOptions
}

type SummaryCommand struct {
	InputOptions
}

type ChunkCommand struct {
	InputOptions
	Page    int `short:"p" long:"page" default:"0" description:"0-based page index"`
	Size    int `short:"s" long:"size" default:"100" description:"values per page"`
	Columns int `short:"c" long:"columns" default:"10" description:"values per row"`
}

var globalOpts GlobalOptions

func newParser() *flags.Parser {
	parser := flags.NewParser(&globalOpts, flags.Default)
	parser.AddCommand("downsample", "median-downsample a signal",
		"Reduce a signal to at most --bins points, each the median of one bin.", &DownsampleCommand{})
	parser.AddCommand("normalize", "z-score a signal",
		"Print the standard score of every sample.", &NormalizeCommand{})
	parser.AddCommand("summary", "summarise a signal",
		"Print count, min, max, mean, standard deviation and median.", &SummaryCommand{})
	parser.AddCommand("chunk", "page through raw values",
		"Print one page of values split into labelled rows.", &ChunkCommand{})
	return parser
}
