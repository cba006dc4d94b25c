package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RMahshie/poreview/internal/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestReadText(t *testing.T) {
	values, err := readText(strings.NewReader("1\n\n 2.5 \n-3e2\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5, -300}, values)

	_, err = readText(strings.NewReader("1\nabc\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestInputOptionsLoad(t *testing.T) {
	dir := t.TempDir()

	blob := filepath.Join(dir, "read.bin")
	require.NoError(t, os.WriteFile(blob, signal.EncodeADC([]int16{-4, 0, 4}), 0o644))

	opts := InputOptions{}
	opts.Args.Path = blob
	values, err := opts.load()
	require.NoError(t, err)
	assert.Equal(t, []float64{-4, 0, 4}, values)

	opts.PA, opts.Offset, opts.Scale = true, 4, 0.5
	values, err = opts.load()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 4}, values)

	text := filepath.Join(dir, "read.txt")
	require.NoError(t, os.WriteFile(text, []byte("-4\n0\n4\n"), 0o644))
	opts.Args.Path = text
	values, err = opts.load()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 4}, values)

	odd := filepath.Join(dir, "odd.bin")
	require.NoError(t, os.WriteFile(odd, []byte{1, 2, 3}, 0o644))
	opts.Args.Path = odd
	_, err = opts.load()
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	globalOpts.Format = "yaml"
	var buf bytes.Buffer
	require.NoError(t, write(&buf, signal.Summarize([]float64{1, 2, 3})))

	var got signal.Summary
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, 2.0, got.Median)

	globalOpts.Format = "json"
	buf.Reset()
	require.NoError(t, write(&buf, signal.Summarize([]float64{1})))
	assert.Contains(t, buf.String(), `"count": 1`)
}

func TestParserCommands(t *testing.T) {
	parser := newParser()
	for _, name := range []string{"downsample", "normalize", "summary", "chunk"} {
		assert.NotNil(t, parser.Find(name), name)
	}
}
