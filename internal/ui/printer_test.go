package ui

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"kernbench/internal/benchmark"
	"kernbench/internal/history"
	"kernbench/internal/suite"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_ResultPlain(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Result(benchmark.Result{
		Kernel:     "matmul",
		Iterations: 12,
		Record:     benchmark.ResultRecord{Mean: 2_500_000, Times: make([]float64, 11)},
		Path:       "bench_times/r1/matmul_256_go.json",
	})

	assert.Equal(t, "matmul: mean 2.5ms over 12 iterations (11 samples)\n  bench_times/r1/matmul_256_go.json\n", buf.String())
	assert.NotContains(t, buf.String(), "\x1b[", "buffers must not receive escape codes")
}

func TestPrinter_ComparisonsColour(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, termenv.ANSI256)

	p.Comparisons([]benchmark.Comparison{
		{Key: "crc16", MeanDiff: 25},
		{Key: "matmul/256", MeanDiff: -30},
		{Key: "quicksort", MeanDiff: 1},
	}, 10)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "196")
	assert.Contains(t, lines[0], "crc16: +25.00% mean (regression)")
	assert.Contains(t, lines[1], "46")
	assert.Contains(t, lines[1], "(improvement)")
	assert.Equal(t, "quicksort: +1.00% mean", lines[2])
}

func TestPrinter_ComparisonsEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Comparisons(nil, 5)
	assert.Equal(t, "No common records found.\n", buf.String())
}

func TestPrinter_SelfTest(t *testing.T) {
	ks, err := suite.Lookup([]string{"crc16", "matmul"})
	require.NoError(t, err)

	var buf bytes.Buffer
	gateErr := &suite.GateError{Failures: []suite.Failure{{Kernel: "matmul", Err: errors.New("cell (0,0) = 1, want 2")}}}
	NewPrinter(&buf).SelfTest(ks, gateErr)

	assert.Equal(t, "PASS crc16\nFAIL matmul: cell (0,0) = 1, want 2\n", buf.String())
}

func TestPrinter_Kernels(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Kernels(suite.Catalog(), suite.Options{Sizes: map[string]int{"matmul": 64}})

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Regexp(t, `matmul\s+matmul\s+64\s+adaptive\s+false`, out)
	assert.Regexp(t, `crc16\s+crc16\s+100000\s+fixed\s+true`, out)
}

func TestPrinter_History(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.History(nil)
	assert.Equal(t, "No history recorded.\n", buf.String())

	buf.Reset()
	p.History([]history.Entry{{RunID: "r1", Kernel: "crc16", Tag: "go", Size: 100000, MeanNs: 1500, Samples: 1000, CreatedAt: time.Now()}})
	assert.Regexp(t, `r1\s+crc16\s+go\s+100000\s+1\.5µs\s+1000`, buf.String())
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}
