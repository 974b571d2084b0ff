package config

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Families lists the size keys under "sizes".
var Families = []string{"crc16", "matmul", "quicksort", "softmax"}

// Config is the resolved view of the viper keys used by a run.
type Config struct {
	OutputDir     string
	ImplTag       string
	Iterations    int
	BenchTime     time.Duration
	EntropySource string
	MeanDivisor   string
	Lanes         int
	Discipline    string
	Sizes         map[string]int

	MetricsEnabled bool
	MetricsFile    string

	HistoryEnabled bool
	HistoryType    string
	HistoryDSN     string
}

// FromViper snapshots the current viper state.
func FromViper() Config {
	cfg := Config{
		OutputDir:      viper.GetString("output_dir"),
		ImplTag:        viper.GetString("impl_tag"),
		Iterations:     viper.GetInt("iterations"),
		BenchTime:      BenchTime(),
		EntropySource:  viper.GetString("entropy_source"),
		MeanDivisor:    viper.GetString("mean_divisor"),
		Lanes:          viper.GetInt("lanes"),
		Discipline:     viper.GetString("discipline"),
		Sizes:          make(map[string]int, len(Families)),
		MetricsEnabled: viper.GetBool("metrics.enabled"),
		MetricsFile:    viper.GetString("metrics.file"),
		HistoryEnabled: viper.GetBool("history.enabled"),
		HistoryType:    viper.GetString("history.type"),
		HistoryDSN:     viper.GetString("history.dsn"),
	}
	for _, f := range Families {
		cfg.Sizes[f] = viper.GetInt("sizes." + f)
	}
	if cfg.HistoryDSN == "" {
		cfg.HistoryDSN = filepath.Join(cfg.OutputDir, "history.db")
	}
	return cfg
}

// BenchTime reads bench_time as whole seconds ("5") or a duration ("1500ms").
// Unparsable values yield 0 so validation reports them.
func BenchTime() time.Duration {
	d, err := ParseBenchTime(viper.GetString("bench_time"))
	if err != nil {
		return 0
	}
	return d
}

// maxBenchSeconds is the largest second count a time.Duration can hold.
const maxBenchSeconds = float64(math.MaxInt64) / float64(time.Second)

// ParseBenchTime accepts a count of seconds or a Go duration string.
func ParseBenchTime(s string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) {
			return 0, fmt.Errorf("invalid bench time %q: not a finite number of seconds", s)
		}
		if math.Abs(secs) >= maxBenchSeconds {
			return 0, fmt.Errorf("invalid bench time %q: exceeds %d seconds", s, int64(math.MaxInt64/int64(time.Second)))
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid bench time %q: want seconds or a duration", s)
	}
	return d, nil
}
