package benchmark

import (
	"errors"
	"fmt"
)

// ErrNoSamples is returned when a sample sequence is too short to yield a delta.
var ErrNoSamples = errors.New("need at least two samples")

// MeanDivisor selects the denominator of the reported mean.
type MeanDivisor string

const (
	// DivideBySamples averages over the delta count.
	DivideBySamples MeanDivisor = "samples"
	// DivideByInputSize reproduces the historical harness, which divided the
	// delta sum by the kernel's input size. Its numbers are not per-iteration
	// means; use it only to line up with old datasets.
	DivideByInputSize MeanDivisor = "input_size"
)

// ParseMeanDivisor validates a configuration value; empty means DivideBySamples.
func ParseMeanDivisor(s string) (MeanDivisor, error) {
	switch MeanDivisor(s) {
	case "":
		return DivideBySamples, nil
	case DivideBySamples, DivideByInputSize:
		return MeanDivisor(s), nil
	}
	return "", fmt.Errorf("unknown mean divisor %q (want samples or input_size)", s)
}

// Deltas turns cumulative samples into per-iteration costs. The first sample
// has no predecessor and is dropped.
func Deltas(samples []float64) []float64 {
	if len(samples) < 2 {
		return []float64{}
	}
	out := make([]float64, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		out[i-1] = samples[i] - samples[i-1]
	}
	return out
}

// Mean is sum(deltas)/len(deltas) for DivideBySamples and sum(deltas)/size
// for DivideByInputSize.
func Mean(deltas []float64, size int, divisor MeanDivisor) (float64, error) {
	if len(deltas) == 0 {
		return 0, ErrNoSamples
	}
	var sum float64
	for _, d := range deltas {
		sum += d
	}
	switch divisor {
	case DivideByInputSize:
		if size <= 0 {
			return 0, fmt.Errorf("input size must be positive, got %d", size)
		}
		return sum / float64(size), nil
	case DivideBySamples, "":
		return sum / float64(len(deltas)), nil
	}
	return 0, fmt.Errorf("unknown mean divisor %q", divisor)
}

// NewRecord builds the ResultRecord for a finished sampling loop. Only
// adaptive records carry bench_size, matching the file naming.
func NewRecord(kernel string, size int, d Discipline, samples []float64, divisor MeanDivisor) (ResultRecord, error) {
	deltas := Deltas(samples)
	mean, err := Mean(deltas, size, divisor)
	if err != nil {
		return ResultRecord{}, fmt.Errorf("%s: %w", kernel, err)
	}
	rec := ResultRecord{
		Mean:  mean,
		File:  kernel,
		Times: deltas,
	}
	if d == AdaptiveDuration {
		rec.BenchSize = size
	}
	return rec, nil
}

// FileName is <kernel>_<size>_<tag>.json for adaptive runs and the legacy
// <kernel>_<tag>.json for fixed-count runs.
func FileName(kernel string, size int, tag string, d Discipline) string {
	if d == AdaptiveDuration {
		return fmt.Sprintf("%s_%d_%s.json", kernel, size, tag)
	}
	return fmt.Sprintf("%s_%s.json", kernel, tag)
}
