package benchmark

import (
	"fmt"
	"time"
)

// Discipline selects how a Sampler decides when to stop.
type Discipline string

const (
	// FixedCount runs a workload a set number of times.
	FixedCount Discipline = "fixed"
	// AdaptiveDuration runs a workload until a time budget is exceeded.
	AdaptiveDuration Discipline = "adaptive"
)

// ParseDiscipline maps a configuration string to a Discipline.
// The empty string means "use the workload's default" and yields "".
func ParseDiscipline(s string) (Discipline, error) {
	switch Discipline(s) {
	case "", FixedCount, AdaptiveDuration:
		return Discipline(s), nil
	}
	return "", &InvalidDisciplineError{Value: s}
}

// InvalidDisciplineError reports an unknown discipline name.
type InvalidDisciplineError struct {
	Value string
}

func (e *InvalidDisciplineError) Error() string {
	return fmt.Sprintf("unknown sampling discipline %q (want fixed or adaptive)", e.Value)
}

// InputSource hands out freshly drawn random input buffers.
type InputSource interface {
	Bytes(n int) ([]byte, error)
	Float64s(n int) ([]float64, error)
	Close() error
}

// Workload binds one kernel to its input buffers.
type Workload interface {
	// Name is the record name, e.g. "crc16" or "softmax_simd".
	Name() string
	// Size is the configured input size in elements (matrix side for matmul).
	Size() int
	Discipline() Discipline
	// Primes reports whether the kernel gets one untimed call before sampling.
	Primes() bool
	// Prepare draws the input buffers. It is called once per run.
	Prepare(src InputSource) error
	// Iterate runs the kernel once and returns a digest of its output.
	Iterate() uint64
}

// ResultRecord is the serialized timing artifact for one workload.
type ResultRecord struct {
	Mean       float64   `json:"mean"`
	WarmupTime float64   `json:"warmup_time"`
	BenchTime  float64   `json:"bench_time"`
	File       string    `json:"file"`
	BenchSize  int       `json:"bench_size,omitempty"`
	Times      []float64 `json:"times"`
}

// Result is one finished workload within a run.
type Result struct {
	RunID      string
	Kernel     string
	Size       int
	Discipline Discipline
	Tag        string
	Iterations int
	Record     ResultRecord
	Path       string
	Finished   time.Time
}

// MeanMillis is the record mean converted from nanoseconds.
func (r Result) MeanMillis() float64 {
	return r.Record.Mean / 1e6
}
