// Package suite binds the compute kernels to benchmark workloads and runs the
// correctness gate that must pass before anything is timed.
package suite

import (
	"fmt"
	"sort"
	"strings"

	"kernbench/internal/benchmark"
	"kernbench/internal/kernels"
)

// Default input sizes, in elements (matrix side length for matmul).
const (
	DefaultCRC16Size     = 100000
	DefaultQuickSortSize = 10000
	DefaultSoftmaxSize   = 2048
	DefaultMatMulSize    = 256
)

// Options shape the workloads of one run.
type Options struct {
	// Sizes maps a kernel family ("crc16", "matmul", "quicksort", "softmax")
	// to its input size. Missing families use the defaults.
	Sizes map[string]int
	// Discipline overrides every kernel's default when set.
	Discipline benchmark.Discipline
	// Lanes is the SoftmaxLanes width; 0 auto-detects.
	Lanes int
}

// Kernel describes one benchmarkable kernel variant.
type Kernel struct {
	Name        string
	Family      string
	DefaultSize int
	Discipline  benchmark.Discipline
	Primes      bool

	check func(Options) error
	build func(b base, opts Options) benchmark.Workload
}

// SizeFor resolves the kernel's input size under opts.
func (k Kernel) SizeFor(opts Options) int {
	if n, ok := opts.Sizes[k.Family]; ok {
		return n
	}
	return k.DefaultSize
}

// DisciplineFor resolves the sampling discipline under opts.
func (k Kernel) DisciplineFor(opts Options) benchmark.Discipline {
	if opts.Discipline != "" {
		return opts.Discipline
	}
	return k.Discipline
}

// Check runs the kernel's known-answer self-test.
func (k Kernel) Check(opts Options) error {
	return k.check(opts)
}

var catalog = []Kernel{
	{
		Name:        "crc16",
		Family:      "crc16",
		DefaultSize: DefaultCRC16Size,
		Discipline:  benchmark.FixedCount,
		Primes:      true,
		check:       func(Options) error { return kernels.CheckCRC16() },
		build: func(b base, _ Options) benchmark.Workload {
			return &crc16Workload{base: b}
		},
	},
	{
		Name:        "matmul",
		Family:      "matmul",
		DefaultSize: DefaultMatMulSize,
		Discipline:  benchmark.AdaptiveDuration,
		check:       func(Options) error { return kernels.CheckMatMul() },
		build: func(b base, _ Options) benchmark.Workload {
			return &matmulWorkload{base: b}
		},
	},
	{
		Name:        "quicksort",
		Family:      "quicksort",
		DefaultSize: DefaultQuickSortSize,
		Discipline:  benchmark.FixedCount,
		Primes:      true,
		check:       func(Options) error { return kernels.CheckQuickSort() },
		build: func(b base, _ Options) benchmark.Workload {
			return &quicksortWorkload{base: b}
		},
	},
	{
		Name:        "softmax_native",
		Family:      "softmax",
		DefaultSize: DefaultSoftmaxSize,
		Discipline:  benchmark.AdaptiveDuration,
		Primes:      true,
		check:       func(Options) error { return kernels.CheckSoftmax(kernels.ScalarSoftmax{}) },
		build: func(b base, _ Options) benchmark.Workload {
			return &softmaxWorkload{base: b, norm: kernels.ScalarSoftmax{}}
		},
	},
	{
		Name:        "softmax_simd",
		Family:      "softmax",
		DefaultSize: DefaultSoftmaxSize,
		Discipline:  benchmark.AdaptiveDuration,
		Primes:      true,
		check: func(opts Options) error {
			n := kernels.NewLaneSoftmax(opts.Lanes)
			if err := kernels.CheckSoftmax(n); err != nil {
				return err
			}
			return kernels.CheckLanesMatchScalar(n)
		},
		build: func(b base, opts Options) benchmark.Workload {
			return &softmaxWorkload{base: b, norm: kernels.NewLaneSoftmax(opts.Lanes)}
		},
	},
}

// Catalog lists every kernel in run order.
func Catalog() []Kernel {
	out := make([]Kernel, len(catalog))
	copy(out, catalog)
	return out
}

// Names lists the selectable names, including family aliases.
func Names() []string {
	seen := map[string]bool{"all": true}
	for _, k := range catalog {
		seen[k.Name] = true
		seen[k.Family] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves kernel or family names. An empty selection or "all"
// returns the whole catalog. Order follows the catalog, duplicates collapse.
func Lookup(names []string) ([]Kernel, error) {
	want := make(map[string]bool)
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if name == "all" {
			return Catalog(), nil
		}
		matched := false
		for _, k := range catalog {
			if k.Name == name || k.Family == name {
				want[k.Name] = true
				matched = true
			}
		}
		if !matched {
			return nil, fmt.Errorf("unknown kernel %q (available: %s)", raw, strings.Join(Names(), ", "))
		}
	}
	if len(want) == 0 {
		return Catalog(), nil
	}

	var out []Kernel
	for _, k := range catalog {
		if want[k.Name] {
			out = append(out, k)
		}
	}
	return out, nil
}

// Build creates one workload per kernel. Buffers are empty until Prepare.
func Build(ks []Kernel, opts Options) ([]benchmark.Workload, error) {
	workloads := make([]benchmark.Workload, 0, len(ks))
	for _, k := range ks {
		size := k.SizeFor(opts)
		if size <= 0 {
			return nil, fmt.Errorf("%s: input size must be positive, got %d", k.Name, size)
		}
		b := base{
			name:       k.Name,
			size:       size,
			discipline: k.DisciplineFor(opts),
			primes:     k.Primes,
		}
		workloads = append(workloads, k.build(b, opts))
	}
	return workloads, nil
}
