package suite

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"kernbench/internal/benchmark"
	"kernbench/internal/kernels"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seededSource is a deterministic InputSource.
type seededSource struct {
	rng      *rand.Rand
	requests []int
	fail     error
}

func newSeededSource() *seededSource {
	return &seededSource{rng: rand.New(rand.NewSource(42))}
}

func (s *seededSource) Bytes(n int) ([]byte, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	s.requests = append(s.requests, n)
	buf := make([]byte, n)
	s.rng.Read(buf)
	return buf, nil
}

func (s *seededSource) Float64s(n int) ([]float64, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	s.requests = append(s.requests, n)
	out := make([]float64, n)
	for i := range out {
		out[i] = s.rng.NormFloat64()
	}
	return out, nil
}

func (s *seededSource) Close() error { return nil }

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []string
		wantErr bool
	}{
		{"empty selects all", nil, []string{"crc16", "matmul", "quicksort", "softmax_native", "softmax_simd"}, false},
		{"all", []string{"all"}, []string{"crc16", "matmul", "quicksort", "softmax_native", "softmax_simd"}, false},
		{"family alias", []string{"softmax"}, []string{"softmax_native", "softmax_simd"}, false},
		{"catalog order and dedupe", []string{"quicksort", "CRC16", "quicksort"}, []string{"crc16", "quicksort"}, false},
		{"unknown", []string{"fft"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ks, err := Lookup(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown kernel")
				return
			}
			require.NoError(t, err)
			var names []string
			for _, k := range ks {
				names = append(names, k.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestNames(t *testing.T) {
	names := Names()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "all")
	assert.Contains(t, names, "softmax")
	assert.Contains(t, names, "softmax_simd")
}

func TestCatalogDefaults(t *testing.T) {
	byName := map[string]Kernel{}
	for _, k := range Catalog() {
		byName[k.Name] = k
	}
	assert.Equal(t, benchmark.FixedCount, byName["crc16"].Discipline)
	assert.Equal(t, benchmark.FixedCount, byName["quicksort"].Discipline)
	assert.Equal(t, benchmark.AdaptiveDuration, byName["matmul"].Discipline)
	assert.Equal(t, benchmark.AdaptiveDuration, byName["softmax_simd"].Discipline)
	assert.False(t, byName["matmul"].Primes)
	assert.True(t, byName["crc16"].Primes)
	assert.Equal(t, 100000, byName["crc16"].DefaultSize)
	assert.Equal(t, 256, byName["matmul"].DefaultSize)
}

func TestBuild_SizesAndOverrides(t *testing.T) {
	ks, err := Lookup([]string{"all"})
	require.NoError(t, err)

	opts := Options{
		Sizes:      map[string]int{"softmax": 100, "matmul": 8},
		Discipline: benchmark.FixedCount,
	}
	ws, err := Build(ks, opts)
	require.NoError(t, err)
	require.Len(t, ws, 5)

	sizes := map[string]int{}
	for _, w := range ws {
		sizes[w.Name()] = w.Size()
		assert.Equal(t, benchmark.FixedCount, w.Discipline())
	}
	assert.Equal(t, DefaultCRC16Size, sizes["crc16"])
	assert.Equal(t, 8, sizes["matmul"])
	assert.Equal(t, 100, sizes["softmax_native"])
	assert.Equal(t, 100, sizes["softmax_simd"])
}

func TestBuild_RejectsNonPositiveSize(t *testing.T) {
	ks, _ := Lookup([]string{"crc16"})
	_, err := Build(ks, Options{Sizes: map[string]int{"crc16": 0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input size must be positive")
}

func buildOne(t *testing.T, name string, size int) benchmark.Workload {
	t.Helper()
	ks, err := Lookup([]string{name})
	require.NoError(t, err)
	ws, err := Build(ks[:1], Options{Sizes: map[string]int{ks[0].Family: size}})
	require.NoError(t, err)
	return ws[0]
}

func TestWorkload_CRC16(t *testing.T) {
	w := buildOne(t, "crc16", 64)
	src := newSeededSource()
	require.NoError(t, w.Prepare(src))
	assert.Equal(t, []int{64}, src.requests)

	first := w.Iterate()
	assert.Equal(t, first, w.Iterate(), "checksum over read-only input must be stable")
}

func TestWorkload_MatMulZeroesBetweenIterations(t *testing.T) {
	w := buildOne(t, "matmul", 4)
	src := newSeededSource()
	require.NoError(t, w.Prepare(src))
	assert.Equal(t, []int{16, 16}, src.requests)

	first := w.Iterate()
	assert.Equal(t, first, w.Iterate())
}

func TestWorkload_QuickSortUsesFreshCopy(t *testing.T) {
	w := buildOne(t, "quicksort", 101).(*quicksortWorkload)
	require.NoError(t, w.Prepare(newSeededSource()))
	orig := append([]byte(nil), w.src...)

	w.Iterate()
	assert.Equal(t, orig, w.src, "input buffer must stay untouched")
	assert.True(t, sort.SliceIsSorted(w.work, func(i, j int) bool { return w.work[i] < w.work[j] }))

	// scribble over the scratch buffer; the next iteration starts from src again
	for i := range w.work {
		w.work[i] = 0
	}
	w.Iterate()
	sorted := append([]byte(nil), orig...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	assert.Equal(t, sorted, w.work)
}

func TestWorkload_SoftmaxVariantsAgree(t *testing.T) {
	native := buildOne(t, "softmax_native", 203).(*softmaxWorkload)
	simd := buildOne(t, "softmax_simd", 203).(*softmaxWorkload)
	require.NoError(t, native.Prepare(newSeededSource()))
	require.NoError(t, simd.Prepare(newSeededSource()))
	require.Equal(t, native.x, simd.x)

	native.Iterate()
	simd.Iterate()
	for i := range native.dst {
		assert.InDelta(t, native.dst[i], simd.dst[i], 1e-12)
	}
	assert.NoError(t, kernels.CheckDistribution(simd.dst))
}

func TestWorkload_PrepareError(t *testing.T) {
	src := newSeededSource()
	src.fail = errors.New("entropy exhausted")
	for _, name := range []string{"crc16", "matmul", "quicksort", "softmax_native"} {
		w := buildOne(t, name, 8)
		assert.ErrorContains(t, w.Prepare(src), "entropy exhausted", name)
	}
}

func TestGate_AllPass(t *testing.T) {
	assert.NoError(t, Gate(Catalog(), Options{}))
	for _, lanes := range []int{1, 2, 4, 8} {
		assert.NoError(t, Gate(Catalog(), Options{Lanes: lanes}))
	}
}

func TestGate_ReportsEveryFailure(t *testing.T) {
	ks := []Kernel{
		{Name: "good", check: func(Options) error { return nil }},
		{Name: "wrong", check: func(Options) error { return errors.New("got 1, want 2") }},
		{Name: "panics", check: func(Options) error { panic("index out of range") }},
	}

	err := Gate(ks, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSelfTest)

	var gateErr *GateError
	require.ErrorAs(t, err, &gateErr)
	require.Len(t, gateErr.Failures, 2)
	assert.Equal(t, "wrong", gateErr.Failures[0].Kernel)
	assert.Equal(t, "panics", gateErr.Failures[1].Kernel)
	assert.Contains(t, err.Error(), "got 1, want 2")
	assert.Contains(t, err.Error(), "panic: index out of range")
}
