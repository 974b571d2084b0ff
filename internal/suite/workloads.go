package suite

import (
	"math"

	"kernbench/internal/benchmark"
	"kernbench/internal/kernels"
)

// base carries what every workload shares.
type base struct {
	name       string
	size       int
	discipline benchmark.Discipline
	primes     bool
}

func (b base) Name() string                     { return b.name }
func (b base) Size() int                        { return b.size }
func (b base) Discipline() benchmark.Discipline { return b.discipline }
func (b base) Primes() bool                     { return b.primes }

type crc16Workload struct {
	base
	data []byte
}

func (w *crc16Workload) Prepare(src benchmark.InputSource) error {
	data, err := src.Bytes(w.size)
	if err != nil {
		return err
	}
	w.data = data
	return nil
}

func (w *crc16Workload) Iterate() uint64 {
	return uint64(kernels.CRC16(w.data))
}

// matmulWorkload multiplies two size×size matrices; size is the side length.
type matmulWorkload struct {
	base
	a, b, dst []float64
}

func (w *matmulWorkload) Prepare(src benchmark.InputSource) error {
	n := w.size * w.size
	a, err := src.Float64s(n)
	if err != nil {
		return err
	}
	b, err := src.Float64s(n)
	if err != nil {
		return err
	}
	w.a, w.b, w.dst = a, b, make([]float64, n)
	return nil
}

// Iterate zeroes the product buffer inside the timed region, as the
// accumulation is additive.
func (w *matmulWorkload) Iterate() uint64 {
	clear(w.dst)
	kernels.MatMul(w.dst, w.a, w.b, w.size)
	return math.Float64bits(w.dst[len(w.dst)-1])
}

// quicksortWorkload sorts a fresh copy of the input every iteration so no
// iteration sees already sorted data.
type quicksortWorkload struct {
	base
	src, work []byte
}

func (w *quicksortWorkload) Prepare(src benchmark.InputSource) error {
	data, err := src.Bytes(w.size)
	if err != nil {
		return err
	}
	w.src, w.work = data, make([]byte, len(data))
	return nil
}

func (w *quicksortWorkload) Iterate() uint64 {
	copy(w.work, w.src)
	kernels.QuickSort(w.work)
	return uint64(w.work[len(w.work)/2])
}

type softmaxWorkload struct {
	base
	norm   kernels.Normalizer
	x, dst []float64
}

func (w *softmaxWorkload) Prepare(src benchmark.InputSource) error {
	x, err := src.Float64s(w.size)
	if err != nil {
		return err
	}
	w.x, w.dst = x, make([]float64, len(x))
	return nil
}

func (w *softmaxWorkload) Iterate() uint64 {
	w.norm.Normalize(w.dst, w.x)
	return math.Float64bits(w.dst[len(w.dst)-1])
}
