package kernels

import "math"

// MaxLanes is the widest lane count SoftmaxLanes accepts.
const MaxLanes = 16

// Normalizer turns a score vector into a probability distribution.
// Implementations must be interchangeable: the same input gives the same
// output up to floating-point rounding.
type Normalizer interface {
	Name() string
	Normalize(dst, x []float64)
}

// ScalarSoftmax is the element-at-a-time Normalizer.
type ScalarSoftmax struct{}

func (ScalarSoftmax) Name() string { return "softmax_native" }

func (ScalarSoftmax) Normalize(dst, x []float64) { Softmax(dst, x) }

// LaneSoftmax processes Width elements per step.
type LaneSoftmax struct {
	Width int
}

// NewLaneSoftmax returns a LaneSoftmax; width <= 0 selects DetectLaneWidth.
func NewLaneSoftmax(width int) LaneSoftmax {
	if width <= 0 {
		width = DetectLaneWidth()
	}
	return LaneSoftmax{Width: clampLanes(width)}
}

func (LaneSoftmax) Name() string { return "softmax_simd" }

func (s LaneSoftmax) Normalize(dst, x []float64) { SoftmaxLanes(dst, x, s.Width) }

// Softmax writes exp(x[i]-max) / sum into dst. The max shift keeps exp from
// overflowing on large inputs. len(dst) must be at least len(x).
func Softmax(dst, x []float64) {
	if len(x) == 0 {
		return
	}
	dst = dst[:len(x)]

	m := x[0]
	for _, v := range x[1:] {
		if v > m {
			m = v
		}
	}

	var sum float64
	for i, v := range x {
		e := math.Exp(v - m)
		dst[i] = e
		sum += e
	}

	for i := range dst {
		dst[i] /= sum
	}
}

// SoftmaxLanes computes the same distribution as Softmax in fixed-width
// lanes: per-lane maxima reduced to a global max, per-lane exponentials and
// partial sums reduced to a total, then a broadcast divide. Elements past the
// last full lane group are handled one at a time.
func SoftmaxLanes(dst, x []float64, width int) {
	n := len(x)
	if n == 0 {
		return
	}
	width = clampLanes(width)
	dst = dst[:n]
	body := n - n%width

	var lane [MaxLanes]float64

	// max-reduce
	m := x[0]
	if body > 0 {
		copy(lane[:width], x[:width])
		for i := width; i < body; i += width {
			blk := x[i : i+width]
			for l, v := range blk {
				if v > lane[l] {
					lane[l] = v
				}
			}
		}
		m = lane[0]
		for _, v := range lane[1:width] {
			if v > m {
				m = v
			}
		}
	}
	for _, v := range x[body:] {
		if v > m {
			m = v
		}
	}

	// exp and per-lane partial sums
	lane = [MaxLanes]float64{}
	for i := 0; i < body; i += width {
		src := x[i : i+width]
		out := dst[i : i+width]
		for l, v := range src {
			e := math.Exp(v - m)
			out[l] = e
			lane[l] += e
		}
	}
	var sum float64
	for _, v := range lane[:width] {
		sum += v
	}
	for i := body; i < n; i++ {
		e := math.Exp(x[i] - m)
		dst[i] = e
		sum += e
	}

	// broadcast divide
	for i := range lane[:width] {
		lane[i] = sum
	}
	for i := 0; i < body; i += width {
		out := dst[i : i+width]
		for l := range out {
			out[l] /= lane[l]
		}
	}
	for i := body; i < n; i++ {
		dst[i] /= sum
	}
}

func clampLanes(width int) int {
	switch {
	case width < 1:
		return 1
	case width > MaxLanes:
		return MaxLanes
	}
	return width
}
