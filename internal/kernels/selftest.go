package kernels

import (
	"bytes"
	"fmt"
	"math"
)

// SumTolerance bounds how far a softmax output may drift from summing to 1.
const SumTolerance = 1e-9

// CheckCRC16 verifies the CRC16 reference vector.
func CheckCRC16() error {
	const want = 0x6E90
	if got := CRC16([]byte("123456789")); got != want {
		return fmt.Errorf("crc16(%q) = %#04x, want %#04x", "123456789", got, want)
	}
	return nil
}

// CheckMatMul verifies a 2×2 product.
func CheckMatMul() error {
	a := []float64{1, 2, 3, 4}
	b := []float64{5, 6, 7, 8}
	want := []float64{19, 22, 43, 50}
	got := make([]float64, 4)
	MatMul(got, a, b, 2)
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("matmul 2x2 = %v, want %v", got, want)
		}
	}
	return nil
}

// CheckQuickSort verifies a reversed four-element input.
func CheckQuickSort() error {
	got := []byte{4, 3, 2, 1}
	want := []byte{1, 2, 3, 4}
	QuickSort(got)
	if !bytes.Equal(got, want) {
		return fmt.Errorf("quicksort = %v, want %v", got, want)
	}
	return nil
}

var (
	softmaxKnownIn  = []float64{1, 2, 3}
	softmaxKnownOut = []float64{0.09003057317038046, 0.24472847105479764, 0.6652409557748218}
	// crosses a lane boundary for every supported width
	softmaxProbe = []float64{
		-3.5, 0.25, 7, 1e-3, 2, 2, -100, 12.5, 0, 3.75,
		-0.5, 9, 4.25, -7, 1, 6, 0.5, 11, -2, 8.5, 3,
	}
)

// CheckSoftmax verifies a Normalizer against the known [1,2,3] vector and the
// distribution properties on a longer probe.
func CheckSoftmax(n Normalizer) error {
	got := make([]float64, len(softmaxKnownIn))
	n.Normalize(got, softmaxKnownIn)
	for i, want := range softmaxKnownOut {
		if math.Abs(got[i]-want) > SumTolerance {
			return fmt.Errorf("%s(%v) = %v, want %v", n.Name(), softmaxKnownIn, got, softmaxKnownOut)
		}
	}

	probe := make([]float64, len(softmaxProbe))
	n.Normalize(probe, softmaxProbe)
	return CheckDistribution(probe)
}

// CheckLanesMatchScalar compares a lane-wise Normalizer with Softmax on the probe input.
func CheckLanesMatchScalar(n Normalizer) error {
	want := make([]float64, len(softmaxProbe))
	Softmax(want, softmaxProbe)
	got := make([]float64, len(softmaxProbe))
	n.Normalize(got, softmaxProbe)
	for i := range want {
		if math.Abs(got[i]-want[i]) > SumTolerance {
			return fmt.Errorf("%s diverges from scalar at %d: %v vs %v", n.Name(), i, got[i], want[i])
		}
	}
	return nil
}

// CheckDistribution reports whether p is a probability distribution: every
// value in [0,1] and a total within SumTolerance of 1.
func CheckDistribution(p []float64) error {
	var sum float64
	for i, v := range p {
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("probability %d out of range: %v", i, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > SumTolerance {
		return fmt.Errorf("probabilities sum to %v", sum)
	}
	return nil
}
