// Package kernels holds the compute routines measured by the benchmark suite.
//
// Every kernel is a pure, deterministic function over caller-owned buffers:
//   - CRC16: reflected CRC-16 (poly 0x8408, X-25 style finalisation)
//   - MatMul: triple-loop square matrix product, row-major
//   - QuickSort: Lomuto partition sort driven by an explicit stack
//   - Softmax / SoftmaxLanes: max-shifted softmax, scalar and lane-wise
//
// Kernels never allocate on the hot path; buffers are sized by the caller.
package kernels
