package kernels

// MatMul accumulates the product of two n×n row-major matrices into dst:
// dst[i*n+j] += a[i*n+k] * b[k*n+j], loops ordered i, j, k.
//
// dst is not cleared; callers zero it before each product.
func MatMul(dst, a, b []float64, n int) {
	size := n * n
	// Reslice once so the compiler can drop bounds checks in the inner loop.
	a, b, dst = a[:size], b[:size], dst[:size]
	for i := 0; i < n; i++ {
		row := a[i*n : i*n+n]
		for j := 0; j < n; j++ {
			acc := dst[i*n+j]
			for k := 0; k < n; k++ {
				acc += row[k] * b[k*n+j]
			}
			dst[i*n+j] = acc
		}
	}
}
