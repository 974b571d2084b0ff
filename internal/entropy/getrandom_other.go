//go:build !linux

package entropy

// Without getrandom(2) the syscall source falls back to the device file.
func newGetrandomSource() (Source, error) {
	return OpenDevice(DefaultDevice)
}
