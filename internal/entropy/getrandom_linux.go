//go:build linux

package entropy

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// getrandomSource reads from the kernel CSPRNG without a file descriptor.
type getrandomSource struct{}

func newGetrandomSource() (Source, error) {
	return getrandomSource{}, nil
}

func (getrandomSource) Read(p []byte) (int, error) {
	read := 0
	for read < len(p) {
		n, err := unix.Getrandom(p[read:], unix.GRND_NONBLOCK)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return read, fmt.Errorf("getrandom: %w", err)
		}
		read += n
	}
	return read, nil
}

func (getrandomSource) Close() error { return nil }
