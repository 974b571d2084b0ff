// Package entropy draws benchmark inputs from an operating-system entropy source.
package entropy

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"syscall"
)

// DefaultDevice is the non-blocking entropy device read by the device source.
const DefaultDevice = "/dev/urandom"

// SourceGetrandom selects the getrandom(2) system call instead of a device file.
const SourceGetrandom = "getrandom"

// ErrShortRead is returned when the source delivers fewer bytes than requested.
var ErrShortRead = errors.New("entropy source returned a short read")

// Source is a readable stream of uniformly random bytes.
type Source interface {
	io.Reader
	Close() error
}

// Generator fills input buffers from a Source.
type Generator struct {
	src Source
}

// NewGenerator wraps an already opened Source.
func NewGenerator(src Source) *Generator {
	return &Generator{src: src}
}

// Open resolves a source name ("getrandom" or a device path) and returns a Generator over it.
// An empty name selects DefaultDevice.
func Open(name string) (*Generator, error) {
	src, err := openSource(name)
	if err != nil {
		return nil, err
	}
	return NewGenerator(src), nil
}

func openSource(name string) (Source, error) {
	switch name {
	case SourceGetrandom:
		return newGetrandomSource()
	case "":
		name = DefaultDevice
	}
	return OpenDevice(name)
}

// OpenDevice opens an entropy device file for non-blocking reads.
func OpenDevice(path string) (Source, error) {
	f, err := os.OpenFile(path, os.O_RDONLY|syscall.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open entropy device %s: %w", path, err)
	}
	return f, nil
}

// Close releases the underlying source.
func (g *Generator) Close() error {
	return g.src.Close()
}

// Bytes returns n uniformly random bytes. The same buffer serves kernels that
// want integers in [0,255].
func (g *Generator) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid buffer size %d", n)
	}
	buf := make([]byte, n)
	if err := g.fill(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Float64s returns n float64 values whose bit patterns come straight from the
// source: every little-endian 8-byte group is reinterpreted, not scaled, so
// NaN and infinities can appear.
func (g *Generator) Float64s(n int) ([]float64, error) {
	raw, err := g.Bytes(n * 8)
	if err != nil {
		return nil, err
	}
	return DecodeFloat64s(raw), nil
}

// DecodeFloat64s reinterprets raw as little-endian float64 bit patterns.
// Trailing bytes that do not fill a whole group are ignored.
func DecodeFloat64s(raw []byte) []float64 {
	out := make([]float64, len(raw)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return out
}

func (g *Generator) fill(buf []byte) error {
	n, err := io.ReadFull(g.src, buf)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, n, len(buf))
		}
		return fmt.Errorf("failed to read entropy: %w", err)
	}
	return nil
}
