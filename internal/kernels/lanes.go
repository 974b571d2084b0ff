package kernels

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// DetectLaneWidth reports how many float64 values fit one vector register
// on the running CPU.
func DetectLaneWidth() int {
	switch runtime.GOARCH {
	case "amd64", "386":
		switch {
		case cpu.X86.HasAVX512F:
			return 8
		case cpu.X86.HasAVX2:
			return 4
		case cpu.X86.HasSSE2:
			return 2
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			return 2
		}
	}
	return 1
}

// LaneFeatures names the instruction set behind DetectLaneWidth, for logs.
func LaneFeatures() string {
	switch {
	case cpu.X86.HasAVX512F:
		return "avx512f"
	case cpu.X86.HasAVX2:
		return "avx2"
	case cpu.X86.HasSSE2:
		return "sse2"
	case cpu.ARM64.HasASIMD:
		return "asimd"
	}
	return "generic"
}
