package suite

import (
	"errors"
	"fmt"
	"strings"

	"kernbench/internal/telemetry"
)

// ErrSelfTest marks a correctness gate failure.
var ErrSelfTest = errors.New("kernel self-test failed")

// Failure is one kernel that did not reproduce its known answer.
type Failure struct {
	Kernel string
	Err    error
}

// GateError lists every failing kernel.
type GateError struct {
	Failures []Failure
}

func (e *GateError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s: %v", f.Kernel, f.Err)
	}
	return fmt.Sprintf("%v:\n  %s", ErrSelfTest, strings.Join(parts, "\n  "))
}

func (e *GateError) Unwrap() error {
	return ErrSelfTest
}

// Gate runs the self-test of every kernel. All kernels are checked so one
// report names every regression; any failure returns a *GateError.
func Gate(ks []Kernel, opts Options) error {
	var failures []Failure
	for _, k := range ks {
		if err := runCheck(k, opts); err != nil {
			telemetry.LogError("Self-test failed", err, "kernel", k.Name)
			failures = append(failures, Failure{Kernel: k.Name, Err: err})
			continue
		}
		telemetry.LogDebug("Self-test passed", "kernel", k.Name)
	}
	if len(failures) > 0 {
		return &GateError{Failures: failures}
	}
	return nil
}

// runCheck turns a panicking self-test into an ordinary failure.
func runCheck(k Kernel, opts Options) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return k.Check(opts)
}
