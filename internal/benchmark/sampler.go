package benchmark

import (
	"errors"
	"fmt"
	"time"
)

// sink receives every kernel digest so the compiler must keep the calls.
var sink uint64

// Op is one timed kernel invocation.
type Op func() uint64

// Sampler drives an Op and records cumulative elapsed nanoseconds after each call.
type Sampler struct {
	Discipline Discipline
	// Iterations is the call count for FixedCount.
	Iterations int
	// Budget is the time budget for AdaptiveDuration.
	Budget time.Duration
	// Now defaults to time.Now, whose readings carry the monotonic clock.
	Now func() time.Time
}

// Collect runs op under the sampler's discipline and returns the cumulative samples.
//
// The adaptive loop keeps the call that first crosses the budget and never
// stops before two samples exist, so at least one delta can be derived.
func (s Sampler) Collect(op Op) ([]float64, error) {
	now := s.Now
	if now == nil {
		now = time.Now
	}

	switch s.Discipline {
	case FixedCount:
		if s.Iterations < 2 {
			return nil, fmt.Errorf("iterations must be at least 2, got %d", s.Iterations)
		}
		samples := make([]float64, s.Iterations)
		start := now()
		for i := range samples {
			sink ^= op()
			samples[i] = float64(now().Sub(start).Nanoseconds())
		}
		return samples, nil

	case AdaptiveDuration:
		if s.Budget <= 0 {
			return nil, fmt.Errorf("duration budget must be positive, got %v", s.Budget)
		}
		budget := float64(s.Budget.Nanoseconds())
		samples := make([]float64, 0, 1024)
		start := now()
		for {
			sink ^= op()
			elapsed := float64(now().Sub(start).Nanoseconds())
			samples = append(samples, elapsed)
			if elapsed > budget && len(samples) >= 2 {
				return samples, nil
			}
		}
	}
	return nil, errors.New("sampler has no discipline")
}
