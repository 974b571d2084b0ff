package benchmark

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kernbench/internal/telemetry"
)

// Runner executes one benchmark run: gate, input generation, sampling,
// serialization. Every step is fail-fast; a failed run leaves no records.
type Runner interface {
	Run(ctx context.Context, runID string, workloads []Workload) ([]Result, error)
}

// HistorySink indexes the results of a finished run.
type HistorySink interface {
	Record(ctx context.Context, results []Result) error
}

// Config holds the sampling parameters shared by every workload in a run.
type Config struct {
	Iterations  int
	Budget      time.Duration
	Tag         string
	MeanDivisor MeanDivisor
	// MetricsFile is written inside the run directory when non-empty.
	MetricsFile string
}

// PipelineRunner is the Runner used by the CLI.
type PipelineRunner struct {
	cfg   Config
	store Store

	// Gate must succeed before any input is drawn.
	Gate func() error
	// OpenInputs opens the entropy source once per run.
	OpenInputs func() (InputSource, error)
	// History is optional.
	History HistorySink
	// Now overrides the sampling clock in tests.
	Now func() time.Time
}

func NewPipelineRunner(cfg Config, store Store, gate func() error, open func() (InputSource, error)) *PipelineRunner {
	return &PipelineRunner{
		cfg:        cfg,
		store:      store,
		Gate:       gate,
		OpenInputs: open,
	}
}

func (r *PipelineRunner) Run(ctx context.Context, runID string, workloads []Workload) ([]Result, error) {
	if err := validRunID(runID); err != nil {
		return nil, err
	}
	if len(workloads) == 0 {
		return nil, errors.New("no workloads selected")
	}

	if r.Gate != nil {
		if err := r.Gate(); err != nil {
			return nil, fmt.Errorf("correctness gate failed: %w", err)
		}
	}

	if r.cfg.MeanDivisor == DivideByInputSize {
		telemetry.LogWarn("Mean divided by input size; values are not per-iteration means", "run_id", runID)
	}

	if err := r.prepare(workloads); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(workloads))
	for _, w := range workloads {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run %s interrupted before %s: %w", runID, w.Name(), err)
		}
		res, err := r.sample(runID, w)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	if err := r.store.SaveAll(results); err != nil {
		return nil, fmt.Errorf("failed to save results: %w", err)
	}

	if err := r.finish(ctx, runID, results); err != nil {
		if derr := r.store.Discard(results); derr != nil {
			telemetry.LogError("Failed to discard records", derr, "run_id", runID)
		}
		return nil, err
	}
	return results, nil
}

func (r *PipelineRunner) prepare(workloads []Workload) error {
	if r.OpenInputs == nil {
		return errors.New("no input source configured")
	}
	src, err := r.OpenInputs()
	if err != nil {
		return err
	}
	defer src.Close()

	for _, w := range workloads {
		if err := w.Prepare(src); err != nil {
			return fmt.Errorf("failed to generate %s input: %w", w.Name(), err)
		}
		telemetry.LogDebug("Input generated", "kernel", w.Name(), "size", w.Size())
	}
	return nil
}

func (r *PipelineRunner) sample(runID string, w Workload) (Result, error) {
	s := Sampler{
		Discipline: w.Discipline(),
		Iterations: r.cfg.Iterations,
		Budget:     r.cfg.Budget,
		Now:        r.Now,
	}

	telemetry.LogInfo("Sampling", "kernel", w.Name(), "size", w.Size(), "discipline", string(s.Discipline))
	if w.Primes() {
		sink ^= w.Iterate()
	}
	samples, err := s.Collect(w.Iterate)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", w.Name(), err)
	}

	rec, err := NewRecord(w.Name(), w.Size(), s.Discipline, samples, r.cfg.MeanDivisor)
	if err != nil {
		return Result{}, err
	}

	return Result{
		RunID:      runID,
		Kernel:     w.Name(),
		Size:       w.Size(),
		Discipline: s.Discipline,
		Tag:        r.cfg.Tag,
		Iterations: len(samples),
		Record:     rec,
		Finished:   time.Now(),
	}, nil
}

// finish writes run metrics and the history index once every record exists.
func (r *PipelineRunner) finish(ctx context.Context, runID string, results []Result) error {
	var metricsPath string
	if r.cfg.MetricsFile != "" {
		m := telemetry.NewRunMetrics(runID, r.cfg.Tag)
		for _, res := range results {
			m.ObserveRecord(res.Kernel, res.Size, string(res.Discipline), res.Record.Times, res.Record.Mean)
		}
		metricsPath = filepath.Join(r.store.RunDir(runID), r.cfg.MetricsFile)
		if err := m.WriteTextfile(metricsPath); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if r.History != nil {
		if err := r.History.Record(ctx, results); err != nil {
			if metricsPath != "" {
				os.Remove(metricsPath)
			}
			return fmt.Errorf("failed to record history: %w", err)
		}
	}
	return nil
}
