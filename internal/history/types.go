// Package history keeps an index of every benchmark record ever written, so
// runs can be listed and compared without walking the output tree.
package history

import (
	"context"
	"time"

	"kernbench/internal/benchmark"
)

// Entry summarises one persisted ResultRecord.
type Entry struct {
	ID         int64     `json:"id"`
	RunID      string    `json:"run_id"`
	Kernel     string    `json:"kernel"`
	Tag        string    `json:"tag"`
	Size       int       `json:"size"`
	Discipline string    `json:"discipline"`
	MeanNs     float64   `json:"mean_ns"`
	Samples    int       `json:"samples"`
	Path       string    `json:"path"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store defines the methods for persistent history storage.
type Store interface {
	Close() error
	Append(ctx context.Context, entries []Entry) error
	// Query returns the newest entries first; an empty kernel matches all.
	Query(ctx context.Context, kernel string, limit int) ([]Entry, error)
}

// FromResults converts finished results into entries.
func FromResults(results []benchmark.Result) []Entry {
	entries := make([]Entry, len(results))
	for i, r := range results {
		created := r.Finished
		if created.IsZero() {
			created = time.Now()
		}
		entries[i] = Entry{
			RunID:      r.RunID,
			Kernel:     r.Kernel,
			Tag:        r.Tag,
			Size:       r.Size,
			Discipline: string(r.Discipline),
			MeanNs:     r.Record.Mean,
			Samples:    len(r.Record.Times),
			Path:       r.Path,
			CreatedAt:  created.UTC(),
		}
	}
	return entries
}

// Recorder adapts a Store to benchmark.HistorySink.
type Recorder struct {
	Store Store
}

func (r Recorder) Record(ctx context.Context, results []benchmark.Result) error {
	return r.Store.Append(ctx, FromResults(results))
}
