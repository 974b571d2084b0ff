package benchmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store persists the records of a run.
type Store interface {
	// SaveAll writes every result's record and fills in Result.Path. Either
	// all files land or none remain.
	SaveAll(results []Result) error
	// Discard removes files written by an earlier SaveAll.
	Discard(results []Result) error
	// LoadRun reads every record file in a run directory.
	LoadRun(runID string) ([]StoredRecord, error)
	RunDir(runID string) string
}

// StoredRecord is a record file read back from disk.
type StoredRecord struct {
	Path   string
	Tag    string
	Record ResultRecord
}

// Key identifies the measurement a record holds, independent of implementation.
func (s StoredRecord) Key() string {
	if s.Record.BenchSize > 0 {
		return fmt.Sprintf("%s/%d", s.Record.File, s.Record.BenchSize)
	}
	return s.Record.File
}

// FileStore keeps one JSON file per record under <root>/<run_id>/.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if root == "" {
		return nil, errors.New("output directory is empty")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", root, err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) RunDir(runID string) string {
	return filepath.Join(s.root, runID)
}

func (s *FileStore) SaveAll(results []Result) error {
	var written []Result
	for i := range results {
		r := &results[i]
		path, err := s.write(*r)
		if err != nil {
			if derr := s.Discard(written); derr != nil {
				return errors.Join(err, derr)
			}
			return err
		}
		r.Path = path
		written = append(written, *r)
	}
	return nil
}

func (s *FileStore) write(r Result) (string, error) {
	if err := validRunID(r.RunID); err != nil {
		return "", err
	}
	dir := s.RunDir(r.RunID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(r.Record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s record: %w", r.Kernel, err)
	}

	path := filepath.Join(dir, FileName(r.Kernel, r.Size, r.Tag, r.Discipline))
	tmp, err := os.CreateTemp(dir, ".record-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func (s *FileStore) Discard(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Path == "" {
			continue
		}
		if err := os.Remove(r.Path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *FileStore) LoadRun(runID string) ([]StoredRecord, error) {
	if err := validRunID(runID); err != nil {
		return nil, err
	}
	dir := s.RunDir(runID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read run %s: %w", runID, err)
	}

	var records []StoredRecord
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var rec ResultRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}
		records = append(records, StoredRecord{
			Path:   path,
			Tag:    TagFromFileName(name),
			Record: rec,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})
	return records, nil
}

// TagFromFileName extracts the implementation tag, the last underscore
// separated field before ".json".
func TagFromFileName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), ".json")
	if i := strings.LastIndex(base, "_"); i >= 0 {
		return base[i+1:]
	}
	return ""
}

func validRunID(runID string) error {
	if runID == "" {
		return errors.New("run id is empty")
	}
	if runID == "." || runID == ".." || strings.ContainsAny(runID, `/\`) {
		return fmt.Errorf("invalid run id %q", runID)
	}
	return nil
}
