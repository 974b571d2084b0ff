package telemetry

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler shares one record log between its derived handlers.
type recordingHandler struct {
	log   *[]string
	attrs []slog.Attr
	group string
	level slog.Level
}

func newRecordingHandler(level slog.Level) *recordingHandler {
	return &recordingHandler{log: new([]string), level: level}
}

func (h *recordingHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	*h.log = append(*h.log, r.Message)
	return nil
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &recordingHandler{log: h.log, attrs: append(append([]slog.Attr{}, h.attrs...), attrs...), group: h.group, level: h.level}
}

func (h *recordingHandler) WithGroup(name string) slog.Handler {
	return &recordingHandler{log: h.log, attrs: h.attrs, group: name, level: h.level}
}

// captureStderr redirects os.Stderr while fn builds and uses a logger.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	old := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = old }()

	fn()
	require.NoError(t, w.Close())

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestNewLogger_Routing(t *testing.T) {
	tests := []struct {
		name       string
		debug      bool
		withFile   bool
		quiet      bool
		wantStderr bool
		wantFile   bool
		wantDebug  bool
	}{
		{name: "stderr only", wantStderr: true},
		{name: "stderr and file", withFile: true, wantStderr: true, wantFile: true},
		{name: "quiet with file", withFile: true, quiet: true, wantFile: true},
		{name: "quiet without file discards", quiet: true},
		{name: "debug reaches file", debug: true, withFile: true, quiet: true, wantFile: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logFile string
			if tt.withFile {
				logFile = filepath.Join(t.TempDir(), "kernbench.log")
			}

			stderr := captureStderr(t, func() {
				logger := NewLogger(tt.debug, logFile, tt.quiet)
				logger.Debug("sampling detail")
				logger.Info("run complete", "run_id", "r1")
			})

			if tt.wantStderr {
				assert.Contains(t, stderr, `"msg":"run complete"`)
				assert.Contains(t, stderr, `"run_id":"r1"`)
			} else {
				assert.Empty(t, stderr)
			}

			if !tt.withFile {
				return
			}
			content, err := os.ReadFile(logFile)
			require.NoError(t, err)
			if tt.wantFile {
				assert.Contains(t, string(content), "run complete")
			}
			if tt.wantDebug {
				assert.Contains(t, string(content), "sampling detail")
			} else {
				assert.NotContains(t, string(content), "sampling detail")
			}
		})
	}
}

func TestNewLogger_FileError(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))

	logger := NewLogger(false, filepath.Join(t.TempDir(), "missing", "kernbench.log"), true)
	require.NotNil(t, logger)
	assert.Contains(t, buf.String(), "Failed to open log file")
}

func TestInitLogger_SetsDefault(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	logFile := filepath.Join(t.TempDir(), "kernbench.log")
	captureStderr(t, func() {
		InitLogger(true, logFile)
		LogDebug("lanes detected", "width", 4)
		LogWarn("mean divided by input size")
		LogInfof("Run %s complete: %d records", "r1", 5)
	})

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"width":4`)
	assert.Contains(t, string(content), `"level":"WARN"`)
	assert.Contains(t, string(content), "Run r1 complete: 5 records")
}

func TestMultiHandler_FanOut(t *testing.T) {
	info := newRecordingHandler(slog.LevelInfo)
	debug := newRecordingHandler(slog.LevelDebug)
	logger := slog.New(&multiHandler{handlers: []slog.Handler{info, debug}}).
		With("run_id", "r1").
		WithGroup("kernel")

	logger.Debug("prepared")
	logger.Info("sampled")

	assert.Equal(t, []string{"sampled"}, *info.log)
	assert.Equal(t, []string{"prepared", "sampled"}, *debug.log)

	quietOnly := &multiHandler{handlers: []slog.Handler{newRecordingHandler(slog.LevelError)}}
	assert.False(t, quietOnly.Enabled(context.Background(), slog.LevelInfo))
	assert.NoError(t, quietOnly.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "gate failed", 0)))
}
