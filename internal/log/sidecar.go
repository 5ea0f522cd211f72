package log

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Sidecar appends timestamped progress lines to a plain-text file.
//
// All methods are safe to call on a disabled sidecar (nil file), which is
// what OpenSidecar returns when the file cannot be created. Write errors
// disable the sidecar for the rest of the run instead of propagating.
type Sidecar struct {
	mu sync.Mutex
	f  *os.File
}

// OpenSidecar opens (or creates) the trace file in append mode. On any
// error it logs a warning and returns a disabled sidecar; the run
// continues without tracing.
func OpenSidecar(path string, logger *slog.Logger) *Sidecar {
	if path == "" {
		return &Sidecar{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		logger.Warn("sidecar directory unavailable, tracing disabled",
			"path", path,
			"error", err,
		)
		return &Sidecar{}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) //nolint:gosec // User-provided trace path is intentional
	if err != nil {
		logger.Warn("sidecar unavailable, tracing disabled",
			"path", path,
			"error", err,
		)
		return &Sidecar{}
	}
	return &Sidecar{f: f}
}

// Record appends one formatted line. Failures silently disable further
// tracing; the sidecar must never interfere with the run.
func (s *Sidecar) Record(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return
	}
	line := fmt.Sprintf("%s %s\n",
		time.Now().Format(time.RFC3339),
		fmt.Sprintf(format, args...),
	)
	if _, err := s.f.WriteString(line); err != nil {
		_ = s.f.Close()
		s.f = nil
	}
}

// Close releases the underlying file. Safe on a disabled sidecar.
func (s *Sidecar) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f != nil {
		_ = s.f.Close()
		s.f = nil
	}
}
