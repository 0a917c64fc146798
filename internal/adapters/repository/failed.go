package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const defaultFailedPath = "data/failed_messages.json"

// FailedEntry records one permanently failed notification.
type FailedEntry struct {
	Title    string    `json:"title"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}

// FailedLog appends permanent send failures to a JSON file keyed by
// URL so operators can inspect or replay them later. Best effort: a
// write error is returned but never blocks the pass.
type FailedLog struct {
	mu   sync.Mutex
	path string
}

// FailedOption applies a configuration option to the FailedLog.
type FailedOption func(*FailedLog)

// WithFailedPath sets the backing file path.
func WithFailedPath(path string) FailedOption {
	return func(l *FailedLog) {
		if path != "" {
			l.path = path
		}
	}
}

// NewFailedLog creates a failed-send log at the configured path.
func NewFailedLog(opts ...FailedOption) *FailedLog {
	l := &FailedLog{path: defaultFailedPath}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record stores the failure for url, overwriting any earlier entry.
func (l *FailedLog) Record(_ context.Context, url, title, reason string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make(map[string]FailedEntry)
	if raw, err := os.ReadFile(l.path); err == nil {
		_ = json.Unmarshal(raw, &entries)
	}
	entries[url] = FailedEntry{Title: title, Reason: reason, FailedAt: time.Now().UTC()}

	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(l.path, raw, 0o644)
}
