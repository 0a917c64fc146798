package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	model "github.com/easonliu714/ShowNews/internal/domain/model"
	"github.com/easonliu714/ShowNews/pkg/logger"
)

const defaultStorePath = "data/seen_events.json"

// JSONStore keeps the seen-event map in memory and mirrors every write
// to a JSON file on disk. The file is the source of truth across
// restarts; it is read once at construction and rewritten in full on
// each MarkSeen.
type JSONStore struct {
	mu     sync.RWMutex
	path   string
	seen   map[string]model.SeenRecord
	logger logger.Logger
}

// NewJSONStore opens (or initializes) the store at the configured path.
// A missing file yields an empty store; a corrupt file is logged and
// treated as empty rather than aborting startup.
func NewJSONStore(opts ...Option) *JSONStore {
	s := &JSONStore{
		path: defaultStorePath,
		seen: make(map[string]model.SeenRecord),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

func (s *JSONStore) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logf("seen store unreadable, starting empty", err)
		}
		return
	}
	var m map[string]model.SeenRecord
	if err := json.Unmarshal(raw, &m); err != nil {
		s.logf("seen store corrupt, starting empty", err)
		return
	}
	s.seen = m
}

// IsSeen reports whether url has already been notified.
func (s *JSONStore) IsSeen(_ context.Context, url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[url]
	return ok
}

// MarkSeen records url and persists the whole map before returning.
// Callers must invoke this only after the notification for url was
// confirmed delivered.
func (s *JSONStore) MarkSeen(_ context.Context, url string, rec model.SeenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[url] = rec
	if err := s.persist(); err != nil {
		delete(s.seen, url)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// Count returns the number of URLs tracked.
func (s *JSONStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}

// persist writes the map atomically via a temp file rename. Caller
// holds the write lock.
func (s *JSONStore) persist() error {
	raw, err := json.MarshalIndent(s.seen, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *JSONStore) logf(msg string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(context.Background(), msg,
		logger.String("path", s.path),
		logger.Error(err))
}
