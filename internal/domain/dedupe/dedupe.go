// Package dedupe tracks URLs already accepted within a crawl pass.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records URLs so each event is accepted once per pass.
// First occurrence wins. The same URL surfacing under a second
// platform's listing is reported as seen.
type Deduper interface {
	// SeenAndRecord atomically checks if url was seen and records it if not.
	// Returns true if url was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, url string) bool

	Size() int
}

// urlSet implements Deduper with a plain map. A pass is bounded by the
// number of anchors on a handful of listing pages, so no eviction is
// needed; the set dies with the pass.
type urlSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// Option applies a configuration option to the deduper.
type Option func(*urlSet)

// WithCapacityHint pre-sizes the underlying set.
func WithCapacityHint(n int) Option {
	return func(s *urlSet) {
		if n > 0 {
			s.seen = make(map[string]struct{}, n)
		}
	}
}

// New creates a pass-scoped URL deduper.
func New(opts ...Option) Deduper {
	s := &urlSet{seen: make(map[string]struct{})}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *urlSet) SeenAndRecord(_ context.Context, url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[url]; ok {
		return true
	}
	s.seen[url] = struct{}{}
	return false
}

func (s *urlSet) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
