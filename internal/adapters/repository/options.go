package repository

import "github.com/easonliu714/ShowNews/pkg/logger"

// Option applies a configuration option to the JSONStore.
type Option func(*JSONStore)

// WithPath sets the backing file path.
func WithPath(path string) Option {
	return func(s *JSONStore) {
		if path != "" {
			s.path = path
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *JSONStore) {
		if l != nil {
			s.logger = l
		}
	}
}
