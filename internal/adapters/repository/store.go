// Package repository defines the seen-event store interface and errors.
package repository

import (
	"context"

	model "github.com/easonliu714/ShowNews/internal/domain/model"
)

// Store provides read/write access to the durable seen-event state.
//
// The consistency contract: a URL is written only after its
// notification was confirmed delivered, and every write is persisted
// before MarkSeen returns, so a crash never leaves a URL "seen without
// having been sent".
type Store interface {
	// IsSeen reports whether url was already notified in any past pass.
	IsSeen(ctx context.Context, url string) bool

	// MarkSeen records url with its minimal record and persists
	// immediately (write-through, not batched).
	MarkSeen(ctx context.Context, url string, rec model.SeenRecord) error

	// Count returns the number of URLs tracked.
	Count(ctx context.Context) int
}
