package repository

import (
	"context"
	"time"

	"Velra/internal/domain/models"
)

// SnapshotStore persists the single snapshot document.
type SnapshotStore interface {
	// Load returns nil, nil when the document is missing or unparseable.
	Load(ctx context.Context) (*models.Snapshot, error)
	// Write replaces the document atomically.
	Write(ctx context.Context, s *models.Snapshot) error
	// ModTime reports the document's modification time; ok is false when absent.
	ModTime() (mtime time.Time, ok bool, err error)
	Path() string
}

// Generator produces a fresh market snapshot payload.
type Generator interface {
	Generate(ctx context.Context) (*models.Generation, error)
}

// Publisher announces snapshot refreshes to downstream consumers.
type Publisher interface {
	PublishRefresh(ctx context.Context, ev models.RefreshEvent) error
	Close() error
}

// Locker guards a refresh cycle against concurrent writers.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

type Metrics interface {
	RecordRefresh(result string, seconds float64)
	RecordError(kind string)
	RecordLivewireSize(n int)
	RecordLastSuccess(t time.Time)
}
