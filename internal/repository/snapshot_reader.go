package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	pkgcache "Velra/pkg/cache"
)

// SnapshotFile is the raw persisted document as served to clients.
type SnapshotFile struct {
	Body    []byte
	ModTime time.Time
}

// SnapshotReader serves the snapshot file's bytes, caching them by
// modification time and size so a replaced file is always re-read.
type SnapshotReader struct {
	path  string
	cache pkgcache.Service
	ttl   time.Duration
}

func NewSnapshotReader(path string, cache pkgcache.Service) *SnapshotReader {
	return &SnapshotReader{path: path, cache: cache, ttl: 10 * time.Minute}
}

func (r *SnapshotReader) Path() string { return r.path }

// Stat returns the file's modification time; os.ErrNotExist when absent.
func (r *SnapshotReader) Stat() (time.Time, int64, error) {
	fi, err := os.Stat(r.path)
	if err != nil {
		return time.Time{}, 0, err
	}
	if fi.IsDir() {
		return time.Time{}, 0, fmt.Errorf("%s is a directory: %w", r.path, os.ErrNotExist)
	}
	return fi.ModTime(), fi.Size(), nil
}

// Read returns the current document. The error wraps os.ErrNotExist when
// no snapshot has been written yet.
func (r *SnapshotReader) Read(ctx context.Context) (*SnapshotFile, error) {
	mtime, size, err := r.Stat()
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("snapshot:%d:%d", mtime.UnixNano(), size)
	if r.cache != nil {
		var body []byte
		if err := r.cache.Get(ctx, key, &body); err == nil {
			return &SnapshotFile{Body: body, ModTime: mtime}, nil
		}
	}

	body, err := os.ReadFile(r.path)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		_ = r.cache.Set(ctx, key, body, r.ttl)
	}
	return &SnapshotFile{Body: body, ModTime: mtime}, nil
}
