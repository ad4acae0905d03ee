package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"Velra/internal/domain/models"
	domrepo "Velra/internal/domain/repository"
	applogger "Velra/pkg/logger"
)

// TempSuffix names the intermediate file written before the rename.
const TempSuffix = ".tmp"

// FileSnapshotStore implements SnapshotStore on a single JSON file.
// Writes go to <path>.tmp and are renamed over <path>, so readers see
// either the old or the new document.
type FileSnapshotStore struct {
	path string
	l    *applogger.Logger
}

func NewFileSnapshotStore(path string) *FileSnapshotStore {
	return &FileSnapshotStore{path: path, l: applogger.Nop()}
}

// SetLogger injects a structured logger.
func (s *FileSnapshotStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *FileSnapshotStore) Path() string { return s.path }

func (s *FileSnapshotStore) Load(_ context.Context) (*models.Snapshot, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &models.PersistenceError{Op: "read", Path: s.path, Err: err}
	}

	var snap models.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		s.l.Warn("snapshot unparseable, treating as absent",
			applogger.String("path", s.path),
			applogger.Error(err),
		)
		return nil, nil
	}
	// null, {} and foreign layouts decode cleanly but are not snapshots.
	if snap.SchemaVersion != models.SchemaVersion {
		s.l.Warn("snapshot has unexpected schema version, treating as absent",
			applogger.String("path", s.path),
			applogger.Int("schema_version", snap.SchemaVersion),
		)
		return nil, nil
	}
	return &snap, nil
}

func (s *FileSnapshotStore) Write(_ context.Context, snap *models.Snapshot) error {
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return &models.PersistenceError{Op: "encode", Path: s.path, Err: err}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &models.PersistenceError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	tmp := s.path + TempSuffix
	if err := writeSynced(tmp, b); err != nil {
		_ = os.Remove(tmp)
		return &models.PersistenceError{Op: "write", Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return &models.PersistenceError{Op: "rename", Path: s.path, Err: err}
	}
	return nil
}

func writeSynced(path string, b []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (s *FileSnapshotStore) ModTime() (time.Time, bool, error) {
	fi, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, &models.PersistenceError{Op: "stat", Path: s.path, Err: err}
	}
	return fi.ModTime(), true, nil
}

var _ domrepo.SnapshotStore = (*FileSnapshotStore)(nil)
