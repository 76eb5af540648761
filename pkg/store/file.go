package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/cartpile/pkg/config"
	"github.com/matzehuels/cartpile/pkg/errors"
	"github.com/matzehuels/cartpile/pkg/observability"
)

// FileStore keeps one JSON file per cart in a directory.
type FileStore struct {
	mu  sync.RWMutex
	dir string
	ttl time.Duration
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string, ttl time.Duration) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "file store needs a directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir, ttl: ttl}, nil
}

// Dir returns the directory holding the snapshot files.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	start := time.Now()
	if err := errors.ValidateCartID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	snap, err := s.read(id)
	s.mu.RUnlock()

	if err == nil && snap.Expired() {
		_ = s.Delete(ctx, id)
		snap, err = nil, notFound(id)
	}
	observability.Store().OnLoad(ctx, config.BackendFile, err == nil, time.Since(start))
	return snap, err
}

func (s *FileStore) read(id string) (*Snapshot, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read snapshot %s", id)
	}
	return decode(data)
}

// Set writes the snapshot to a temporary file and renames it into place so
// readers never see a partial file.
func (s *FileStore) Set(ctx context.Context, snap *Snapshot) error {
	start := time.Now()
	if err := errors.ValidateCartID(snap.ID); err != nil {
		return err
	}
	snap.stamp(s.ttl)
	data, err := encode(snap)
	if err == nil {
		s.mu.Lock()
		err = s.write(snap.ID, data)
		s.mu.Unlock()
	}
	observability.Store().OnSave(ctx, config.BackendFile, len(data), time.Since(start), err)
	return err
}

func (s *FileStore) write(id string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, id+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write snapshot %s", id)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeStore, err, "write snapshot %s", id)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write snapshot %s", id)
	}
	if err := os.Rename(tmp.Name(), s.path(id)); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write snapshot %s", id)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateCartID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStore, err, "remove snapshot %s", id)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read store dir")
	}
	var ids []string
	for _, e := range entries {
		id, ok := strings.CutSuffix(e.Name(), ".json")
		if e.IsDir() || !ok || errors.ValidateCartID(id) != nil {
			continue
		}
		snap, err := s.read(id)
		if err != nil || snap.Expired() {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Cleanup removes expired and unreadable snapshot files.
func (s *FileStore) Cleanup(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStore, err, "read store dir")
	}
	removed := 0
	for _, e := range entries {
		id, ok := strings.CutSuffix(e.Name(), ".json")
		if e.IsDir() || !ok {
			continue
		}
		snap, err := s.read(id)
		if err == nil && !snap.Expired() {
			continue
		}
		if os.Remove(s.path(id)) == nil {
			removed++
		}
	}
	return removed, nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
