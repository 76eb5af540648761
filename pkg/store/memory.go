package store

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/cartpile/pkg/config"
	"github.com/matzehuels/cartpile/pkg/errors"
	"github.com/matzehuels/cartpile/pkg/observability"
)

// MemoryStore keeps encoded snapshots in a map. Returned snapshots never
// alias stored ones.
type MemoryStore struct {
	mu   sync.RWMutex
	ttl  time.Duration
	data map[string][]byte
}

// NewMemoryStore returns an empty store. A zero ttl keeps snapshots forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	start := time.Now()
	if err := errors.ValidateCartID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, ok := s.data[id]
	s.mu.RUnlock()

	var snap *Snapshot
	if ok {
		var err error
		if snap, err = decode(data); err != nil {
			return nil, err
		}
		if snap.Expired() {
			s.mu.Lock()
			delete(s.data, id)
			s.mu.Unlock()
			ok = false
		}
	}
	observability.Store().OnLoad(ctx, config.BackendMemory, ok, time.Since(start))
	if !ok {
		return nil, notFound(id)
	}
	return snap, nil
}

func (s *MemoryStore) Set(ctx context.Context, snap *Snapshot) error {
	start := time.Now()
	if err := errors.ValidateCartID(snap.ID); err != nil {
		return err
	}
	snap.stamp(s.ttl)
	data, err := encode(snap)
	if err == nil {
		s.mu.Lock()
		s.data[snap.ID] = data
		s.mu.Unlock()
	}
	observability.Store().OnSave(ctx, config.BackendMemory, len(data), time.Since(start), err)
	return err
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := slices.Sorted(maps.Keys(s.data))
	return slices.DeleteFunc(ids, func(id string) bool {
		snap, err := decode(s.data[id])
		return err != nil || snap.Expired()
	}), nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
