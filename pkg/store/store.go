// Package store persists cart snapshots.
//
// A [Snapshot] captures everything needed to rebuild a cart: its
// configuration, pile cursor, dropped items and survival meter. Stores are
// keyed by cart ID and safe for concurrent use. Implementations:
//   - [MemoryStore]: in-process map, for tests and single-instance servers
//   - [FileStore]: one JSON file per cart, for the CLI
//   - [RedisStore]: Redis keys with native expiry
//   - [MongoStore]: one document per cart with a TTL index
//
// # Usage
//
//	st, err := store.Open(ctx, cfg.Store)
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	snap := store.NewSnapshot(c, meter)
//	if err := st.Set(ctx, snap); err != nil {
//	    return err
//	}
//
//	snap, err = st.Get(ctx, id)
//	if stderrors.Is(err, store.ErrNotFound) {
//	    // unknown or expired cart
//	}
package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/matzehuels/cartpile/pkg/cart"
	"github.com/matzehuels/cartpile/pkg/errors"
	"github.com/matzehuels/cartpile/pkg/pile"
	"github.com/matzehuels/cartpile/pkg/survival"
)

// ErrNotFound is returned when no live snapshot exists for an ID.
var ErrNotFound = stderrors.New("snapshot not found")

// Store persists snapshots by cart ID.
type Store interface {
	// Get returns the snapshot for id or an error wrapping ErrNotFound.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// Set creates or replaces the snapshot. It stamps UpdatedAt, and
	// ExpiresAt when the store has a TTL.
	Set(ctx context.Context, snap *Snapshot) error

	// Delete removes the snapshot. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all live snapshots, sorted.
	List(ctx context.Context) ([]string, error)

	// Close releases connections held by the store.
	Close() error
}

// Snapshot is the persisted state of one cart.
type Snapshot struct {
	ID        string           `json:"id" bson:"_id"`
	Config    cart.Config      `json:"config" bson:"config"`
	Meter     survival.Config  `json:"meter" bson:"meter"`
	HP        int              `json:"hp" bson:"hp"`
	Cursor    pile.CursorState `json:"cursor" bson:"cursor"`
	Entries   []cart.Entry     `json:"entries" bson:"entries"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time        `json:"expires_at,omitzero" bson:"expires_at,omitempty"`
}

// NewSnapshot captures the state of c and m. m may be nil, in which case the
// default meter is recorded at full HP.
func NewSnapshot(c *cart.Cart, m *survival.Meter) *Snapshot {
	meterCfg := survival.DefaultConfig()
	hp := meterCfg.Max
	if m != nil {
		meterCfg = m.Config()
		hp = m.HP()
	}
	return &Snapshot{
		ID:      c.ID(),
		Config:  c.Config(),
		Meter:   meterCfg,
		HP:      hp,
		Cursor:  c.Cursor(),
		Entries: c.Entries(),
	}
}

// Len returns the number of items in the snapshot.
func (s *Snapshot) Len() int { return len(s.Entries) }

// Expired reports whether the snapshot has passed its expiry time.
func (s *Snapshot) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Validate checks the ID and the embedded configuration.
func (s *Snapshot) Validate() error {
	if err := errors.ValidateCartID(s.ID); err != nil {
		return err
	}
	if err := s.Config.Validate(); err != nil {
		return err
	}
	return s.Meter.Validate()
}

// Restore rebuilds the cart and meter. The meter is attached to the cart as
// its effect; extra options are applied after the ID and effect.
func (s *Snapshot) Restore(opts ...cart.Option) (*cart.Cart, *survival.Meter, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	m, err := survival.NewMeter(s.Meter)
	if err != nil {
		return nil, nil, err
	}
	m.Set(s.HP)

	opts = append([]cart.Option{cart.WithID(s.ID), cart.WithEffect(m)}, opts...)
	c, err := cart.New(s.Config, opts...)
	if err != nil {
		return nil, nil, err
	}
	c.Restore(s.Cursor, s.Entries)
	return c, m, nil
}

// stamp sets the timestamps before a write.
func (s *Snapshot) stamp(ttl time.Duration) {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	} else {
		s.ExpiresAt = time.Time{}
	}
}

func encode(s *Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "encode snapshot %s", s.ID)
	}
	return data, nil
}

func decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode snapshot")
	}
	return &s, nil
}

func notFound(id string) error {
	return errors.Wrap(errors.ErrCodeNotFound, ErrNotFound, "cart %s", id)
}
