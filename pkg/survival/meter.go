// Package survival tracks the player's hit points as items are collected.
//
// A [Meter] starts full and moves between Min and Max: good items heal it,
// bad items damage it. Values never leave [Min, Max].
package survival

import (
	"fmt"

	"github.com/matzehuels/cartpile/pkg/errors"
)

// Config configures a [Meter].
type Config struct {
	Max       int `toml:"max_hp" json:"max_hp" bson:"max_hp"`
	Min       int `toml:"min_hp" json:"min_hp" bson:"min_hp"`
	GoodHeal  int `toml:"good_item_heal" json:"good_item_heal" bson:"good_item_heal"`
	BadDamage int `toml:"bad_item_damage" json:"bad_item_damage" bson:"bad_item_damage"`
}

// DefaultConfig returns a 0..100 meter healing 10 and taking 15 damage.
func DefaultConfig() Config {
	return Config{Max: 100, Min: 0, GoodHeal: 10, BadDamage: 15}
}

// Validate rejects empty ranges and negative heal/damage amounts.
func (c Config) Validate() error {
	if c.Max <= c.Min {
		return errors.New(errors.ErrCodeInvalidConfig, "max_hp (%d) must be greater than min_hp (%d)", c.Max, c.Min)
	}
	if c.GoodHeal < 0 || c.BadDamage < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "good_item_heal and bad_item_damage must be >= 0")
	}
	return nil
}

// Meter is a clamped HP counter. It is not safe for concurrent use.
type Meter struct {
	cfg Config
	hp  int
}

// NewMeter returns a full meter.
func NewMeter(cfg Config) (*Meter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Meter{cfg: cfg, hp: cfg.Max}, nil
}

// HP returns the current hit points.
func (m *Meter) HP() int { return m.hp }

// Config returns the meter configuration.
func (m *Meter) Config() Config { return m.cfg }

// Max returns the configured maximum.
func (m *Meter) Max() int { return m.cfg.Max }

// Good heals the meter by the configured amount and returns the new HP.
func (m *Meter) Good() int { return m.Apply(m.cfg.GoodHeal) }

// Bad damages the meter by the configured amount and returns the new HP.
func (m *Meter) Bad() int { return m.Apply(-m.cfg.BadDamage) }

// Apply adds delta and clamps the result to [Min, Max].
func (m *Meter) Apply(delta int) int {
	m.hp = min(max(m.hp+delta, m.cfg.Min), m.cfg.Max)
	return m.hp
}

// Set clamps and stores hp. Used when restoring a saved meter.
func (m *Meter) Set(hp int) {
	m.hp = min(max(hp, m.cfg.Min), m.cfg.Max)
}

// Reset refills the meter.
func (m *Meter) Reset() { m.hp = m.cfg.Max }

// Fraction returns HP as a share of Max, suitable for a slider.
func (m *Meter) Fraction() float64 {
	return float64(m.hp) / float64(m.cfg.Max)
}

// Depleted reports whether HP has reached Min.
func (m *Meter) Depleted() bool { return m.hp <= m.cfg.Min }

// String renders the meter as "hp / max".
func (m *Meter) String() string {
	return fmt.Sprintf("%d / %d", m.hp, m.cfg.Max)
}
