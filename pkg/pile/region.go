package pile

import (
	"math"

	"github.com/matzehuels/cartpile/pkg/errors"
)

// Default values match the drop zone the pile algorithm was tuned for.
const (
	DefaultRowHeight        = 30.0
	DefaultPositionJitter   = 30.0
	DefaultRotationJitter   = 45.0
	DefaultRegionWidth      = 300.0
	DefaultRegionBottomEdge = 0.0
)

// Region is the bounded area a pile grows in. Rows start at Bottom and grow
// by RowHeight; a negative RowHeight grows the pile downward.
type Region struct {
	Left      float64 `toml:"left_edge" json:"left_edge" bson:"left_edge"`
	Right     float64 `toml:"right_edge" json:"right_edge" bson:"right_edge"`
	Bottom    float64 `toml:"bottom_edge" json:"bottom_edge" bson:"bottom_edge"`
	RowHeight float64 `toml:"row_height" json:"row_height" bson:"row_height"`
}

// Width returns the horizontal span of the region.
func (r Region) Width() float64 { return r.Right - r.Left }

// Validate reports a configuration error if the region is unusable.
func (r Region) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"left_edge", r.Left},
		{"right_edge", r.Right},
		{"bottom_edge", r.Bottom},
		{"row_height", r.RowHeight},
	} {
		if err := errors.ValidateFinite(f.name, f.v); err != nil {
			return err
		}
	}
	if r.Left >= r.Right {
		return errors.New(errors.ErrCodeInvalidConfig,
			"left_edge (%v) must be less than right_edge (%v)", r.Left, r.Right)
	}
	return nil
}

// Clamp constrains a center x so that an item of the given width stays inside
// [Left, Right]. When the item is wider than the region the valid range is
// inverted and the region midpoint is returned instead.
func (r Region) Clamp(x, width float64) float64 {
	half := width / 2
	lo, hi := r.Left+half, r.Right-half
	if lo > hi {
		return (r.Left + r.Right) / 2
	}
	if math.IsNaN(x) {
		return lo
	}
	return min(max(x, lo), hi)
}

// Jitter holds the maximum random perturbation per placed item.
type Jitter struct {
	PositionX       float64 `toml:"position_jitter_x" json:"position_jitter_x" bson:"position_jitter_x"`
	PositionY       float64 `toml:"position_jitter_y" json:"position_jitter_y" bson:"position_jitter_y"`
	RotationDegrees float64 `toml:"rotation_jitter_degrees" json:"rotation_jitter_degrees" bson:"rotation_jitter_degrees"`
}

// Validate reports a configuration error for negative or non-finite magnitudes.
func (j Jitter) Validate() error {
	if err := errors.ValidateNonNegative("position_jitter_x", j.PositionX); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("position_jitter_y", j.PositionY); err != nil {
		return err
	}
	return errors.ValidateNonNegative("rotation_jitter_degrees", j.RotationDegrees)
}

// Disabled reports whether every magnitude is zero.
func (j Jitter) Disabled() bool {
	return j.PositionX == 0 && j.PositionY == 0 && j.RotationDegrees == 0
}

// Config configures a [Pile].
type Config struct {
	Region Region `toml:"region" json:"region" bson:"region"`
	Jitter Jitter `toml:"jitter" json:"jitter" bson:"jitter"`

	// Seed seeds the jitter generator. Zero picks a random seed.
	Seed uint64 `toml:"seed" json:"seed,omitempty" bson:"seed,omitempty"`
}

// DefaultConfig returns a region [0, DefaultRegionWidth] with the default
// row height and jitter.
func DefaultConfig() Config {
	return Config{
		Region: Region{
			Left:      0,
			Right:     DefaultRegionWidth,
			Bottom:    DefaultRegionBottomEdge,
			RowHeight: DefaultRowHeight,
		},
		Jitter: Jitter{
			PositionX:       DefaultPositionJitter,
			PositionY:       DefaultPositionJitter,
			RotationDegrees: DefaultRotationJitter,
		},
	}
}

// Validate checks the region and the jitter magnitudes.
func (c Config) Validate() error {
	if err := c.Region.Validate(); err != nil {
		return err
	}
	return c.Jitter.Validate()
}
