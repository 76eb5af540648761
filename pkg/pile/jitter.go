package pile

import (
	"math/rand/v2"
)

// Point is a 2D position in region coordinates.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Jitterer draws bounded random offsets and rotations for placed items.
type Jitterer struct {
	cfg Jitter
	rng *rand.Rand
}

// NewJitterer creates a generator seeded with seed. A zero seed is replaced
// by a random one, so only non-zero seeds give reproducible sequences.
func NewJitterer(cfg Jitter, seed uint64) *Jitterer {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Jitterer{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(seed, seed^0xdeadbeef)),
	}
}

// Offset returns a horizontal offset in [-PositionX, PositionX] and a
// vertical offset in [-PositionY/2, PositionY/2].
func (j *Jitterer) Offset() (dx, dy float64) {
	return j.uniform(j.cfg.PositionX), j.uniform(j.cfg.PositionY / 2)
}

// Rotation returns an angle in degrees in [-RotationDegrees, RotationDegrees].
func (j *Jitterer) Rotation() float64 {
	return j.uniform(j.cfg.RotationDegrees)
}

// Apply returns p shifted by a fresh [Jitterer.Offset] together with a fresh
// [Jitterer.Rotation].
func (j *Jitterer) Apply(p Point) (Point, float64) {
	dx, dy := j.Offset()
	return Point{X: p.X + dx, Y: p.Y + dy}, j.Rotation()
}

// Skip discards the draws of n calls to [Jitterer.Apply].
func (j *Jitterer) Skip(n int) {
	for range n {
		j.Apply(Point{})
	}
}

// uniform draws from [-limit, limit). The RNG is not consulted for a zero
// limit so that disabling one axis does not shift the others' sequence.
func (j *Jitterer) uniform(limit float64) float64 {
	if limit == 0 {
		return 0
	}
	return limit * (2*j.rng.Float64() - 1)
}
