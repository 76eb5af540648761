package ui

import "time"

// Scroller pans a background horizontally while direction keys are held.
// Holding left moves the background right to reveal what is on the left.
type Scroller struct {
	Speed float64 // pixels per second
	Min   float64
	Max   float64

	X float64
}

// DefaultScroller returns a scroller at 500 px/s clamped to [-1000, 1000].
func DefaultScroller() *Scroller {
	return &Scroller{Speed: 500, Min: -1000, Max: 1000}
}

// Step advances the position by dt for the held keys and returns the new x.
// Holding both keys cancels out.
func (s *Scroller) Step(left, right bool, dt time.Duration) float64 {
	delta := s.Speed * dt.Seconds()
	if left {
		s.X += delta
	}
	if right {
		s.X -= delta
	}
	s.X = min(max(s.X, s.Min), s.Max)
	return s.X
}
