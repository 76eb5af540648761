package ui

import (
	"io"

	"github.com/charmbracelet/log"
)

// Pause tracks whether the game is paused. While paused the time scale is 0
// and the pause panel is visible.
type Pause struct {
	panels *Panels
	panel  string
	logger *log.Logger

	paused bool
}

// NewPause returns an unpaused controller that shows panel on pause.
// panels may be nil when no menu should be shown.
func NewPause(panels *Panels, panel string, logger *log.Logger) *Pause {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Pause{panels: panels, panel: panel, logger: logger}
}

// Toggle flips the paused state and returns the new state.
func (p *Pause) Toggle() bool {
	p.set(!p.paused)
	return p.paused
}

func (p *Pause) set(paused bool) {
	p.paused = paused
	if p.panels != nil && p.panel != "" {
		if paused {
			p.panels.Show(p.panel)
		} else {
			p.panels.Hide(p.panel)
		}
	}
	if paused {
		p.logger.Info("game paused")
	} else {
		p.logger.Info("game resumed")
	}
}

// Paused reports whether the game is paused.
func (p *Pause) Paused() bool { return p.paused }

// TimeScale returns 0 while paused and 1 otherwise.
func (p *Pause) TimeScale() float64 {
	if p.paused {
		return 0
	}
	return 1
}

// Close resumes the game if it is paused so the time scale is never left at 0.
func (p *Pause) Close() {
	if p.paused {
		p.set(false)
	}
}
