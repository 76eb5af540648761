package ui

import (
	"io"

	"github.com/charmbracelet/log"
)

// Panel names used by the default wiring.
const (
	PanelPause    = "pause"
	PanelSettings = "settings"
	PanelAudio    = "audio"
	PanelDisplay  = "display"
)

// Config configures a [Context].
type Config struct {
	PauseKey   Key    `toml:"pause_key"`
	PausePanel string `toml:"pause_panel"`
}

// DefaultConfig binds Escape to pause and uses [PanelPause] as both the pause
// menu and the back-button fallback.
func DefaultConfig() Config {
	return Config{PauseKey: KeyEscape, PausePanel: PanelPause}
}

// Context is the application-wide UI state. Create it once at startup and
// Close it on shutdown.
type Context struct {
	Logger    *log.Logger
	Input     *Dispatcher
	Panels    *Panels
	Pause     *Pause
	Inspector *Inspector
	Scroller  *Scroller

	unsubscribe []func()
}

// NewContext builds the UI state and wires the default bindings:
//   - right click closes the inspector
//   - the pause key closes the inspector if it is open, otherwise it toggles pause
//   - left/right keys are left to the caller (see [Scroller.Step])
func NewContext(logger *log.Logger, cfg Config) *Context {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.PauseKey == "" {
		cfg.PauseKey = KeyEscape
	}
	panels := NewPanels(cfg.PausePanel)
	c := &Context{
		Logger:    logger,
		Input:     NewDispatcher(),
		Panels:    panels,
		Pause:     NewPause(panels, cfg.PausePanel, logger),
		Inspector: &Inspector{},
		Scroller:  DefaultScroller(),
	}

	closeInspector := func(ev Event) bool {
		if c.Inspector.HandleClose(ev) {
			logger.Debug("inspector closed", "key", ev.Key)
			return true
		}
		return false
	}
	c.unsubscribe = append(c.unsubscribe,
		c.Input.Subscribe(KeyRightClick, closeInspector),
		c.Input.Subscribe(cfg.PauseKey, closeInspector),
		c.Input.Subscribe(cfg.PauseKey, func(Event) bool {
			c.Pause.Toggle()
			return true
		}),
	)
	return c
}

// Close removes the bindings, closes the inspector, resumes the game and
// clears panel history.
func (c *Context) Close() {
	for _, u := range c.unsubscribe {
		u()
	}
	c.unsubscribe = nil
	c.Inspector.Close()
	c.Pause.Close()
	c.Panels.Clear()
}
