package ui

import "testing"

func TestContextEscape(t *testing.T) {
	c := NewContext(nil, DefaultConfig())
	defer c.Close()

	c.Input.Dispatch(KeyEscape)
	if !c.Pause.Paused() || !c.Panels.Visible(PanelPause) {
		t.Fatal("escape did not pause")
	}
	c.Input.Dispatch(KeyEscape)
	if c.Pause.Paused() {
		t.Fatal("second escape did not resume")
	}

	c.Inspector.Inspect("milk", Event{})
	c.Input.Dispatch(KeyEscape)
	if c.Inspector.Inspecting() {
		t.Error("escape did not close the inspector")
	}
	if c.Pause.Paused() {
		t.Error("escape closing the inspector also toggled pause")
	}
}

func TestContextRightClickOpensAndCloses(t *testing.T) {
	c := NewContext(nil, DefaultConfig())
	defer c.Close()

	// The built-in close binding runs first and ignores a closed inspector.
	c.Input.Subscribe(KeyRightClick, func(ev Event) bool {
		if !c.Inspector.Inspecting() {
			c.Inspector.Inspect("cheese", ev)
			return true
		}
		return false
	})
	c.Input.Dispatch(KeyRightClick)
	if !c.Inspector.Inspecting() {
		t.Fatal("right click did not open the inspector")
	}
	c.Input.Dispatch(KeyRightClick)
	if c.Inspector.Inspecting() {
		t.Error("second right click did not close the inspector")
	}
}

func TestContextClose(t *testing.T) {
	c := NewContext(nil, DefaultConfig())
	c.Input.Dispatch(KeyEscape)
	c.Inspector.Inspect("eggs", Event{})
	c.Panels.Open(PanelSettings, PanelPause)

	c.Close()

	if c.Pause.Paused() || c.Pause.TimeScale() != 1 {
		t.Error("Close() left the game paused")
	}
	if c.Inspector.Inspecting() {
		t.Error("Close() left the inspector open")
	}
	if len(c.Panels.History()) != 0 {
		t.Error("Close() kept panel history")
	}
	if c.Input.Handlers(KeyEscape) != 0 || c.Input.Handlers(KeyRightClick) != 0 {
		t.Error("Close() left bindings subscribed")
	}
}
