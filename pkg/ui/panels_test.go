package ui

import (
	"slices"
	"testing"
)

func TestPanelsOpenBack(t *testing.T) {
	p := NewPanels(PanelPause)
	p.Show(PanelPause)

	p.Open(PanelSettings, PanelPause)
	p.Open(PanelAudio, PanelSettings)

	if !p.Visible(PanelAudio) || p.Visible(PanelSettings) || p.Visible(PanelPause) {
		t.Fatalf("visible = %v, want [audio]", p.VisiblePanels())
	}
	if got, want := p.History(), []string{PanelPause, PanelSettings}; !slices.Equal(got, want) {
		t.Errorf("History() = %v, want %v", got, want)
	}

	if got := p.Back(PanelAudio); got != PanelSettings {
		t.Errorf("Back() = %q, want %q", got, PanelSettings)
	}
	if got := p.Back(PanelSettings); got != PanelPause {
		t.Errorf("Back() = %q, want %q", got, PanelPause)
	}
	if got := p.VisiblePanels(); !slices.Equal(got, []string{PanelPause}) {
		t.Errorf("VisiblePanels() = %v", got)
	}
}

func TestPanelsBackFallback(t *testing.T) {
	p := NewPanels(PanelPause)
	p.Open(PanelDisplay, "")

	if got := p.Back(PanelDisplay); got != PanelPause {
		t.Errorf("Back() = %q, want fallback %q", got, PanelPause)
	}
	if !p.Visible(PanelPause) || p.Visible(PanelDisplay) {
		t.Errorf("VisiblePanels() = %v", p.VisiblePanels())
	}

	none := NewPanels("")
	none.Show("x")
	if got := none.Back("x"); got != "" {
		t.Errorf("Back() without fallback = %q, want empty", got)
	}
}

func TestPanelsClear(t *testing.T) {
	p := NewPanels(PanelPause)
	p.Open(PanelSettings, PanelPause)
	p.Clear()

	if len(p.History()) != 0 {
		t.Errorf("History() = %v after Clear", p.History())
	}
	if !p.Visible(PanelSettings) {
		t.Error("Clear() changed visibility")
	}
	if got := p.Back(PanelSettings); got != PanelPause {
		t.Errorf("Back() after Clear = %q, want fallback", got)
	}
}

func TestPanelsEdges(t *testing.T) {
	p := NewPanels(PanelPause)
	p.Open(PanelSettings, PanelPause)
	p.Back(PanelSettings)
	p.Open(PanelSettings, PanelPause)

	want := []Edge{
		{From: PanelPause, To: PanelSettings, Count: 2},
		{From: PanelSettings, To: PanelPause, Count: 1},
	}
	if got := p.Edges(); !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}
