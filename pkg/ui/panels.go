package ui

import (
	"cmp"
	"maps"
	"slices"
)

// Edge is a navigation step between two panels and how often it was taken.
type Edge struct {
	From  string
	To    string
	Count int
}

// Panels tracks which panels are visible and the back-button history.
// Panel names are opaque; the empty name means "no panel".
type Panels struct {
	fallback string
	visible  map[string]bool
	history  []string
	edges    map[[2]string]int
}

// NewPanels returns a panel set whose Back falls back to fallback when the
// history is empty.
func NewPanels(fallback string) *Panels {
	return &Panels{
		fallback: fallback,
		visible:  make(map[string]bool),
		edges:    make(map[[2]string]int),
	}
}

// Fallback returns the panel shown by Back when there is no history.
func (p *Panels) Fallback() string { return p.fallback }

// Open shows next. When current is non-empty it is hidden and remembered so
// Back can return to it.
func (p *Panels) Open(next, current string) {
	if current != "" {
		p.visible[current] = false
		p.history = append(p.history, current)
	}
	p.visible[next] = true
	p.edges[[2]string{current, next}]++
}

// Back hides current and shows the previous panel, or the fallback panel when
// the history is empty. It returns the panel that is now shown, which is
// empty if there is neither history nor a fallback.
func (p *Panels) Back(current string) string {
	p.visible[current] = false

	var prev string
	if n := len(p.history); n > 0 {
		prev = p.history[n-1]
		p.history = p.history[:n-1]
	} else {
		prev = p.fallback
	}
	if prev != "" {
		p.visible[prev] = true
		p.edges[[2]string{current, prev}]++
	}
	return prev
}

// Show makes a panel visible without touching history.
func (p *Panels) Show(name string) { p.visible[name] = true }

// Hide makes a panel invisible without touching history.
func (p *Panels) Hide(name string) { p.visible[name] = false }

// Visible reports whether a panel is shown.
func (p *Panels) Visible(name string) bool { return p.visible[name] }

// VisiblePanels returns the names of shown panels, sorted.
func (p *Panels) VisiblePanels() []string {
	var out []string
	for name, v := range p.visible {
		if v {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// Clear forgets the back history. Visibility is unchanged.
func (p *Panels) Clear() { p.history = nil }

// History returns the back stack, oldest first.
func (p *Panels) History() []string { return slices.Clone(p.history) }

// Edges returns every navigation step taken so far, sorted by From then To.
// Opening a panel with no current panel is recorded with an empty From.
func (p *Panels) Edges() []Edge {
	keys := slices.Collect(maps.Keys(p.edges))
	slices.SortFunc(keys, func(a, b [2]string) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})
	out := make([]Edge, len(keys))
	for i, k := range keys {
		out[i] = Edge{From: k[0], To: k[1], Count: p.edges[k]}
	}
	return out
}
