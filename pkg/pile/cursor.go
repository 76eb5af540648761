package pile

import "math"

// CursorState is the serialisable position of a [Cursor].
type CursorState struct {
	X   float64 `json:"x" bson:"x"`
	Y   float64 `json:"y" bson:"y"`
	Row int     `json:"row" bson:"row"`
}

// Cursor tracks the next insertion point inside a [Region]. It starts at
// (Left, Bottom), moves right by each placed width and wraps to a new row
// when the next item would overflow the right edge.
type Cursor struct {
	region Region
	state  CursorState
}

// NewCursor returns a cursor at the region's start point.
func NewCursor(r Region) *Cursor {
	c := &Cursor{region: r}
	c.Reset()
	return c
}

// Reset moves the cursor back to (Left, Bottom) on row 0.
func (c *Cursor) Reset() {
	c.state = CursorState{X: c.region.Left, Y: c.region.Bottom}
}

// State returns the current cursor position.
func (c *Cursor) State() CursorState { return c.state }

// Restore sets the cursor to a previously saved state.
func (c *Cursor) Restore(s CursorState) { c.state = s }

// ShouldWrap reports whether placing an item of the given width would start
// a new row. The first item on a row never wraps, whatever its width.
func (c *Cursor) ShouldWrap(width float64) bool {
	return c.state.X+width > c.region.Right && c.state.X != c.region.Left
}

// Place returns the insertion point for an item of the given width and
// advances the cursor past it. wrapped is true when the item starts a new row.
// NaN widths are treated as zero.
func (c *Cursor) Place(width float64) (x, y float64, wrapped bool) {
	if math.IsNaN(width) {
		width = 0
	}
	if c.ShouldWrap(width) {
		c.state.Y += c.region.RowHeight
		c.state.X = c.region.Left
		c.state.Row++
		wrapped = true
	}
	x, y = c.state.X, c.state.Y
	c.state.X += width
	return x, y, wrapped
}
