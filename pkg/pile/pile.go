package pile

import (
	"math"
	"slices"

	"github.com/google/uuid"
)

// Placement is the immutable record of one dropped item. X and Y are the
// final (jittered and clamped) center of the item; Base is the cursor point
// the item was anchored to before centering and jitter.
type Placement struct {
	ID       string  `json:"id" bson:"id"`
	Seq      int     `json:"seq" bson:"seq"`
	Row      int     `json:"row" bson:"row"`
	Wrapped  bool    `json:"wrapped,omitempty" bson:"wrapped,omitempty"`
	Width    float64 `json:"width" bson:"width"`
	Base     Point   `json:"base" bson:"base"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Rotation float64 `json:"rotation" bson:"rotation"`
}

// Pile places dropped items inside a region and keeps the history of what it
// placed.
type Pile struct {
	cfg        Config
	cursor     *Cursor
	jitter     *Jitterer
	placements []Placement
}

// New validates cfg and returns an empty pile with its cursor at the start
// point of the region.
func New(cfg Config) (*Pile, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pile{
		cfg:    cfg,
		cursor: NewCursor(cfg.Region),
		jitter: NewJitterer(cfg.Jitter, cfg.Seed),
	}, nil
}

// Config returns the configuration the pile was built with.
func (p *Pile) Config() Config { return p.cfg }

// Drop places an item of the given width and returns its record.
// Drop never fails; widths larger than the region degrade to one item per row.
func (p *Pile) Drop(width float64) Placement {
	if math.IsNaN(width) {
		width = 0
	}
	x, y, wrapped := p.cursor.Place(width)
	base := Point{X: x, Y: y}

	center := Point{X: x + width/2, Y: y}
	final, rot := p.jitter.Apply(center)
	final.X = p.cfg.Region.Clamp(final.X, width)

	pl := Placement{
		ID:       uuid.NewString(),
		Seq:      len(p.placements),
		Row:      p.cursor.State().Row,
		Wrapped:  wrapped,
		Width:    width,
		Base:     base,
		X:        final.X,
		Y:        final.Y,
		Rotation: rot,
	}
	p.placements = append(p.placements, pl)
	return pl
}

// Cursor returns the current cursor state.
func (p *Pile) Cursor() CursorState { return p.cursor.State() }

// Len returns the number of placed items.
func (p *Pile) Len() int { return len(p.placements) }

// Placements returns a copy of all placements in drop order.
func (p *Pile) Placements() []Placement { return slices.Clone(p.placements) }

// Reset re-initialises the cursor and forgets all placements. With a fixed
// seed the jitter sequence restarts too, so replaying the same drops after a
// Reset reproduces the same placements.
func (p *Pile) Reset() {
	p.cursor.Reset()
	p.placements = nil
	if p.cfg.Seed != 0 {
		p.jitter = NewJitterer(p.cfg.Jitter, p.cfg.Seed)
	}
}

// Restore replaces the pile state with a saved cursor and placement history.
// With a fixed seed the jitter sequence is fast-forwarded past the restored
// placements, so a restored pile continues exactly like one that was never
// saved.
func (p *Pile) Restore(cursor CursorState, placements []Placement) {
	p.cursor.Restore(cursor)
	p.placements = slices.Clone(placements)
	if p.cfg.Seed != 0 {
		p.jitter = NewJitterer(p.cfg.Jitter, p.cfg.Seed)
		p.jitter.Skip(len(placements))
	}
}
