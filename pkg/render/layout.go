package render

import (
	"github.com/matzehuels/cartpile/pkg/cart"
	"github.com/matzehuels/cartpile/pkg/pile"
	"github.com/matzehuels/cartpile/pkg/survival"
)

// Layout is the render input: a cart's region, its placed items and,
// optionally, its meter.
type Layout struct {
	CartID   string
	Capacity int
	Region   pile.Region
	Entries  []cart.Entry
	HP       int
	MaxHP    int // zero when there is no meter
}

// NewLayout captures c and m. m may be nil.
func NewLayout(c *cart.Cart, m *survival.Meter) Layout {
	l := Layout{
		CartID:   c.ID(),
		Capacity: c.Capacity(),
		Region:   c.Config().Pile.Region,
		Entries:  c.Entries(),
	}
	if m != nil {
		l.HP, l.MaxHP = m.HP(), m.Max()
	}
	return l
}

// itemHeight is the drawn height of every item. Items only carry a width, so
// they are drawn as boxes filling most of a row.
func (l Layout) itemHeight() float64 {
	h := l.Region.RowHeight
	if h < 0 {
		h = -h
	}
	if h == 0 {
		h = pile.DefaultRowHeight
	}
	return h * 0.9
}

// bounds returns the world rectangle covering the region and every item,
// with items treated as unrotated boxes.
func (l Layout) bounds() (minX, minY, maxX, maxY float64) {
	h := l.itemHeight()
	minX, maxX = l.Region.Left, l.Region.Right
	minY = min(l.Region.Bottom, l.Region.Bottom+l.Region.RowHeight)
	maxY = max(l.Region.Bottom, l.Region.Bottom+l.Region.RowHeight)
	for _, e := range l.Entries {
		p := e.Placement
		minX = min(minX, p.X-p.Width/2)
		maxX = max(maxX, p.X+p.Width/2)
		minY = min(minY, p.Y-h/2)
		maxY = max(maxY, p.Y+h/2)
	}
	return minX, minY, maxX, maxY
}

// tagColor picks the fill for an item without its own color.
func tagColor(tag cart.Tag) string {
	switch tag {
	case cart.TagGood:
		return "#7bc96f"
	case cart.TagBad:
		return "#e5534b"
	default:
		return "#b0b7c3"
	}
}

func itemColor(it cart.Item) string {
	if it.Color != "" {
		return it.Color
	}
	return tagColor(it.Tag)
}
