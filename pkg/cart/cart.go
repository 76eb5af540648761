package cart

import (
	"context"
	stderrors "errors"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cartpile/pkg/errors"
	"github.com/matzehuels/cartpile/pkg/observability"
	"github.com/matzehuels/cartpile/pkg/pile"
)

// DefaultCapacity is the number of items a cart holds by default.
const DefaultCapacity = 9

// ErrCartFull is returned by [Cart.Drop] when the cart is at capacity.
var ErrCartFull = stderrors.New("cart is full")

// HoverState is the feedback shown while an item is dragged over the cart.
type HoverState int

const (
	HoverNone  HoverState = iota // nothing hovering
	HoverValid                   // the drop would be accepted
	HoverFull                    // the drop would be refused
)

func (h HoverState) String() string {
	switch h {
	case HoverValid:
		return "valid"
	case HoverFull:
		return "full"
	default:
		return "none"
	}
}

// Effect is applied when tagged items are dropped. *survival.Meter
// implements it.
type Effect interface {
	HP() int
	Good() int
	Bad() int
}

// Config configures a [Cart].
type Config struct {
	Capacity int         `toml:"capacity" json:"capacity" bson:"capacity"`
	Pile     pile.Config `toml:"pile" json:"pile" bson:"pile"`
}

// DefaultConfig returns a cart of [DefaultCapacity] with the default pile.
func DefaultConfig() Config {
	return Config{Capacity: DefaultCapacity, Pile: pile.DefaultConfig()}
}

// Validate checks the capacity and the pile configuration.
func (c Config) Validate() error {
	if c.Capacity < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "capacity must be >= 1, got %d", c.Capacity)
	}
	return c.Pile.Validate()
}

// Entry pairs a dropped item with where it landed.
type Entry struct {
	Item      Item           `json:"item" bson:"item"`
	Placement pile.Placement `json:"placement" bson:"placement"`
}

// Option configures a [Cart].
type Option func(*Cart)

// WithID sets the cart ID. The default is a random UUID.
func WithID(id string) Option { return func(c *Cart) { c.id = id } }

// WithEffect attaches the effect applied for good and bad items.
func WithEffect(e Effect) Option { return func(c *Cart) { c.effect = e } }

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option { return func(c *Cart) { c.logger = l } }

// Cart is a capacity-limited drop zone that piles accepted items.
type Cart struct {
	id     string
	cfg    Config
	pile   *pile.Pile
	effect Effect
	logger *log.Logger

	hovering *Item
	entries  []Entry
}

// New validates cfg and returns an empty cart.
func New(cfg Config, opts ...Option) (*Cart, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := pile.New(cfg.Pile)
	if err != nil {
		return nil, err
	}
	c := &Cart{cfg: cfg, pile: p}
	for _, opt := range opts {
		opt(c)
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	if c.logger == nil {
		c.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return c, nil
}

// ID returns the cart identifier.
func (c *Cart) ID() string { return c.id }

// Config returns the cart configuration.
func (c *Cart) Config() Config { return c.cfg }

// Capacity returns the maximum number of items.
func (c *Cart) Capacity() int { return c.cfg.Capacity }

// Len returns the number of items in the cart.
func (c *Cart) Len() int { return len(c.entries) }

// Full reports whether the cart is at capacity.
func (c *Cart) Full() bool { return len(c.entries) >= c.cfg.Capacity }

// Hover records that item is being dragged over the cart and returns the
// feedback to show for it.
func (c *Cart) Hover(item Item) HoverState {
	c.hovering = &item
	if c.Full() {
		return HoverFull
	}
	return HoverValid
}

// Hovering returns the item currently over the cart, if any.
func (c *Cart) Hovering() (Item, bool) {
	if c.hovering == nil {
		return Item{}, false
	}
	return *c.hovering, true
}

// Leave clears the hovering item and returns it so the caller can restore
// its default appearance.
func (c *Cart) Leave() (Item, bool) {
	it, ok := c.Hovering()
	c.hovering = nil
	return it, ok
}

// Drop adds item to the cart. It returns an error wrapping [ErrCartFull]
// when the cart is at capacity; the hovering item is cleared either way.
func (c *Cart) Drop(ctx context.Context, item Item) (Entry, error) {
	defer func() { c.hovering = nil }()

	if c.Full() {
		c.logger.Info("cart is full, item rejected", "cart", c.id, "item", item.Name)
		observability.Cart().OnReject(ctx, c.id, "full")
		return Entry{}, errors.Wrap(errors.ErrCodeCartFull, ErrCartFull,
			"cart %s holds %d/%d items", c.id, len(c.entries), c.cfg.Capacity)
	}

	pl := c.pile.Drop(item.Width)
	if pl.Wrapped {
		c.logger.Debug("starting new row", "cart", c.id, "row", pl.Row, "y", pl.Base.Y)
	}
	entry := Entry{Item: item, Placement: pl}
	c.entries = append(c.entries, entry)
	observability.Cart().OnDrop(ctx, c.id, string(item.Tag), pl.Row, pl.Wrapped)

	c.applyEffect(ctx, item)
	return entry, nil
}

func (c *Cart) applyEffect(ctx context.Context, item Item) {
	switch item.Tag {
	case TagGood, TagBad:
	default:
		c.logger.Debug("item dropped with unhandled tag", "cart", c.id, "item", item.Name, "tag", item.Tag)
		return
	}
	if c.effect == nil {
		return
	}

	before := c.effect.HP()
	var hp int
	if item.Tag == TagGood {
		hp = c.effect.Good()
	} else {
		hp = c.effect.Bad()
	}
	c.logger.Debug("item effect applied", "cart", c.id, "item", item.Name, "tag", item.Tag, "hp", hp)
	observability.Cart().OnMeter(ctx, c.id, hp, hp-before)
}

// Entries returns a copy of the cart contents in drop order.
func (c *Cart) Entries() []Entry { return slices.Clone(c.entries) }

// Cursor returns the pile cursor.
func (c *Cart) Cursor() pile.CursorState { return c.pile.Cursor() }

// Reset empties the cart and re-initialises the pile cursor.
func (c *Cart) Reset() {
	c.entries = nil
	c.hovering = nil
	c.pile.Reset()
}

// Restore replaces the cart contents with saved state.
func (c *Cart) Restore(cursor pile.CursorState, entries []Entry) {
	c.entries = slices.Clone(entries)
	placements := make([]pile.Placement, len(entries))
	for i, e := range entries {
		placements[i] = e.Placement
	}
	c.pile.Restore(cursor, placements)
}
