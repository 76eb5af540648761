package cart

import (
	"github.com/google/uuid"

	"github.com/matzehuels/cartpile/pkg/errors"
)

// Tag classifies an item for game logic.
type Tag string

// Known tags. Other tags are accepted and have no effect.
const (
	TagGood Tag = "good"
	TagBad  Tag = "bad"
)

// Item is something that can be dragged into a cart.
type Item struct {
	ID    string  `json:"id" bson:"id"`
	Name  string  `json:"name" bson:"name"`
	Tag   Tag     `json:"tag,omitempty" bson:"tag,omitempty"`
	Width float64 `json:"width" bson:"width"`
	Color string  `json:"color,omitempty" bson:"color,omitempty"`
}

// NewItem returns an item with a fresh ID.
func NewItem(name string, tag Tag, width float64) Item {
	return Item{ID: uuid.NewString(), Name: name, Tag: tag, Width: width}
}

// Validate checks the item name and width.
func (it Item) Validate() error {
	if err := errors.ValidateItemName(it.Name); err != nil {
		return err
	}
	if err := errors.ValidateFinite("width", it.Width); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "item %q: width must be a finite number", it.Name)
	}
	if it.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "item %q: width must be > 0, got %v", it.Name, it.Width)
	}
	return nil
}
