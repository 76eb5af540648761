package render

import (
	"encoding/json"

	"github.com/matzehuels/cartpile/pkg/pile"
)

type jsonOutput struct {
	CartID   string      `json:"cart_id,omitempty"`
	Capacity int         `json:"capacity,omitempty"`
	Count    int         `json:"count"`
	Region   pile.Region `json:"region"`
	HP       *jsonMeter  `json:"hp,omitempty"`
	Items    []jsonItem  `json:"items"`
}

type jsonMeter struct {
	Value int `json:"value"`
	Max   int `json:"max"`
}

type jsonItem struct {
	Seq      int     `json:"seq"`
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Tag      string  `json:"tag,omitempty"`
	Row      int     `json:"row"`
	Width    float64 `json:"width"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	BaseX    float64 `json:"base_x"`
	BaseY    float64 `json:"base_y"`
}

// RenderJSON exports the placements in drop order as pretty-printed JSON.
func RenderJSON(l Layout) ([]byte, error) {
	out := jsonOutput{
		CartID:   l.CartID,
		Capacity: l.Capacity,
		Count:    len(l.Entries),
		Region:   l.Region,
		Items:    make([]jsonItem, len(l.Entries)),
	}
	if l.MaxHP > 0 {
		out.HP = &jsonMeter{Value: l.HP, Max: l.MaxHP}
	}
	for i, e := range l.Entries {
		p := e.Placement
		out.Items[i] = jsonItem{
			Seq:      p.Seq,
			ID:       e.Item.ID,
			Name:     e.Item.Name,
			Tag:      string(e.Item.Tag),
			Row:      p.Row,
			Width:    p.Width,
			X:        p.X,
			Y:        p.Y,
			Rotation: p.Rotation,
			BaseX:    p.Base.X,
			BaseY:    p.Base.Y,
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
