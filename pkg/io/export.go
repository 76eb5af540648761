package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/cartpile/pkg/cart"
)

type itemList struct {
	Items []item `json:"items"`
}

type item struct {
	ID    string  `json:"id,omitempty"`
	Name  string  `json:"name"`
	Tag   string  `json:"tag,omitempty"`
	Width float64 `json:"width"`
	Color string  `json:"color,omitempty"`
}

// WriteJSON encodes items as an indented JSON item list.
func WriteJSON(items []cart.Item, w io.Writer) error {
	out := itemList{Items: make([]item, len(items))}
	for i, it := range items {
		out.Items[i] = item{ID: it.ID, Name: it.Name, Tag: string(it.Tag), Width: it.Width, Color: it.Color}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes items to a JSON file at path.
func ExportJSON(items []cart.Item, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(items, f)
}
