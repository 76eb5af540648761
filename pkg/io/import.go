package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/cartpile/pkg/cart"
	"github.com/matzehuels/cartpile/pkg/errors"
)

// ReadJSON decodes a JSON item list from r and validates every item.
func ReadJSON(r io.Reader) ([]cart.Item, error) {
	var data itemList
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode item list")
	}

	items := make([]cart.Item, 0, len(data.Items))
	for i, in := range data.Items {
		it, err := newItem(in)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, it)
	}
	return items, nil
}

// ImportJSON reads a JSON item list file.
func ImportJSON(path string) ([]cart.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ReadXLSX reads an item list from the first sheet of a workbook.
func ReadXLSX(r io.Reader) ([]cart.Item, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "open workbook")
	}
	defer f.Close()
	return readSheet(f)
}

// ImportXLSX reads an item list from a workbook file.
func ImportXLSX(path string) ([]cart.Item, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readSheet(f)
}

// Import reads an item list, choosing the format from the file extension.
func Import(path string) ([]cart.Item, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ImportJSON(path)
	case ".xlsx":
		return ImportXLSX(path)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported item list format %q", ext)
	}
}

func readSheet(f *excelize.File) ([]cart.Item, error) {
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read sheet %q", sheet)
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "sheet %q is empty", sheet)
	}

	cols := map[string]int{}
	for i, v := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(v))] = i
	}
	for _, required := range []string{"name", "width"} {
		if _, ok := cols[required]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "sheet %q has no %q column", sheet, required)
		}
	}
	cell := func(row []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var items []cart.Item
	for n, row := range rows[1:] {
		name := cell(row, "name")
		if name == "" {
			continue
		}
		line := n + 2
		width, err := strconv.ParseFloat(cell(row, "width"), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "row %d: invalid width", line)
		}
		it, err := newItem(item{Name: name, Tag: cell(row, "tag"), Width: width, Color: cell(row, "color")})
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func newItem(in item) (cart.Item, error) {
	it := cart.Item{
		ID:    in.ID,
		Name:  in.Name,
		Tag:   cart.Tag(strings.ToLower(in.Tag)),
		Width: in.Width,
		Color: in.Color,
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if err := it.Validate(); err != nil {
		return cart.Item{}, err
	}
	return it, nil
}
