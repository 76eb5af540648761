package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/cartpile/pkg/cart"
	"github.com/matzehuels/cartpile/pkg/errors"
)

func TestReadJSON(t *testing.T) {
	in := `{"items": [
		{"name": "apple", "tag": "Good", "width": 40},
		{"id": "egg-1", "name": "rotten egg", "tag": "bad", "width": 30, "color": "#c0a060"},
		{"name": "soap", "width": 55.5}
	]}`
	items, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].Tag != cart.TagGood || items[0].ID == "" {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].ID != "egg-1" || items[1].Color != "#c0a060" {
		t.Errorf("items[1] = %+v", items[1])
	}
	if items[2].Tag != "" || items[2].Width != 55.5 {
		t.Errorf("items[2] = %+v", items[2])
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"malformed", `{"items": [`, errors.ErrCodeInvalidFormat},
		{"unknown field", `{"things": []}`, errors.ErrCodeInvalidFormat},
		{"empty name", `{"items": [{"name": "", "width": 3}]}`, errors.ErrCodeInvalidInput},
		{"zero width", `{"items": [{"name": "x", "width": 0}]}`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	items := []cart.Item{
		{ID: "a", Name: "apple", Tag: cart.TagGood, Width: 40},
		{ID: "b", Name: "bread", Width: 80, Color: "#d2a55b"},
	}
	path := filepath.Join(t.TempDir(), "list.json")
	if err := ExportJSON(items, path); err != nil {
		t.Fatal(err)
	}
	got, err := Import(path)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if len(got) != 2 || got[0] != items[0] || got[1] != items[1] {
		t.Errorf("round trip = %+v, want %+v", got, items)
	}
}

func writeWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadXLSX(t *testing.T) {
	data := writeWorkbook(t, [][]any{
		{"Width", "Notes", " Name ", "TAG"},
		{40, "fresh", "apple", "good"},
		{"", "", "", ""},
		{30, "", "rotten egg", "bad"},
		{120.5, "", "soap"},
	})
	items, err := ReadXLSX(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadXLSX() error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3: %+v", len(items), items)
	}
	if items[0].Name != "apple" || items[0].Width != 40 || items[0].Tag != cart.TagGood {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[2].Name != "soap" || items[2].Width != 120.5 || items[2].Tag != "" {
		t.Errorf("items[2] = %+v", items[2])
	}
}

func TestReadXLSXErrors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]any
		want string
	}{
		{"no width column", [][]any{{"name"}, {"apple"}}, `"width" column`},
		{"bad width", [][]any{{"name", "width"}, {"apple", "wide"}}, "row 2"},
		{"negative width", [][]any{{"name", "width"}, {"apple", -3}}, "row 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadXLSX(bytes.NewReader(writeWorkbook(t, tt.rows)))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestImportXLSXFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.xlsx")
	if err := os.WriteFile(path, writeWorkbook(t, [][]any{{"name", "width"}, {"milk", 25}}), 0o644); err != nil {
		t.Fatal(err)
	}
	items, err := Import(path)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if len(items) != 1 || items[0].Name != "milk" {
		t.Errorf("items = %+v", items)
	}
}

func TestImportUnsupported(t *testing.T) {
	if _, err := Import("list.csv"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("error = %v, want UNSUPPORTED", err)
	}
}
