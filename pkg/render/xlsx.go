package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	placementsSheet = "Placements"
	summarySheet    = "Summary"
)

var placementHeader = []any{"Seq", "Name", "Tag", "Row", "Width", "X", "Y", "Rotation"}

// RenderXLSX exports the placements as a workbook with a "Placements" sheet,
// one row per item, and a "Summary" sheet.
func RenderXLSX(l Layout) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", placementsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(placementsSheet, "A1", &placementHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	if err := f.SetRowStyle(placementsSheet, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, e := range l.Entries {
		p := e.Placement
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{p.Seq, e.Item.Name, string(e.Item.Tag), p.Row, p.Width, p.X, p.Y, p.Rotation}
		if err := f.SetSheetRow(placementsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary: %w", err)
	}
	summary := [][]any{
		{"Cart", l.CartID},
		{"Items", len(l.Entries)},
		{"Capacity", l.Capacity},
		{"Left edge", l.Region.Left},
		{"Right edge", l.Region.Right},
		{"Row height", l.Region.RowHeight},
	}
	if l.MaxHP > 0 {
		summary = append(summary, []any{"HP", l.HP}, []any{"Max HP", l.MaxHP})
	}
	for i, row := range summary {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return nil, fmt.Errorf("write summary: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
