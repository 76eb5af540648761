// Package io reads and writes item lists: the shopping lists fed to a cart.
//
// # JSON Format
//
// A JSON item list has one top-level array:
//
//	{
//	  "items": [
//	    {"name": "apple", "tag": "good", "width": 40},
//	    {"name": "rotten egg", "tag": "bad", "width": 30, "color": "#c0a060"}
//	  ]
//	}
//
// name and width are required; tag and color are optional. IDs are assigned
// on import when missing.
//
// # Spreadsheets
//
// [ReadXLSX] reads the first sheet of a workbook. The first row is a header
// naming the columns; "name" and "width" are required, "tag" and "color" are
// optional, other columns are ignored and column order does not matter:
//
//	| Name  | Width | Tag  |
//	| apple | 40    | good |
//
// Rows with an empty name are skipped.
//
// # Import and Export
//
// [Import] picks the reader from the file extension (.json or .xlsx).
// [ExportJSON] writes the JSON format, so an exported list can be re-imported
// unchanged.
package io
