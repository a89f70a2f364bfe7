// Package grid holds the in-memory tabular form every tool operates on:
// a header of unique column names plus rows of scalar cells, materialized
// fresh from the store on each call and discarded after the write back.
package grid

import (
	"strings"

	"sheetcraft/internal/apperr"
)

type Grid struct {
	header []string
	rows   [][]Value
}

// New builds a grid from a header and rows. Rows are padded or truncated to
// the header width. Duplicate or blank column names are rejected.
func New(header []string, rows [][]Value) (*Grid, error) {
	if len(header) == 0 {
		return nil, apperr.Validationf("grid has no header row")
	}
	seen := make(map[string]bool, len(header))
	cleaned := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, apperr.Validationf("column %d has a blank name", i+1)
		}
		if seen[name] {
			return nil, apperr.Validationf("duplicate column name %q", name)
		}
		seen[name] = true
		cleaned[i] = name
	}
	normalized := make([][]Value, len(rows))
	for i, row := range rows {
		normalized[i] = normalizeRow(row, len(cleaned))
	}
	return &Grid{header: cleaned, rows: normalized}, nil
}

// FromCells builds a grid from raw store cells, first row as header.
func FromCells(cells [][]any) (*Grid, error) {
	if len(cells) == 0 {
		return nil, apperr.Validationf("grid has no header row")
	}
	header := make([]string, len(cells[0]))
	for i, cell := range cells[0] {
		value, err := FromCell(cell)
		if err != nil {
			return nil, apperr.Validationf("header cell %d: %v", i+1, err)
		}
		header[i] = value.String()
	}
	rows := make([][]Value, 0, len(cells)-1)
	for r, rawRow := range cells[1:] {
		row := make([]Value, len(rawRow))
		for c, cell := range rawRow {
			value, err := FromCell(cell)
			if err != nil {
				return nil, apperr.Validationf("row %d column %d: %v", r+1, c+1, err)
			}
			row[c] = value
		}
		rows = append(rows, row)
	}
	return New(header, rows)
}

// Cells renders the grid in row-major store form, header first. Numbers and
// bools keep their native types so the store writes typed cells.
func (g *Grid) Cells() [][]any {
	out := make([][]any, 0, len(g.rows)+1)
	headerRow := make([]any, len(g.header))
	for i, name := range g.header {
		headerRow[i] = name
	}
	out = append(out, headerRow)
	for _, row := range g.rows {
		rawRow := make([]any, len(row))
		for i, value := range row {
			switch value.Kind() {
			case KindNumber:
				rawRow[i] = value.num
			case KindBool:
				rawRow[i] = value.boolean
			default:
				rawRow[i] = value.String()
			}
		}
		out = append(out, rawRow)
	}
	return out
}

func (g *Grid) Header() []string {
	out := make([]string, len(g.header))
	copy(out, g.header)
	return out
}

func (g *Grid) NumRows() int {
	return len(g.rows)
}

func (g *Grid) NumColumns() int {
	return len(g.header)
}

// Row returns a copy of row i.
func (g *Grid) Row(i int) []Value {
	out := make([]Value, len(g.rows[i]))
	copy(out, g.rows[i])
	return out
}

func (g *Grid) ColumnIndex(name string) (int, bool) {
	for i, col := range g.header {
		if col == name {
			return i, true
		}
	}
	return 0, false
}

func (g *Grid) Clone() *Grid {
	header := make([]string, len(g.header))
	copy(header, g.header)
	rows := make([][]Value, len(g.rows))
	for i, row := range g.rows {
		copied := make([]Value, len(row))
		copy(copied, row)
		rows[i] = copied
	}
	return &Grid{header: header, rows: rows}
}

func normalizeRow(row []Value, width int) []Value {
	out := make([]Value, width)
	for i := 0; i < width && i < len(row); i++ {
		out[i] = row[i]
	}
	return out
}
