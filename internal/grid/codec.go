package grid

import (
	"sheetcraft/internal/apperr"
)

// Document is the wire form of a grid: an ordered column list plus rows as
// column-keyed objects. The column list carries ordering, since JSON objects
// do not.
type Document struct {
	Columns []string           `json:"columns"`
	Rows    []map[string]Value `json:"rows"`
}

func (g *Grid) Document() Document {
	doc := Document{
		Columns: g.Header(),
		Rows:    make([]map[string]Value, len(g.rows)),
	}
	for i, row := range g.rows {
		obj := make(map[string]Value, len(g.header))
		for c, name := range g.header {
			obj[name] = row[c]
		}
		doc.Rows[i] = obj
	}
	return doc
}

// FromDocument rebuilds a grid from its wire form. Row keys outside the
// column list are rejected; missing keys become blank cells.
func FromDocument(doc Document) (*Grid, error) {
	index := make(map[string]int, len(doc.Columns))
	for i, name := range doc.Columns {
		index[name] = i
	}
	rows := make([][]Value, len(doc.Rows))
	for r, obj := range doc.Rows {
		row := make([]Value, len(doc.Columns))
		for key, value := range obj {
			c, ok := index[key]
			if !ok {
				return nil, apperr.Validationf("row %d references unknown column %q", r+1, key)
			}
			row[c] = value
		}
		rows[r] = row
	}
	return New(doc.Columns, rows)
}
