package grid

import (
	"sort"

	"sheetcraft/internal/apperr"
)

// AddRow appends one row assembled in header order. Keys naming columns the
// grid does not have extend the header, padding existing rows blank.
func (g *Grid) AddRow(data map[string]Value) error {
	if len(data) == 0 {
		return apperr.Validationf("row_data must name at least one column")
	}
	var missing []string
	for key := range data {
		if _, ok := g.ColumnIndex(key); !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	for _, name := range missing {
		g.header = append(g.header, name)
		for i := range g.rows {
			g.rows[i] = append(g.rows[i], Empty())
		}
	}
	row := make([]Value, len(g.header))
	for i, name := range g.header {
		if value, ok := data[name]; ok {
			row[i] = value
		}
	}
	g.rows = append(g.rows, row)
	return nil
}

// EditRow overwrites the cells named in updates on every row matching the
// identifier and reports how many rows changed. Zero matches is a not-found
// failure and leaves the grid untouched.
func (g *Grid) EditRow(identifier, updates map[string]Value) (int, error) {
	if len(updates) == 0 {
		return 0, apperr.Validationf("updated_data must name at least one column")
	}
	for key := range updates {
		if _, ok := g.ColumnIndex(key); !ok {
			return 0, apperr.NotFoundf("update column %q not found", key)
		}
	}
	matches, err := g.matchRows(identifier)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, apperr.NotFoundf("no row matches the identifier")
	}
	for _, r := range matches {
		for key, value := range updates {
			c, _ := g.ColumnIndex(key)
			g.rows[r][c] = value
		}
	}
	return len(matches), nil
}

// DeleteRow removes every row matching the identifier, preserving the order
// of survivors, and reports how many rows were removed.
func (g *Grid) DeleteRow(identifier map[string]Value) (int, error) {
	matches, err := g.matchRows(identifier)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, apperr.NotFoundf("no row matches the identifier")
	}
	matched := make(map[int]bool, len(matches))
	for _, r := range matches {
		matched[r] = true
	}
	survivors := make([][]Value, 0, len(g.rows)-len(matches))
	for i, row := range g.rows {
		if !matched[i] {
			survivors = append(survivors, row)
		}
	}
	g.rows = survivors
	return len(matches), nil
}

func (g *Grid) matchRows(identifier map[string]Value) ([]int, error) {
	if len(identifier) == 0 {
		return nil, apperr.Validationf("row_identifier must name at least one column")
	}
	type predicate struct {
		col   int
		value Value
	}
	preds := make([]predicate, 0, len(identifier))
	for key, value := range identifier {
		c, ok := g.ColumnIndex(key)
		if !ok {
			return nil, apperr.NotFoundf("identifier column %q not found", key)
		}
		preds = append(preds, predicate{col: c, value: value})
	}
	var matches []int
	for i, row := range g.rows {
		all := true
		for _, p := range preds {
			if !row[p.col].Equal(p.value) {
				all = false
				break
			}
		}
		if all {
			matches = append(matches, i)
		}
	}
	return matches, nil
}
