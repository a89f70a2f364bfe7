package grid

import (
	"strings"

	"github.com/montanaflynn/stats"

	"sheetcraft/internal/apperr"
)

// CleanMethod names a blank-cell cleaning strategy.
type CleanMethod string

const (
	CleanMean   CleanMethod = "mean"
	CleanMedian CleanMethod = "median"
	CleanDrop   CleanMethod = "drop"
)

func ParseCleanMethod(name string) (CleanMethod, error) {
	switch CleanMethod(strings.ToLower(strings.TrimSpace(name))) {
	case CleanMean:
		return CleanMean, nil
	case CleanMedian:
		return CleanMedian, nil
	case CleanDrop:
		return CleanDrop, nil
	default:
		return "", apperr.Validationf("unsupported cleaning method %q (want mean, median, or drop)", name)
	}
}

// Clean fills blank cells of numeric columns with the column mean or median,
// or drops rows containing any blank cell. Returns the number of cells
// filled (or rows dropped).
func (g *Grid) Clean(method CleanMethod) (int, error) {
	switch method {
	case CleanDrop:
		return g.dropBlankRows(), nil
	case CleanMean, CleanMedian:
		return g.fillNumericBlanks(method)
	default:
		return 0, apperr.Validationf("unsupported cleaning method %q", method)
	}
}

func (g *Grid) dropBlankRows() int {
	survivors := make([][]Value, 0, len(g.rows))
	dropped := 0
	for _, row := range g.rows {
		blank := false
		for _, value := range row {
			if value.IsEmpty() {
				blank = true
				break
			}
		}
		if blank {
			dropped++
			continue
		}
		survivors = append(survivors, row)
	}
	g.rows = survivors
	return dropped
}

func (g *Grid) fillNumericBlanks(method CleanMethod) (int, error) {
	filled := 0
	for c := range g.header {
		sample, blanks, numeric := g.numericColumn(c)
		if !numeric || len(blanks) == 0 {
			continue
		}
		var fill float64
		var err error
		if method == CleanMean {
			fill, err = stats.Mean(sample)
		} else {
			fill, err = stats.Median(sample)
		}
		if err != nil {
			return filled, apperr.Validationf("column %q: %v", g.header[c], err)
		}
		for _, r := range blanks {
			g.rows[r][c] = Number(fill)
			filled++
		}
	}
	return filled, nil
}

// numericColumn reports the non-empty values of column c as floats, the rows
// with blank cells, and whether every non-empty cell coerced numerically.
func (g *Grid) numericColumn(c int) ([]float64, []int, bool) {
	var sample []float64
	var blanks []int
	for r, row := range g.rows {
		if row[c].IsEmpty() {
			blanks = append(blanks, r)
			continue
		}
		f, ok := row[c].AsNumber()
		if !ok {
			return nil, nil, false
		}
		sample = append(sample, f)
	}
	return sample, blanks, len(sample) > 0
}
