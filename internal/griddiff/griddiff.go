// Package griddiff summarizes what a mutation changed between the fetched
// grid and the grid written back, for logging and tool results.
package griddiff

import (
	"encoding/csv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"sheetcraft/internal/grid"
)

const maxDiffLines = 2000

// Summary reports row counts and line-level change counts between two grids.
type Summary struct {
	RowsBefore   int  `json:"rows_before"`
	RowsAfter    int  `json:"rows_after"`
	LinesAdded   int  `json:"lines_added"`
	LinesRemoved int  `json:"lines_removed"`
	Truncated    bool `json:"truncated,omitempty"`
}

// Compare renders both grids as CSV and line-diffs them. Grids beyond the
// line budget report only row counts with Truncated set.
func Compare(before, after *grid.Grid) Summary {
	summary := Summary{
		RowsBefore: before.NumRows(),
		RowsAfter:  after.NumRows(),
	}
	beforeText := renderCSV(before)
	afterText := renderCSV(after)
	if lineCount(beforeText)+lineCount(afterText) > maxDiffLines {
		summary.Truncated = true
		return summary
	}

	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lineArray := dmp.DiffLinesToChars(beforeText, afterText)
	diffs := dmp.DiffMain(beforeChars, afterChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	for _, d := range diffs {
		lines := lineCount(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			summary.LinesAdded += lines
		case diffmatchpatch.DiffDelete:
			summary.LinesRemoved += lines
		}
	}
	return summary
}

func renderCSV(g *grid.Grid) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	for _, row := range g.Cells() {
		record := make([]string, len(row))
		for i, cell := range row {
			value, err := grid.FromCell(cell)
			if err != nil {
				continue
			}
			record[i] = value.String()
		}
		// Writer only fails on IO, and strings.Builder cannot.
		_ = w.Write(record)
	}
	w.Flush()
	return sb.String()
}

func lineCount(value string) int {
	if value == "" {
		return 0
	}
	return strings.Count(value, "\n")
}
