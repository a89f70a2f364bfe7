// Package workbook is the local xlsx backend of the grid store, used for
// offline work and as the end-to-end test double for the tool layer. The
// locator names a workbook file inside a fixed directory; the tab is a
// sheet name within it.
package workbook

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"sheetcraft/internal/apperr"
	"sheetcraft/internal/grid"
	"sheetcraft/internal/logging"
)

type Store struct {
	dir    string
	logger *slog.Logger
}

func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Store{dir: dir, logger: logger}
}

func (s *Store) Fetch(ctx context.Context, locator, tab string) (*grid.Grid, error) {
	path, err := s.resolve(locator)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.NotFoundf("workbook %q not found", locator)
		}
		if os.IsPermission(err) {
			return nil, apperr.Accessf("workbook %q is not readable", locator)
		}
		return nil, apperr.Wrap(apperr.CodeUnavailable, err, "cannot open workbook "+locator)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(tab)
	if err != nil || idx == -1 {
		return nil, apperr.NotFoundf("tab %q not found in workbook %q", tab, locator)
	}
	rows, err := f.GetRows(tab)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUnavailable, err, "cannot read tab "+tab)
	}
	if len(rows) == 0 {
		return nil, apperr.Validationf("tab %q has no header row", tab)
	}
	s.logger.Debug("workbook.fetch", "path", path, "tab", tab, "rows", len(rows))
	return grid.FromCells(stringCells(rows))
}

func (s *Store) Replace(ctx context.Context, locator, tab string, g *grid.Grid) error {
	path, err := s.resolve(locator)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return apperr.Wrap(apperr.CodeUnavailable, err, "cannot create workbook directory")
	}

	f, created, err := openOrCreate(path)
	if err != nil {
		return err
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(tab)
	if err != nil {
		return apperr.Validationf("invalid tab name %q", tab)
	}
	if idx == -1 {
		if _, err := f.NewSheet(tab); err != nil {
			return apperr.Wrap(apperr.CodeUnavailable, err, "cannot create tab "+tab)
		}
		if created && tab != "Sheet1" {
			_ = f.DeleteSheet("Sheet1")
		}
	}

	oldRows, err := f.GetRows(tab)
	if err != nil {
		return apperr.Wrap(apperr.CodeUnavailable, err, "cannot read tab "+tab)
	}
	cells := g.Cells()
	for r, row := range cells {
		ref, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return apperr.Wrap(apperr.CodeUnavailable, err, "cannot address row")
		}
		if err := f.SetSheetRow(tab, ref, &row); err != nil {
			return apperr.Wrap(apperr.CodeUnavailable, err, "cannot write row")
		}
	}
	// drop leftovers from the previous, possibly larger grid
	for r := len(oldRows); r > len(cells); r-- {
		if err := f.RemoveRow(tab, r); err != nil {
			return apperr.Wrap(apperr.CodeUnavailable, err, "cannot trim rows")
		}
	}
	for c := maxWidth(oldRows); c > g.NumColumns(); c-- {
		name, err := excelize.ColumnNumberToName(c)
		if err != nil {
			return apperr.Wrap(apperr.CodeUnavailable, err, "cannot address column")
		}
		if err := f.RemoveCol(tab, name); err != nil {
			return apperr.Wrap(apperr.CodeUnavailable, err, "cannot trim columns")
		}
	}

	if err := f.SaveAs(path); err != nil {
		if os.IsPermission(err) {
			return apperr.Accessf("workbook %q is not writable", locator)
		}
		return apperr.Wrap(apperr.CodeUnavailable, err, "cannot save workbook "+locator)
	}
	s.logger.Debug("workbook.replace", "path", path, "tab", tab, "rows", g.NumRows())
	return nil
}

// resolve maps a locator to a file path. Locators are bare workbook names;
// anything that walks the filesystem is rejected.
func (s *Store) resolve(locator string) (string, error) {
	name := strings.TrimSpace(locator)
	if name == "" {
		return "", apperr.Validationf("workbook locator must not be blank")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", apperr.Validationf("workbook locator %q must be a bare file name", locator)
	}
	if filepath.Ext(name) == "" {
		name += ".xlsx"
	}
	return filepath.Join(s.dir, name), nil
}

func openOrCreate(path string) (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(path)
	if err == nil {
		return f, false, nil
	}
	if os.IsNotExist(err) {
		return excelize.NewFile(), true, nil
	}
	if os.IsPermission(err) {
		return nil, false, apperr.Accessf("workbook is not readable")
	}
	return nil, false, apperr.Wrap(apperr.CodeUnavailable, err, "cannot open workbook")
}

func stringCells(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for r, row := range rows {
		cells := make([]any, len(row))
		for c, value := range row {
			cells[c] = value
		}
		out[r] = cells
	}
	return out
}

func maxWidth(rows [][]string) int {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}
