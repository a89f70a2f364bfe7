package grid

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sheetcraft/internal/apperr"
)

// Transformation names an in-place rewrite of one column. The set is closed:
// ParseTransformation rejects anything else before dispatch.
type Transformation string

const (
	TransformUppercase      Transformation = "uppercase"
	TransformLowercase      Transformation = "lowercase"
	TransformTitlecase      Transformation = "titlecase"
	TransformRound          Transformation = "round"
	TransformScale          Transformation = "scale"
	TransformFormatDate     Transformation = "format_date"
	TransformPercentOfTotal Transformation = "percent_of_total"
)

func ParseTransformation(name string) (Transformation, error) {
	switch Transformation(strings.ToLower(strings.TrimSpace(name))) {
	case TransformUppercase:
		return TransformUppercase, nil
	case TransformLowercase:
		return TransformLowercase, nil
	case TransformTitlecase:
		return TransformTitlecase, nil
	case TransformRound:
		return TransformRound, nil
	case TransformScale:
		return TransformScale, nil
	case TransformFormatDate:
		return TransformFormatDate, nil
	case TransformPercentOfTotal:
		return TransformPercentOfTotal, nil
	default:
		return "", apperr.Validationf("unsupported transformation %q (want uppercase, lowercase, titlecase, round, scale, format_date, or percent_of_total)", name)
	}
}

// TransformParams carries per-transformation knobs:
//   - titlecase: split_on + part_index title only one segment (negative
//     part_index counts from the end)
//   - round, percent_of_total: decimals (round defaults to 0, percent to 2)
//   - scale: factor (required)
//   - format_date: source_format / target_format as Go reference layouts;
//     without source_format a small set of common layouts is tried
type TransformParams struct {
	SplitOn      string   `json:"split_on,omitempty"`
	PartIndex    *int     `json:"part_index,omitempty"`
	Decimals     *int     `json:"decimals,omitempty"`
	Factor       *float64 `json:"factor,omitempty"`
	SourceFormat string   `json:"source_format,omitempty"`
	TargetFormat string   `json:"target_format,omitempty"`
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// TransformColumn rewrites every cell of one column independently, except
// percent_of_total which needs a full-column pass for the total first. The
// column only mutates after every cell has computed cleanly.
func (g *Grid) TransformColumn(name string, tr Transformation, params TransformParams) error {
	c, ok := g.ColumnIndex(name)
	if !ok {
		return apperr.NotFoundf("column %q not found", name)
	}

	var column []Value
	var err error
	switch tr {
	case TransformUppercase:
		column = g.mapRendered(c, strings.ToUpper)
	case TransformLowercase:
		column = g.mapRendered(c, strings.ToLower)
	case TransformTitlecase:
		column, err = g.titlecaseColumn(c, params)
	case TransformRound:
		column, err = g.roundColumn(c, name, decimalsOrDefault(params.Decimals, 0))
	case TransformScale:
		column, err = g.scaleColumn(c, name, params)
	case TransformFormatDate:
		column, err = g.formatDateColumn(c, name, params)
	case TransformPercentOfTotal:
		column, err = g.percentOfTotalColumn(c, name, decimalsOrDefault(params.Decimals, 2))
	default:
		return apperr.Validationf("unsupported transformation %q", tr)
	}
	if err != nil {
		return err
	}
	for r := range g.rows {
		g.rows[r][c] = column[r]
	}
	return nil
}

func (g *Grid) mapRendered(c int, fn func(string) string) []Value {
	column := make([]Value, len(g.rows))
	for r, row := range g.rows {
		if row[c].IsEmpty() {
			column[r] = Empty()
			continue
		}
		column[r] = String(fn(row[c].String()))
	}
	return column
}

func (g *Grid) titlecaseColumn(c int, params TransformParams) ([]Value, error) {
	caser := cases.Title(language.Und)
	if params.SplitOn == "" {
		return g.mapRendered(c, caser.String), nil
	}
	column := make([]Value, len(g.rows))
	for r, row := range g.rows {
		if row[c].IsEmpty() {
			column[r] = Empty()
			continue
		}
		parts := strings.Split(row[c].String(), params.SplitOn)
		idx := len(parts) - 1
		if params.PartIndex != nil {
			idx = *params.PartIndex
			if idx < 0 {
				idx += len(parts)
			}
		}
		if idx < 0 || idx >= len(parts) {
			return nil, apperr.Validationf("row %d: part_index %d out of range for %d parts", r+1, idx, len(parts))
		}
		parts[idx] = caser.String(strings.TrimSpace(parts[idx]))
		column[r] = String(strings.Join(parts, params.SplitOn))
	}
	return column, nil
}

func (g *Grid) roundColumn(c int, name string, decimals int) ([]Value, error) {
	column := make([]Value, len(g.rows))
	for r, row := range g.rows {
		if row[c].IsEmpty() {
			column[r] = Empty()
			continue
		}
		f, ok := row[c].AsNumber()
		if !ok {
			return nil, apperr.Validationf("row %d: column %q value %q is not numeric", r+1, name, row[c].String())
		}
		column[r] = Number(roundTo(f, decimals))
	}
	return column, nil
}

func (g *Grid) scaleColumn(c int, name string, params TransformParams) ([]Value, error) {
	if params.Factor == nil {
		return nil, apperr.Validationf("scale requires params.factor")
	}
	column := make([]Value, len(g.rows))
	for r, row := range g.rows {
		if row[c].IsEmpty() {
			column[r] = Empty()
			continue
		}
		f, ok := row[c].AsNumber()
		if !ok {
			return nil, apperr.Validationf("row %d: column %q value %q is not numeric", r+1, name, row[c].String())
		}
		column[r] = Number(f * *params.Factor)
	}
	return column, nil
}

func (g *Grid) formatDateColumn(c int, name string, params TransformParams) ([]Value, error) {
	target := params.TargetFormat
	if target == "" {
		target = "2006-01-02"
	}
	column := make([]Value, len(g.rows))
	for r, row := range g.rows {
		if row[c].IsEmpty() {
			column[r] = Empty()
			continue
		}
		parsed, err := parseDate(row[c].String(), params.SourceFormat)
		if err != nil {
			return nil, apperr.Validationf("row %d: column %q value %q is not a recognizable date", r+1, name, row[c].String())
		}
		column[r] = String(parsed.Format(target))
	}
	return column, nil
}

func (g *Grid) percentOfTotalColumn(c int, name string, decimals int) ([]Value, error) {
	total := 0.0
	for r, row := range g.rows {
		if row[c].IsEmpty() {
			continue
		}
		f, ok := row[c].AsNumber()
		if !ok {
			return nil, apperr.Validationf("row %d: column %q value %q is not numeric", r+1, name, row[c].String())
		}
		total += f
	}
	if total == 0 {
		return nil, apperr.Validationf("column %q totals zero, cannot compute percentages", name)
	}
	column := make([]Value, len(g.rows))
	for r, row := range g.rows {
		if row[c].IsEmpty() {
			column[r] = Empty()
			continue
		}
		f, _ := row[c].AsNumber()
		column[r] = Number(roundTo(f/total*100, decimals))
	}
	return column, nil
}

func parseDate(value, sourceFormat string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if sourceFormat != "" {
		return time.Parse(sourceFormat, trimmed)
	}
	var lastErr error
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, trimmed)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func decimalsOrDefault(decimals *int, fallback int) int {
	if decimals == nil {
		return fallback
	}
	return *decimals
}

func roundTo(f float64, decimals int) float64 {
	pow := math.Pow10(decimals)
	return math.Round(f*pow) / pow
}
