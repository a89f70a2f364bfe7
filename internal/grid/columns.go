package grid

import (
	"strings"

	"sheetcraft/internal/apperr"
)

// Formula names a computation for a derived column. The set is closed:
// ParseFormula rejects anything else before dispatch.
type Formula string

const (
	FormulaConcat   Formula = "concat"
	FormulaSum      Formula = "sum"
	FormulaMultiply Formula = "multiply"
	FormulaSubtract Formula = "subtract"
	FormulaDivide   Formula = "divide"
)

func ParseFormula(name string) (Formula, error) {
	switch Formula(strings.ToLower(strings.TrimSpace(name))) {
	case FormulaConcat:
		return FormulaConcat, nil
	case FormulaSum:
		return FormulaSum, nil
	case FormulaMultiply:
		return FormulaMultiply, nil
	case FormulaSubtract:
		return FormulaSubtract, nil
	case FormulaDivide:
		return FormulaDivide, nil
	default:
		return "", apperr.Validationf("unsupported formula %q (want concat, sum, multiply, subtract, or divide)", name)
	}
}

// FormulaParams carries the optional knobs of a formula. Operand is a
// constant folded in after the reference columns, which lets numeric
// formulas work with a single reference (e.g. age + 5).
type FormulaParams struct {
	Separator *string  `json:"separator,omitempty"`
	Prefix    string   `json:"prefix,omitempty"`
	Suffix    string   `json:"suffix,omitempty"`
	Operand   *float64 `json:"operand,omitempty"`
}

// AddColumn appends a derived column computed per row from the reference
// columns. Any row-level failure aborts the whole operation; the grid is
// only mutated after every row has computed cleanly.
func (g *Grid) AddColumn(name string, formula Formula, refs []string, params FormulaParams) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validationf("new column name must not be blank")
	}
	if _, ok := g.ColumnIndex(name); ok {
		return apperr.Validationf("column %q already exists", name)
	}
	if len(refs) == 0 {
		return apperr.Validationf("at least one reference column is required")
	}
	refIdx := make([]int, len(refs))
	for i, ref := range refs {
		c, ok := g.ColumnIndex(ref)
		if !ok {
			return apperr.Validationf("reference column %q not found", ref)
		}
		refIdx[i] = c
	}
	if formula != FormulaConcat && params.Operand == nil && len(refs) < 2 {
		return apperr.Validationf("formula %q needs at least two reference columns or a params.operand constant", formula)
	}

	column := make([]Value, len(g.rows))
	for r, row := range g.rows {
		value, err := applyFormula(formula, row, refIdx, refs, params, r)
		if err != nil {
			return err
		}
		column[r] = value
	}
	g.header = append(g.header, name)
	for r := range g.rows {
		g.rows[r] = append(g.rows[r], column[r])
	}
	return nil
}

func applyFormula(formula Formula, row []Value, refIdx []int, refs []string, params FormulaParams, r int) (Value, error) {
	if formula == FormulaConcat {
		separator := ""
		if params.Separator != nil {
			separator = *params.Separator
		}
		parts := make([]string, len(refIdx))
		for i, c := range refIdx {
			parts[i] = row[c].String()
		}
		return String(params.Prefix + strings.Join(parts, separator) + params.Suffix), nil
	}

	operands := make([]float64, 0, len(refIdx)+1)
	for i, c := range refIdx {
		f, ok := row[c].AsNumber()
		if !ok {
			return Empty(), apperr.Validationf("row %d: column %q value %q is not numeric", r+1, refs[i], row[c].String())
		}
		operands = append(operands, f)
	}
	if params.Operand != nil {
		operands = append(operands, *params.Operand)
	}

	acc := operands[0]
	for _, f := range operands[1:] {
		switch formula {
		case FormulaSum:
			acc += f
		case FormulaMultiply:
			acc *= f
		case FormulaSubtract:
			acc -= f
		case FormulaDivide:
			if f == 0 {
				return Empty(), apperr.Validationf("row %d: division by zero", r+1)
			}
			acc /= f
		default:
			return Empty(), apperr.Validationf("unsupported formula %q", formula)
		}
	}
	return Number(acc), nil
}

// RenameColumn rewrites one header entry in place; cell data is untouched.
func (g *Grid) RenameColumn(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return apperr.Validationf("new column name must not be blank")
	}
	c, ok := g.ColumnIndex(oldName)
	if !ok {
		return apperr.NotFoundf("column %q not found", oldName)
	}
	if _, ok := g.ColumnIndex(newName); ok {
		return apperr.Validationf("column %q already exists", newName)
	}
	g.header[c] = newName
	return nil
}
