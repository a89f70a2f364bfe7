package grid

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type ValueKind int

const (
	KindEmpty ValueKind = iota
	KindString
	KindNumber
	KindBool
)

// Value is the scalar cell variant: empty, string, number, or bool.
// Boundary decoding rejects anything else before domain logic runs.
type Value struct {
	kind    ValueKind
	str     string
	num     float64
	boolean bool
}

func Empty() Value {
	return Value{kind: KindEmpty}
}

func String(s string) Value {
	if s == "" {
		return Empty()
	}
	return Value{kind: KindString, str: s}
}

func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

func Bool(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsEmpty() bool {
	return v.kind == KindEmpty
}

// String renders the cell the way the spreadsheet displays it. Numbers use
// the shortest exact decimal form, bools render TRUE/FALSE.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		if v.boolean {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

// AsNumber coerces the cell to a float64. Numeric-looking strings coerce,
// empty and bool cells do not.
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Equal compares rendered forms, so the identifier value 25 matches a cell
// holding the string "25". Comparison is case-sensitive.
func (v Value) Equal(other Value) bool {
	return v.String() == other.String()
}

// FromCell converts a raw store cell into a Value.
func FromCell(cell any) (Value, error) {
	switch typed := cell.(type) {
	case nil:
		return Empty(), nil
	case string:
		return String(typed), nil
	case float64:
		return Number(typed), nil
	case int:
		return Number(float64(typed)), nil
	case int64:
		return Number(float64(typed)), nil
	case bool:
		return Bool(typed), nil
	case json.Number:
		f, err := typed.Float64()
		if err != nil {
			return Empty(), fmt.Errorf("unsupported numeric cell %q", typed.String())
		}
		return Number(f), nil
	default:
		return Empty(), fmt.Errorf("unsupported cell type %T", cell)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.boolean)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch typed := raw.(type) {
	case nil:
		*v = Empty()
	case string:
		*v = String(typed)
	case float64:
		*v = Number(typed)
	case bool:
		*v = Bool(typed)
	default:
		return fmt.Errorf("cell value must be a scalar, got %T", raw)
	}
	return nil
}
