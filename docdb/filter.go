package docdb

import "fmt"

// Comparison operators accepted by Where.
const (
	OpEqual        = "=="
	OpNotEqual     = "!="
	OpLess         = "<"
	OpLessEqual    = "<="
	OpGreater      = ">"
	OpGreaterEqual = ">="
	OpContains     = "contains"
)

// Filter constrains a query to documents whose field satisfies a comparison.
type Filter struct {
	field string
	op    string
	value any
}

// Where builds a filter matching documents where field op value holds,
// e.g. Where("age", OpGreaterEqual, 21).
func Where(field, op string, value any) Filter {
	return Filter{field: field, op: op, value: value}
}

func (f Filter) wire() (map[string]any, error) {
	if f.field == "" {
		return nil, fmt.Errorf("docdb: filter requires a field name")
	}
	switch f.op {
	case OpEqual, OpNotEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual, OpContains:
		return map[string]any{
			"field": f.field,
			"op":    f.op,
			"value": f.value,
		}, nil
	default:
		return nil, fmt.Errorf("docdb: unknown filter operator %q on field %q", f.op, f.field)
	}
}
