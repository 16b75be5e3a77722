package docdb

import "fmt"

type updateOp string

const (
	opSet         updateOp = "set"
	opIncrement   updateOp = "increment"
	opArrayUnion  updateOp = "array_union"
	opArrayRemove updateOp = "array_remove"
)

// Update is a single partial-update operation on a document field. Values
// are constructed with Set, Increment, ArrayUnion, or ArrayRemove; the zero
// value is invalid.
type Update struct {
	op    updateOp
	field string
	value any
}

// Set assigns a field to a value, replacing whatever it held.
func Set(field string, value any) Update {
	return Update{op: opSet, field: field, value: value}
}

// Increment adds n to a numeric field.
func Increment(field string, n float64) Update {
	return Update{op: opIncrement, field: field, value: n}
}

// ArrayUnion appends the given values to an array field, skipping values
// already present.
func ArrayUnion(field string, values ...any) Update {
	return Update{op: opArrayUnion, field: field, value: values}
}

// ArrayRemove removes the given values from an array field.
func ArrayRemove(field string, values ...any) Update {
	return Update{op: opArrayRemove, field: field, value: values}
}

func (u Update) wire() (map[string]any, error) {
	if u.field == "" {
		return nil, fmt.Errorf("docdb: update operation requires a field name")
	}
	switch u.op {
	case opSet, opIncrement, opArrayUnion, opArrayRemove:
		return map[string]any{
			"op":    string(u.op),
			"field": u.field,
			"value": u.value,
		}, nil
	default:
		return nil, fmt.Errorf("docdb: unknown update operation %q on field %q", u.op, u.field)
	}
}
