package extractors

import "strings"

// Value is a decoded table cell run: a scalar when the row carries a single
// value cell, otherwise the ordered list of value cells.
type Value struct {
	list   []string
	isList bool
}

// ScalarValue builds a scalar Value.
func ScalarValue(s string) Value {
	return Value{list: []string{s}}
}

// ListValue builds a list Value.
func ListValue(values ...string) Value {
	return Value{list: values, isList: true}
}

// IsList reports whether the row had more than one value cell.
func (v Value) IsList() bool {
	return v.isList
}

// Scalar returns the value of a scalar row. ok is false for lists.
func (v Value) Scalar() (string, bool) {
	if v.isList || len(v.list) == 0 {
		return "", false
	}
	return v.list[0], true
}

// Values returns the cells of the row. A scalar yields a single element.
func (v Value) Values() []string {
	return v.list
}

func (v Value) String() string {
	if v.isList {
		return "[" + strings.Join(v.list, ", ") + "]"
	}
	return strings.Join(v.list, "")
}

// DecodeTable maps the first cell of every row to the remaining cells. Rows
// without a value cell are skipped; a repeated key keeps the last row.
func DecodeTable(rows [][]string) map[string]Value {
	decoded := make(map[string]Value, len(rows))
	for _, row := range rows {
		switch {
		case len(row) < 2:
			continue
		case len(row) == 2:
			decoded[row[0]] = ScalarValue(row[1])
		default:
			values := make([]string, len(row)-1)
			copy(values, row[1:])
			decoded[row[0]] = ListValue(values...)
		}
	}
	return decoded
}
