package compare

import (
	"math"
	"strconv"
	"strings"
)

// ValueKind discriminates cell value variants.
type ValueKind uint8

const (
	ValueEmpty ValueKind = iota
	ValueString
	ValueNumber
)

// Value is a single table cell: a string, a number, or empty/missing.
type Value struct {
	kind ValueKind
	str  string
	num  float64
}

// String creates a string cell value.
func String(s string) Value {
	return Value{kind: ValueString, str: s}
}

// Number creates a numeric cell value.
func Number(f float64) Value {
	return Value{kind: ValueNumber, num: f}
}

// Empty creates an empty cell value.
func Empty() Value {
	return Value{}
}

// ParseValue interprets a raw cell string: blank cells become empty,
// numeric cells become numbers, everything else stays a string. A cell is
// numeric only when the parsed value renders back to the same text, so
// keys like "0012" keep their leading zeros and stay distinct from 12.
func ParseValue(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Empty()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && formatNumber(f) == s {
		return Number(f)
	}
	return String(s)
}

// Kind reports the value variant.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsEmpty reports whether the cell holds no usable value.
func (v Value) IsEmpty() bool {
	if v.kind == ValueNumber {
		return math.IsNaN(v.num)
	}
	return v.kind == ValueEmpty
}

// Float returns the numeric value when the cell is a number.
func (v Value) Float() (float64, bool) {
	if v.kind != ValueNumber {
		return 0, false
	}
	return v.num, true
}

// Text renders the cell for display. Integer-valued numbers render without
// a decimal point.
func (v Value) Text() string {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueNumber:
		return formatNumber(v.num)
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Row maps column names to cell values.
type Row map[string]Value

func (r Row) clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of columns over a sequence of rows. Column order
// matters for display only; rows are addressed by column name.
type Table struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the table carries the named column.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// TableFromRecords builds a table from a header record plus data records,
// as produced by spreadsheet and CSV readers. Header cells are trimmed;
// data cells are parsed into value variants. Short records are padded with
// empty cells, extra cells beyond the header are dropped.
func TableFromRecords(records [][]string) Table {
	if len(records) == 0 {
		return Table{}
	}

	columns := make([]string, len(records[0]))
	for i, h := range records[0] {
		columns[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = ParseValue(record[i])
			} else {
				row[col] = Empty()
			}
		}
		rows = append(rows, row)
	}

	return Table{Columns: columns, Rows: rows}
}

// Indexed is a table addressed by normalized key instead of row position.
// The key is not an ordinary column; Unindex restores it.
type Indexed struct {
	KeyColumn string
	Columns   []string
	Keys      []string
	Rows      map[string]Row
}

// Has reports whether the key is present.
func (x Indexed) Has(key string) bool {
	_, ok := x.Rows[key]
	return ok
}

// Len returns the number of indexed rows.
func (x Indexed) Len() int {
	return len(x.Keys)
}

// Unindex restores the key as the leading ordinary column.
func (x Indexed) Unindex() Table {
	columns := make([]string, 0, len(x.Columns)+1)
	columns = append(columns, x.KeyColumn)
	columns = append(columns, x.Columns...)

	rows := make([]Row, 0, len(x.Keys))
	for _, key := range x.Keys {
		row := make(Row, len(columns))
		row[x.KeyColumn] = String(key)
		for _, col := range x.Columns {
			row[col] = x.Rows[key][col]
		}
		rows = append(rows, row)
	}

	return Table{Columns: columns, Rows: rows}
}
