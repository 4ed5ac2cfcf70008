package compare

import (
	"sort"
	"strconv"
	"strings"
)

// AddedWithDelay returns the rows whose keys exist only in the new table,
// sorted ascending by key, filtered to a strictly positive Delay (days)
// when that column is present. The key is restored as the leading column.
// Absent the delay column, every new-only key is included.
func AddedWithDelay(oldIdx, newIdx Indexed) Table {
	added := make([]string, 0, len(newIdx.Keys))
	for _, k := range newIdx.Keys {
		if !oldIdx.Has(k) {
			added = append(added, k)
		}
	}
	sort.Strings(added)

	columns := make([]string, 0, len(newIdx.Columns)+1)
	columns = append(columns, newIdx.KeyColumn)
	columns = append(columns, newIdx.Columns...)

	if len(added) == 0 {
		return Table{Columns: columns}
	}

	hasDelay := false
	for _, c := range newIdx.Columns {
		if c == ColDelayDays {
			hasDelay = true
			break
		}
	}

	rows := make([]Row, 0, len(added))
	for _, k := range added {
		src := newIdx.Rows[k]
		if hasDelay {
			delay := coerceDelay(src[ColDelayDays])
			if delay <= 0 {
				continue
			}
			src = src.clone()
			src[ColDelayDays] = Number(delay)
		}
		row := make(Row, len(columns))
		row[newIdx.KeyColumn] = String(k)
		for _, c := range newIdx.Columns {
			row[c] = src[c]
		}
		rows = append(rows, row)
	}

	return Table{Columns: columns, Rows: rows}
}

// coerceDelay converts a delay cell to a number; non-numeric and missing
// values become 0.
func coerceDelay(v Value) float64 {
	if v.IsEmpty() {
		return 0
	}
	if f, ok := v.Float(); ok {
		return f
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Text()), 64)
	if err != nil {
		return 0
	}
	return f
}
