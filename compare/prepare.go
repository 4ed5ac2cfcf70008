package compare

import (
	"fmt"
	"sort"
)

// Prepare canonicalizes, key-normalizes, deduplicates, and column-aligns
// two raw tables, returning both as key-indexed tables plus the resolved
// common column list (key first, remaining shared columns sorted).
func Prepare(oldTable, newTable Table, key string) (Indexed, Indexed, []string, error) {
	oldTable = EnsureItemNumber(CanonColumns(oldTable))
	newTable = EnsureItemNumber(CanonColumns(newTable))

	if !oldTable.HasColumn(key) || !newTable.HasColumn(key) {
		schemaErr := &SchemaError{
			Column:     key,
			OldColumns: append([]string(nil), oldTable.Columns...),
			NewColumns: append([]string(nil), newTable.Columns...),
		}
		return Indexed{}, Indexed{}, nil, NewError(KindSchema, fmt.Sprintf("key column %q missing", key), schemaErr)
	}

	normalizeKeys(oldTable, key)
	normalizeKeys(newTable, key)

	oldTable.Rows = dedupeLast(oldTable.Rows, key)
	newTable.Rows = dedupeLast(newTable.Rows, key)

	common := commonColumns(oldTable.Columns, newTable.Columns, key)

	oldIdx := indexByKey(oldTable, key, common)
	newIdx := indexByKey(newTable, key, common)

	return oldIdx, newIdx, common, nil
}

func normalizeKeys(t Table, key string) {
	for _, row := range t.Rows {
		row[key] = String(CleanKey(row[key]))
	}
}

// dedupeLast keeps the last occurrence per key, in original row order.
func dedupeLast(rows []Row, key string) []Row {
	last := make(map[string]int, len(rows))
	for i, row := range rows {
		last[row[key].Text()] = i
	}

	out := make([]Row, 0, len(last))
	for i, row := range rows {
		if last[row[key].Text()] == i {
			out = append(out, row)
		}
	}
	return out
}

// commonColumns intersects both schemas, sorted alphabetically, with the
// key column forced to the front.
func commonColumns(oldCols, newCols []string, key string) []string {
	oldSet := make(map[string]struct{}, len(oldCols))
	for _, c := range oldCols {
		oldSet[c] = struct{}{}
	}

	shared := make([]string, 0, len(newCols))
	hasKey := false
	for _, c := range newCols {
		if _, ok := oldSet[c]; !ok {
			continue
		}
		if c == key {
			hasKey = true
			continue
		}
		shared = append(shared, c)
	}
	sort.Strings(shared)

	if hasKey {
		return append([]string{key}, shared...)
	}
	return shared
}

func indexByKey(t Table, key string, common []string) Indexed {
	columns := make([]string, 0, len(common))
	for _, c := range common {
		if c != key {
			columns = append(columns, c)
		}
	}

	idx := Indexed{
		KeyColumn: key,
		Columns:   columns,
		Keys:      make([]string, 0, len(t.Rows)),
		Rows:      make(map[string]Row, len(t.Rows)),
	}
	for _, row := range t.Rows {
		k := row[key].Text()
		restricted := make(Row, len(columns))
		for _, c := range columns {
			restricted[c] = row[c]
		}
		idx.Keys = append(idx.Keys, k)
		idx.Rows[k] = restricted
	}
	return idx
}
