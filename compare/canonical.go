package compare

import (
	"regexp"
	"strings"
)

// Canonical column names recognized by the pipeline.
const (
	ColItemNumber = "Item number"
	ColDelayDays  = "Delay (days)"
	ColNumber     = "Number"
)

var (
	openParenRe  = regexp.MustCompile(`\s*\(\s*`)
	closeParenRe = regexp.MustCompile(`\s*\)\s*`)
)

// canonicalHeaders maps normalized header spellings to canonical names.
var canonicalHeaders = map[string]string{
	"item number": ColItemNumber,
	"itemnumber":  ColItemNumber,
	"item no":     ColItemNumber,
	"item_no":     ColItemNumber,
	"itemnr":      ColItemNumber,
	"item":        ColItemNumber,

	"delay(days)":        ColDelayDays,
	"delay (days)":       ColDelayDays,
	"delay_days":         ColDelayDays,
	"delay":              ColDelayDays,
	"vertraging(dagen)":  ColDelayDays,
	"vertraging (dagen)": ColDelayDays,

	"number": ColNumber,
}

// normHeaderKey normalizes a header for synonym matching only: non-breaking
// spaces become spaces, whitespace runs collapse, the result is trimmed and
// lowercased, and whitespace around parentheses is removed.
func normHeaderKey(name string) string {
	s := strings.ReplaceAll(name, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ToLower(strings.TrimSpace(s))
	s = openParenRe.ReplaceAllString(s, "(")
	s = closeParenRe.ReplaceAllString(s, ")")
	return s
}

// CanonColumns renames headers matching a known synonym set to their
// canonical form. Unrecognized headers pass through unchanged. When two
// headers resolve to the same canonical name, the column already spelled
// canonically wins, otherwise the leftmost; later collisions pass through.
func CanonColumns(t Table) Table {
	used := make(map[string]struct{}, len(t.Columns))
	finals := make([]string, len(t.Columns))

	// Columns already spelled canonically keep their name.
	for i, col := range t.Columns {
		if target, ok := canonicalHeaders[normHeaderKey(col)]; ok && col == target {
			finals[i] = col
			used[col] = struct{}{}
		}
	}

	for i, col := range t.Columns {
		if finals[i] != "" {
			continue
		}
		name := col
		if target, ok := canonicalHeaders[normHeaderKey(col)]; ok {
			if _, taken := used[target]; !taken {
				name = target
			}
		}
		finals[i] = name
		used[name] = struct{}{}
	}

	rows := make([]Row, len(t.Rows))
	for ri, row := range t.Rows {
		out := make(Row, len(finals))
		for i, col := range t.Columns {
			out[finals[i]] = row[col]
		}
		rows[ri] = out
	}

	return Table{Columns: finals, Rows: rows}
}

// EnsureItemNumber duplicates the Number column into Item number when the
// latter is missing. Number itself is left in place.
func EnsureItemNumber(t Table) Table {
	if t.HasColumn(ColItemNumber) || !t.HasColumn(ColNumber) {
		return t
	}

	columns := make([]string, 0, len(t.Columns)+1)
	columns = append(columns, t.Columns...)
	columns = append(columns, ColItemNumber)

	rows := make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		out := row.clone()
		out[ColItemNumber] = row[ColNumber]
		rows[i] = out
	}

	return Table{Columns: columns, Rows: rows}
}
