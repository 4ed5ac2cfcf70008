package compare

import "strings"

// CleanKey renders a raw cell value as a canonical lookup key. Missing and
// NaN values become the empty string; numbers with no fractional part drop
// the decimal point (1001.0 -> "1001"); everything else is the trimmed
// string form. Applying CleanKey to an already-clean key is a no-op.
func CleanKey(v Value) string {
	if v.IsEmpty() {
		return ""
	}
	if f, ok := v.Float(); ok {
		return formatNumber(f)
	}
	return strings.TrimSpace(v.Text())
}
