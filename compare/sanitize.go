package compare

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	headerBadChars = regexp.MustCompile(`[\[\]:*?\\/]`)
	tableNameChars = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// SafeHeaders rewrites headers for export only: blank headers become
// Column<position>, characters Excel rejects inside table headers become
// underscores, and collisions get a _2, _3, ... suffix until unique.
func SafeHeaders(columns []string) []string {
	out := make([]string, 0, len(columns))
	seen := make(map[string]struct{}, len(columns))
	for i, col := range columns {
		name := strings.TrimSpace(col)
		if name == "" {
			name = fmt.Sprintf("Column%d", i+1)
		}
		name = headerBadChars.ReplaceAllString(name, "_")

		base := name
		for n := 1; ; {
			if _, dup := seen[name]; !dup {
				break
			}
			n++
			name = fmt.Sprintf("%s_%d", base, n)
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// tableNamer issues workbook-unique table display names. Uniqueness is
// tracked per workbook through a seen set; the suffix function is
// injectable so tests can use a deterministic counter.
type tableNamer struct {
	seen   map[string]struct{}
	suffix func() string
}

func newTableNamer(suffix func() string) *tableNamer {
	if suffix == nil {
		suffix = randomSuffix
	}
	return &tableNamer{seen: make(map[string]struct{}), suffix: suffix}
}

func randomSuffix() string {
	return uuid.NewString()[:8]
}

// Name derives a valid table display name from a sheet title: only
// letters, digits and underscores, starting with a letter, at most 80
// characters before the uniqueness suffix.
func (n *tableNamer) Name(sheetTitle string) string {
	base := tableNameChars.ReplaceAllString(sheetTitle, "_")
	if base == "" || !isASCIILetter(base[0]) {
		base = "T_" + base
	}
	if len(base) > 80 {
		base = base[:80]
	}

	name := base + "_" + n.suffix()
	for {
		if _, dup := n.seen[name]; !dup {
			break
		}
		name = base + "_" + n.suffix()
	}
	n.seen[name] = struct{}{}
	return name
}

func isASCIILetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
