package compare

import "context"

// DefaultKeyColumn is the identifier column rows are aligned on.
const DefaultKeyColumn = ColItemNumber

// Result holds the prepared tables and the added-delay rows for one
// comparison. All fields are derived, single-use artifacts.
type Result struct {
	Old     Indexed
	New     Indexed
	Added   Table
	Columns []string
}

// AddedCount returns the caller-facing summary: the number of rows newly
// present in the new table with a positive delay.
func (r Result) AddedCount() int {
	return len(r.Added.Rows)
}

// Run executes the comparison pipeline on two raw tables: canonicalize,
// prepare, and filter. It is a pure function of its inputs; nothing is
// persisted and no partial result is produced.
func Run(ctx context.Context, oldTable, newTable Table, key string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if key == "" {
		key = DefaultKeyColumn
	}

	oldIdx, newIdx, columns, err := Prepare(oldTable, newTable, key)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Old:     oldIdx,
		New:     newIdx,
		Added:   AddedWithDelay(oldIdx, newIdx),
		Columns: columns,
	}, nil
}
