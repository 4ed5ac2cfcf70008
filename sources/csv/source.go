// Package csv reads a CSV document into a compare.Table.
package csv

import (
	stdcsv "encoding/csv"
	"io"
	"os"

	"github.com/procurekit/go-compare/compare"
)

// ReadTable reads a CSV document. The first record is the header row;
// records may vary in length, short rows are padded with empty cells.
func ReadTable(r io.Reader) (compare.Table, error) {
	reader := stdcsv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return compare.Table{}, compare.NewError(compare.KindValidation, "read csv document", err)
	}
	if len(records) == 0 {
		return compare.Table{}, compare.NewError(compare.KindValidation, "csv document has no header row", nil)
	}

	return compare.TableFromRecords(records), nil
}

// ReadFile reads a CSV document from disk.
func ReadFile(path string) (compare.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return compare.Table{}, err
	}
	defer func() {
		_ = f.Close()
	}()
	return ReadTable(f)
}
