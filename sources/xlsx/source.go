// Package xlsx reads the first sheet of an Excel workbook into a
// compare.Table.
package xlsx

import (
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/procurekit/go-compare/compare"
)

// ReadTable reads the first sheet of an xlsx document. The first row is
// the header row; cells that look numeric are parsed as numbers so keys
// stored as numbers and keys stored as text still collide.
func ReadTable(r io.Reader) (compare.Table, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return compare.Table{}, compare.NewError(compare.KindValidation, "open xlsx document", err)
	}
	defer func() {
		_ = file.Close()
	}()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return compare.Table{}, compare.NewError(compare.KindValidation, "xlsx document has no sheets", nil)
	}

	records, err := file.GetRows(sheet)
	if err != nil {
		return compare.Table{}, compare.NewError(compare.KindValidation, "read xlsx rows", err)
	}
	if len(records) == 0 {
		return compare.Table{}, compare.NewError(compare.KindValidation, "xlsx document has no header row", nil)
	}

	return compare.TableFromRecords(records), nil
}

// ReadFile reads an xlsx document from disk.
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
