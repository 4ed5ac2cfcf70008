package compare

import (
	"context"
	"io"
	"math"

	"github.com/xuri/excelize/v2"
)

// Fixed sheet titles of the exported workbook, independent of locale.
const (
	SheetOld   = "Oude_invoer"
	SheetNew   = "Nieuwe_invoer"
	SheetAdded = "Nieuwe_rijen_Delay_gt_0"
)

const tableStyleName = "TableStyleMedium9"

// ContentTypeXLSX is the MIME type of the exported workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RenderOptions configures workbook output.
type RenderOptions struct {
	// MaxBytes aborts the write when the workbook grows past the limit.
	MaxBytes int64
	// TableSuffix overrides the table-name uniqueness suffix. Defaults to
	// a random 8-character suffix.
	TableSuffix func() string
}

// RenderStats capture renderer output.
type RenderStats struct {
	Rows  int64
	Bytes int64
}

// WorkbookRenderer writes a comparison result as a three-sheet workbook:
// old input, new input, and the added rows with positive delay. Sheets
// with at least one data row carry a uniquely named striped table region;
// header-only sheets carry just the header row.
type WorkbookRenderer struct{}

// Render writes the workbook. Headers are sanitized per sheet for export
// only; the comparison result itself is never mutated.
func (r WorkbookRenderer) Render(ctx context.Context, result Result, w io.Writer, opts RenderOptions) (RenderStats, error) {
	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	if def := file.GetSheetName(0); def != SheetOld {
		if err := file.SetSheetName(def, SheetOld); err != nil {
			return RenderStats{}, err
		}
	}
	for _, name := range []string{SheetNew, SheetAdded} {
		if _, err := file.NewSheet(name); err != nil {
			return RenderStats{}, err
		}
	}

	headerID, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return RenderStats{}, err
	}

	namer := newTableNamer(opts.TableSuffix)
	stats := RenderStats{}

	sheets := []struct {
		name  string
		table Table
	}{
		{SheetOld, result.Old.Unindex()},
		{SheetNew, result.New.Unindex()},
		{SheetAdded, result.Added},
	}
	for _, s := range sheets {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		rows, err := writeSheet(file, s.name, s.table, headerID, namer)
		if err != nil {
			return stats, err
		}
		stats.Rows += rows
	}

	lw := newLimitedWriter(w, opts.MaxBytes)
	if _, err := file.WriteTo(lw); err != nil {
		return stats, err
	}
	stats.Bytes = lw.count
	return stats, nil
}

func writeSheet(file *excelize.File, sheet string, t Table, headerID int, namer *tableNamer) (int64, error) {
	headers := SafeHeaders(t.Columns)
	if len(headers) == 0 {
		return 0, nil
	}

	headerCells := make([]any, len(headers))
	for i, h := range headers {
		headerCells[i] = h
	}
	if err := file.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return 0, err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return 0, err
	}
	if err := file.SetCellStyle(sheet, "A1", lastHeader, headerID); err != nil {
		return 0, err
	}

	for i, row := range t.Rows {
		cells := make([]any, len(t.Columns))
		for j, col := range t.Columns {
			cells[j] = cellValue(row[col])
		}
		anchor, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		if err := file.SetSheetRow(sheet, anchor, &cells); err != nil {
			return 0, err
		}
	}

	// Table regions require a header row plus at least one data row.
	if len(t.Rows) >= 1 {
		lastCell, err := excelize.CoordinatesToCellName(len(headers), len(t.Rows)+1)
		if err != nil {
			return 0, err
		}
		stripes := true
		if err := file.AddTable(sheet, &excelize.Table{
			Range:          "A1:" + lastCell,
			Name:           namer.Name(sheet),
			StyleName:      tableStyleName,
			ShowRowStripes: &stripes,
		}); err != nil {
			return 0, err
		}
	}

	return int64(len(t.Rows)), nil
}

func cellValue(v Value) any {
	switch v.Kind() {
	case ValueNumber:
		f, _ := v.Float()
		if math.IsNaN(f) {
			return ""
		}
		return f
	case ValueString:
		return v.Text()
	default:
		return ""
	}
}
