package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// WorkbookName is the file XLSXWriter saves to.
const WorkbookName = "datafaker.xlsx"

const defaultSheet = "Sheet1"

// XLSXWriter collects every dataset as a sheet of one workbook, saved on Close. Nothing
// is saved when no dataset was written.
type XLSXWriter struct {
	path   string
	file   *excelize.File
	sheets int
}

// NewXLSXWriter returns a writer that saves <dir>/datafaker.xlsx.
func NewXLSXWriter(dir string) *XLSXWriter {
	return &XLSXWriter{
		path: filepath.Join(dir, WorkbookName),
		file: excelize.NewFile(),
	}
}

// Path returns the workbook location.
func (w *XLSXWriter) Path() string { return w.path }

func (w *XLSXWriter) Write(ctx context.Context, name string, rows []Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	index, err := w.file.NewSheet(name)
	if err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	if w.sheets == 0 {
		w.file.SetActiveSheet(index)
	}
	w.sheets++

	cols := Columns(rows)
	if len(cols) == 0 {
		return nil
	}

	headerStyle, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	header := make([]any, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	if err := w.file.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("write header of %s: %w", name, err)
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	if err := w.file.SetCellStyle(name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header of %s: %w", name, err)
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := make([]any, len(cols))
		for i, col := range cols {
			values[i] = cellValue(row, col)
		}
		if err := w.file.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("write row %d of %s: %w", r+1, name, err)
		}
	}
	return nil
}

// cellValue keeps numbers numeric so spreadsheets can aggregate them.
func cellValue(row Row, col string) any {
	v, ok := row.Get(col)
	if !ok || v == nil {
		return nil
	}
	switch v.(type) {
	case int, int64, float64:
		return v
	}
	return FormatValue(v)
}

func (w *XLSXWriter) Close() error {
	defer w.file.Close()
	if w.sheets == 0 {
		return nil
	}
	if err := w.file.DeleteSheet(defaultSheet); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("save %s: %w", w.path, err)
	}
	return nil
}
