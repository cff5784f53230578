package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CSVWriter writes each dataset to <dir>/<name>.csv.
type CSVWriter struct {
	dir string
}

// NewCSVWriter returns a writer rooted at dir, which is created on first write.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// Path returns the file a dataset is written to.
func (w *CSVWriter) Path(name string) string {
	return filepath.Join(w.dir, name+".csv")
}

func (w *CSVWriter) Write(ctx context.Context, name string, rows []Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	path := w.Path(name)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := WriteCSV(file, rows); err != nil {
		return fmt.Errorf("encode csv for %s: %w", path, err)
	}
	return file.Close()
}

func (w *CSVWriter) Close() error { return nil }

// WriteCSV encodes rows with a header equal to Columns(rows). No rows means no output.
func WriteCSV(out io.Writer, rows []Row) error {
	cols := Columns(rows)
	if len(cols) == 0 {
		return nil
	}

	cw := csv.NewWriter(out)
	if err := cw.Write(cols); err != nil {
		return err
	}
	if err := cw.WriteAll(Records(cols, rows)); err != nil {
		return err
	}
	return cw.Error()
}

// ReadCSV parses a file written by CSVWriter. Empty cells are treated as absent keys,
// so optional fields that were never set stay absent.
func ReadCSV(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	rows, err := DecodeCSV(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return rows, nil
}

// DecodeCSV reads a header line followed by records.
func DecodeCSV(in io.Reader) ([]Row, error) {
	cr := csv.NewReader(in)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row := make(Row, 0, len(rec))
		for i, cell := range rec {
			if cell == "" {
				continue
			}
			row = append(row, Field{Key: header[i], Value: cell})
		}
		rows = append(rows, row)
	}
}
