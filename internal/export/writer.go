package export

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/vanshika/datafaker/internal/domain"
)

// Writer persists named datasets. Close flushes anything buffered.
type Writer interface {
	Write(ctx context.Context, name string, rows []Row) error
	Close() error
}

// Supported output formats.
const (
	FormatCSV    = "csv"
	FormatXLSX   = "xlsx"
	FormatSQLite = "sqlite"
)

// NewWriter returns the file writer for format rooted at dir.
func NewWriter(format, dir string) (Writer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatCSV:
		return NewCSVWriter(dir), nil
	case FormatXLSX:
		return NewXLSXWriter(dir), nil
	case FormatSQLite:
		return NewSQLiteWriter(dir)
	}
	return nil, domain.Errorf(domain.ErrCodeConfiguration, "unsupported output format %q", format)
}

type multiWriter struct {
	writers []Writer
}

// MultiWriter duplicates every dataset to all writers, stopping at the first failure.
func MultiWriter(writers ...Writer) Writer {
	all := make([]Writer, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			all = append(all, w)
		}
	}
	return &multiWriter{writers: all}
}

func (m *multiWriter) Write(ctx context.Context, name string, rows []Row) error {
	for _, w := range m.writers {
		if err := w.Write(ctx, name, rows); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

func (m *multiWriter) Close() error {
	var err error
	for _, w := range m.writers {
		err = multierr.Append(err, w.Close())
	}
	return err
}
