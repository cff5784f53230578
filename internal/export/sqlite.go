package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// DatabaseName is the file SQLiteWriter stores datasets in.
const DatabaseName = "datafaker.db"

// SQLiteWriter stores each dataset as a table of TEXT columns, replacing the table if it
// already exists. The database file is created on the first write.
type SQLiteWriter struct {
	conn *sql.DB
	Path string
}

// NewSQLiteWriter targets <dir>/datafaker.db.
func NewSQLiteWriter(dir string) (*SQLiteWriter, error) {
	if dir == "" {
		dir = "."
	}
	return &SQLiteWriter{Path: filepath.Join(dir, DatabaseName)}, nil
}

func (w *SQLiteWriter) open(ctx context.Context) error {
	if w.conn != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(w.Path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	conn, err := sql.Open("sqlite", w.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	if _, err := conn.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return fmt.Errorf("setting WAL mode: %w", err)
	}
	w.conn = conn
	return nil
}

func (w *SQLiteWriter) Write(ctx context.Context, name string, rows []Row) error {
	if err := w.open(ctx); err != nil {
		return err
	}
	cols := Columns(rows)
	table := quoteIdent(name)

	tx, err := w.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("drop %s: %w", name, err)
	}
	if len(cols) == 0 {
		return tx.Commit()
	}

	defs := make([]string, len(cols))
	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = quoteIdent(col)
		defs[i] = quoted[i] + " TEXT"
		marks[i] = "?"
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(quoted, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", name, err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for _, row := range rows {
		for i, col := range cols {
			v, ok := row.Get(col)
			if !ok || v == nil {
				args[i] = nil
				continue
			}
			args[i] = FormatValue(v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", name, err)
		}
	}
	return tx.Commit()
}

func (w *SQLiteWriter) Close() error {
	if w.conn == nil {
		return nil
	}
	return w.conn.Close()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
