package table

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

func init() {
	Register(FormatSQLite, sqliteCodec{})
}

const (
	dataTable = "data"
	metaTable = "meta"
	indexKey  = "index"
)

// sqliteCodec stores rows in a "data" table whose columns are TEXT or REAL,
// and the index designation in a "meta" key/value table.
type sqliteCodec struct{}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	return db, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sqlType(k Kind) string {
	if k == KindFloat {
		return "REAL"
	}
	return "TEXT"
}

func (sqliteCodec) Write(ctx context.Context, t *Table, path string) error {
	if len(t.columns) == 0 {
		return fmt.Errorf("%w: cannot store a table without columns", ErrSchema)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	db, err := openSQLite(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	defs := make([]string, len(t.columns))
	names := make([]string, len(t.columns))
	marks := make([]string, len(t.columns))
	for j, c := range t.columns {
		names[j] = quoteIdent(c.Name)
		defs[j] = names[j] + " " + sqlType(c.Kind) + " NOT NULL"
		marks[j] = "?"
	}

	stmts := []string{
		fmt.Sprintf("CREATE TABLE %s (%s)", dataTable, strings.Join(defs, ", ")),
		fmt.Sprintf("CREATE TABLE %s (key TEXT PRIMARY KEY, value TEXT NOT NULL)", metaTable),
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	if t.index != "" {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("INSERT INTO %s (key, value) VALUES (?, ?)", metaTable), indexKey, t.index); err != nil {
			return fmt.Errorf("write metadata: %w", err)
		}
	}

	insert, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		dataTable, strings.Join(names, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return err
	}
	defer insert.Close()

	for i, row := range t.rows {
		if _, err := insert.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (sqliteCodec) Read(ctx context.Context, path string, pinned []Column) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := openSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	columns, err := readColumns(ctx, db)
	if err != nil {
		return nil, err
	}
	t, err := New(columns...)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY rowid", dataTable))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		strs := make([]sql.NullString, len(columns))
		floats := make([]sql.NullFloat64, len(columns))
		dest := make([]any, len(columns))
		for j, c := range columns {
			if c.Kind == KindFloat {
				dest[j] = &floats[j]
			} else {
				dest[j] = &strs[j]
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		cells := make([]any, len(columns))
		for j, c := range columns {
			if c.Kind == KindFloat {
				cells[j] = floats[j].Float64
			} else {
				cells[j] = strs[j].String
			}
		}
		if err := t.Append(cells...); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var index string
	err = db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT value FROM %s WHERE key = ?", metaTable), indexKey).Scan(&index)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("read metadata: %w", err)
	default:
		if err := t.SetIndex(index); err != nil {
			return nil, err
		}
	}
	if err := t.Pin(pinned...); err != nil {
		return nil, err
	}
	return t, nil
}

func readColumns(ctx context.Context, db *sql.DB) ([]Column, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", dataTable))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var (
			cid      int
			name     string
			declType string
			notNull  int
			dflt     sql.NullString
			pk       int
		)
		if err := rows.Scan(&cid, &name, &declType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		kind := KindString
		if strings.EqualFold(declType, "REAL") {
			kind = KindFloat
		}
		columns = append(columns, Column{Name: name, Kind: kind})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no %q table in database", ErrSchema, dataTable)
	}
	return columns, nil
}
