// Package table is a small in-memory tabular structure with ordered, typed
// columns and an optional row index, plus load/save codecs keyed by format.
//
// The calculation core never sees a file format: readers produce a Table,
// writers consume one.
package table

import (
	"fmt"
	"slices"
	"strconv"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

const (
	// ErrSchema indicates a column, type or index violation.
	ErrSchema = constError("table schema error")

	// ErrFormat indicates an unknown or unregistered storage format.
	ErrFormat = constError("unsupported table format")
)

// Kind is the type of every cell in a column.
type Kind int

const (
	// KindString columns hold string cells.
	KindString Kind = iota

	// KindFloat columns hold float64 cells.
	KindFloat
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Column describes one table column.
type Column struct {
	Name string
	Kind Kind
}

// String returns a column of string cells.
func String(name string) Column { return Column{Name: name, Kind: KindString} }

// Float returns a column of float64 cells.
func Float(name string) Column { return Column{Name: name, Kind: KindFloat} }

// Table holds rows of cells, each cell a string or a float64 according to
// its column's Kind.
type Table struct {
	columns []Column
	byName  map[string]int
	rows    [][]any

	index    string
	indexPos map[string]int
}

// New returns an empty table with the given columns. Names must be unique
// and non-empty.
func New(columns ...Column) (*Table, error) {
	t := &Table{columns: slices.Clone(columns), byName: make(map[string]int, len(columns))}
	for i, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: column %d has no name", ErrSchema, i)
		}
		if c.Kind != KindString && c.Kind != KindFloat {
			return nil, fmt.Errorf("%w: column %q has unknown kind %v", ErrSchema, c.Name, c.Kind)
		}
		if _, dup := t.byName[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrSchema, c.Name)
		}
		t.byName[c.Name] = i
	}
	return t, nil
}

// NewIndexed returns an empty table indexed by the named string column.
func NewIndexed(index string, columns ...Column) (*Table, error) {
	t, err := New(columns...)
	if err != nil {
		return nil, err
	}
	if err := t.SetIndex(index); err != nil {
		return nil, err
	}
	return t, nil
}

// Columns returns the column descriptors in order.
func (t *Table) Columns() []Column { return slices.Clone(t.columns) }

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the position of the named column.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.byName[name]
	return i, ok
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Append adds a row. Cells must match the column kinds; int cells are
// accepted for float columns.
func (t *Table) Append(cells ...any) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("%w: row has %d cells for %d columns", ErrSchema, len(cells), len(t.columns))
	}
	row := make([]any, len(cells))
	for i, v := range cells {
		c, err := coerce(t.columns[i], v)
		if err != nil {
			return err
		}
		row[i] = c
	}

	if t.index != "" {
		key := row[t.byName[t.index]].(string)
		if _, dup := t.indexPos[key]; dup {
			return fmt.Errorf("%w: duplicate index value %q in column %q", ErrSchema, key, t.index)
		}
		t.indexPos[key] = len(t.rows)
	}
	t.rows = append(t.rows, row)
	return nil
}

func coerce(col Column, v any) (any, error) {
	switch col.Kind {
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindFloat:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		}
	}
	return nil, fmt.Errorf("%w: column %q expects %s, got %T", ErrSchema, col.Name, col.Kind, v)
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []any { return slices.Clone(t.rows[i]) }

// Value returns the cell of row i in the named column.
func (t *Table) Value(i int, column string) (any, error) {
	j, ok := t.byName[column]
	if !ok {
		return nil, fmt.Errorf("%w: no column %q", ErrSchema, column)
	}
	if i < 0 || i >= len(t.rows) {
		return nil, fmt.Errorf("%w: row %d out of range [0, %d)", ErrSchema, i, len(t.rows))
	}
	return t.rows[i][j], nil
}

// StringAt returns a string cell.
func (t *Table) StringAt(i int, column string) (string, error) {
	v, err := t.Value(i, column)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: column %q is not a string column", ErrSchema, column)
	}
	return s, nil
}

// FloatAt returns a float cell.
func (t *Table) FloatAt(i int, column string) (float64, error) {
	v, err := t.Value(i, column)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: column %q is not a float column", ErrSchema, column)
	}
	return f, nil
}

// Index returns the name of the index column, or "" when unindexed.
func (t *Table) Index() string { return t.index }

// SetIndex makes the named string column the row index. Its values must be
// unique. An empty name removes the index.
func (t *Table) SetIndex(column string) error {
	if column == "" {
		t.index, t.indexPos = "", nil
		return nil
	}
	j, ok := t.byName[column]
	if !ok {
		return fmt.Errorf("%w: no column %q to index by", ErrSchema, column)
	}
	if t.columns[j].Kind != KindString {
		return fmt.Errorf("%w: index column %q must hold strings", ErrSchema, column)
	}
	pos := make(map[string]int, len(t.rows))
	for i, row := range t.rows {
		key := row[j].(string)
		if _, dup := pos[key]; dup {
			return fmt.Errorf("%w: duplicate index value %q in column %q", ErrSchema, key, column)
		}
		pos[key] = i
	}
	t.index, t.indexPos = column, pos
	return nil
}

// Lookup returns the row whose index value is key.
func (t *Table) Lookup(key string) (int, bool) {
	i, ok := t.indexPos[key]
	return i, ok
}

func pinnedKinds(pinned []Column) map[string]Kind {
	kinds := make(map[string]Kind, len(pinned))
	for _, c := range pinned {
		kinds[c.Name] = c.Kind
	}
	return kinds
}

// Pin converts the named columns present in t to the given kinds. Float
// cells become their shortest decimal text; string cells must parse as
// finite numbers. Columns absent from t are ignored.
func (t *Table) Pin(pinned ...Column) error {
	for _, p := range pinned {
		j, ok := t.byName[p.Name]
		if !ok || t.columns[j].Kind == p.Kind {
			continue
		}
		if t.index == p.Name {
			return fmt.Errorf("%w: cannot change the kind of index column %q", ErrSchema, p.Name)
		}
		converted := make([]any, len(t.rows))
		for i, row := range t.rows {
			switch v := row[j].(type) {
			case float64:
				converted[i] = strconv.FormatFloat(v, 'f', -1, 64)
			case string:
				f, ok := parseFinite(v)
				if !ok {
					return fmt.Errorf("%w: row %d: column %q: %q is not a number", ErrSchema, i+1, p.Name, v)
				}
				converted[i] = f
			}
		}
		for i, row := range t.rows {
			row[j] = converted[i]
		}
		t.columns[j].Kind = p.Kind
	}
	return nil
}
