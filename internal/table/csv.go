package table

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

func init() {
	Register(FormatCSV, csvCodec{})
}

// csvCodec stores a header row followed by data rows. Column kinds are not
// stored: a pinned column keeps its given kind, and any other column whose
// every cell is a finite number is read back as a float column. The index
// designation is not stored either.
type csvCodec struct{}

func (csvCodec) Read(_ context.Context, path string, pinned []Column) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, pinned...)
}

func (csvCodec) Write(_ context.Context, t *Table, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteCSV(f, t)
}

// ReadCSV parses a header row and data rows into a Table. Columns named in
// pinned take the given kind instead of an inferred one.
func ReadCSV(r io.Reader, pinned ...Column) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty csv input", ErrSchema)
	}
	if err != nil {
		return nil, err
	}
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	kinds := pinnedKinds(pinned)
	columns := make([]Column, len(header))
	for j, name := range header {
		kind, ok := kinds[name]
		if !ok {
			kind = inferKind(records, j)
		}
		columns[j] = Column{Name: name, Kind: kind}
	}
	t, err := New(columns...)
	if err != nil {
		return nil, err
	}

	for i, rec := range records {
		cells := make([]any, len(rec))
		for j, s := range rec {
			if columns[j].Kind != KindFloat {
				cells[j] = s
				continue
			}
			f, ok := parseFinite(s)
			if !ok {
				return nil, fmt.Errorf("%w: row %d: column %q: %q is not a number", ErrSchema, i+1, columns[j].Name, s)
			}
			cells[j] = f
		}
		if err := t.Append(cells...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func inferKind(records [][]string, j int) Kind {
	if len(records) == 0 {
		return KindString
	}
	for _, rec := range records {
		if _, ok := parseFinite(rec[j]); !ok {
			return KindString
		}
	}
	return KindFloat
}

// parseFinite accepts decimal numbers only; "inf" and "nan" stay text.
func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// WriteCSV writes t with a header row.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return err
	}
	rec := make([]string, len(t.columns))
	for _, row := range t.rows {
		for j, v := range row {
			switch c := v.(type) {
			case float64:
				rec[j] = strconv.FormatFloat(c, 'g', -1, 64)
			case string:
				rec[j] = c
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
