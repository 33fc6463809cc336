package table

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Format names a storage format.
type Format string

const (
	// FormatCSV is row-oriented comma-separated text with a header row.
	FormatCSV Format = "csv"

	// FormatSQLite is a single-file SQLite database.
	FormatSQLite Format = "sqlite"
)

// Extension returns the file suffix of the format, including the dot.
func (f Format) Extension() string { return "." + string(f) }

// Codec reads and writes tables in one format. Read gives the columns
// named in pinned the given kinds.
type Codec interface {
	Read(ctx context.Context, path string, pinned []Column) (*Table, error)
	Write(ctx context.Context, t *Table, path string) error
}

var (
	codecsMu sync.RWMutex
	codecs   = map[Format]Codec{}
)

// Register installs the codec for f, replacing any previous one.
func Register(f Format, c Codec) {
	codecsMu.Lock()
	defer codecsMu.Unlock()
	codecs[f] = c
}

// Formats returns the registered formats, sorted.
func Formats() []Format {
	codecsMu.RLock()
	defer codecsMu.RUnlock()
	out := make([]Format, 0, len(codecs))
	for f := range codecs {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

func lookup(f Format) (Codec, error) {
	codecsMu.RLock()
	defer codecsMu.RUnlock()
	c, ok := codecs[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFormat, string(f))
	}
	return c, nil
}

// ParseFormat resolves a format name, case-insensitively and with or without
// a leading dot.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "."))
	if _, err := lookup(f); err != nil {
		return "", err
	}
	return f, nil
}

// FormatOf infers the format from the path's extension.
func FormatOf(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrFormat, path)
	}
	return ParseFormat(ext)
}

// WithExtension forces f's extension onto path. A registered format's
// extension already on the path is replaced; any other suffix is kept.
func WithExtension(path string, f Format) string {
	ext := filepath.Ext(path)
	if ext == f.Extension() {
		return path
	}
	if _, err := ParseFormat(ext); ext != "" && err == nil {
		path = strings.TrimSuffix(path, ext)
	}
	return path + f.Extension()
}

// Load reads the table at path in format f. The path's extension is
// normalized with WithExtension first. Columns named in pinned are read with
// the given kinds whatever the file suggests; see Table.Pin.
func Load(ctx context.Context, path string, f Format, pinned ...Column) (*Table, error) {
	c, err := lookup(f)
	if err != nil {
		return nil, err
	}
	path = WithExtension(path, f)
	t, err := c.Read(ctx, path, pinned)
	if err != nil {
		return nil, fmt.Errorf("loading %s table %s: %w", f, path, err)
	}
	return t, nil
}

// Save writes t to path in format f, replacing any existing file, and
// returns the normalized path written.
func Save(ctx context.Context, t *Table, path string, f Format) (string, error) {
	if t == nil {
		return "", fmt.Errorf("%w: nil table", ErrSchema)
	}
	c, err := lookup(f)
	if err != nil {
		return "", err
	}
	path = WithExtension(path, f)
	if err := c.Write(ctx, t, path); err != nil {
		return "", fmt.Errorf("saving %s table %s: %w", f, path, err)
	}
	return path, nil
}
