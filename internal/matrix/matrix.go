// Package matrix provides a two-dimensional float matrix whose axes carry
// their own meaning (fuel or engine) and labels.
//
// Orientation is part of the value: a consumption matrix always knows whether
// its rows are fuels or engines, and Conform validates and reorients it
// against the fuel and engine name lists a calculator expects. Any mismatch
// is reported as ErrShapeMismatch instead of being transposed silently.
package matrix

import (
	"fmt"
	"slices"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrShapeMismatch indicates that a matrix's orientation, dimensions or
// labels disagree with the declared fuel and engine name lists.
const ErrShapeMismatch = constError("shape mismatch")

// Axis names the meaning of a matrix dimension.
type Axis int

const (
	// FuelAxis labels a dimension with power source names.
	FuelAxis Axis = iota

	// EngineAxis labels a dimension with generator names.
	EngineAxis
)

// String returns a human-readable representation of the Axis.
func (a Axis) String() string {
	switch a {
	case FuelAxis:
		return "fuel"
	case EngineAxis:
		return "engine"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Other returns the complementary axis.
func (a Axis) Other() Axis {
	if a == FuelAxis {
		return EngineAxis
	}
	return FuelAxis
}

// Matrix is an immutable, row-major matrix with labelled axes.
type Matrix struct {
	rowAxis Axis
	rows    []string
	cols    []string
	cells   []float64
}

// New returns a zero-filled matrix. Labels must be unique along each axis.
func New(rowAxis Axis, rows, cols []string) (*Matrix, error) {
	if rowAxis != FuelAxis && rowAxis != EngineAxis {
		return nil, fmt.Errorf("%w: unknown row axis %v", ErrShapeMismatch, rowAxis)
	}
	if err := checkUnique(rowAxis, rows); err != nil {
		return nil, err
	}
	if err := checkUnique(rowAxis.Other(), cols); err != nil {
		return nil, err
	}
	return &Matrix{
		rowAxis: rowAxis,
		rows:    slices.Clone(rows),
		cols:    slices.Clone(cols),
		cells:   make([]float64, len(rows)*len(cols)),
	}, nil
}

// FromRows builds a matrix from row slices. Every row must have len(cols) values.
func FromRows(rowAxis Axis, rows, cols []string, data [][]float64) (*Matrix, error) {
	m, err := New(rowAxis, rows, cols)
	if err != nil {
		return nil, err
	}
	if len(data) != len(rows) {
		return nil, fmt.Errorf("%w: %d %s labels but %d rows of data", ErrShapeMismatch, len(rows), rowAxis, len(data))
	}
	for i, row := range data {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("%w: row %q has %d values, want %d", ErrShapeMismatch, rows[i], len(row), len(cols))
		}
		copy(m.cells[i*len(cols):], row)
	}
	return m, nil
}

func checkUnique(axis Axis, labels []string) error {
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if _, dup := seen[l]; dup {
			return fmt.Errorf("%w: duplicate %s label %q", ErrShapeMismatch, axis, l)
		}
		seen[l] = struct{}{}
	}
	return nil
}

// RowAxis is the meaning of the row dimension.
func (m *Matrix) RowAxis() Axis { return m.rowAxis }

// ColAxis is the meaning of the column dimension.
func (m *Matrix) ColAxis() Axis { return m.rowAxis.Other() }

// Rows returns the row labels.
func (m *Matrix) Rows() []string { return slices.Clone(m.rows) }

// Cols returns the column labels.
func (m *Matrix) Cols() []string { return slices.Clone(m.cols) }

// Shape returns the number of rows and columns.
func (m *Matrix) Shape() (int, int) { return len(m.rows), len(m.cols) }

// At returns the cell at row i, column j.
func (m *Matrix) At(i, j int) float64 { return m.cells[i*len(m.cols)+j] }

// Get returns the cell addressed by its row and column labels.
func (m *Matrix) Get(row, col string) (float64, bool) {
	i := slices.Index(m.rows, row)
	j := slices.Index(m.cols, col)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.At(i, j), true
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	return slices.Clone(m.cells[i*len(m.cols) : (i+1)*len(m.cols)])
}

// Transpose swaps the axes.
func (m *Matrix) Transpose() *Matrix {
	t := &Matrix{
		rowAxis: m.rowAxis.Other(),
		rows:    slices.Clone(m.cols),
		cols:    slices.Clone(m.rows),
		cells:   make([]float64, len(m.cells)),
	}
	for i := range m.rows {
		for j := range m.cols {
			t.cells[j*len(m.rows)+i] = m.At(i, j)
		}
	}
	return t
}

// Conform returns the matrix oriented with fuel rows and engine columns,
// ordered exactly as fuels and engines. The label sets must match.
func (m *Matrix) Conform(fuels, engines []string) (*Matrix, error) {
	oriented := m
	if m.rowAxis != FuelAxis {
		oriented = m.Transpose()
	}

	rowIdx, err := permutation(FuelAxis, oriented.rows, fuels)
	if err != nil {
		return nil, err
	}
	colIdx, err := permutation(EngineAxis, oriented.cols, engines)
	if err != nil {
		return nil, err
	}

	out := &Matrix{
		rowAxis: FuelAxis,
		rows:    slices.Clone(fuels),
		cols:    slices.Clone(engines),
		cells:   make([]float64, len(fuels)*len(engines)),
	}
	for i, src := range rowIdx {
		for j, srcCol := range colIdx {
			out.cells[i*len(engines)+j] = oriented.At(src, srcCol)
		}
	}
	return out, nil
}

// permutation maps each wanted label to its index in have.
func permutation(axis Axis, have, want []string) ([]int, error) {
	if len(have) != len(want) {
		return nil, fmt.Errorf("%w: %d %s labels, expected %d (%v)", ErrShapeMismatch, len(have), axis, len(want), want)
	}
	idx := make([]int, len(want))
	for i, w := range want {
		j := slices.Index(have, w)
		if j < 0 {
			return nil, fmt.Errorf("%w: %s %q missing from matrix labels %v", ErrShapeMismatch, axis, w, have)
		}
		idx[i] = j
	}
	return idx, nil
}

// JoinColumn left-joins values onto the row index as a new column labelled
// name. Rows absent from values get 0; keys that are not row labels are dropped.
func (m *Matrix) JoinColumn(name string, values map[string]float64) (*Matrix, error) {
	if slices.Contains(m.cols, name) {
		return nil, fmt.Errorf("%w: duplicate %s label %q", ErrShapeMismatch, m.ColAxis(), name)
	}

	width := len(m.cols) + 1
	out := &Matrix{
		rowAxis: m.rowAxis,
		rows:    slices.Clone(m.rows),
		cols:    append(slices.Clone(m.cols), name),
		cells:   make([]float64, len(m.rows)*width),
	}
	for i, row := range m.rows {
		copy(out.cells[i*width:], m.cells[i*len(m.cols):(i+1)*len(m.cols)])
		out.cells[i*width+width-1] = values[row]
	}
	return out, nil
}

// Totals sums the matrix down to a vector along axis. Totals(FuelAxis)
// returns one sum per fuel label, collapsing the engine dimension.
func (m *Matrix) Totals(axis Axis) []float64 {
	if axis == m.rowAxis {
		out := make([]float64, len(m.rows))
		for i := range m.rows {
			for j := range m.cols {
				out[i] += m.At(i, j)
			}
		}
		return out
	}

	out := make([]float64, len(m.cols))
	for i := range m.rows {
		for j := range m.cols {
			out[j] += m.At(i, j)
		}
	}
	return out
}

// Sum reduces every cell to a scalar.
func (m *Matrix) Sum() float64 {
	var total float64
	for _, v := range m.cells {
		total += v
	}
	return total
}
