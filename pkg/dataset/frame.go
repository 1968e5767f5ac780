package dataset

import (
	"fmt"
	"math"
	"time"
)

// Frame is an ordered-by-timestamp table of named float64 columns.
// Rows are keyed by strictly increasing timestamps and are never reordered
// after construction. Boolean columns are stored as 0/1.
type Frame struct {
	timestamps []time.Time
	columns    []string
	colIndex   map[string]int
	rows       [][]float64
}

// NewFrame creates an empty frame with the given column names.
func NewFrame(columns []string) *Frame {
	cols := make([]string, len(columns))
	copy(cols, columns)

	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		idx[c] = i
	}

	return &Frame{
		columns:  cols,
		colIndex: idx,
	}
}

// AppendRow adds a row at the end of the frame. The timestamp must be
// strictly after the last row's timestamp.
func (f *Frame) AppendRow(ts time.Time, values []float64) error {
	if len(values) != len(f.columns) {
		return fmt.Errorf("row has %d values, frame has %d columns", len(values), len(f.columns))
	}
	if n := len(f.timestamps); n > 0 && !ts.After(f.timestamps[n-1]) {
		return fmt.Errorf("timestamp %s not after previous row %s", ts.Format(time.RFC3339), f.timestamps[n-1].Format(time.RFC3339))
	}

	row := make([]float64, len(values))
	copy(row, values)

	f.timestamps = append(f.timestamps, ts)
	f.rows = append(f.rows, row)
	return nil
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// Columns returns a copy of the column names.
func (f *Frame) Columns() []string {
	cols := make([]string, len(f.columns))
	copy(cols, f.columns)
	return cols
}

// HasColumn reports whether the frame contains the named column.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.colIndex[name]
	return ok
}

// Timestamp returns the timestamp of row i.
func (f *Frame) Timestamp(i int) time.Time {
	return f.timestamps[i]
}

// Value returns the value of the named column at row i.
func (f *Frame) Value(i int, column string) (float64, error) {
	j, ok := f.colIndex[column]
	if !ok {
		return 0, fmt.Errorf("unknown column %q", column)
	}
	return f.rows[i][j], nil
}

// Column returns a copy of the named column's values.
func (f *Frame) Column(name string) ([]float64, error) {
	j, ok := f.colIndex[name]
	if !ok {
		return nil, fmt.Errorf("unknown column %q", name)
	}

	out := make([]float64, len(f.rows))
	for i, row := range f.rows {
		out[i] = row[j]
	}
	return out, nil
}

// Row returns a copy of row i restricted to the given columns.
func (f *Frame) Row(i int, columns []string) ([]float64, error) {
	out := make([]float64, len(columns))
	for k, c := range columns {
		j, ok := f.colIndex[c]
		if !ok {
			return nil, fmt.Errorf("unknown column %q", c)
		}
		out[k] = f.rows[i][j]
	}
	return out, nil
}

// Matrix returns a row-major copy of the frame restricted to the given
// columns, suitable as model input.
func (f *Frame) Matrix(columns []string) ([][]float64, error) {
	out := make([][]float64, len(f.rows))
	for i := range f.rows {
		row, err := f.Row(i, columns)
		if err != nil {
			return nil, err
		}
		out[i] = row
	}
	return out, nil
}

// Slice returns a deep copy of rows [lo, hi).
func (f *Frame) Slice(lo, hi int) *Frame {
	out := NewFrame(f.columns)
	out.timestamps = make([]time.Time, hi-lo)
	copy(out.timestamps, f.timestamps[lo:hi])

	out.rows = make([][]float64, hi-lo)
	for i := lo; i < hi; i++ {
		row := make([]float64, len(f.rows[i]))
		copy(row, f.rows[i])
		out.rows[i-lo] = row
	}
	return out
}

// Copy returns a deep copy of the whole frame.
func (f *Frame) Copy() *Frame {
	return f.Slice(0, f.Len())
}

// SetColumn replaces the named column's values in place.
func (f *Frame) SetColumn(name string, values []float64) error {
	j, ok := f.colIndex[name]
	if !ok {
		return fmt.Errorf("unknown column %q", name)
	}
	if len(values) != len(f.rows) {
		return fmt.Errorf("column %q has %d values, frame has %d rows", name, len(values), len(f.rows))
	}
	for i := range f.rows {
		f.rows[i][j] = values[i]
	}
	return nil
}

// DropNaNRows returns a copy of the frame with every row containing a NaN
// removed. Lagged and forward-looking features leave NaNs at the edges of the
// series; dropping them keeps the no-missing-values invariant.
func (f *Frame) DropNaNRows() *Frame {
	out := NewFrame(f.columns)
	for i, row := range f.rows {
		hasNaN := false
		for _, v := range row {
			if math.IsNaN(v) {
				hasNaN = true
				break
			}
		}
		if hasNaN {
			continue
		}

		cp := make([]float64, len(row))
		copy(cp, row)
		out.timestamps = append(out.timestamps, f.timestamps[i])
		out.rows = append(out.rows, cp)
	}
	return out
}
