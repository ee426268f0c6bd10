package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FeatureTable is a named, numeric-only matrix: one row per observation,
// one column per feature. It is treated as immutable once built.
type FeatureTable struct {
	names []string
	data  *mat.Dense
}

// NewFeatureTable wraps data with column names. len(names) must equal the
// column count of data.
func NewFeatureTable(names []string, data *mat.Dense) (*FeatureTable, error) {
	if data == nil {
		return nil, fmt.Errorf("dataset: nil feature matrix")
	}
	_, c := data.Dims()
	if len(names) != c {
		return nil, fmt.Errorf("dataset: %d column names for %d columns", len(names), c)
	}
	return &FeatureTable{names: append([]string(nil), names...), data: data}, nil
}

// Dims returns (rows, columns).
func (t *FeatureTable) Dims() (int, int) {
	return t.data.Dims()
}

// Rows returns the number of rows.
func (t *FeatureTable) Rows() int {
	r, _ := t.data.Dims()
	return r
}

// Names returns a copy of the column names.
func (t *FeatureTable) Names() []string {
	return append([]string(nil), t.names...)
}

// Matrix exposes the underlying data read-only.
func (t *FeatureTable) Matrix() mat.Matrix {
	return t.data
}

// Col returns a copy of column j.
func (t *FeatureTable) Col(j int) []float64 {
	return mat.Col(nil, j, t.data)
}

// Index returns the position of the named column, or -1.
func (t *FeatureTable) Index(name string) int {
	for i, n := range t.names {
		if n == name {
			return i
		}
	}
	return -1
}

// SelectRows returns a new table holding the given rows in the given order.
// An empty selection yields an empty matrix (gonum has no 0×c Dense).
func (t *FeatureTable) SelectRows(rows []int) *FeatureTable {
	if len(rows) == 0 {
		return &FeatureTable{names: t.Names(), data: &mat.Dense{}}
	}
	_, c := t.data.Dims()
	out := mat.NewDense(len(rows), c, nil)
	for i, r := range rows {
		out.SetRow(i, t.data.RawRowView(r))
	}
	return &FeatureTable{names: t.Names(), data: out}
}

// WithColumn returns a new table with values appended as the last column.
func (t *FeatureTable) WithColumn(name string, values []float64) (*FeatureTable, error) {
	r, c := t.data.Dims()
	if len(values) != r {
		return nil, fmt.Errorf("dataset: column %q has %d values for %d rows", name, len(values), r)
	}
	out := mat.NewDense(r, c+1, nil)
	out.Slice(0, r, 0, c).(*mat.Dense).Copy(t.data)
	out.SetCol(c, values)
	return &FeatureTable{names: append(t.Names(), name), data: out}, nil
}
