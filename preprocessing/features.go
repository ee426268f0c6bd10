// Package preprocessing turns raw forest-fire records into a numeric
// feature table and a log-transformed label vector, and provides feature
// standardisation.
package preprocessing

import (
	"math"
	"strconv"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/forestfires/dataset"
	"github.com/YuminosukeSato/forestfires/pkg/errors"
)

// TargetName is the name of the derived label column.
const TargetName = "logArea"

// DroppedColumns are excluded from the feature table: the categorical
// month/day fields and area, which the label is computed from.
var DroppedColumns = []string{dataset.ColMonth, dataset.ColDay, dataset.ColArea}

// FeatureNames returns the feature columns in file order.
func FeatureNames() []string {
	return lo.Without(dataset.Columns, DroppedColumns...)
}

// LogTarget computes ln(area + 1). area must be finite and >= 0, which
// keeps the result finite and >= 0.
func LogTarget(area float64) (float64, error) {
	if math.IsNaN(area) || math.IsInf(area, 0) {
		return 0, errors.NewValueError("LogTarget", "area must be finite, got "+strconv.FormatFloat(area, 'g', -1, 64))
	}
	if area < 0 {
		return 0, errors.NewValueError("LogTarget", "area must be >= 0, got "+strconv.FormatFloat(area, 'g', -1, 64))
	}
	return math.Log1p(area), nil
}

// Engineer derives the label for every record and builds the numeric
// feature table. Row i of the table and element i of the labels both come
// from ds.Records[i].
func Engineer(ds *dataset.Dataset) (*dataset.FeatureTable, *mat.VecDense, error) {
	const op = "preprocessing.Engineer"

	n := ds.Len()
	if n == 0 {
		return nil, nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}

	names := FeatureNames()
	data := mat.NewDense(n, len(names), nil)
	labels := make([]float64, n)

	for i, rec := range ds.Records {
		for j, name := range names {
			v, ok := rec.Numeric(name)
			if !ok {
				return nil, nil, errors.NewSchemaError(op, name, 0, "column is not numeric")
			}
			data.Set(i, j, v)
		}

		y, err := LogTarget(rec.Area)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "record %d", i)
		}
		labels[i] = y
	}

	if err := errors.CheckNumericalStability("preprocessing.LogTarget", labels); err != nil {
		return nil, nil, err
	}

	ft, err := dataset.NewFeatureTable(names, data)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	y := mat.NewVecDense(n, labels)

	if err := CheckAligned(op, ft, y); err != nil {
		return nil, nil, err
	}
	return ft, y, nil
}

// CheckAligned verifies that the feature table and label vector describe
// the same number of rows.
func CheckAligned(op string, ft *dataset.FeatureTable, y *mat.VecDense) error {
	if ft.Rows() != y.Len() {
		return errors.NewSchemaError(op, TargetName, 0,
			"feature table has "+strconv.Itoa(ft.Rows())+" rows but label sequence has "+strconv.Itoa(y.Len()))
	}
	return nil
}

// WithTarget returns the feature table with the label appended as the
// last column, named TargetName.
func WithTarget(ft *dataset.FeatureTable, y *mat.VecDense) (*dataset.FeatureTable, error) {
	if err := CheckAligned("preprocessing.WithTarget", ft, y); err != nil {
		return nil, err
	}
	return ft.WithColumn(TargetName, mat.Col(nil, 0, y))
}
