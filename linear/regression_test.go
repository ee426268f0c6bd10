package linear

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/forestfires/dataset"
	"github.com/YuminosukeSato/forestfires/pkg/errors"
)

func TestLinearRegression_Fit(t *testing.T) {
	tests := []struct {
		name          string
		X             *mat.Dense
		y             *mat.Dense
		opts          []Option
		wantCoef      []float64
		wantIntercept float64
	}{
		{
			name:          "y = 2x + 1",
			X:             mat.NewDense(4, 1, []float64{1, 2, 3, 4}),
			y:             mat.NewDense(4, 1, []float64{3, 5, 7, 9}),
			wantCoef:      []float64{2},
			wantIntercept: 1,
		},
		{
			name:          "y = 2x without intercept",
			X:             mat.NewDense(4, 1, []float64{1, 2, 3, 4}),
			y:             mat.NewDense(4, 1, []float64{2, 4, 6, 8}),
			opts:          []Option{WithFitIntercept(false)},
			wantCoef:      []float64{2},
			wantIntercept: 0,
		},
		{
			name: "y = 2*x1 + 3*x2 + 1",
			X: mat.NewDense(5, 2, []float64{
				1, 1,
				2, 1,
				3, 2,
				4, 2,
				5, 3,
			}),
			y:             mat.NewDense(5, 1, []float64{6, 8, 13, 15, 20}),
			wantCoef:      []float64{2, 3},
			wantIntercept: 1,
		},
		{
			name: "parallel path over the row threshold",
			X:    linearRows(1500),
			y: func() *mat.Dense {
				y := mat.NewDense(1500, 1, nil)
				for i := 0; i < 1500; i++ {
					y.Set(i, 0, -0.5*float64(i%37)+4*float64(i%11)-2)
				}
				return y
			}(),
			opts:          []Option{WithNJobs(-1)},
			wantCoef:      []float64{-0.5, 4},
			wantIntercept: -2,
		},
	}

	approx := cmpopts.EquateApprox(0, 1e-8)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := NewLinearRegression(tt.opts...)
			if err := lr.Fit(tt.X, tt.y); err != nil {
				t.Fatalf("Fit() error = %v", err)
			}
			if !lr.IsFitted() {
				t.Fatal("model should be fitted after Fit")
			}

			if diff := cmp.Diff(tt.wantCoef, lr.Coefficients(), approx); diff != "" {
				t.Errorf("Coefficients() mismatch (-want +got):\n%s", diff)
			}
			if math.Abs(lr.Intercept()-tt.wantIntercept) > 1e-8 {
				t.Errorf("Intercept() = %v, want %v", lr.Intercept(), tt.wantIntercept)
			}

			score, err := lr.Score(tt.X, tt.y)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if math.Abs(score-1) > 1e-10 {
				t.Errorf("Score() = %v, want 1 on noiseless data", score)
			}
		})
	}
}

func linearRows(n int) *mat.Dense {
	X := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i%37))
		X.Set(i, 1, float64(i%11))
	}
	return X
}

func TestLinearRegression_Predict(t *testing.T) {
	lr := NewLinearRegression()
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{3, 5, 7, 9})
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	pred, err := lr.Predict(mat.NewDense(2, 1, []float64{5, 6}))
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	r, c := pred.Dims()
	if r != 2 || c != 1 {
		t.Fatalf("Predict() dims = (%d, %d), want (2, 1)", r, c)
	}
	expected := []float64{11, 13}
	for i := range expected {
		if math.Abs(pred.At(i, 0)-expected[i]) > 1e-8 {
			t.Errorf("prediction[%d] = %v, want %v", i, pred.At(i, 0), expected[i])
		}
	}

	_, err = lr.Predict(mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("Predict() with wrong feature count: got %v, want DimensionError", err)
	}
}

func TestLinearRegression_NotFitted(t *testing.T) {
	lr := NewLinearRegression()
	X := mat.NewDense(2, 1, []float64{1, 2})

	var nfErr *errors.NotFittedError
	if _, err := lr.Predict(X); !errors.As(err, &nfErr) {
		t.Errorf("Predict() before Fit: got %v, want NotFittedError", err)
	}
	if _, err := lr.Score(X, X); !errors.As(err, &nfErr) {
		t.Errorf("Score() before Fit: got %v, want NotFittedError", err)
	}
	if err := lr.WriteJSON(&bytes.Buffer{}); !errors.As(err, &nfErr) {
		t.Errorf("WriteJSON() before Fit: got %v, want NotFittedError", err)
	}
	if lr.Coefficients() != nil {
		t.Errorf("Coefficients() before Fit = %v, want nil", lr.Coefficients())
	}
}

func TestLinearRegression_DegenerateInput(t *testing.T) {
	tests := []struct {
		name   string
		X      mat.Matrix
		y      mat.Matrix
		opts   []Option
		assert func(t *testing.T, err error)
	}{
		{
			name: "fewer columns than expected",
			X:    mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6}),
			y:    mat.NewDense(3, 1, []float64{1, 2, 3}),
			opts: []Option{WithExpectedFeatures(10)},
			assert: func(t *testing.T, err error) {
				var schemaErr *errors.SchemaError
				if !errors.As(err, &schemaErr) {
					t.Errorf("got %v, want SchemaError", err)
				}
			},
		},
		{
			name: "NaN feature value",
			X:    mat.NewDense(3, 1, []float64{1, math.NaN(), 3}),
			y:    mat.NewDense(3, 1, []float64{1, 2, 3}),
			assert: func(t *testing.T, err error) {
				var schemaErr *errors.SchemaError
				if !errors.As(err, &schemaErr) {
					t.Errorf("got %v, want SchemaError", err)
				}
			},
		},
		{
			name: "infinite label",
			X:    mat.NewDense(3, 1, []float64{1, 2, 3}),
			y:    mat.NewDense(3, 1, []float64{1, math.Inf(1), 3}),
			assert: func(t *testing.T, err error) {
				var schemaErr *errors.SchemaError
				if !errors.As(err, &schemaErr) {
					t.Errorf("got %v, want SchemaError", err)
				}
			},
		},
		{
			name: "empty matrix",
			X:    &mat.Dense{},
			y:    &mat.Dense{},
			assert: func(t *testing.T, err error) {
				if !errors.Is(err, errors.ErrEmptyData) {
					t.Errorf("got %v, want ErrEmptyData", err)
				}
			},
		},
		{
			name: "row count mismatch",
			X:    mat.NewDense(3, 1, []float64{1, 2, 3}),
			y:    mat.NewDense(2, 1, []float64{1, 2}),
			assert: func(t *testing.T, err error) {
				var dimErr *errors.DimensionError
				if !errors.As(err, &dimErr) {
					t.Errorf("got %v, want DimensionError", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := NewLinearRegression(tt.opts...)
			err := lr.Fit(tt.X, tt.y)
			if err == nil {
				t.Fatal("Fit() expected error")
			}
			tt.assert(t, err)
			if lr.IsFitted() {
				t.Error("model must stay unfitted after a failed Fit")
			}
		})
	}
}

func TestLinearRegression_RefitRejected(t *testing.T) {
	lr := NewLinearRegression()
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{2, 4, 6})
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	before := lr.Coefficients()

	err := lr.Fit(X, mat.NewDense(3, 1, []float64{9, 9, 9}))
	var modelErr *errors.ModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("second Fit(): got %v, want ModelError", err)
	}
	if diff := cmp.Diff(before, lr.Coefficients()); diff != "" {
		t.Errorf("coefficients changed after rejected refit (-before +after):\n%s", diff)
	}
}

func TestLinearRegression_CollinearFeatures(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) {
		warnings = append(warnings, w)
	})
	defer errors.SetWarningHandler(func(error) {})

	// 2列目は1列目のちょうど2倍
	X := mat.NewDense(5, 2, []float64{
		1, 2,
		2, 4,
		3, 6,
		4, 8,
		5, 10,
	})
	y := mat.NewDense(5, 1, []float64{3, 5, 7, 9, 11})

	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if lr.Rank() != 2 {
		t.Errorf("Rank() = %d, want 2", lr.Rank())
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	var w *errors.IllConditionedWarning
	if !errors.As(warnings[0], &w) {
		t.Fatalf("warning = %v, want IllConditionedWarning", warnings[0])
	}
	if w.NParams != 3 {
		t.Errorf("warning NParams = %d, want 3", w.NParams)
	}

	pred, err := lr.PredictVec(X)
	if err != nil {
		t.Fatalf("PredictVec() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		if math.Abs(pred.AtVec(i)-y.At(i, 0)) > 1e-3 {
			t.Errorf("prediction[%d] = %v, want %v", i, pred.AtVec(i), y.At(i, 0))
		}
	}
}

func TestLinearRegression_FitTable(t *testing.T) {
	ft, err := dataset.NewFeatureTable([]string{"temp", "wind"}, mat.NewDense(4, 2, []float64{
		10, 1,
		20, 3,
		15, 2,
		30, 7,
	}))
	if err != nil {
		t.Fatal(err)
	}
	y := mat.NewVecDense(4, []float64{0.5*10 - 1 + 2, 0.5*20 - 3 + 2, 0.5*15 - 2 + 2, 0.5*30 - 7 + 2})

	lr := NewLinearRegression(WithExpectedFeatures(2))
	if err := lr.FitTable(ft, y); err != nil {
		t.Fatalf("FitTable() error = %v", err)
	}

	if diff := cmp.Diff([]string{"temp", "wind"}, lr.FeatureNames()); diff != "" {
		t.Errorf("FeatureNames() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0.5, -1}, lr.Coefficients(), cmpopts.EquateApprox(0, 1e-8)); diff != "" {
		t.Errorf("Coefficients() mismatch (-want +got):\n%s", diff)
	}
	if lr.NFeatures() != 2 {
		t.Errorf("NFeatures() = %d, want 2", lr.NFeatures())
	}
}

func TestLinearRegression_JSONRoundTrip(t *testing.T) {
	ft, err := dataset.NewFeatureTable([]string{"FFMC", "ISI"}, mat.NewDense(5, 2, []float64{
		86.2, 5.1,
		90.6, 6.7,
		91.7, 9.0,
		89.3, 7.2,
		92.3, 8.5,
	}))
	if err != nil {
		t.Fatal(err)
	}
	y := mat.NewVecDense(5, []float64{0, 0.4, 1.3, 0.7, 1.1})

	lr := NewLinearRegression()
	if err := lr.FitTable(ft, y); err != nil {
		t.Fatalf("FitTable() error = %v", err)
	}

	var buf bytes.Buffer
	if err := lr.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	for _, key := range []string{`"model_spec"`, `"name": "LinearRegression"`, `"coef"`, `"feature_names"`} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("JSON output missing %s:\n%s", key, buf.String())
		}
	}

	loaded, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if diff := cmp.Diff(lr.Coefficients(), loaded.Coefficients()); diff != "" {
		t.Errorf("coefficients mismatch (-want +got):\n%s", diff)
	}
	if loaded.Intercept() != lr.Intercept() {
		t.Errorf("Intercept() = %v, want %v", loaded.Intercept(), lr.Intercept())
	}
	if diff := cmp.Diff(lr.FeatureNames(), loaded.FeatureNames()); diff != "" {
		t.Errorf("FeatureNames() mismatch (-want +got):\n%s", diff)
	}

	want, _ := lr.PredictVec(ft.Matrix())
	got, err := loaded.PredictVec(ft.Matrix())
	if err != nil {
		t.Fatalf("PredictVec() on loaded model error = %v", err)
	}
	if !mat.EqualApprox(want, got, 1e-12) {
		t.Errorf("loaded model predicts %v, want %v", mat.Formatted(got.T()), mat.Formatted(want.T()))
	}
}

func TestReadJSON_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "coef: 1"},
		{"wrong model", `{"model_spec":{"name":"Ridge","format_version":"1.0"},"params":{"coef":[1],"n_features":1}}`},
		{"coef length mismatch", `{"model_spec":{"name":"LinearRegression","format_version":"1.0"},"params":{"coef":[1,2],"n_features":3}}`},
		{"names length mismatch", `{"model_spec":{"name":"LinearRegression","format_version":"1.0"},"params":{"coef":[1,2],"n_features":2,"feature_names":["a"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadJSON(strings.NewReader(tt.input)); err == nil {
				t.Error("ReadJSON() expected error")
			}
		})
	}
}
