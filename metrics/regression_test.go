package metrics

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/forestfires/pkg/errors"
)

func TestRegressionMetrics(t *testing.T) {
	tests := []struct {
		name     string
		yTrue    []float64
		yPred    []float64
		wantMSE  float64
		wantRMSE float64
		wantMAE  float64
	}{
		{
			name:     "perfect prediction",
			yTrue:    []float64{0, 0.693147, 1.386294, 2.302585},
			yPred:    []float64{0, 0.693147, 1.386294, 2.302585},
			wantMSE:  0,
			wantRMSE: 0,
			wantMAE:  0,
		},
		{
			name:     "constant offset",
			yTrue:    []float64{1, 2, 3, 4},
			yPred:    []float64{1.5, 2.5, 2.5, 3.5},
			wantMSE:  0.25,
			wantRMSE: 0.5,
			wantMAE:  0.5,
		},
		{
			name:     "mixed errors",
			yTrue:    []float64{10, 20, 30},
			yPred:    []float64{12, 18, 33},
			wantMSE:  17.0 / 3.0, // (4 + 4 + 9) / 3
			wantRMSE: math.Sqrt(17.0 / 3.0),
			wantMAE:  7.0 / 3.0,
		},
		{
			name:     "all zero labels",
			yTrue:    []float64{0, 0, 0, 0},
			yPred:    []float64{1, 1, 1, 1},
			wantMSE:  1,
			wantRMSE: 1,
			wantMAE:  1,
		},
	}

	const tolerance = 1e-10

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yTrue := mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			yPred := mat.NewVecDense(len(tt.yPred), tt.yPred)

			mse, err := MSE(yTrue, yPred)
			if err != nil {
				t.Fatalf("MSE() error = %v", err)
			}
			if math.Abs(mse-tt.wantMSE) > tolerance {
				t.Errorf("MSE() = %v, want %v", mse, tt.wantMSE)
			}

			rmse, err := RMSE(yTrue, yPred)
			if err != nil {
				t.Fatalf("RMSE() error = %v", err)
			}
			if math.Abs(rmse-tt.wantRMSE) > tolerance {
				t.Errorf("RMSE() = %v, want %v", rmse, tt.wantRMSE)
			}

			mae, err := MAE(yTrue, yPred)
			if err != nil {
				t.Fatalf("MAE() error = %v", err)
			}
			if math.Abs(mae-tt.wantMAE) > tolerance {
				t.Errorf("MAE() = %v, want %v", mae, tt.wantMAE)
			}
		})
	}
}

func TestRMSENonNegativeAndZeroOnlyWhenExact(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))

	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.IntN(30)
		yTrue := mat.NewVecDense(n, nil)
		yPred := mat.NewVecDense(n, nil)
		for i := 0; i < n; i++ {
			v := rng.Float64() * 5
			yTrue.SetVec(i, v)
			yPred.SetVec(i, v)
		}

		rmse, err := RMSE(yTrue, yPred)
		if err != nil {
			t.Fatalf("RMSE() error = %v", err)
		}
		if rmse != 0 {
			t.Fatalf("trial %d: RMSE of identical vectors = %v, want 0", trial, rmse)
		}

		// 1要素だけずらすと必ず正になる
		k := rng.IntN(n)
		yPred.SetVec(k, yPred.AtVec(k)+0.01)
		rmse, err = RMSE(yTrue, yPred)
		if err != nil {
			t.Fatalf("RMSE() error = %v", err)
		}
		if rmse <= 0 {
			t.Fatalf("trial %d: RMSE with a perturbed element = %v, want > 0", trial, rmse)
		}
	}
}

func TestMetricErrors(t *testing.T) {
	short := mat.NewVecDense(2, []float64{1, 2})
	long := mat.NewVecDense(3, []float64{1, 2, 3})
	empty := &mat.VecDense{}

	metrics := map[string]func(a, b *mat.VecDense) (float64, error){
		"MSE":     MSE,
		"RMSE":    RMSE,
		"MAE":     MAE,
		"R2Score": R2Score,
	}

	for name, fn := range metrics {
		t.Run(name, func(t *testing.T) {
			_, err := fn(long, short)
			var dimErr *errors.DimensionError
			if !errors.As(err, &dimErr) {
				t.Errorf("%s() with mismatched lengths: got %v, want DimensionError", name, err)
			}

			_, err = fn(empty, empty)
			var valErr *errors.ValueError
			if !errors.As(err, &valErr) {
				t.Errorf("%s() with empty vectors: got %v, want ValueError", name, err)
			}
		})
	}
}

func TestMSEMatrix(t *testing.T) {
	yTrue := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	yPred := mat.NewDense(4, 1, []float64{1.5, 2.5, 2.5, 3.5})

	got, err := MSEMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("MSEMatrix() error = %v", err)
	}
	if math.Abs(got-0.25) > 1e-10 {
		t.Errorf("MSEMatrix() = %v, want 0.25", got)
	}

	wide := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	if _, err := MSEMatrix(wide, wide); err == nil {
		t.Error("MSEMatrix() with two columns: expected error")
	}
}

func TestR2Score(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     *mat.VecDense
		yPred     *mat.VecDense
		want      float64
		tolerance float64
		wantErr   error
	}{
		{
			name:      "perfect prediction",
			yTrue:     mat.NewVecDense(5, []float64{1, 2, 3, 4, 5}),
			yPred:     mat.NewVecDense(5, []float64{1, 2, 3, 4, 5}),
			want:      1.0,
			tolerance: 1e-10,
		},
		{
			name:      "mean predictor",
			yTrue:     mat.NewVecDense(4, []float64{1, 2, 3, 4}),
			yPred:     mat.NewVecDense(4, []float64{2.5, 2.5, 2.5, 2.5}),
			want:      0.0,
			tolerance: 1e-10,
		},
		{
			name:      "worse than mean baseline",
			yTrue:     mat.NewVecDense(4, []float64{1, 2, 3, 4}),
			yPred:     mat.NewVecDense(4, []float64{4, 3, 2, 1}),
			want:      -3.0,
			tolerance: 1e-10,
		},
		{
			name:    "no variance in yTrue",
			yTrue:   mat.NewVecDense(5, []float64{3, 3, 3, 3, 3}),
			yPred:   mat.NewVecDense(5, []float64{2, 3, 4, 3, 3}),
			wantErr: ErrUndefinedR2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := R2Score(tt.yTrue, tt.yPred)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("R2Score() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("R2Score() error = %v", err)
			}
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("R2Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func BenchmarkRMSE(b *testing.B) {
	size := 10000
	yTrue := mat.NewVecDense(size, nil)
	yPred := mat.NewVecDense(size, nil)
	for i := 0; i < size; i++ {
		yTrue.SetVec(i, float64(i))
		yPred.SetVec(i, float64(i)+0.1*float64(i%10))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = RMSE(yTrue, yPred)
	}
}
