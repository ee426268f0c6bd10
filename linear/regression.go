// Package linear は最小二乗法による線形回帰モデルを提供する
package linear

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/forestfires/core/model"
	"github.com/YuminosukeSato/forestfires/core/parallel"
	"github.com/YuminosukeSato/forestfires/dataset"
	"github.com/YuminosukeSato/forestfires/metrics"
	"github.com/YuminosukeSato/forestfires/pkg/errors"
)

// 並列処理の閾値（この値以下の行数では常に逐次処理）
const parallelThreshold = 1000

// 正規方程式が特異な場合に対角へ加える値
const ridgeFallback = 1e-10

// LinearRegression は通常の最小二乗法（OLS）による線形回帰モデル
// Fit 後は係数・切片とも変更されない
type LinearRegression struct {
	model.BaseEstimator

	// 設定
	fitIntercept     bool
	tol              float64
	nJobs            int
	expectedFeatures int

	// 学習結果
	weights      *mat.VecDense
	intercept    float64
	nFeatures    int
	featureNames []string
	rank         int
	singular     []float64
}

var (
	_ model.Fitter      = (*LinearRegression)(nil)
	_ model.LinearModel = (*LinearRegression)(nil)
)

// NewLinearRegression は新しい線形回帰モデルを作成する
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{
		fitIntercept: true,
		tol:          1e-12,
		nJobs:        1,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// FitTable はFeatureTableで学習し、列名を係数と対応付けて保持する
func (lr *LinearRegression) FitTable(X *dataset.FeatureTable, y mat.Matrix) error {
	if err := lr.Fit(X.Matrix(), y); err != nil {
		return err
	}
	lr.featureNames = X.Names()
	return nil
}

// Fit はモデルを訓練データで学習させる
// 正規方程式 w = (AᵀA)⁻¹Aᵀy を使用（A は切片列を先頭に加えた計画行列）
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	const op = "LinearRegression.Fit"

	if lr.IsFitted() {
		return errors.NewModelError(op, "model is already fitted; create a new LinearRegression to refit", nil)
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}

	// スキーマ検証は学習の前に行う
	if lr.expectedFeatures > 0 && c != lr.expectedFeatures {
		return errors.NewSchemaError(op, "", 0,
			"expected "+strconv.Itoa(lr.expectedFeatures)+" feature columns, got "+strconv.Itoa(c))
	}
	if i, j, bad := errors.FirstNonFinite(X, r, c); bad {
		return errors.NewSchemaError(op, "", 0,
			fmt.Sprintf("feature value at row %d, column %d is not a finite number (%v)", i, j, X.At(i, j)))
	}

	ry, cy := y.Dims()
	if ry != r {
		return errors.NewDimensionError(op, r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError(op, "y must be a column vector")
	}
	if i, _, bad := errors.FirstNonFinite(y, ry, 1); bad {
		return errors.NewSchemaError(op, "", 0,
			fmt.Sprintf("label at row %d is not a finite number (%v)", i, y.At(i, 0)))
	}

	A := lr.designMatrix(X)
	_, nParams := A.Dims()

	var AT mat.Dense
	AT.CloneFrom(A.T())

	var ATA mat.Dense
	ATA.Mul(&AT, A)

	// ランクと特異値を記録
	var svd mat.SVD
	if !svd.Factorize(A, mat.SVDNone) {
		return errors.NewModelError(op, "SVD factorization failed", nil)
	}
	lr.singular = svd.Values(nil)
	lr.rank = 0
	if len(lr.singular) > 0 {
		cutoff := lr.tol * lr.singular[0]
		for _, s := range lr.singular {
			if s > cutoff {
				lr.rank++
			}
		}
	}

	var ATAInv mat.Dense
	if err := ATAInv.Inverse(&ATA); err != nil || lr.rank < nParams {
		// 特異に近い場合は対角に小さな値を加えて解き直す
		for i := 0; i < nParams; i++ {
			ATA.Set(i, i, ATA.At(i, i)+ridgeFallback)
		}
		if err := ATAInv.Inverse(&ATA); err != nil {
			// 条件数が有限なら結果は使える
			var cond mat.Condition
			if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
				return errors.NewModelError(op, "singular matrix", errors.ErrSingularMatrix)
			}
		}
		errors.Warn(errors.NewIllConditionedWarning(op, lr.rank, nParams, ridgeFallback))
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var ATy mat.VecDense
	ATy.MulVec(&AT, yVec)

	coef := mat.NewVecDense(nParams, nil)
	coef.MulVec(&ATAInv, &ATy)

	offset := 0
	if lr.fitIntercept {
		lr.intercept = coef.AtVec(0)
		offset = 1
	}
	lr.weights = mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		lr.weights.SetVec(j, coef.AtVec(j+offset))
	}
	if err := errors.CheckNumericalStability(op, append(lr.Coefficients(), lr.intercept)); err != nil {
		return err
	}

	lr.nFeatures = c
	lr.SetFitted()
	return nil
}

// designMatrix は切片用の1の列を先頭に付けた行列を作る
func (lr *LinearRegression) designMatrix(X mat.Matrix) *mat.Dense {
	r, c := X.Dims()
	if !lr.fitIntercept {
		return mat.DenseCopyOf(X)
	}

	A := mat.NewDense(r, c+1, nil)
	workers := parallel.Workers(lr.nJobs)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, workers, func(start, end int) {
		for i := start; i < end; i++ {
			A.Set(i, 0, 1.0)
			for j := 0; j < c; j++ {
				A.Set(i, j+1, X.At(i, j))
			}
		}
	})
	return A
}

// Predict は y = X·w + b を計算し、n×1 の行列で返す
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	pred, err := lr.PredictVec(X)
	if err != nil {
		return nil, err
	}
	return pred, nil
}

// PredictVec は Predict と同じ計算結果をベクトルで返す
func (lr *LinearRegression) PredictVec(X mat.Matrix) (*mat.VecDense, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.nFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.nFeatures, c, 1)
	}
	if r == 0 {
		return nil, errors.NewModelError("LinearRegression.Predict", "empty data", errors.ErrEmptyData)
	}

	predictions := mat.NewVecDense(r, nil)
	workers := parallel.Workers(lr.nJobs)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, workers, func(start, end int) {
		for i := start; i < end; i++ {
			pred := lr.intercept
			for j := 0; j < c; j++ {
				pred += X.At(i, j) * lr.weights.AtVec(j)
			}
			predictions.SetVec(i, pred)
		}
	})
	return predictions, nil
}

// Coefficients は学習された係数のコピーを特徴量の順に返す
func (lr *LinearRegression) Coefficients() []float64 {
	if lr.weights == nil {
		return nil
	}
	return mat.Col(nil, 0, lr.weights)
}

// Intercept は学習された切片を返す
func (lr *LinearRegression) Intercept() float64 {
	return lr.intercept
}

// FeatureNames は FitTable で学習した場合の列名を返す
func (lr *LinearRegression) FeatureNames() []string {
	return append([]string(nil), lr.featureNames...)
}

// NFeatures は学習時の特徴量数を返す
func (lr *LinearRegression) NFeatures() int {
	return lr.nFeatures
}

// Rank は計画行列の数値的なランクを返す
func (lr *LinearRegression) Rank() int {
	return lr.rank
}

// SingularValues は計画行列の特異値を降順で返す
func (lr *LinearRegression) SingularValues() []float64 {
	return append([]float64(nil), lr.singular...)
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("LinearRegression", "Score")
	}

	yPred, err := lr.PredictVec(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()
	yTrue := mat.NewVecDense(r, mat.Col(nil, 0, y))
	return metrics.R2Score(yTrue, yPred)
}

// ===========================================================================
//
//	JSON 形式での入出力（scikit-learn 互換のエンベロープ）
//
// ===========================================================================

const (
	jsonModelName     = "LinearRegression"
	jsonFormatVersion = "1.0"
)

type modelSpec struct {
	Name          string `json:"name"`
	FormatVersion string `json:"format_version"`
}

type linearParams struct {
	Coefficients []float64 `json:"coef"`
	Intercept    float64   `json:"intercept"`
	NFeatures    int       `json:"n_features"`
	FeatureNames []string  `json:"feature_names,omitempty"`
	FitIntercept bool      `json:"fit_intercept"`
	Rank         int       `json:"rank"`
}

type modelEnvelope struct {
	ModelSpec modelSpec    `json:"model_spec"`
	Params    linearParams `json:"params"`
}

// WriteJSON はモデルをJSON形式で書き出す
func (lr *LinearRegression) WriteJSON(w io.Writer) error {
	if !lr.IsFitted() {
		return errors.NewNotFittedError("LinearRegression", "WriteJSON")
	}

	env := modelEnvelope{
		ModelSpec: modelSpec{Name: jsonModelName, FormatVersion: jsonFormatVersion},
		Params: linearParams{
			Coefficients: lr.Coefficients(),
			Intercept:    lr.intercept,
			NFeatures:    lr.nFeatures,
			FeatureNames: lr.featureNames,
			FitIntercept: lr.fitIntercept,
			Rank:         lr.rank,
		},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(&env); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// ReadJSON は WriteJSON で書き出したモデルを読み込み、学習済みモデルを返す
func ReadJSON(r io.Reader) (*LinearRegression, error) {
	var env modelEnvelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, errors.Wrap(err, "failed to decode model")
	}
	if env.ModelSpec.Name != jsonModelName {
		return nil, errors.NewValueError("linear.ReadJSON", "unexpected model name "+strconv.Quote(env.ModelSpec.Name))
	}

	p := env.Params
	if p.NFeatures != len(p.Coefficients) || p.NFeatures == 0 {
		return nil, errors.NewDimensionError("linear.ReadJSON", p.NFeatures, len(p.Coefficients), 1)
	}
	if len(p.FeatureNames) != 0 && len(p.FeatureNames) != p.NFeatures {
		return nil, errors.NewDimensionError("linear.ReadJSON", p.NFeatures, len(p.FeatureNames), 1)
	}

	lr := NewLinearRegression(WithFitIntercept(p.FitIntercept))
	lr.weights = mat.NewVecDense(p.NFeatures, append([]float64(nil), p.Coefficients...))
	lr.intercept = p.Intercept
	lr.nFeatures = p.NFeatures
	lr.featureNames = p.FeatureNames
	lr.rank = p.Rank
	lr.SetFitted()
	return lr, nil
}
