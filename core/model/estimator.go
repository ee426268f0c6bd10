package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う（n×1 の列ベクトル）
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Transformer は特徴量変換のインターフェース
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
}

// LinearModel は学習済み線形モデルのインターフェース
type LinearModel interface {
	Predictor
	// Coefficients は学習された係数を特徴量の順に返す
	Coefficients() []float64
	// Intercept は学習された切片を返す
	Intercept() float64
}
