// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// パイプラインの各ステージ（読み込み、特徴量生成、分割、学習、評価）で発生する失敗を
// 構造化されたエラー型として表現し、cockroachdb/errors によるスタックトレースを付与します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("forestfires-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler は警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nil を渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// IllConditionedWarning は正規方程式の行列が特異に近く、正則化を加えて解いた場合の警告です。
type IllConditionedWarning struct {
	Op             string
	Rank           int
	NParams        int
	Regularization float64
}

func (w *IllConditionedWarning) Error() string {
	return fmt.Sprintf("%s: design matrix is rank deficient (rank %d of %d); solved with diagonal regularization %g",
		w.Op, w.Rank, w.NParams, w.Regularization)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *IllConditionedWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Int("rank", w.Rank).
		Int("n_params", w.NParams).
		Float64("regularization", w.Regularization).
		Str("type", "IllConditionedWarning")
}

// NewIllConditionedWarning は新しいIllConditionedWarningを作成します。
func NewIllConditionedWarning(op string, rank, nParams int, regularization float64) *IllConditionedWarning {
	return &IllConditionedWarning{Op: op, Rank: rank, NParams: nParams, Regularization: regularization}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// FileError は入力ファイルが存在しない、読み込めない、またはスキーマが一致しない場合のエラーです。
type FileError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("forestfires: %s %q: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("forestfires: %s %q", e.Op, e.Path)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *FileError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Str("operation", e.Op).
		AnErr("cause", e.Err).
		Str("type", "FileError")
}

// NewFileError は新しいFileErrorを作成し、スタックトレースを付与します。
func NewFileError(op, path string, err error) error {
	return errors.WithStack(&FileError{Path: path, Op: op, Err: err})
}

// SchemaError はデータの列構成や値の型が期待と一致しない場合のエラーです。
// Line は1始まりの行番号で、行に依存しない場合は0です。
type SchemaError struct {
	Op     string
	Column string
	Line   int
	Reason string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Column != "" && e.Line > 0:
		return fmt.Sprintf("forestfires: %s: schema mismatch in column %q at line %d: %s", e.Op, e.Column, e.Line, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("forestfires: %s: schema mismatch in column %q: %s", e.Op, e.Column, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("forestfires: %s: schema mismatch at line %d: %s", e.Op, e.Line, e.Reason)
	default:
		return fmt.Sprintf("forestfires: %s: schema mismatch: %s", e.Op, e.Reason)
	}
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *SchemaError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Int("line", e.Line).
		Str("reason", e.Reason).
		Str("type", "SchemaError")
}

// NewSchemaError は新しいSchemaErrorを作成し、スタックトレースを付与します。
func NewSchemaError(op, column string, line int, reason string) error {
	return errors.WithStack(&SchemaError{Op: op, Column: column, Line: line, Reason: reason})
}

// SplitError は分割比率が不正、または分割結果のどちらかが空になる場合のエラーです。
type SplitError struct {
	Ratio  float64
	NTotal int
	NTrain int
	NTest  int
}

func (e *SplitError) Error() string {
	return fmt.Sprintf("forestfires: degenerate split: ratio %g over %d rows gives %d train / %d test rows",
		e.Ratio, e.NTotal, e.NTrain, e.NTest)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *SplitError) MarshalZerologObject(event *zerolog.Event) {
	event.Float64("ratio", e.Ratio).
		Int("n_total", e.NTotal).
		Int("n_train", e.NTrain).
		Int("n_test", e.NTest).
		Str("type", "SplitError")
}

// NewSplitError は新しいSplitErrorを作成し、スタックトレースを付与します。
func NewSplitError(ratio float64, total, train, test int) error {
	return errors.WithStack(&SplitError{Ratio: ratio, NTotal: total, NTrain: train, NTest: test})
}

// NotFittedError はモデルが未学習の状態で `Predict` や `Transform` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("forestfires: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("forestfires: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, e.axisName(), e.Expected, e.Got)
}

func (e *DimensionError) axisName() string {
	if e.Axis == 0 {
		return "rows"
	}
	return "features"
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", e.axisName()).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は設定値の検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("forestfires: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
// 例えば、負の焼失面積を対数変換しようとした場合など。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("forestfires: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError はモデルの学習・推論に関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("forestfires: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("forestfires: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// NumericalInstabilityError は数値計算でNaNやInfが検出された場合のエラーです。
type NumericalInstabilityError struct {
	Operation string    // 発生した操作（例: "log_target", "fit"）
	Values    []float64 // 問題のある値
	Index     int       // 最初に問題が見つかった位置（不明な場合は-1）
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("forestfires: numerical instability detected in %s at index %d. Values: [%s]",
		e.Operation, e.Index, valStr)
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64, index int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Index:     index,
	}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
