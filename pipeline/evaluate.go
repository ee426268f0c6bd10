package pipeline

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/forestfires/core/model"
	"github.com/YuminosukeSato/forestfires/metrics"
	"github.com/YuminosukeSato/forestfires/pkg/errors"
	"github.com/YuminosukeSato/forestfires/report"
)

// Evaluation holds the predictions and scores of a model on one partition.
type Evaluation struct {
	Predictions *mat.VecDense
	RMSE        float64
	MAE         float64
	// R2 is NaN when the true labels have no variance; HasR2 reports
	// whether it is defined.
	R2          float64
	HasR2       bool
}

// Scores lists the defined metrics in report order.
func (e *Evaluation) Scores() []report.Score {
	scores := []report.Score{
		{Name: "RMSE", Value: e.RMSE},
		{Name: "MAE", Value: e.MAE},
	}
	if e.HasR2 {
		scores = append(scores, report.Score{Name: "R2", Value: e.R2})
	}
	return scores
}

// Evaluate predicts every row of X and scores the predictions against y.
// RMSE is always non-negative and zero only for exact predictions.
func Evaluate(m model.Predictor, X mat.Matrix, y *mat.VecDense) (*Evaluation, error) {
	const op = "pipeline.Evaluate"

	r, _ := X.Dims()
	if r != y.Len() {
		return nil, errors.NewDimensionError(op, y.Len(), r, 0)
	}

	pred, err := m.Predict(X)
	if err != nil {
		return nil, err
	}
	pr, pc := pred.Dims()
	if pr != r || pc != 1 {
		return nil, errors.NewDimensionError(op, r, pr, 0)
	}
	predictions := mat.NewVecDense(pr, mat.Col(nil, 0, pred))

	ev := &Evaluation{Predictions: predictions, R2: math.NaN()}
	if ev.RMSE, err = metrics.RMSE(y, predictions); err != nil {
		return nil, err
	}
	if ev.MAE, err = metrics.MAE(y, predictions); err != nil {
		return nil, err
	}

	r2, err := metrics.R2Score(y, predictions)
	switch {
	case err == nil:
		ev.R2, ev.HasR2 = r2, true
	case !errors.Is(err, metrics.ErrUndefinedR2):
		return nil, err
	}

	if err := errors.CheckScalar(op, ev.RMSE); err != nil {
		return nil, err
	}
	return ev, nil
}
