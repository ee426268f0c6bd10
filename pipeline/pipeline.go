// Package pipeline runs the forest-fire regression end to end: load the
// CSV, derive the log target, split, fit ordinary least squares on the
// training rows and score the held-out rows.
package pipeline

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/forestfires/config"
	"github.com/YuminosukeSato/forestfires/dataset"
	"github.com/YuminosukeSato/forestfires/linear"
	"github.com/YuminosukeSato/forestfires/modelselection"
	"github.com/YuminosukeSato/forestfires/pkg/errors"
	"github.com/YuminosukeSato/forestfires/pkg/log"
	"github.com/YuminosukeSato/forestfires/plotting"
	"github.com/YuminosukeSato/forestfires/preprocessing"
	"github.com/YuminosukeSato/forestfires/report"
)

// HeatmapFile is the name of the correlation heatmap inside Config.PlotsDir.
const HeatmapFile = "correlation_heatmap.png"

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The global logger is used otherwise.
func WithLogger(l log.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithOutput sets where report tables are written. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) {
		p.out = w
	}
}

// Pipeline is one configured run.
type Pipeline struct {
	cfg    config.Config
	logger log.Logger
	out    io.Writer
}

// Result is everything a run produced.
type Result struct {
	Model  *linear.LinearRegression
	Split  *modelselection.Split
	Scaler *preprocessing.StandardScaler // nil unless Config.Standardize

	Train *Evaluation
	Test  *Evaluation

	PlotPaths []string
	ModelPath string
}

// New validates cfg and returns a pipeline ready to Run.
func New(cfg config.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		cfg:    cfg,
		logger: log.GetLogger(),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(log.ComponentKey, "pipeline")
	return p, nil
}

// Run executes every stage in order. The first failure aborts the run; a
// panic in any stage is returned as a *errors.PanicError.
func (p *Pipeline) Run() (res *Result, err error) {
	defer errors.Recover(&err, "pipeline.Run")

	start := time.Now()
	ds, err := dataset.Load(p.cfg.DataPath)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Loaded dataset",
		log.OperationKey, log.OperationLoad,
		log.PhaseKey, log.PhasePreprocessing,
		log.PathKey, p.cfg.DataPath,
		log.SamplesKey, ds.Len(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	if p.cfg.HeadRows > 0 {
		if err := report.Head(p.out, ds, p.cfg.HeadRows); err != nil {
			return nil, err
		}
	}
	if err := report.Describe(p.out, dataset.Describe(ds)); err != nil {
		return nil, err
	}

	ft, labels, err := preprocessing.Engineer(ds)
	if err != nil {
		return nil, err
	}
	_, nFeatures := ft.Dims()
	p.logger.Info("Engineered features",
		log.OperationKey, log.OperationEngineer,
		log.PhaseKey, log.PhasePreprocessing,
		log.SamplesKey, ft.Rows(),
		log.FeaturesKey, nFeatures,
	)

	var plots []string
	if p.cfg.PlotsDir != "" {
		if plots, err = p.plot(ft, labels); err != nil {
			return nil, err
		}
	}

	res, err = p.Train(ft, labels)
	if err != nil {
		return nil, err
	}
	res.PlotPaths = plots
	return res, nil
}

func (p *Pipeline) plot(ft *dataset.FeatureTable, labels *mat.VecDense) ([]string, error) {
	dir := p.cfg.PlotsDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewFileError("mkdir", dir, err)
	}

	withTarget, err := preprocessing.WithTarget(ft, labels)
	if err != nil {
		return nil, err
	}
	heatmap := filepath.Join(dir, HeatmapFile)
	if err := plotting.CorrelationHeatmap(withTarget, heatmap); err != nil {
		return nil, err
	}

	scatters, err := plotting.FeatureScatters(ft, labels, preprocessing.TargetName, dir)
	if err != nil {
		return nil, err
	}

	paths := append([]string{heatmap}, scatters...)
	p.logger.Info("Saved plots",
		log.OperationKey, log.OperationPlot,
		log.PhaseKey, log.PhaseReporting,
		log.PathKey, dir,
		"plots.count", len(paths),
	)
	return paths, nil
}

// Train splits (ft, labels), fits a fresh model on the training rows and
// scores both partitions. It works on any numeric feature table.
func (p *Pipeline) Train(ft *dataset.FeatureTable, labels *mat.VecDense) (*Result, error) {
	if err := preprocessing.CheckAligned("pipeline.Train", ft, labels); err != nil {
		return nil, err
	}

	split, err := modelselection.TrainTestSplit(ft, labels,
		modelselection.WithTrainRatio(p.cfg.TrainRatio),
		modelselection.WithSeed(p.cfg.Seed),
		modelselection.WithShuffle(p.cfg.Shuffle),
	)
	if err != nil {
		return nil, err
	}
	nTrain, nTest := split.Sizes()
	p.logger.Info("Split dataset",
		log.OperationKey, log.OperationSplit,
		log.TrainRatioKey, p.cfg.TrainRatio,
		log.RandomSeedKey, p.cfg.Seed,
		log.ShuffleKey, p.cfg.Shuffle,
		log.TrainSamplesKey, nTrain,
		log.TestSamplesKey, nTest,
	)

	res := &Result{Split: split}
	trainX, testX := split.TrainX, split.TestX
	if p.cfg.Standardize {
		res.Scaler = preprocessing.NewStandardScalerDefault()
		if trainX, err = scaleTable(res.Scaler.FitTransform, trainX); err != nil {
			return nil, err
		}
		if testX, err = scaleTable(res.Scaler.Transform, testX); err != nil {
			return nil, err
		}
		p.logger.Debug("Standardized features", "scaler", res.Scaler.String())
	}

	start := time.Now()
	res.Model = linear.NewLinearRegression(linear.WithExpectedFeatures(len(ft.Names())))
	if err := res.Model.FitTable(trainX, split.TrainY); err != nil {
		return nil, err
	}
	p.logger.Info("Fitted model",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.ModelNameKey, "LinearRegression",
		log.InterceptKey, res.Model.Intercept(),
		log.RankKey, res.Model.Rank(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	if res.Train, err = Evaluate(res.Model, trainX.Matrix(), split.TrainY); err != nil {
		return nil, err
	}
	if res.Test, err = Evaluate(res.Model, testX.Matrix(), split.TestY); err != nil {
		return nil, err
	}
	fields := []any{
		log.OperationKey, log.OperationScore,
		log.PhaseKey, log.PhaseTesting,
		log.RMSEKey, res.Test.RMSE,
		log.MAEKey, res.Test.MAE,
	}
	if res.Test.HasR2 {
		fields = append(fields, log.R2ScoreKey, res.Test.R2)
	}
	p.logger.Info("Evaluated model on test rows", fields...)

	if err := report.Coefficients(p.out, res.Model.FeatureNames(), res.Model.Coefficients(), res.Model.Intercept()); err != nil {
		return nil, err
	}
	if err := report.Scores(p.out, "Training set", res.Train.Scores()); err != nil {
		return nil, err
	}
	if err := report.Scores(p.out, "Test set", res.Test.Scores()); err != nil {
		return nil, err
	}

	if p.cfg.ModelOut != "" {
		if err := writeModel(res.Model, p.cfg.ModelOut); err != nil {
			return nil, err
		}
		res.ModelPath = p.cfg.ModelOut
		p.logger.Info("Exported model",
			log.OperationKey, log.OperationExport,
			log.PathKey, p.cfg.ModelOut,
		)
	}
	return res, nil
}

func scaleTable(fn func(mat.Matrix) (mat.Matrix, error), ft *dataset.FeatureTable) (*dataset.FeatureTable, error) {
	scaled, err := fn(ft.Matrix())
	if err != nil {
		return nil, err
	}
	return dataset.NewFeatureTable(ft.Names(), mat.DenseCopyOf(scaled))
}

func writeModel(m *linear.LinearRegression, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewFileError("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.NewFileError("close", path, cerr)
		}
	}()
	return m.WriteJSON(f)
}
