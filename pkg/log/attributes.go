// Standard attribute keys for pipeline logging.
//
// Keys follow a dotted "category.name" convention so logs from every stage
// can be filtered the same way.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model, e.g. "LinearRegression".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "load", "engineer", "split", "fit", "predict", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the pipeline phase.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// PathKey is the input or output file path of the current step.
	PathKey = "data.path"

	// SamplesKey indicates the number of samples (rows).
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns).
	FeaturesKey = "data.features"

	// TrainSamplesKey and TestSamplesKey give the partition sizes after splitting.
	TrainSamplesKey = "data.train_samples"
	TestSamplesKey  = "data.test_samples"
)

// Configuration
const (
	// TrainRatioKey records the fraction of rows assigned to training.
	TrainRatioKey = "split.train_ratio"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// ShuffleKey records whether rows were shuffled before splitting.
	ShuffleKey = "split.shuffle"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// RMSEKey records the root-mean-squared error on the held-out rows.
	RMSEKey = "metrics.rmse"

	// MAEKey records the mean absolute error on the held-out rows.
	MAEKey = "metrics.mae"

	// R2ScoreKey records the coefficient of determination.
	R2ScoreKey = "metrics.r2_score"

	// InterceptKey records the fitted intercept.
	InterceptKey = "model.intercept"

	// RankKey records the numerical rank of the design matrix.
	RankKey = "model.rank"
)

// Error Context
const (
	// ErrorKey holds the error value itself.
	ErrorKey = "error"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute values.
const (
	OperationLoad     = "load"
	OperationEngineer = "engineer"
	OperationSplit    = "split"
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationScore    = "score"
	OperationPlot     = "plot"
	OperationExport   = "export"

	PhasePreprocessing = "preprocessing"
	PhaseTraining      = "training"
	PhaseTesting       = "testing"
	PhaseReporting     = "reporting"
)
