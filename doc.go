// Package forestfires predicts the burned area of forest fires from
// weather and fire-weather indices with ordinary least squares.
//
// The data is the UCI forest-fires table: spatial grid coordinates X and Y,
// the month and weekday of the observation, the Canadian fire-weather
// indices FFMC, DMC, DC and ISI, temperature, relative humidity, wind speed,
// rainfall and the burned area in hectares.
//
// # Pipeline
//
// A run is one pass through five stages:
//
//  1. dataset loads and validates the CSV.
//  2. preprocessing derives the target logArea = ln(area + 1) and keeps the
//     ten numeric features, dropping month, day and area itself.
//  3. modelselection splits the rows 80/20 with a seeded shuffle.
//  4. linear fits y = Xw + b on the training rows via the normal equations.
//  5. pipeline.Evaluate scores the held-out rows with RMSE, MAE and R².
//
// The correlation heatmap, per-feature scatter plots (plotting) and the
// console tables (report) are optional side outputs.
//
// # Quick Start
//
//	cfg := config.Default()
//	cfg.DataPath = "forestfires.csv"
//
//	p, err := pipeline.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := p.Run()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("test RMSE: %.4f\n", res.Test.RMSE)
//
// The same run is available from the command line:
//
//	go run ./cmd/forestfires --data forestfires.csv --plots-dir plots
//
// # Packages
//
//   - dataset: CSV loading, describe() summaries, FeatureTable
//   - preprocessing: log target, feature selection, StandardScaler
//   - modelselection: reproducible train/test split
//   - linear: LinearRegression with JSON export
//   - metrics: MSE, RMSE, MAE, R²
//   - plotting: correlation heatmap and scatter plots
//   - report: console tables
//   - pipeline: orchestration and evaluation
//   - config: run settings
//   - core/model: estimator interfaces and fitted state
//   - core/parallel: row-chunked parallel loops
//   - pkg/errors: typed errors and warnings
//   - pkg/log: structured logging on zerolog
package forestfires
