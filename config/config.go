// Package config holds the run settings for the forest-fire regression
// pipeline. Values are filled from command-line flags and environment
// variables by cmd/forestfires; Default gives the documented defaults.
package config

import (
	"github.com/samber/lo"

	"github.com/YuminosukeSato/forestfires/modelselection"
	"github.com/YuminosukeSato/forestfires/pkg/errors"
	"github.com/YuminosukeSato/forestfires/pkg/log"
)

// Log output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// LogFormats lists the accepted values of Config.LogFormat.
var LogFormats = []string{FormatConsole, FormatJSON}

// Config is the full set of knobs for one pipeline run.
type Config struct {
	DataPath    string
	TrainRatio  float64
	Seed        uint64
	Shuffle     bool
	Standardize bool

	// PlotsDir enables the correlation heatmap and per-feature scatter
	// plots when non-empty.
	PlotsDir string
	// ModelOut is the path of the exported model JSON; empty disables export.
	ModelOut string
	// HeadRows is the number of rows shown in the head() preview.
	HeadRows int

	LogLevel  string
	LogFormat string
}

// Default returns the configuration used when no flag is given.
func Default() Config {
	return Config{
		DataPath:   "forestfires.csv",
		TrainRatio: modelselection.DefaultTrainRatio,
		Seed:       modelselection.DefaultSeed,
		Shuffle:    true,
		HeadRows:   5,
		LogLevel:   "info",
		LogFormat:  FormatConsole,
	}
}

// Validate reports the first invalid setting as a ValidationError.
func (c Config) Validate() error {
	if c.DataPath == "" {
		return errors.NewValidationError("data", "must not be empty", c.DataPath)
	}
	if !(c.TrainRatio > 0 && c.TrainRatio < 1) {
		return errors.NewValidationError("train-ratio", "must be in the open interval (0, 1)", c.TrainRatio)
	}
	if c.HeadRows < 0 {
		return errors.NewValidationError("head", "must be non-negative", c.HeadRows)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.NewValidationError("log-level", "unknown level", c.LogLevel)
	}
	if !lo.Contains(LogFormats, c.LogFormat) {
		return errors.NewValidationError("log-format", "must be one of console, json", c.LogFormat)
	}
	return nil
}
