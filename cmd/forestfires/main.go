// Command forestfires fits a linear model of log burned area on the UCI
// forest-fires dataset and reports the held-out RMSE.
//
//	forestfires --data forestfires.csv --plots-dir plots --model-out model.json
//
// Every flag can also be set through the environment variable shown in
// --help, or from a .env file in the working directory. Variables already
// set in the environment win over the file. Any failure is logged and the
// process exits with status 1.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/YuminosukeSato/forestfires/config"
	"github.com/YuminosukeSato/forestfires/pipeline"
	"github.com/YuminosukeSato/forestfires/pkg/errors"
	"github.com/YuminosukeSato/forestfires/pkg/log"
)

const (
	// Flags.
	flagData       = "data"
	flagTrainRatio = "train-ratio"
	flagSeed       = "seed"
	flagNoShuffle  = "no-shuffle"
	flagStandard   = "standardize"
	flagPlotsDir   = "plots-dir"
	flagModelOut   = "model-out"
	flagHead       = "head"
	flagLogLevel   = "log-level"
	flagLogFormat  = "log-format"
)

// dotEnvFile is read before flags are parsed so it can feed EnvVars.
const dotEnvFile = ".env"

func main() {
	if err := loadEnvFile(dotEnvFile); err != nil {
		log.GetLogger().Error("failed to read env file", err, log.PathKey, dotEnvFile)
		os.Exit(1)
	}
	if err := newApp().Run(os.Args); err != nil {
		log.GetLogger().Error("forestfires failed", err)
		os.Exit(1)
	}
}

// loadEnvFile exports the variables in path that are not already set.
// A missing file is not an error.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.NewFileError("read", path, err)
	}
	return nil
}

func newApp() *cli.App {
	def := config.Default()

	return &cli.App{
		Name:  "forestfires",
		Usage: "fit a linear regression of log burned area and report test RMSE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagData,
				Usage:   "read observations from CSV `FILE`",
				Value:   def.DataPath,
				EnvVars: []string{"FORESTFIRES_DATA"},
			},
			&cli.Float64Flag{
				Name:    flagTrainRatio,
				Usage:   "fraction of rows used for training",
				Value:   def.TrainRatio,
				EnvVars: []string{"FORESTFIRES_TRAIN_RATIO"},
			},
			&cli.Uint64Flag{
				Name:    flagSeed,
				Usage:   "random seed for the train/test shuffle",
				Value:   def.Seed,
				EnvVars: []string{"FORESTFIRES_SEED"},
			},
			&cli.BoolFlag{
				Name:    flagNoShuffle,
				Usage:   "split in file order instead of shuffling",
				EnvVars: []string{"FORESTFIRES_NO_SHUFFLE"},
			},
			&cli.BoolFlag{
				Name:    flagStandard,
				Usage:   "standardize features with training-set mean and deviation",
				EnvVars: []string{"FORESTFIRES_STANDARDIZE"},
			},
			&cli.StringFlag{
				Name:    flagPlotsDir,
				Usage:   "write correlation heatmap and scatter plots to `DIR`",
				EnvVars: []string{"FORESTFIRES_PLOTS_DIR"},
			},
			&cli.StringFlag{
				Name:    flagModelOut,
				Usage:   "export the fitted model as JSON to `FILE`",
				EnvVars: []string{"FORESTFIRES_MODEL_OUT"},
			},
			&cli.IntFlag{
				Name:    flagHead,
				Usage:   "number of rows shown in the data preview (0 disables it)",
				Value:   def.HeadRows,
				EnvVars: []string{"FORESTFIRES_HEAD"},
			},
			&cli.StringFlag{
				Name:    flagLogLevel,
				Usage:   "debug, info, warn or error",
				Value:   def.LogLevel,
				EnvVars: []string{"FORESTFIRES_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    flagLogFormat,
				Usage:   "console or json",
				Value:   def.LogFormat,
				EnvVars: []string{"FORESTFIRES_LOG_FORMAT"},
			},
		},
		Before: func(c *cli.Context) error {
			return log.SetupLogger(c.String(flagLogLevel), c.String(flagLogFormat))
		},
		Action: run,
	}
}

func configFromContext(c *cli.Context) config.Config {
	return config.Config{
		DataPath:    c.String(flagData),
		TrainRatio:  c.Float64(flagTrainRatio),
		Seed:        c.Uint64(flagSeed),
		Shuffle:     !c.Bool(flagNoShuffle),
		Standardize: c.Bool(flagStandard),
		PlotsDir:    c.String(flagPlotsDir),
		ModelOut:    c.String(flagModelOut),
		HeadRows:    c.Int(flagHead),
		LogLevel:    c.String(flagLogLevel),
		LogFormat:   c.String(flagLogFormat),
	}
}

func run(c *cli.Context) error {
	p, err := pipeline.New(configFromContext(c), pipeline.WithOutput(c.App.Writer))
	if err != nil {
		return err
	}
	res, err := p.Run()
	if err != nil {
		return err
	}

	nTrain, nTest := res.Split.Sizes()
	log.GetLogger().Info("Run complete",
		log.RMSEKey, res.Test.RMSE,
		log.TrainSamplesKey, nTrain,
		log.TestSamplesKey, nTest,
	)
	return nil
}
