package config

import (
	"testing"

	"github.com/YuminosukeSato/forestfires/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.TrainRatio != 0.8 {
		t.Errorf("TrainRatio = %v, want 0.8", cfg.TrainRatio)
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %v, want 42", cfg.Seed)
	}
	if !cfg.Shuffle {
		t.Error("Shuffle should default to true")
	}
	if cfg.PlotsDir != "" || cfg.ModelOut != "" {
		t.Error("side outputs should be disabled by default")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantParam string
	}{
		{"empty data path", func(c *Config) { c.DataPath = "" }, "data"},
		{"ratio zero", func(c *Config) { c.TrainRatio = 0 }, "train-ratio"},
		{"ratio one", func(c *Config) { c.TrainRatio = 1 }, "train-ratio"},
		{"ratio above one", func(c *Config) { c.TrainRatio = 1.5 }, "train-ratio"},
		{"negative head", func(c *Config) { c.HeadRows = -1 }, "head"},
		{"unknown level", func(c *Config) { c.LogLevel = "verbose" }, "log-level"},
		{"unknown format", func(c *Config) { c.LogFormat = "xml" }, "log-format"},
		{"valid json debug", func(c *Config) { c.LogLevel = "debug"; c.LogFormat = FormatJSON }, ""},
		{"valid zero head", func(c *Config) { c.HeadRows = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantParam == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}

			var valErr *errors.ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			if valErr.ParamName != tt.wantParam {
				t.Errorf("ParamName = %q, want %q", valErr.ParamName, tt.wantParam)
			}
		})
	}
}
