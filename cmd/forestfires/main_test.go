package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/YuminosukeSato/forestfires/config"
)

func TestConfigFromFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want func(c *config.Config)
	}{
		{
			name: "defaults",
			args: nil,
			want: func(*config.Config) {},
		},
		{
			name: "overrides",
			args: []string{
				"--data", "fires.csv", "--train-ratio", "0.7", "--seed", "7",
				"--no-shuffle", "--standardize", "--plots-dir", "out", "--model-out", "m.json",
				"--head", "0", "--log-level", "debug", "--log-format", "json",
			},
			want: func(c *config.Config) {
				c.DataPath = "fires.csv"
				c.TrainRatio = 0.7
				c.Seed = 7
				c.Shuffle = false
				c.Standardize = true
				c.PlotsDir = "out"
				c.ModelOut = "m.json"
				c.HeadRows = 0
				c.LogLevel = "debug"
				c.LogFormat = "json"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp()
			set := flag.NewFlagSet("forestfires", flag.ContinueOnError)
			for _, f := range app.Flags {
				if err := f.Apply(set); err != nil {
					t.Fatal(err)
				}
			}
			if err := set.Parse(tt.args); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			got := configFromContext(cli.NewContext(app, set, nil))
			want := config.Default()
			tt.want(&want)
			if got != want {
				t.Errorf("config = %+v, want %+v", got, want)
			}
		})
	}
}

func TestEnvironmentOverridesDefault(t *testing.T) {
	t.Setenv("FORESTFIRES_DATA", "/data/fires.csv")

	app := newApp()
	set := flag.NewFlagSet("forestfires", flag.ContinueOnError)
	for _, f := range app.Flags {
		if err := f.Apply(set); err != nil {
			t.Fatal(err)
		}
	}
	if err := set.Parse(nil); err != nil {
		t.Fatal(err)
	}

	if got := configFromContext(cli.NewContext(app, set, nil)).DataPath; got != "/data/fires.csv" {
		t.Errorf("DataPath = %q, want value from FORESTFIRES_DATA", got)
	}
}

func TestRunMissingData(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	missing := filepath.Join(t.TempDir(), "nope.csv")
	err := app.Run([]string{"forestfires", "--data", missing, "--log-format", "json", "--log-level", "error"})
	if err == nil {
		t.Fatal("Run() expected error for a missing data file")
	}
	if !strings.Contains(err.Error(), "nope.csv") {
		t.Errorf("error should name the file, got %v", err)
	}
	if _, statErr := os.Stat(missing); !os.IsNotExist(statErr) {
		t.Error("a missing input must not be created")
	}
}

func TestLoadEnvFile(t *testing.T) {
	const key = "FORESTFIRES_TEST_DOTENV_SEED"
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	if err := loadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("loadEnvFile() on a missing file error = %v", err)
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte(key+"=9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile() error = %v", err)
	}
	if got := os.Getenv(key); got != "9" {
		t.Errorf("%s = %q, want 9", key, got)
	}
}
