package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	InPath string
	OutDir string
	Model  string
	APIKey string

	MaxExamplesPerCluster int

	Pretty    bool
	Overwrite bool

	// Resume skips categories that already have a narrative file.
	Resume bool
}

func (c Config) Validate() error {
	if c.InPath == "" {
		return errors.New("missing -in")
	}
	if c.OutDir == "" {
		return errors.New("missing -out")
	}
	if c.Model == "" {
		return errors.New("missing -model")
	}
	if c.MaxExamplesPerCluster < 0 {
		return errors.New("max-examples must be >= 0")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		InPath:                filepath.FromSlash("artifacts/aggregate.json"),
		OutDir:                filepath.FromSlash("artifacts/narratives"),
		Model:                 "gpt-5-mini",
		MaxExamplesPerCluster: 5,
		Resume:                true,
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.InPath, "in", cfg.InPath, "Path to the aggregate JSON written by theme-aggregator")
	fs.StringVar(&cfg.OutDir, "out", cfg.OutDir, "Directory for <category>.narrative.json files")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "OpenAI model to use (e.g. gpt-5-mini)")
	fs.IntVar(&cfg.MaxExamplesPerCluster, "max-examples", cfg.MaxExamplesPerCluster, "Max example quotes per cluster in the prompt (0 = all stored)")
	fs.BoolVar(&cfg.Pretty, "pretty", false, "Pretty-print narrative JSON files")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite existing narrative files")
	fs.BoolVar(&cfg.Resume, "resume", cfg.Resume, "Skip categories that already have a narrative file")
	fs.StringVar(&cfg.APIKey, "api-key", "", "OpenAI API key (overrides OPENAI_API_KEY env var)")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExample:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/insight-writer -in artifacts/aggregate.json -out artifacts/narratives -pretty")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.InPath = filepath.Clean(cfg.InPath)
	cfg.OutDir = filepath.Clean(cfg.OutDir)
	return cfg, nil
}
