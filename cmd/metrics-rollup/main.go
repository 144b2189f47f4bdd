package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theimaginaryfoundation/pulse-lens/survey"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	engineCfg, err := survey.LoadConfig(cfg.ConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	engine, err := survey.NewEngine(engineCfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	loaded, err := survey.LoadRecords(cfg.InPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if loaded.SkippedRows > 0 {
		fmt.Fprintf(os.Stderr, "warning: skipped %d malformed rows in %s\n", loaded.SkippedRows, cfg.InPath)
	}

	report := engine.ComputeMetrics(loaded.Records)
	if err := survey.WriteJSONArtifact(cfg.OutPath, report, cfg.Pretty, cfg.Overwrite); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	answered := 0
	for _, q := range report.Questions {
		answered += q.Responses
	}
	fmt.Fprintf(os.Stdout, "records=%d questions=%d answers=%d engagement_index=%.1f out=%s\n",
		report.TotalRecords, len(report.Questions), answered, report.EngagementIndex, cfg.OutPath)
}

type Config struct {
	InPath     string
	OutPath    string
	ConfigPath string
	Pretty     bool
	Overwrite  bool
}

func (c Config) Validate() error {
	if c.InPath == "" {
		return errors.New("missing -in")
	}
	ext := strings.ToLower(filepath.Ext(c.InPath))
	if ext != ".csv" && ext != ".jsonl" {
		return errors.New("-in must be a .csv or .jsonl file")
	}
	if c.OutPath == "" {
		return errors.New("missing -out")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		InPath:  filepath.FromSlash("exports/responses.csv"),
		OutPath: filepath.FromSlash("artifacts/metrics.json"),
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.InPath, "in", cfg.InPath, "Path to survey responses (.csv with header row, or .jsonl)")
	fs.StringVar(&cfg.OutPath, "out", cfg.OutPath, "Path for the metrics JSON artifact")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Optional YAML overlay for rating-question definitions")
	fs.BoolVar(&cfg.Pretty, "pretty", false, "Pretty-print the metrics JSON")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite an existing metrics file")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExample:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/metrics-rollup -in exports/responses.csv -out artifacts/metrics.json -pretty")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.InPath = filepath.Clean(cfg.InPath)
	cfg.OutPath = filepath.Clean(cfg.OutPath)
	if cfg.ConfigPath != "" {
		cfg.ConfigPath = filepath.Clean(cfg.ConfigPath)
	}
	return cfg, nil
}
