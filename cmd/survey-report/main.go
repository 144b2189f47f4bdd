package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

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

	var agg survey.AggregateFile
	if err := survey.ReadJSONArtifact(cfg.AggregatePath, &agg); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	var metrics *survey.MetricsReport
	if cfg.MetricsPath != "" {
		var m survey.MetricsReport
		if err := survey.ReadJSONArtifact(cfg.MetricsPath, &m); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(2)
		}
		metrics = &m
	}

	narratives, err := loadNarratives(cfg.NarrativesDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	report, err := survey.BuildReport(agg, metrics, narratives, cfg.Period)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := survey.WriteJSONArtifact(cfg.OutPath, report, cfg.Pretty, cfg.Overwrite); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "run_id=%s categories=%d narratives=%d out=%s\n",
		report.RunID, len(report.Categories), len(narratives), cfg.OutPath)
}

// loadNarratives reads every <category>.narrative.json in dir. A missing dir
// is fine: the narrative stage is optional.
func loadNarratives(dir string) (map[string]survey.CategoryNarrative, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read narratives dir: %w", err)
	}

	out := make(map[string]survey.CategoryNarrative)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".narrative.json") {
			continue
		}
		var n survey.CategoryNarrative
		if err := survey.ReadJSONArtifact(filepath.Join(dir, e.Name()), &n); err != nil {
			return nil, err
		}
		if n.Category == "" {
			n.Category = strings.TrimSuffix(e.Name(), ".narrative.json")
		}
		out[n.Category] = n
	}
	return out, nil
}

type Config struct {
	AggregatePath string
	MetricsPath   string
	NarrativesDir string
	OutPath       string
	Period        string
	Pretty        bool
	Overwrite     bool
}

func (c Config) Validate() error {
	if c.AggregatePath == "" {
		return errors.New("missing -aggregate")
	}
	if c.OutPath == "" {
		return errors.New("missing -out")
	}
	if c.Period != "" {
		if _, err := survey.ParsePeriod(c.Period); err != nil {
			return err
		}
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		AggregatePath: filepath.FromSlash("artifacts/aggregate.json"),
		MetricsPath:   filepath.FromSlash("artifacts/metrics.json"),
		NarrativesDir: filepath.FromSlash("artifacts/narratives"),
		OutPath:       filepath.FromSlash("artifacts/report.json"),
		Period:        survey.CurrentPeriod(time.Now()).String(),
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.AggregatePath, "aggregate", cfg.AggregatePath, "Path to the aggregate JSON artifact")
	fs.StringVar(&cfg.MetricsPath, "metrics", cfg.MetricsPath, "Optional path to the metrics JSON artifact (empty to omit)")
	fs.StringVar(&cfg.NarrativesDir, "narratives", cfg.NarrativesDir, "Optional directory of <category>.narrative.json files")
	fs.StringVar(&cfg.OutPath, "out", cfg.OutPath, "Path for the final report JSON")
	fs.StringVar(&cfg.Period, "period", cfg.Period, "Survey period label, e.g. 2026-Q3 (empty to omit)")
	fs.BoolVar(&cfg.Pretty, "pretty", false, "Pretty-print the report JSON")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite an existing report file")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExample:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/survey-report -aggregate artifacts/aggregate.json -out artifacts/report.json -pretty")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.AggregatePath = filepath.Clean(cfg.AggregatePath)
	cfg.OutPath = filepath.Clean(cfg.OutPath)
	if cfg.MetricsPath != "" {
		cfg.MetricsPath = filepath.Clean(cfg.MetricsPath)
	}
	if cfg.NarrativesDir != "" {
		cfg.NarrativesDir = filepath.Clean(cfg.NarrativesDir)
	}
	return cfg, nil
}
