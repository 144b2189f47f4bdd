package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/theimaginaryfoundation/pulse-lens/survey/fileutils"
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

	ctx := context.Background()

	stages := []string{"aggregate", "metrics", "narrate", "report"}
	if cfg.OnlyStage != "" {
		stages = []string{cfg.OnlyStage}
	} else if cfg.FromStage != "" {
		stages = stagesFrom(stages, cfg.FromStage)
	}

	base := filepath.Clean(cfg.BaseDir)
	responses := filepath.Clean(cfg.ResponsesPath)

	aggregatePath := filepath.Join(base, "aggregate.json")
	metricsPath := filepath.Join(base, "metrics.json")
	narrativesDir := filepath.Join(base, "narratives")
	reportPath := filepath.Join(base, "report.json")

	for _, stage := range stages {
		switch stage {
		case "aggregate":
			if !cfg.Overwrite && fileutils.FileExists(aggregatePath) {
				fmt.Fprintln(os.Stdout, "skip aggregate: aggregate.json already exists")
				continue
			}
			args := []string{
				"run", "./cmd/theme-aggregator",
				"-in", responses,
				"-out", aggregatePath,
			}
			args = appendCommonFlags(args, cfg)
			if err := runGo(ctx, args...); err != nil {
				os.Exit(1)
			}
		case "metrics":
			if !cfg.Overwrite && fileutils.FileExists(metricsPath) {
				fmt.Fprintln(os.Stdout, "skip metrics: metrics.json already exists")
				continue
			}
			args := []string{
				"run", "./cmd/metrics-rollup",
				"-in", responses,
				"-out", metricsPath,
			}
			args = appendCommonFlags(args, cfg)
			if err := runGo(ctx, args...); err != nil {
				os.Exit(1)
			}
		case "narrate":
			if cfg.SkipNarrate {
				fmt.Fprintln(os.Stdout, "skip narrate: -skip-narrate set")
				continue
			}
			args := []string{
				"run", "./cmd/insight-writer",
				"-in", aggregatePath,
				"-out", narrativesDir,
				"-model", cfg.Model,
				"-resume=true",
			}
			if cfg.Pretty {
				args = append(args, "-pretty")
			}
			if cfg.Overwrite {
				args = append(args, "-overwrite")
			}
			if err := runGo(ctx, args...); err != nil {
				os.Exit(1)
			}
		case "report":
			args := []string{
				"run", "./cmd/survey-report",
				"-aggregate", aggregatePath,
				"-metrics", metricsPath,
				"-narratives", narrativesDir,
				"-out", reportPath,
			}
			if cfg.Period != "" {
				args = append(args, "-period", cfg.Period)
			}
			if cfg.Pretty {
				args = append(args, "-pretty")
			}
			if cfg.Overwrite {
				args = append(args, "-overwrite")
			}
			if err := runGo(ctx, args...); err != nil {
				os.Exit(1)
			}
		default:
			fmt.Fprintln(os.Stderr, "unknown stage:", stage)
			os.Exit(2)
		}
	}
}

// appendCommonFlags adds the flags shared by the two responses-reading stages.
func appendCommonFlags(args []string, cfg Config) []string {
	if cfg.ConfigPath != "" {
		args = append(args, "-config", cfg.ConfigPath)
	}
	if cfg.Pretty {
		args = append(args, "-pretty")
	}
	if cfg.Overwrite {
		args = append(args, "-overwrite")
	}
	return args
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.ResponsesPath, "responses", cfg.ResponsesPath, "Path to the cleaned survey responses (.csv or .jsonl)")
	fs.StringVar(&cfg.BaseDir, "base-dir", cfg.BaseDir, "Base output directory for stage artifacts")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Optional YAML overlay for categories/dictionaries/thresholds")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "OpenAI model for the narrative stage (uses OPENAI_API_KEY)")
	fs.StringVar(&cfg.Period, "period", cfg.Period, "Survey period label, e.g. 2026-Q3")

	fs.StringVar(&cfg.FromStage, "from-stage", "", "Start at stage: aggregate|metrics|narrate|report")
	fs.StringVar(&cfg.OnlyStage, "only-stage", "", "Run only one stage: aggregate|metrics|narrate|report")

	fs.BoolVar(&cfg.SkipNarrate, "skip-narrate", false, "Skip the LLM narrative stage (no API key needed)")
	fs.BoolVar(&cfg.Pretty, "pretty", cfg.Pretty, "Pretty-print JSON outputs where supported")
	fs.BoolVar(&cfg.Overwrite, "overwrite", cfg.Overwrite, "Overwrite existing outputs (disables resume behavior)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.ConfigPath != "" {
		cfg.ConfigPath = filepath.Clean(cfg.ConfigPath)
	}
	return cfg, nil
}

func runGo(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()

	start := time.Now()
	err := cmd.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "command failed:", "go "+strings.Join(args, " "))
		fmt.Fprintln(os.Stderr, "error:", err.Error())
		return err
	}
	fmt.Fprintln(os.Stdout, "ok:", "go "+strings.Join(args, " "), "(", time.Since(start).Round(time.Millisecond).String()+")")
	return nil
}

func stagesFrom(stages []string, from string) []string {
	from = strings.ToLower(strings.TrimSpace(from))
	for i, s := range stages {
		if s == from {
			return stages[i:]
		}
	}
	return stages
}
