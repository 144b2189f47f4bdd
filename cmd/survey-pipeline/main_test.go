package main

import (
	"flag"
	"reflect"
	"testing"
)

func TestParseFlags_Overrides(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("survey-pipeline", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{
		"-responses", "exports/q3.csv",
		"-base-dir", "artifacts/q3",
		"-config", "survey.yaml",
		"-model", "gpt-5-mini",
		"-period", "2026-Q3",
		"-from-stage", "metrics",
		"-skip-narrate",
		"-pretty",
		"-overwrite",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.ResponsesPath != "exports/q3.csv" || cfg.BaseDir != "artifacts/q3" {
		t.Fatalf("paths = %+v", cfg)
	}
	if cfg.ConfigPath != "survey.yaml" || cfg.Model != "gpt-5-mini" || cfg.Period != "2026-Q3" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.FromStage != "metrics" || cfg.OnlyStage != "" {
		t.Fatalf("stages = %+v", cfg)
	}
	if !cfg.SkipNarrate || !cfg.Pretty || !cfg.Overwrite {
		t.Fatalf("bools = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	if err := defaultConfig().Validate(); err != nil {
		t.Fatalf("defaults: %v", err)
	}

	cfg := defaultConfig()
	cfg.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("no model and narrate enabled: want error")
	}
	cfg.SkipNarrate = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("-skip-narrate must relax the model requirement: %v", err)
	}

	cfg = defaultConfig()
	cfg.Period = "third quarter"
	if err := cfg.Validate(); err == nil {
		t.Fatal("bad period: want error")
	}

	cfg = defaultConfig()
	cfg.OnlyStage = "report"
	cfg.FromStage = "metrics"
	if err := cfg.Validate(); err == nil {
		t.Fatal("-only-stage with -from-stage: want error")
	}
}

func TestStagesFrom(t *testing.T) {
	t.Parallel()

	stages := []string{"aggregate", "metrics", "narrate", "report"}

	if got := stagesFrom(stages, "narrate"); !reflect.DeepEqual(got, []string{"narrate", "report"}) {
		t.Fatalf("got %v", got)
	}
	if got := stagesFrom(stages, " METRICS "); !reflect.DeepEqual(got, []string{"metrics", "narrate", "report"}) {
		t.Fatalf("case/space normalization: got %v", got)
	}
	// Unknown stage name: run everything rather than nothing.
	if got := stagesFrom(stages, "bogus"); !reflect.DeepEqual(got, stages) {
		t.Fatalf("got %v", got)
	}
}

func TestAppendCommonFlags(t *testing.T) {
	t.Parallel()

	base := []string{"run", "./cmd/theme-aggregator"}

	cfg := Config{}
	if got := appendCommonFlags(append([]string(nil), base...), cfg); !reflect.DeepEqual(got, base) {
		t.Fatalf("got %v, want no extra flags", got)
	}

	cfg = Config{ConfigPath: "survey.yaml", Pretty: true, Overwrite: true}
	want := append(append([]string(nil), base...), "-config", "survey.yaml", "-pretty", "-overwrite")
	if got := appendCommonFlags(append([]string(nil), base...), cfg); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
