package main

import (
	"flag"
	"testing"
)

func TestParseFlags_Overrides(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("metrics-rollup", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{
		"-in", "exports/q3.jsonl",
		"-out", "artifacts/q3/metrics.json",
		"-config", "survey.yaml",
		"-pretty",
		"-overwrite",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.InPath != "exports/q3.jsonl" || cfg.OutPath != "artifacts/q3/metrics.json" {
		t.Fatalf("paths = %+v", cfg)
	}
	if cfg.ConfigPath != "survey.yaml" || !cfg.Pretty || !cfg.Overwrite {
		t.Fatalf("cfg = %+v", cfg)
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
	cfg.InPath = "exports/responses.parquet"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unsupported extension: want error")
	}

	cfg = defaultConfig()
	cfg.OutPath = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing -out: want error")
	}
}
