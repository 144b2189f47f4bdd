package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestParseFlags_Overrides(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("survey-report", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{
		"-aggregate", "artifacts/q3/aggregate.json",
		"-metrics", "",
		"-narratives", "artifacts/q3/narratives",
		"-out", "artifacts/q3/report.json",
		"-period", "2026-Q3",
		"-pretty",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.AggregatePath != "artifacts/q3/aggregate.json" {
		t.Fatalf("AggregatePath=%q", cfg.AggregatePath)
	}
	if cfg.MetricsPath != "" {
		t.Fatalf("MetricsPath=%q, empty must stay empty", cfg.MetricsPath)
	}
	if cfg.NarrativesDir != "artifacts/q3/narratives" || cfg.Period != "2026-Q3" || !cfg.Pretty {
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
	cfg.AggregatePath = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing -aggregate: want error")
	}

	cfg = defaultConfig()
	cfg.Period = "Q3-2026"
	if err := cfg.Validate(); err == nil {
		t.Fatal("bad period label: want error")
	}

	cfg = defaultConfig()
	cfg.Period = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty period must be allowed: %v", err)
	}
}

func TestLoadNarratives(t *testing.T) {
	t.Parallel()

	// Missing or empty dir: the narrative stage is optional.
	if got, err := loadNarratives(""); err != nil || got != nil {
		t.Fatalf("empty dir: %v, %v", got, err)
	}
	if got, err := loadNarratives(filepath.Join(t.TempDir(), "nope")); err != nil || got != nil {
		t.Fatalf("missing dir: %v, %v", got, err)
	}

	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("obstacles.narrative.json", `{"category":"obstacles","headline":"Capacity"}`)
	write("bold_ideas.narrative.json", `{"headline":"Untitled"}`)
	write("aggregate.json", `{}`)
	write("notes.txt", "not a narrative")

	got, err := loadNarratives(dir)
	if err != nil {
		t.Fatalf("loadNarratives: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d narratives, want 2: %+v", len(got), got)
	}
	if got["obstacles"].Headline != "Capacity" {
		t.Fatalf("obstacles = %+v", got["obstacles"])
	}
	// Category missing inside the file falls back to the file name.
	if got["bold_ideas"].Headline != "Untitled" {
		t.Fatalf("bold_ideas = %+v", got["bold_ideas"])
	}

	write("broken.narrative.json", "{nope")
	if _, err := loadNarratives(dir); err == nil {
		t.Fatal("malformed narrative: want error")
	}
}
