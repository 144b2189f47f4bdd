package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
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

	if cfg.ShowColumns {
		printResolvedColumns(engine, loaded.Records)
	}

	aggregates := engine.Aggregate(loaded.Records)

	out := survey.AggregateFile{
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		SourcePath:   cfg.InPath,
		TotalRecords: len(loaded.Records),
		Categories:   aggregates,
	}
	if err := survey.WriteJSONArtifact(cfg.OutPath, out, cfg.Pretty, cfg.Overwrite); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	totalResponses := 0
	totalClusters := 0
	for _, a := range aggregates {
		totalResponses += a.TotalResponses
		totalClusters += len(a.Clusters)
	}
	fmt.Fprintf(os.Stdout, "records=%d categories=%d responses=%d clusters=%d out=%s\n",
		len(loaded.Records), len(aggregates), totalResponses, totalClusters, cfg.OutPath)
}

// printResolvedColumns shows which survey columns fed which category, so a
// bad header regex is visible before anyone reads clusters.
func printResolvedColumns(engine *survey.Engine, records []survey.Record) {
	headerSet := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			headerSet[k] = struct{}{}
		}
	}
	headers := make([]string, 0, len(headerSet))
	for h := range headerSet {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	resolved := engine.ResolveColumns(headers)
	names := make([]string, 0, len(resolved))
	for name := range resolved {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cols := resolved[name]
		if len(cols) == 0 {
			fmt.Fprintf(os.Stderr, "columns %s: (none)\n", name)
			continue
		}
		fmt.Fprintf(os.Stderr, "columns %s: %s\n", name, strings.Join(cols, " | "))
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.InPath, "in", cfg.InPath, "Path to survey responses (.csv with header row, or .jsonl)")
	fs.StringVar(&cfg.OutPath, "out", cfg.OutPath, "Path for the aggregate JSON artifact")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Optional YAML overlay for categories/dictionaries/thresholds")
	fs.BoolVar(&cfg.Pretty, "pretty", false, "Pretty-print the aggregate JSON")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite an existing aggregate file")
	fs.BoolVar(&cfg.ShowColumns, "show-columns", false, "Print which columns matched each category, then continue")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExample:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/theme-aggregator -in exports/responses.csv -out artifacts/aggregate.json -pretty")
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
