package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/theimaginaryfoundation/pulse-lens/survey"
	"github.com/theimaginaryfoundation/pulse-lens/survey/fileutils"
	"github.com/theimaginaryfoundation/pulse-lens/survey/provider"
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

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "missing OPENAI_API_KEY (or pass -api-key)")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var agg survey.AggregateFile
	if err := survey.ReadJSONArtifact(cfg.InPath, &agg); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if len(agg.Categories) == 0 {
		fmt.Fprintln(os.Stderr, "aggregate file has no categories")
		os.Exit(2)
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("mkdir -out: %w", err).Error())
		os.Exit(2)
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	narrator := openAINarrator{
		client: &client,
		model:  cfg.Model,
	}

	// Stable order so progress output and retries line up across runs.
	names := make([]string, 0, len(agg.Categories))
	for name := range agg.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	written := 0
	skipped := 0
	for _, name := range names {
		ca := agg.Categories[name]
		reportable := ca.ReportableClusters()
		if len(reportable) == 0 {
			fmt.Fprintf(os.Stderr, "skip %s: no cluster meets count >= %d\n", name, ca.MinClusterCount)
			skipped++
			continue
		}

		outPath := narrativeOutPath(cfg.OutDir, name)
		if cfg.Resume && fileutils.FileExists(outPath) {
			skipped++
			continue
		}

		resp, err := narrator.WriteNarrative(ctx, name, ca, reportable, cfg.MaxExamplesPerCluster)
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("narrate %s: %w", name, err).Error())
			os.Exit(1)
		}

		narrative := survey.CategoryNarrative{
			Category:           name,
			Headline:           strings.TrimSpace(resp.Headline),
			Narrative:          strings.TrimSpace(resp.Narrative),
			KeyFindings:        resp.KeyFindings,
			RecommendedActions: resp.RecommendedActions,
			Sentiment:          strings.TrimSpace(resp.Sentiment),
		}
		if err := survey.WriteJSONArtifact(outPath, narrative, cfg.Pretty, cfg.Overwrite || cfg.Resume); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		written++
		fmt.Fprintf(os.Stderr, "progress insight-writer: %s done (clusters=%d)\n", name, len(reportable))
	}

	fmt.Fprintf(os.Stdout, "categories=%d narratives_written=%d skipped=%d out_dir=%s\n",
		len(names), written, skipped, cfg.OutDir)
}

func narrativeOutPath(outDir, category string) string {
	return filepath.Join(outDir, category+".narrative.json")
}

type narrativeResponse struct {
	Headline           string   `json:"headline"`
	Narrative          string   `json:"narrative"`
	KeyFindings        []string `json:"key_findings"`
	RecommendedActions []string `json:"recommended_actions"`
	Sentiment          string   `json:"sentiment"`
}

type openAINarrator struct {
	client *openai.Client
	model  string
}

var narrativeSchema = provider.GenerateSchema[narrativeResponse]()

// WriteNarrative asks the model for an executive narrative over one
// category's reportable clusters.
func (n openAINarrator) WriteNarrative(ctx context.Context, category string, agg survey.CategoryAggregate, clusters []survey.Cluster, maxExamples int) (narrativeResponse, error) {
	if n.client == nil {
		return narrativeResponse{}, errors.New("openAINarrator: client is nil")
	}
	if n.model == "" {
		return narrativeResponse{}, errors.New("openAINarrator: model is empty")
	}

	input := buildNarrativePromptInput(category, agg, clusters, maxExamples)
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "CategoryNarrative",
			Schema:      narrativeSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Executive narrative JSON for one survey category"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           n.model,
		MaxOutputTokens: openai.Int(1500),
		Instructions:    openai.String(insightWriterPrompt),
		ServiceTier:     responses.ResponseNewParamsServiceTierFlex,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(input, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := provider.CallWithRetry(ctx, n.client, params)
	if err != nil {
		return narrativeResponse{}, err
	}

	var out narrativeResponse
	if err := fileutils.DecodeModelJSON(resp.OutputText(), &out); err != nil {
		return narrativeResponse{}, fmt.Errorf("unmarshal narrative: %w", err)
	}
	return out, nil
}
