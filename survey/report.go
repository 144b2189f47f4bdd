package survey

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/theimaginaryfoundation/pulse-lens/survey/fileutils"
)

// CategoryReport is the per-category slice of the final report: the full
// aggregate, the clusters that cleared the reporting threshold, and the
// model-written narrative when one was produced.
type CategoryReport struct {
	Aggregate  CategoryAggregate  `json:"aggregate"`
	Reportable []Cluster          `json:"reportable_clusters"`
	Narrative  *CategoryNarrative `json:"narrative,omitempty"`
}

// Report is the artifact the web dashboard consumes. Shape is the contract;
// nothing here is persisted anywhere else.
type Report struct {
	RunID       string `json:"run_id"`
	GeneratedAt string `json:"generated_at"`
	Period      string `json:"period,omitempty"`

	TotalRecords int `json:"total_records"`

	Metrics    *MetricsReport            `json:"metrics,omitempty"`
	Categories map[string]CategoryReport `json:"categories"`
}

// BuildReport assembles the final report from the stage artifacts. Metrics
// and narratives are optional; a missing narrative for a category simply
// leaves that field empty.
func BuildReport(agg AggregateFile, metrics *MetricsReport, narratives map[string]CategoryNarrative, period string) (Report, error) {
	if agg.Categories == nil {
		return Report{}, errors.New("BuildReport: aggregate has no categories")
	}
	if period != "" {
		if _, err := ParsePeriod(period); err != nil {
			return Report{}, fmt.Errorf("BuildReport: %w", err)
		}
	}

	r := Report{
		RunID:        uuid.NewString(),
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		Period:       period,
		TotalRecords: agg.TotalRecords,
		Metrics:      metrics,
		Categories:   make(map[string]CategoryReport, len(agg.Categories)),
	}

	for name, ca := range agg.Categories {
		cr := CategoryReport{
			Aggregate:  ca,
			Reportable: ca.ReportableClusters(),
		}
		if n, ok := narratives[name]; ok {
			n := n
			cr.Narrative = &n
		}
		r.Categories[name] = cr
	}
	return r, nil
}

// WriteJSONArtifact marshals v and writes it atomically, refusing to clobber
// an existing file unless overwrite is set. Shared by every stage binary.
func WriteJSONArtifact(path string, v any, pretty, overwrite bool) error {
	if path == "" {
		return errors.New("WriteJSONArtifact: path is empty")
	}
	if !overwrite && fileutils.FileExists(path) {
		return fmt.Errorf("WriteJSONArtifact: output already exists: %s", path)
	}

	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("WriteJSONArtifact: marshal: %w", err)
	}
	if err := fileutils.WriteFileAtomic(path, b, 0o644); err != nil {
		return fmt.Errorf("WriteJSONArtifact: write: %w", err)
	}
	return nil
}

// ReadJSONArtifact is the counterpart loader for the stage artifacts.
func ReadJSONArtifact(path string, v any) error {
	if path == "" {
		return errors.New("ReadJSONArtifact: path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ReadJSONArtifact: read: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("ReadJSONArtifact: unmarshal %s: %w", path, err)
	}
	return nil
}
