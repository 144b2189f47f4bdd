package survey

// Record is one cleaned survey row: trimmed column header -> trimmed value.
// Rows arrive from a CSV export, a JSONL dump, or any other reader; the engine
// never cares which.
type Record map[string]string

// RawResponse is one validated free-text answer for a single category.
// It only lives for the duration of an Aggregate call.
type RawResponse struct {
	// Text is the cleaned variant (filler words removed, length-capped at a
	// sentence boundary). Used for theme derivation and seed ordering.
	Text string

	// NormalizedText is lowercased with known abbreviations expanded.
	// Used only for lexical similarity.
	NormalizedText string

	// FullOriginal is the verbatim answer, kept for evidence quotes.
	FullOriginal string

	Leader     string
	Department string

	// SemanticTokens are coarse topic tags plus a few distinctive words.
	SemanticTokens []string

	// Theme is the best-matching theme-dictionary label, or a fallback
	// derived from distinctive words.
	Theme string
}

// Cluster is a group of similar responses: a theme label, a count, and a
// small set of verbatim example quotes.
//
// Count includes every absorbed response (seed included); Examples caps out
// independently, so the two diverge once a topic is common.
type Cluster struct {
	Theme             string   `json:"theme"`
	Count             int      `json:"count"`
	Examples          []string `json:"examples"`
	LeaderCount       int      `json:"leader_count"`
	DepartmentCount   int      `json:"department_count"`
	SemanticSignature []string `json:"semantic_signature,omitempty"`
	AvgLength         float64  `json:"avg_length"`
}

// ProcessingStats records what the aggregation pass did for one category.
type ProcessingStats struct {
	// Extracted is the number of candidate strings pulled from matching columns.
	Extracted int `json:"extracted"`
	// Filtered is the number of candidates rejected as non-answers.
	Filtered int `json:"filtered"`
	// SeedClusters is the cluster count after the single pass, before merging.
	SeedClusters int `json:"seed_clusters"`
	// MergedClusters is the number of clusters folded away by the theme merge.
	MergedClusters int `json:"merged_clusters"`
}

// CategoryAggregate is the per-category output of one processing run.
// Clusters are sorted by descending count and truncated to the configured cap.
type CategoryAggregate struct {
	Clusters       []Cluster       `json:"clusters"`
	TotalResponses int             `json:"total_responses"`
	ColumnRef      string          `json:"column_ref"`
	Stats          ProcessingStats `json:"processing_stats"`

	// MinClusterCount is carried from the category config so downstream
	// consumers (prompt builder, report) can apply the reporting threshold
	// without re-reading the config.
	MinClusterCount int `json:"min_cluster_count"`
}

// AggregateFile is the on-disk artifact written by cmd/theme-aggregator and
// consumed by cmd/insight-writer and cmd/survey-report.
type AggregateFile struct {
	GeneratedAt  string                       `json:"generated_at"`
	SourcePath   string                       `json:"source_path,omitempty"`
	TotalRecords int                          `json:"total_records"`
	Categories   map[string]CategoryAggregate `json:"categories"`
}

// CategoryNarrative is the model-produced executive narrative for one category.
type CategoryNarrative struct {
	Category string `json:"category"`

	// Headline is a one-line takeaway suitable for a dashboard tile.
	Headline string `json:"headline"`

	// Narrative is 1-3 short paragraphs written for an executive reader.
	Narrative string `json:"narrative"`

	KeyFindings        []string `json:"key_findings,omitempty"`
	RecommendedActions []string `json:"recommended_actions,omitempty"`

	// Sentiment is a coarse label: positive, mixed, or negative.
	Sentiment string `json:"sentiment,omitempty"`
}
