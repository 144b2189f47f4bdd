package survey

import (
	"sort"
	"strings"
)

// clusterBuild accumulates one cluster while the pass runs; sets are
// converted to counts before the cluster is emitted.
type clusterBuild struct {
	theme       string
	count       int
	examples    []string
	leaders     map[string]struct{}
	departments map[string]struct{}
	signature   map[string]struct{}
	sumLength   int
}

// clusterResponses groups a category's responses into clusters.
//
// Greedy single pass: responses are visited longest-first (longer answers are
// more specific and make better seeds), each unassigned response seeds a
// cluster, and every later unassigned response joins the seed whose combined
// similarity clears the absorb threshold. Ownership is an explicit
// per-response assignment array, so each response belongs to exactly one
// cluster and the pass visibly terminates after n(n-1)/2 comparisons.
//
// A post-merge pass then folds together clusters whose theme labels overlap
// strongly, pushing recurring topics above the downstream reporting
// threshold. Final clusters are sorted by descending count and truncated to
// the configured cap.
func (e *Engine) clusterResponses(responses []RawResponse) ([]Cluster, ProcessingStats) {
	stats := ProcessingStats{}
	if len(responses) == 0 {
		return nil, stats
	}

	sorted := append([]RawResponse(nil), responses...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Text) > len(sorted[j].Text)
	})

	const unassigned = -1
	assignment := make([]int, len(sorted))
	for i := range assignment {
		assignment[i] = unassigned
	}

	var builds []*clusterBuild
	for i := range sorted {
		if assignment[i] != unassigned {
			continue
		}
		seed := sorted[i]
		cb := newClusterBuild(seed, e.cfg.MaxExamples)
		assignment[i] = len(builds)

		for j := i + 1; j < len(sorted); j++ {
			if assignment[j] != unassigned {
				continue
			}
			if e.combinedSimilarity(seed, sorted[j]) > e.cfg.AbsorbThreshold {
				cb.absorb(sorted[j], e.cfg.MaxExamples)
				assignment[j] = len(builds)
			}
		}
		builds = append(builds, cb)
	}
	stats.SeedClusters = len(builds)

	clusters := make([]Cluster, 0, len(builds))
	for _, cb := range builds {
		clusters = append(clusters, cb.finish())
	}

	clusters, merged := e.mergeByTheme(clusters)
	stats.MergedClusters = merged

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Count > clusters[j].Count
	})
	if len(clusters) > e.cfg.MaxClusters {
		clusters = clusters[:e.cfg.MaxClusters]
	}
	return clusters, stats
}

func newClusterBuild(seed RawResponse, maxExamples int) *clusterBuild {
	cb := &clusterBuild{
		theme:       seed.Theme,
		leaders:     make(map[string]struct{}),
		departments: make(map[string]struct{}),
		signature:   make(map[string]struct{}),
	}
	cb.absorb(seed, maxExamples)
	return cb
}

func (cb *clusterBuild) absorb(r RawResponse, maxExamples int) {
	cb.count++
	cb.sumLength += len(r.Text)
	if len(cb.examples) < maxExamples && !containsString(cb.examples, r.FullOriginal) {
		cb.examples = append(cb.examples, r.FullOriginal)
	}
	if r.Leader != "" {
		cb.leaders[r.Leader] = struct{}{}
	}
	if r.Department != "" {
		cb.departments[r.Department] = struct{}{}
	}
	for _, t := range r.SemanticTokens {
		cb.signature[t] = struct{}{}
	}
}

func (cb *clusterBuild) finish() Cluster {
	sig := make([]string, 0, len(cb.signature))
	for t := range cb.signature {
		sig = append(sig, t)
	}
	sort.Strings(sig)

	avg := 0.0
	if cb.count > 0 {
		avg = float64(cb.sumLength) / float64(cb.count)
	}
	return Cluster{
		Theme:             cb.theme,
		Count:             cb.count,
		Examples:          cb.examples,
		LeaderCount:       len(cb.leaders),
		DepartmentCount:   len(cb.departments),
		SemanticSignature: sig,
		AvgLength:         avg,
	}
}

// combinedSimilarity scores a candidate against a cluster seed across three
// metrics: lexical overlap of normalized words, overlap of semantic tokens,
// and theme-label overlap.
func (e *Engine) combinedSimilarity(seed, cand RawResponse) float64 {
	jw := jaccard(strings.Fields(seed.NormalizedText), strings.Fields(cand.NormalizedText))
	js := jaccard(seed.SemanticTokens, cand.SemanticTokens)
	jt := themeOverlap(seed.Theme, cand.Theme)
	w := e.cfg.Weights
	return w.Jaccard*jw + w.Semantic*js + w.Theme*jt
}

// mergeByTheme combines clusters whose theme labels share most of their
// words. Pairs are considered in original order; once a cluster is merged
// away it is skipped. The larger side keeps its theme label.
func (e *Engine) mergeByTheme(clusters []Cluster) ([]Cluster, int) {
	merged := make([]bool, len(clusters))
	count := 0

	for i := range clusters {
		if merged[i] {
			continue
		}
		for j := i + 1; j < len(clusters); j++ {
			if merged[j] {
				continue
			}
			overlap := jaccard(themeWords(clusters[i].Theme), themeWords(clusters[j].Theme))
			if overlap <= e.cfg.MergeThreshold {
				continue
			}
			clusters[i] = mergeClusters(clusters[i], clusters[j], e.cfg.MaxExamples)
			merged[j] = true
			count++
		}
	}

	out := clusters[:0]
	for i, c := range clusters {
		if !merged[i] {
			out = append(out, c)
		}
	}
	return out, count
}

func mergeClusters(a, b Cluster, maxExamples int) Cluster {
	theme := a.Theme
	if b.Count > a.Count {
		theme = b.Theme
	}

	examples := append([]string(nil), a.Examples...)
	for _, ex := range b.Examples {
		if len(examples) >= maxExamples {
			break
		}
		if !containsString(examples, ex) {
			examples = append(examples, ex)
		}
	}

	sig := append([]string(nil), a.SemanticSignature...)
	for _, t := range b.SemanticSignature {
		if !containsString(sig, t) {
			sig = append(sig, t)
		}
	}
	sort.Strings(sig)

	total := a.Count + b.Count
	avg := 0.0
	if total > 0 {
		avg = (a.AvgLength*float64(a.Count) + b.AvgLength*float64(b.Count)) / float64(total)
	}

	return Cluster{
		Theme:             theme,
		Count:             total,
		Examples:          examples,
		LeaderCount:       a.LeaderCount + b.LeaderCount,
		DepartmentCount:   a.DepartmentCount + b.DepartmentCount,
		SemanticSignature: sig,
		AvgLength:         avg,
	}
}

// jaccard is set intersection over union of the two token lists.
// Two empty lists score zero, not one: no evidence is not a match.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}
	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// themeOverlap is 1 for identical labels, else the shared fraction of
// underscore-separated label words over the larger word count.
func themeOverlap(a, b string) float64 {
	if a == b {
		return 1
	}
	aw := themeWords(a)
	bw := themeWords(b)
	if len(aw) == 0 || len(bw) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(aw))
	for _, w := range aw {
		set[w] = struct{}{}
	}
	shared := 0
	for _, w := range bw {
		if _, ok := set[w]; ok {
			shared++
		}
	}
	max := len(aw)
	if len(bw) > max {
		max = len(bw)
	}
	return float64(shared) / float64(max)
}

func themeWords(theme string) []string {
	parts := strings.Split(theme, "_")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
