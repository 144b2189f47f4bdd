package survey

import (
	"sort"
	"strings"
)

// Aggregate runs the full extraction -> signature -> clustering pipeline over
// every configured category and returns one CategoryAggregate per category
// name. The input is never mutated; running twice over the same records
// yields identical results. Empty input (or input with no valid answers)
// yields every category with an empty cluster list, not an error.
//
// Categories are independent: nothing is shared between them, so a caller
// could fan them out across goroutines, but per-quarter volumes make the
// sequential pass cheap enough.
func (e *Engine) Aggregate(records []Record) map[string]CategoryAggregate {
	out := make(map[string]CategoryAggregate, len(e.categories))

	for _, cat := range e.categories {
		out[cat.Name] = e.aggregateCategory(records, cat)
	}
	return out
}

func (e *Engine) aggregateCategory(records []Record, cat compiledCategory) CategoryAggregate {
	var (
		responses  []RawResponse
		stats      ProcessingStats
		columnSeen = make(map[string]struct{})
	)

	for _, rec := range records {
		if len(rec) == 0 {
			// Malformed rows contribute nothing; never fatal.
			continue
		}
		keys := sortedKeys(rec)
		texts, headers := extractCategoryTexts(rec, keys, cat)
		for _, h := range headers {
			columnSeen[h] = struct{}{}
		}
		if len(texts) == 0 {
			continue
		}

		leader := respondentAttr(rec, keys, e.leaderRe)
		department := respondentAttr(rec, keys, e.departmentRe)

		for _, t := range texts {
			stats.Extracted++
			if !e.isValidResponse(t) {
				stats.Filtered++
				continue
			}
			responses = append(responses, e.buildResponse(t, leader, department))
		}
	}

	clusters, clusterStats := e.clusterResponses(responses)
	stats.SeedClusters = clusterStats.SeedClusters
	stats.MergedClusters = clusterStats.MergedClusters

	columns := make([]string, 0, len(columnSeen))
	for c := range columnSeen {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	if clusters == nil {
		clusters = []Cluster{}
	}
	return CategoryAggregate{
		Clusters:        clusters,
		TotalResponses:  len(responses),
		ColumnRef:       strings.Join(columns, ", "),
		Stats:           stats,
		MinClusterCount: cat.MinClusterCount,
	}
}

// ReportableClusters filters an aggregate down to the clusters that clear its
// downstream reporting threshold, preserving order.
func (a CategoryAggregate) ReportableClusters() []Cluster {
	if a.MinClusterCount <= 0 {
		return a.Clusters
	}
	var out []Cluster
	for _, c := range a.Clusters {
		if c.Count >= a.MinClusterCount {
			out = append(out, c)
		}
	}
	return out
}
