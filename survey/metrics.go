package survey

import (
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// QuestionMetrics summarizes one rating question across all respondents.
type QuestionMetrics struct {
	Name      string `json:"name"`
	ColumnRef string `json:"column_ref"`
	Responses int    `json:"responses"`

	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`

	// Favorable is the share of answers at or above the favorable floor.
	Favorable float64 `json:"favorable"`

	// Distribution maps rating value -> answer count.
	Distribution map[int]int `json:"distribution"`
}

// MetricsReport is the quantitative half of a processing run.
type MetricsReport struct {
	TotalRecords int               `json:"total_records"`
	Questions    []QuestionMetrics `json:"questions"`

	// EngagementIndex is the mean of per-question means rescaled to 0-100.
	EngagementIndex float64 `json:"engagement_index"`

	// TopPerformerMean/OthersMean split the overall rating mean by the
	// designated top-performer flag column, when one exists.
	TopPerformerMean *float64 `json:"top_performer_mean,omitempty"`
	OthersMean       *float64 `json:"others_mean,omitempty"`
}

// ComputeMetrics derives satisfaction/engagement metrics from the numeric
// rating columns. Non-numeric and missing values contribute nothing; a record
// with no rating answers simply doesn't count toward any question.
func (e *Engine) ComputeMetrics(records []Record) MetricsReport {
	report := MetricsReport{TotalRecords: len(records)}

	var indexParts []float64
	var topValues, otherValues []float64

	for _, q := range e.ratings {
		qm := QuestionMetrics{Name: q.Name, Distribution: make(map[int]int)}
		var values []float64
		columnSeen := make(map[string]struct{})

		for _, rec := range records {
			if len(rec) == 0 {
				continue
			}
			keys := sortedKeys(rec)
			top := e.isTopPerformer(rec, keys)
			for _, k := range keys {
				if !q.matches(k) {
					continue
				}
				columnSeen[k] = struct{}{}
				v, ok := parseRating(rec[k], q.Scale)
				if !ok {
					continue
				}
				values = append(values, v)
				qm.Distribution[int(v+0.5)]++
				if top {
					topValues = append(topValues, v)
				} else {
					otherValues = append(otherValues, v)
				}
			}
		}

		qm.Responses = len(values)
		if len(values) > 0 {
			qm.Mean = stat.Mean(values, nil)
			if len(values) > 1 {
				qm.StdDev = stat.StdDev(values, nil)
			}
			favorable := 0
			for _, v := range values {
				if v >= float64(q.FavorableMin) {
					favorable++
				}
			}
			qm.Favorable = float64(favorable) / float64(len(values))
			indexParts = append(indexParts, (qm.Mean-1)/float64(q.Scale-1)*100)
		}

		columns := make([]string, 0, len(columnSeen))
		for c := range columnSeen {
			columns = append(columns, c)
		}
		sort.Strings(columns)
		qm.ColumnRef = strings.Join(columns, ", ")

		report.Questions = append(report.Questions, qm)
	}

	if len(indexParts) > 0 {
		report.EngagementIndex = stat.Mean(indexParts, nil)
	}
	if e.topPerformerRe != nil && len(topValues) > 0 && len(otherValues) > 0 {
		tm := stat.Mean(topValues, nil)
		om := stat.Mean(otherValues, nil)
		report.TopPerformerMean = &tm
		report.OthersMean = &om
	}
	return report
}

func (r compiledRating) matches(header string) bool {
	for _, re := range r.patterns {
		if re.MatchString(header) {
			return true
		}
	}
	return false
}

func (e *Engine) isTopPerformer(rec Record, keys []string) bool {
	v := respondentAttr(rec, keys, e.topPerformerRe)
	switch strings.ToLower(v) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}

// parseRating accepts a numeric answer within [1, scale]. Exports sometimes
// carry ratings as "4.0" or with stray spaces; anything else is not a rating.
func parseRating(s string, scale int) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if v < 1 || v > float64(scale) {
		return 0, false
	}
	return v, true
}
