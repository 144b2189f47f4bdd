package survey

import (
	"math"
	"testing"
)

func TestParseRating(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in    string
		scale int
		want  float64
		ok    bool
	}{
		{"4", 5, 4, true},
		{" 4.0 ", 5, 4, true},
		{"3.5", 5, 3.5, true},
		{"0", 5, 0, false},
		{"6", 5, 0, false},
		{"10", 10, 10, true},
		{"", 5, 0, false},
		{"strongly agree", 5, 0, false},
	}
	for _, tc := range cases {
		got, ok := parseRating(tc.in, tc.scale)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("parseRating(%q, %d) = %v, %v; want %v, %v", tc.in, tc.scale, got, ok, tc.want, tc.ok)
		}
	}
}

func TestComputeMetrics_MeanFavorableDistribution(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())

	records := []Record{
		{"Overall satisfaction": "5", "How likely are you to recommend us to a friend?": "9"},
		{"Overall satisfaction": "4", "How likely are you to recommend us to a friend?": "10"},
		{"Overall satisfaction": "3", "How likely are you to recommend us to a friend?": "6"},
		{"Overall satisfaction": "not sure"},
		{},
	}
	report := e.ComputeMetrics(records)

	if report.TotalRecords != 5 {
		t.Fatalf("TotalRecords=%d, want 5", report.TotalRecords)
	}

	byName := make(map[string]QuestionMetrics, len(report.Questions))
	for _, q := range report.Questions {
		byName[q.Name] = q
	}

	sat, ok := byName["satisfaction"]
	if !ok {
		t.Fatalf("satisfaction question missing: %+v", report.Questions)
	}
	if sat.Responses != 3 {
		t.Fatalf("satisfaction Responses=%d, want 3 (non-numeric answer dropped)", sat.Responses)
	}
	if math.Abs(sat.Mean-4.0) > 1e-9 {
		t.Fatalf("satisfaction Mean=%v, want 4", sat.Mean)
	}
	// 5 and 4 clear the favorable floor of 4; 3 does not.
	if math.Abs(sat.Favorable-2.0/3.0) > 1e-9 {
		t.Fatalf("satisfaction Favorable=%v, want 2/3", sat.Favorable)
	}
	if sat.Distribution[5] != 1 || sat.Distribution[4] != 1 || sat.Distribution[3] != 1 {
		t.Fatalf("satisfaction Distribution=%v", sat.Distribution)
	}
	if sat.ColumnRef != "Overall satisfaction" {
		t.Fatalf("satisfaction ColumnRef=%q", sat.ColumnRef)
	}

	rec := byName["recommend"]
	if rec.Responses != 3 || math.Abs(rec.Mean-25.0/3.0) > 1e-9 {
		t.Fatalf("recommend = %+v", rec)
	}

	// Engagement question has no matching column: present but empty.
	eng := byName["engagement"]
	if eng.Responses != 0 || eng.Mean != 0 {
		t.Fatalf("engagement = %+v, want zero metrics", eng)
	}

	// Index averages only questions that had answers:
	// satisfaction (4-1)/4*100 = 75, recommend (25/3-1)/9*100.
	wantIndex := (75.0 + (25.0/3.0-1)/9.0*100) / 2
	if math.Abs(report.EngagementIndex-wantIndex) > 1e-9 {
		t.Fatalf("EngagementIndex=%v, want %v", report.EngagementIndex, wantIndex)
	}
	if report.TopPerformerMean != nil || report.OthersMean != nil {
		t.Fatalf("no top-performer column, split must be absent: %+v", report)
	}
}

func TestComputeMetrics_TopPerformerSplit(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())

	records := []Record{
		{"Overall satisfaction": "5", "Top Performer": "Yes"},
		{"Overall satisfaction": "5", "Top Performer": "y"},
		{"Overall satisfaction": "2", "Top Performer": "No"},
		{"Overall satisfaction": "3", "Top Performer": ""},
	}
	report := e.ComputeMetrics(records)

	if report.TopPerformerMean == nil || report.OthersMean == nil {
		t.Fatalf("split missing: %+v", report)
	}
	if math.Abs(*report.TopPerformerMean-5.0) > 1e-9 {
		t.Fatalf("TopPerformerMean=%v, want 5", *report.TopPerformerMean)
	}
	if math.Abs(*report.OthersMean-2.5) > 1e-9 {
		t.Fatalf("OthersMean=%v, want 2.5", *report.OthersMean)
	}
}

func TestComputeMetrics_EmptyInput(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())

	report := e.ComputeMetrics(nil)
	if report.TotalRecords != 0 {
		t.Fatalf("TotalRecords=%d", report.TotalRecords)
	}
	if len(report.Questions) != len(DefaultConfig().RatingQuestions) {
		t.Fatalf("got %d questions, want one entry per configured question", len(report.Questions))
	}
	if report.EngagementIndex != 0 {
		t.Fatalf("EngagementIndex=%v, want 0", report.EngagementIndex)
	}
}
