package survey

import (
	"testing"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestIsValidResponse_DenylistAndLength(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())

	rejected := []string{
		"N/A", "  none  ", "no", "Nothing", "nil", "NA",
		"Not Applicable", "No Comment", "nope", "nada",
		"----------", "..........",
		"whatever", // exactly 8 chars
		"", "   ",
	}
	for _, s := range rejected {
		if e.isValidResponse(s) {
			t.Fatalf("isValidResponse(%q) = true, want false", s)
		}
	}

	accepted := []string{
		"It's okay", // 9 chars, just over the floor
		"More focus time would help a lot.",
		"  padded but real answer  ",
	}
	for _, s := range accepted {
		if !e.isValidResponse(s) {
			t.Fatalf("isValidResponse(%q) = false, want true", s)
		}
	}
}

func TestExtractCategoryTexts_MatchesHeadersDeterministically(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())

	rec := Record{
		"What obstacles slow you down?":  "Too many approvals.",
		"Any other obstacles?":           "Legacy tooling.",
		"Overall Satisfaction":           "4",
		"Department":                     "Finance",
		"What makes your work fulfilling?": "Helping customers.",
	}
	keys := sortedKeys(rec)

	var obstacles compiledCategory
	for _, c := range e.categories {
		if c.Name == "obstacles" {
			obstacles = c
		}
	}
	if obstacles.Name == "" {
		t.Fatalf("missing obstacles category in default config")
	}

	texts, headers := extractCategoryTexts(rec, keys, obstacles)
	if len(texts) != 2 {
		t.Fatalf("texts=%v, want 2 entries", texts)
	}
	// Sorted header order: "Any other obstacles?" before "What obstacles...".
	if texts[0] != "Legacy tooling." || texts[1] != "Too many approvals." {
		t.Fatalf("texts=%v, wrong order or content", texts)
	}
	if len(headers) != 2 {
		t.Fatalf("headers=%v, want 2 entries", headers)
	}
}

func TestRespondentAttr(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())

	rec := Record{
		"Manager":    "Dana Oyelaran",
		"Department": "Support",
		"Question":   "irrelevant",
	}
	keys := sortedKeys(rec)

	if got := respondentAttr(rec, keys, e.leaderRe); got != "Dana Oyelaran" {
		t.Fatalf("leader=%q", got)
	}
	if got := respondentAttr(rec, keys, e.departmentRe); got != "Support" {
		t.Fatalf("department=%q", got)
	}
	if got := respondentAttr(rec, keys, nil); got != "" {
		t.Fatalf("nil pattern should match nothing, got %q", got)
	}
}

func TestResolveColumns(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())

	headers := []string{
		"What obstacles slow you down?",
		"Overall Satisfaction",
		"If you could change one thing to feel more empowered, what would it be?",
	}
	resolved := e.ResolveColumns(headers)

	if got := resolved["obstacles"]; len(got) != 1 || got[0] != headers[0] {
		t.Fatalf("obstacles=%v", got)
	}
	if got := resolved["empowerment_changes"]; len(got) != 1 {
		t.Fatalf("empowerment_changes=%v", got)
	}
	if got := resolved["bold_ideas"]; len(got) != 0 {
		t.Fatalf("bold_ideas=%v, want none", got)
	}
	if len(resolved) != len(DefaultConfig().Categories) {
		t.Fatalf("resolved has %d categories, want %d", len(resolved), len(DefaultConfig().Categories))
	}
}
