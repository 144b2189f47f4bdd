package survey

import (
	"strings"
	"testing"
)

func TestCleanText_FillersAndWhitespace(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())

	got := e.cleanText("Um, I think  uh   we need er better tools")
	if strings.Contains(strings.ToLower(got), "um") || strings.Contains(got, "  ") {
		t.Fatalf("cleanText=%q, fillers or double spaces left behind", got)
	}
	// "er" must only be stripped as a whole word.
	got = e.cleanText("Better performance reviews")
	if got != "Better performance reviews" {
		t.Fatalf("cleanText=%q, mangled embedded filler letters", got)
	}
}

func TestCleanText_TruncatesAtSentenceBoundary(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())

	s := strings.Repeat("a", 450) + ". " + strings.Repeat("b", 200)
	got := e.cleanText(s)
	want := strings.Repeat("a", 450) + "."
	if got != want {
		t.Fatalf("len(got)=%d, want sentence cut at 451 chars", len(got))
	}

	// No sentence boundary past the floor: hard cut at the cap.
	s = strings.Repeat("c", 600)
	got = e.cleanText(s)
	if len(got) != 500 {
		t.Fatalf("len(got)=%d, want hard cut at 500", len(got))
	}

	// Short strings pass through untouched.
	if got := e.cleanText("short answer"); got != "short answer" {
		t.Fatalf("cleanText=%q", got)
	}
}

func TestNormalizeText_ExpandsAbbreviations(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())

	got := e.normalizeText("Mgmt should improve comm with the dept")
	want := "management should improve communication with the department"
	if got != want {
		t.Fatalf("normalizeText=%q, want %q", got, want)
	}

	// Whole words only: "communicate" must not be rewritten via "comm".
	got = e.normalizeText("We communicate often")
	if got != "we communicate often" {
		t.Fatalf("normalizeText=%q, partial-word expansion", got)
	}
}

func TestSemanticTokens_CategoriesAndImportantWords(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())

	words := tokenize("We need better tools and software for communication")
	tokens := e.semanticTokens(words)

	set := make(map[string]bool, len(tokens))
	for _, tk := range tokens {
		set[tk] = true
	}
	if !set["tools"] || !set["communication"] {
		t.Fatalf("tokens=%v, missing semantic categories", tokens)
	}
	// "software" qualifies as an important word; "better" is stoplisted.
	if !set["software"] {
		t.Fatalf("tokens=%v, missing important word", tokens)
	}
	if set["better"] {
		t.Fatalf("tokens=%v, stoplisted word leaked in", tokens)
	}

	// No duplicates.
	if len(set) != len(tokens) {
		t.Fatalf("tokens=%v, contains duplicates", tokens)
	}
}

func TestThemeLabel_DictionaryMatch(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())

	if got := e.themeLabel(tokenize("I feel empowered")); got != "autonomy_empowerment" {
		t.Fatalf("theme=%q, want autonomy_empowerment", got)
	}
	if got := e.themeLabel(tokenize("My workload and hours cause burnout")); got != "workload_balance" {
		t.Fatalf("theme=%q, want workload_balance", got)
	}
}

func TestThemeLabel_FallbackAndOther(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())

	if got := e.themeLabel(tokenize("Parking situation downtown frustrates everyone")); got != "parking_situation" {
		t.Fatalf("theme=%q, want parking_situation", got)
	}
	// Only short or stoplisted words: nothing to derive a label from.
	if got := e.themeLabel(tokenize("we need more of it")); got != "other" {
		t.Fatalf("theme=%q, want other", got)
	}
}

func TestBuildResponse_KeepsOriginalVerbatim(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())

	original := "Um, Mgmt never listens.  We need   more autonomy!"
	r := e.buildResponse(original, "Lee", "Ops")

	if r.FullOriginal != original {
		t.Fatalf("FullOriginal=%q, must be verbatim", r.FullOriginal)
	}
	if strings.Contains(r.Text, "  ") || strings.Contains(strings.ToLower(r.Text), "um,") {
		t.Fatalf("Text=%q, not cleaned", r.Text)
	}
	if !strings.Contains(r.NormalizedText, "management") {
		t.Fatalf("NormalizedText=%q, abbreviation not expanded", r.NormalizedText)
	}
	if r.Theme != "autonomy_empowerment" {
		t.Fatalf("Theme=%q", r.Theme)
	}
	if r.Leader != "Lee" || r.Department != "Ops" {
		t.Fatalf("Leader=%q Department=%q", r.Leader, r.Department)
	}
}
