package survey

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Engine is the free-text aggregation engine for one Config. All regexes and
// keyword lookups are compiled once at construction; every method is a pure
// function of its inputs and safe for concurrent use.
type Engine struct {
	cfg Config

	categories []compiledCategory

	denylist   map[string]struct{}
	fillerRe   *regexp.Regexp
	abbrevs    []abbreviation
	spaceRe    *regexp.Regexp
	semantic   []compiledKeywordSet
	themes     []compiledKeywordSet
	importants map[string]struct{}
	fallbacks  map[string]struct{}

	leaderRe       *regexp.Regexp
	departmentRe   *regexp.Regexp
	topPerformerRe *regexp.Regexp
	ratings        []compiledRating
}

type compiledCategory struct {
	Category
	patterns []*regexp.Regexp
}

type compiledKeywordSet struct {
	name     string
	keywords map[string]struct{}
}

type abbreviation struct {
	re          *regexp.Regexp
	replacement string
}

type compiledRating struct {
	RatingQuestion
	patterns []*regexp.Regexp
}

// NewEngine validates cfg and compiles its patterns and dictionaries.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		denylist: make(map[string]struct{}, len(cfg.Denylist)),
		spaceRe:  regexp.MustCompile(`\s+`),
	}

	for _, cat := range cfg.Categories {
		cc := compiledCategory{Category: cat}
		for _, p := range cat.HeaderPatterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("NewEngine: category %q pattern %q: %w", cat.Name, p, err)
			}
			cc.patterns = append(cc.patterns, re)
		}
		e.categories = append(e.categories, cc)
	}

	for _, d := range cfg.Denylist {
		e.denylist[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}

	if len(cfg.FillerWords) > 0 {
		quoted := make([]string, 0, len(cfg.FillerWords))
		for _, w := range cfg.FillerWords {
			quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(w)))
		}
		e.fillerRe = regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
	}

	// Expansion order is fixed by sorting so that two engines built from the
	// same map normalize identically.
	abbrs := make([]string, 0, len(cfg.Abbreviations))
	for a := range cfg.Abbreviations {
		abbrs = append(abbrs, a)
	}
	sort.Strings(abbrs)
	for _, a := range abbrs {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(strings.ToLower(a)) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("NewEngine: abbreviation %q: %w", a, err)
		}
		e.abbrevs = append(e.abbrevs, abbreviation{re: re, replacement: cfg.Abbreviations[a]})
	}

	e.semantic = compileKeywordSets(cfg.SemanticCategories)
	e.themes = compileKeywordSets(cfg.ThemeDictionaries)
	e.importants = lowerSet(cfg.ImportantWordStoplist)
	e.fallbacks = lowerSet(cfg.ThemeFallbackStoplist)

	var err error
	if e.leaderRe, err = optionalPattern(cfg.LeaderPattern); err != nil {
		return nil, fmt.Errorf("NewEngine: leader_pattern: %w", err)
	}
	if e.departmentRe, err = optionalPattern(cfg.DepartmentPattern); err != nil {
		return nil, fmt.Errorf("NewEngine: department_pattern: %w", err)
	}
	if e.topPerformerRe, err = optionalPattern(cfg.TopPerformerPattern); err != nil {
		return nil, fmt.Errorf("NewEngine: top_performer_pattern: %w", err)
	}

	for _, q := range cfg.RatingQuestions {
		cr := compiledRating{RatingQuestion: q}
		for _, p := range q.HeaderPatterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("NewEngine: rating %q pattern %q: %w", q.Name, p, err)
			}
			cr.patterns = append(cr.patterns, re)
		}
		e.ratings = append(e.ratings, cr)
	}

	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// ResolveColumns reports which headers each category's patterns match, so the
// header-to-category decision can be inspected independently of clustering.
// Headers are returned sorted; categories with no match map to nil.
func (e *Engine) ResolveColumns(headers []string) map[string][]string {
	out := make(map[string][]string, len(e.categories))
	for _, cat := range e.categories {
		var matched []string
		for _, h := range headers {
			if cat.matches(h) {
				matched = append(matched, h)
			}
		}
		sort.Strings(matched)
		out[cat.Name] = matched
	}
	return out
}

func (c compiledCategory) matches(header string) bool {
	for _, re := range c.patterns {
		if re.MatchString(header) {
			return true
		}
	}
	return false
}

func compileKeywordSets(sets []KeywordSet) []compiledKeywordSet {
	out := make([]compiledKeywordSet, 0, len(sets))
	for _, s := range sets {
		out = append(out, compiledKeywordSet{name: s.Name, keywords: lowerSet(s.Keywords)})
	}
	return out
}

func lowerSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

func optionalPattern(p string) (*regexp.Regexp, error) {
	if p == "" {
		return nil, nil
	}
	return regexp.Compile(p)
}
