package survey

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KeywordSet is a named keyword dictionary. Order matters: ties between sets
// are broken by position, so keep the slice order stable.
type KeywordSet struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Category is one open-ended survey question grouping. HeaderPatterns are
// regexes matched against column headers.
type Category struct {
	Name           string   `yaml:"name" json:"name"`
	HeaderPatterns []string `yaml:"header_patterns" json:"header_patterns"`

	// MinClusterCount is the downstream reporting threshold: a cluster is only
	// surfaced to the narrative/report stage once it absorbs this many
	// responses. The engine itself does not filter on it.
	MinClusterCount int `yaml:"min_cluster_count" json:"min_cluster_count"`
}

// Weights control the combined similarity score used during clustering.
type Weights struct {
	Jaccard  float64 `yaml:"jaccard" json:"jaccard"`
	Semantic float64 `yaml:"semantic" json:"semantic"`
	Theme    float64 `yaml:"theme" json:"theme"`
}

// RatingQuestion is one quantitative (Likert-style) survey question.
type RatingQuestion struct {
	Name           string   `yaml:"name" json:"name"`
	HeaderPatterns []string `yaml:"header_patterns" json:"header_patterns"`

	// Scale is the top of the rating scale (answers run 1..Scale).
	Scale int `yaml:"scale" json:"scale"`

	// FavorableMin is the lowest rating counted as favorable.
	FavorableMin int `yaml:"favorable_min" json:"favorable_min"`
}

// Config carries everything the engine needs: category definitions, the
// keyword dictionaries, and the clustering knobs. Dictionaries and thresholds
// are plain data so tests can substitute small synthetic ones.
type Config struct {
	Categories []Category `yaml:"categories"`

	// Denylist holds boilerplate non-answers, compared case-insensitively
	// after trimming.
	Denylist []string `yaml:"denylist"`

	// MinResponseLen is the exclusive lower bound on trimmed answer length:
	// answers of this length or shorter are dropped.
	MinResponseLen int `yaml:"min_response_len"`

	FillerWords   []string          `yaml:"filler_words"`
	Abbreviations map[string]string `yaml:"abbreviations"`

	SemanticCategories []KeywordSet `yaml:"semantic_categories"`
	ThemeDictionaries  []KeywordSet `yaml:"theme_dictionaries"`

	ImportantWordStoplist []string `yaml:"important_word_stoplist"`
	ThemeFallbackStoplist []string `yaml:"theme_fallback_stoplist"`

	// AbsorbThreshold and MergeThreshold were chosen empirically upstream;
	// treat them as tunable, not optimal.
	AbsorbThreshold float64 `yaml:"absorb_threshold"`
	MergeThreshold  float64 `yaml:"merge_threshold"`
	Weights         Weights `yaml:"weights"`

	MaxExamples int `yaml:"max_examples"`
	MaxClusters int `yaml:"max_clusters"`

	// CleanMaxChars bounds cleaned text; CleanSentenceFloor is the earliest
	// position where a sentence-boundary cut is accepted before falling back
	// to a hard truncation.
	CleanMaxChars      int `yaml:"clean_max_chars"`
	CleanSentenceFloor int `yaml:"clean_sentence_floor"`

	// LeaderPattern / DepartmentPattern locate the respondent-attribute
	// columns; TopPerformerPattern locates the designated flag column used by
	// the metrics split.
	LeaderPattern       string `yaml:"leader_pattern"`
	DepartmentPattern   string `yaml:"department_pattern"`
	TopPerformerPattern string `yaml:"top_performer_pattern"`

	RatingQuestions []RatingQuestion `yaml:"rating_questions"`
}

// DefaultConfig returns the production category definitions and dictionaries.
func DefaultConfig() Config {
	return Config{
		Categories: []Category{
			{Name: "fulfilling_work", MinClusterCount: 20, HeaderPatterns: []string{
				`(?i)fulfilling`, `(?i)meaningful.*work`, `(?i)enjoy.*(most|work)`,
			}},
			{Name: "role_clarity", MinClusterCount: 20, HeaderPatterns: []string{
				`(?i)role.*clar`, `(?i)understand.*role`, `(?i)expectations.*clear`,
			}},
			{Name: "obstacles", MinClusterCount: 20, HeaderPatterns: []string{
				`(?i)obstacle`, `(?i)barrier`, `(?i)(slows|gets in).*way`, `(?i)friction`,
			}},
			{Name: "empowerment_changes", MinClusterCount: 20, HeaderPatterns: []string{
				`(?i)empower`, `(?i)(one|single).*change`, `(?i)if you could change`,
			}},
			{Name: "bold_ideas", MinClusterCount: 20, HeaderPatterns: []string{
				`(?i)bold.*idea`, `(?i)big.*idea`, `(?i)moonshot`,
			}},
			{Name: "leadership_support", MinClusterCount: 20, HeaderPatterns: []string{
				`(?i)leadership.*support`, `(?i)support.*leadership`, `(?i)leaders.*(help|do)`,
			}},
		},

		Denylist: []string{
			"n/a", "none", "no", "nothing", "nil", "na",
			"not applicable", "no comment", "nope", "nada",
		},
		MinResponseLen: 8,

		FillerWords: []string{"uh", "um", "er"},
		Abbreviations: map[string]string{
			"mgmt": "management",
			"mgr":  "manager",
			"comm": "communication",
			"dev":  "development",
			"info": "information",
			"tech": "technology",
			"sys":  "system",
			"proc": "process",
			"dept": "department",
			"org":  "organization",
		},

		SemanticCategories: []KeywordSet{
			{Name: "communication", Keywords: []string{"communication", "communicate", "feedback", "meeting", "meetings", "updates", "transparency", "informed", "listen"}},
			{Name: "tools", Keywords: []string{"tools", "software", "equipment", "technology", "systems", "laptop", "hardware", "licenses"}},
			{Name: "development", Keywords: []string{"development", "training", "learning", "growth", "career", "mentorship", "skills", "promotion"}},
			{Name: "process", Keywords: []string{"process", "workflow", "procedure", "approvals", "bureaucracy", "paperwork", "handoffs"}},
			{Name: "management", Keywords: []string{"management", "manager", "leadership", "supervisor", "boss", "directors", "executives"}},
			{Name: "culture", Keywords: []string{"culture", "team", "environment", "morale", "respect", "trust", "collaboration", "inclusion"}},
			{Name: "recognition", Keywords: []string{"recognition", "recognized", "appreciated", "appreciation", "praise", "rewards", "acknowledged", "celebrated"}},
			{Name: "autonomy", Keywords: []string{"autonomy", "empowered", "empowerment", "ownership", "independence", "freedom", "trusted"}},
			{Name: "workload", Keywords: []string{"workload", "bandwidth", "overloaded", "burnout", "hours", "capacity", "understaffed", "deadlines"}},
			{Name: "clarity", Keywords: []string{"clarity", "clear", "unclear", "expectations", "priorities", "direction", "goals", "confusion"}},
		},

		ThemeDictionaries: []KeywordSet{
			{Name: "communication_transparency", Keywords: []string{"communication", "transparency", "communicate", "informed", "updates", "openness", "feedback"}},
			{Name: "tools_technology", Keywords: []string{"tools", "technology", "software", "systems", "equipment", "hardware", "automation"}},
			{Name: "training_development", Keywords: []string{"training", "development", "learning", "growth", "career", "mentorship", "coaching", "skills"}},
			{Name: "recognition_appreciation", Keywords: []string{"recognition", "appreciation", "appreciated", "praise", "rewards", "acknowledged", "valued"}},
			{Name: "autonomy_empowerment", Keywords: []string{"autonomy", "empowered", "empowerment", "ownership", "independence", "freedom", "delegation"}},
			{Name: "process_efficiency", Keywords: []string{"process", "efficiency", "workflow", "streamline", "bureaucracy", "approvals", "paperwork"}},
			{Name: "leadership_management", Keywords: []string{"leadership", "management", "manager", "supervisor", "directors", "executives", "vision"}},
			{Name: "workload_balance", Keywords: []string{"workload", "balance", "bandwidth", "overloaded", "burnout", "capacity", "understaffed", "hours"}},
			{Name: "culture_environment", Keywords: []string{"culture", "environment", "morale", "respect", "trust", "collaboration", "inclusion", "belonging"}},
			{Name: "compensation_benefits", Keywords: []string{"compensation", "salary", "pay", "benefits", "bonus", "raise", "equity"}},
			{Name: "remote_flexibility", Keywords: []string{"remote", "flexibility", "flexible", "hybrid", "commute", "schedule", "telework"}},
		},

		ImportantWordStoplist: []string{"better", "would", "could", "should", "really", "think"},
		ThemeFallbackStoplist: []string{"would", "could", "should", "more", "better", "need", "want", "really", "think", "feel"},

		AbsorbThreshold: 0.45,
		MergeThreshold:  0.6,
		Weights:         Weights{Jaccard: 0.3, Semantic: 0.4, Theme: 0.3},

		MaxExamples: 8,
		MaxClusters: 40,

		CleanMaxChars:      500,
		CleanSentenceFloor: 400,

		LeaderPattern:       `(?i)^(leader|manager|supervisor)( name)?$`,
		DepartmentPattern:   `(?i)^(department|team|division|org unit)$`,
		TopPerformerPattern: `(?i)top.?performer`,

		RatingQuestions: []RatingQuestion{
			{Name: "satisfaction", Scale: 5, FavorableMin: 4, HeaderPatterns: []string{
				`(?i)overall satisfaction`, `(?i)how satisfied`,
			}},
			{Name: "engagement", Scale: 5, FavorableMin: 4, HeaderPatterns: []string{
				`(?i)engaged at work`, `(?i)engagement`,
			}},
			{Name: "recommend", Scale: 10, FavorableMin: 9, HeaderPatterns: []string{
				`(?i)recommend.*(work|friend)`,
			}},
		},
	}
}

// LoadConfig reads a YAML overlay and applies it over DefaultConfig.
// A section present in the file replaces the default wholesale; absent
// sections keep their defaults. If path is empty the defaults are returned
// unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("LoadConfig: read file: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("LoadConfig: unmarshal: %w", err)
	}
	return cfg, nil
}

// Validate checks structural requirements before the regexes are compiled.
func (c Config) Validate() error {
	if len(c.Categories) == 0 {
		return errors.New("config: no categories defined")
	}
	seen := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Name == "" {
			return errors.New("config: category with empty name")
		}
		if _, ok := seen[cat.Name]; ok {
			return fmt.Errorf("config: duplicate category %q", cat.Name)
		}
		seen[cat.Name] = struct{}{}
		if len(cat.HeaderPatterns) == 0 {
			return fmt.Errorf("config: category %q has no header patterns", cat.Name)
		}
		if cat.MinClusterCount < 0 {
			return fmt.Errorf("config: category %q min_cluster_count must be >= 0", cat.Name)
		}
	}
	if c.MinResponseLen < 0 {
		return errors.New("config: min_response_len must be >= 0")
	}
	if c.AbsorbThreshold <= 0 || c.AbsorbThreshold >= 1 {
		return errors.New("config: absorb_threshold must be in (0, 1)")
	}
	if c.MergeThreshold <= 0 || c.MergeThreshold > 1 {
		return errors.New("config: merge_threshold must be in (0, 1]")
	}
	if c.Weights.Jaccard < 0 || c.Weights.Semantic < 0 || c.Weights.Theme < 0 {
		return errors.New("config: similarity weights must be >= 0")
	}
	if c.Weights.Jaccard+c.Weights.Semantic+c.Weights.Theme == 0 {
		return errors.New("config: similarity weights sum to zero")
	}
	if c.MaxExamples <= 0 {
		return errors.New("config: max_examples must be > 0")
	}
	if c.MaxClusters <= 0 {
		return errors.New("config: max_clusters must be > 0")
	}
	if c.CleanMaxChars <= 0 || c.CleanSentenceFloor <= 0 || c.CleanSentenceFloor >= c.CleanMaxChars {
		return errors.New("config: clean_sentence_floor must be > 0 and < clean_max_chars")
	}
	for _, q := range c.RatingQuestions {
		if q.Name == "" {
			return errors.New("config: rating question with empty name")
		}
		if q.Scale < 2 {
			return fmt.Errorf("config: rating question %q scale must be >= 2", q.Name)
		}
		if q.FavorableMin < 1 || q.FavorableMin > q.Scale {
			return fmt.Errorf("config: rating question %q favorable_min out of range", q.Name)
		}
	}
	return nil
}
