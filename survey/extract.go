package survey

import (
	"regexp"
	"sort"
	"strings"
)

// extractCategoryTexts pulls every column value matching the category's
// header patterns out of one record. A record may have several matching
// columns, though exports usually carry one. The caller passes the record's
// headers in sorted order so extraction is deterministic regardless of map
// iteration.
func extractCategoryTexts(rec Record, keys []string, cat compiledCategory) (texts []string, headers []string) {
	for _, k := range keys {
		if !cat.matches(k) {
			continue
		}
		headers = append(headers, k)
		if v := strings.TrimSpace(rec[k]); v != "" {
			texts = append(texts, v)
		}
	}
	return texts, headers
}

// isValidResponse decides whether a candidate string counts as an answer.
// Boilerplate non-answers and very short strings are dropped; nothing else is
// filtered (no profanity or language checks).
func (e *Engine) isValidResponse(s string) bool {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= e.cfg.MinResponseLen {
		return false
	}
	lower := strings.ToLower(s)
	if _, ok := e.denylist[lower]; ok {
		return false
	}
	if allOf(lower, '-') || allOf(lower, '.') {
		return false
	}
	return true
}

func allOf(s string, c byte) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			return false
		}
	}
	return true
}

// respondentAttr returns the value of the first header matching re, in sorted
// header order. A nil pattern matches nothing.
func respondentAttr(rec Record, keys []string, re *regexp.Regexp) string {
	if re == nil {
		return ""
	}
	for _, k := range keys {
		if re.MatchString(k) {
			if v := strings.TrimSpace(rec[k]); v != "" {
				return v
			}
		}
	}
	return ""
}

func sortedKeys(rec Record) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
