package survey

import (
	"strings"
	"unicode"
)

// buildResponse derives the cleaned text, normalized text, semantic tokens,
// and theme label for one validated answer. The original string is retained
// verbatim for later quoting.
func (e *Engine) buildResponse(original, leader, department string) RawResponse {
	cleaned := e.cleanText(original)
	words := tokenize(cleaned)

	return RawResponse{
		Text:           cleaned,
		NormalizedText: e.normalizeText(cleaned),
		FullOriginal:   original,
		Leader:         leader,
		Department:     department,
		SemanticTokens: e.semanticTokens(words),
		Theme:          e.themeLabel(words),
	}
}

// cleanText strips filler tokens, collapses whitespace, and bounds the result.
// When the text runs long we prefer cutting at the last sentence boundary
// past the floor so the string still quotes cleanly.
func (e *Engine) cleanText(s string) string {
	s = strings.TrimSpace(s)
	if e.fillerRe != nil {
		s = e.fillerRe.ReplaceAllString(s, " ")
	}
	s = strings.TrimSpace(e.spaceRe.ReplaceAllString(s, " "))

	runes := []rune(s)
	if len(runes) <= e.cfg.CleanMaxChars {
		return s
	}
	head := runes[:e.cfg.CleanMaxChars]
	cut := -1
	for i := len(head) - 1; i >= e.cfg.CleanSentenceFloor; i-- {
		switch head[i] {
		case '.', '!', '?':
			cut = i
		}
		if cut >= 0 {
			break
		}
	}
	if cut >= 0 {
		return strings.TrimSpace(string(head[:cut+1]))
	}
	return strings.TrimSpace(string(head))
}

// normalizeText lowercases and expands known abbreviations as whole words.
// The result is only used for lexical similarity, never surfaced.
func (e *Engine) normalizeText(s string) string {
	s = strings.ToLower(s)
	for _, a := range e.abbrevs {
		s = a.re.ReplaceAllString(s, a.replacement)
	}
	return s
}

// semanticTokens tags the response with every semantic category whose
// keywords appear, then adds up to three distinctive long words to capture
// vocabulary the fixed categories miss. Tokens are deduplicated.
func (e *Engine) semanticTokens(words []string) []string {
	wordSet := make(map[string]struct{}, len(words))
	for _, w := range words {
		wordSet[w] = struct{}{}
	}

	var tokens []string
	seen := make(map[string]struct{})
	add := func(t string) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}

	for _, set := range e.semantic {
		for kw := range set.keywords {
			if _, ok := wordSet[kw]; ok {
				add(set.name)
				break
			}
		}
	}

	important := 0
	for _, w := range words {
		if important >= 3 {
			break
		}
		if len(w) <= 5 {
			continue
		}
		if _, stop := e.importants[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		add(w)
		important++
	}

	return tokens
}

// themeLabel scores every theme dictionary by matched-keyword count (+1 when
// anything matched) and picks the highest. Dictionary order is fixed, so the
// first dictionary wins ties. With no dictionary hit the label falls back to
// the first two distinctive words, then to "other".
func (e *Engine) themeLabel(words []string) string {
	wordSet := make(map[string]struct{}, len(words))
	for _, w := range words {
		wordSet[w] = struct{}{}
	}

	best := ""
	bestScore := 0
	for _, dict := range e.themes {
		matched := 0
		for kw := range dict.keywords {
			if _, ok := wordSet[kw]; ok {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		score := matched + 1
		if score > bestScore {
			bestScore = score
			best = dict.name
		}
	}
	if best != "" {
		return best
	}

	var picked []string
	for _, w := range words {
		if len(w) <= 4 {
			continue
		}
		if _, stop := e.fallbacks[w]; stop {
			continue
		}
		picked = append(picked, w)
		if len(picked) == 2 {
			break
		}
	}
	if len(picked) > 0 {
		return strings.Join(picked, "_")
	}
	return "other"
}

// tokenize lowercases and splits on non-alphanumeric runes, keeping
// apostrophes inside words ("it's") intact.
func tokenize(s string) []string {
	s = strings.ToLower(s)
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
