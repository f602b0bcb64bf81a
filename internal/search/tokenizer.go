package search

import (
	"regexp"
	"strings"
)

var (
	markupPattern     = regexp.MustCompile(`<[^>]*>`)
	nonWordPattern    = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Tokenize normalizes free text into deduplicated search tokens:
// lowercase, markup stripped, punctuation collapsed to spaces, tokens
// shorter than two characters dropped. Order of first appearance is
// preserved so scoring stays deterministic.
func Tokenize(text string) []string {
	normalized := strings.ToLower(text)
	normalized = markupPattern.ReplaceAllString(normalized, " ")
	normalized = nonWordPattern.ReplaceAllString(normalized, " ")
	normalized = whitespacePattern.ReplaceAllString(normalized, " ")

	seen := make(map[string]bool)
	var tokens []string
	for _, token := range strings.Fields(normalized) {
		if len(token) < 2 || seen[token] {
			continue
		}
		seen[token] = true
		tokens = append(tokens, token)
	}
	return tokens
}

// stripText removes markup and collapses runs of whitespace, leaving
// the visible text only.
func stripText(text string) string {
	stripped := markupPattern.ReplaceAllString(text, " ")
	stripped = whitespacePattern.ReplaceAllString(stripped, " ")
	return strings.TrimSpace(stripped)
}
