package match

import (
	"regexp"
	"strings"
)

var (
	// '+' and '#' survive normalization so terms like "c++" and "c#" keep
	// their identity instead of collapsing to "c".
	reNonWord = regexp.MustCompile(`[^\p{L}\p{N}+#]+`)
	reSpaces  = regexp.MustCompile(`\s+`)
)

// Normalize lowers case, replaces separators (pipes, tabs, punctuation) with
// spaces, and collapses whitespace. Table-formatted text normalizes to plain
// word sequences, so separators cannot split a compound keyword.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = reNonWord.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokens splits a normalized string into its tokens.
func Tokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}

// tokenSet builds a membership set over the tokens of normalized text.
func tokenSet(normalized string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokens(normalized) {
		set[tok] = struct{}{}
	}
	return set
}
