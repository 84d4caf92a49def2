package match

import (
	"context"
	"strings"
)

// Result reports one Match invocation. Degraded is set when the similarity
// oracle was configured but could not be used, meaning matches were found
// with reduced fidelity.
type Result struct {
	Matched  []string `json:"matched"`
	Count    int      `json:"count"`
	Degraded bool     `json:"degraded,omitempty"`
}

// Matcher matches target terms against document text. Matching is
// case-insensitive throughout and word-boundary respecting for single-token
// terms, so "api" never matches inside "rapid". A Matcher is read-only after
// construction and safe for concurrent use.
type Matcher struct {
	synonyms  *SynonymIndex
	oracle    Oracle
	threshold float64
}

// NewMatcher creates a matcher. oracle may be nil; threshold applies only to
// oracle similarity scores.
func NewMatcher(synonyms *SynonymIndex, oracle Oracle, threshold float64) *Matcher {
	return &Matcher{
		synonyms:  synonyms,
		oracle:    oracle,
		threshold: threshold,
	}
}

// document is the normalized view of one text, built once per Match call.
type document struct {
	padded string
	tokens map[string]struct{}
}

func newDocument(text string) document {
	norm := Normalize(text)
	return document{
		padded: " " + norm + " ",
		tokens: tokenSet(norm),
	}
}

// contains reports whether the normalized term occurs in the document.
// Single tokens use set membership; phrases use padded substring search,
// which is boundary-safe because normalization guarantees single spaces.
func (d document) contains(term string) bool {
	if term == "" {
		return false
	}
	if !strings.Contains(term, " ") {
		_, ok := d.tokens[term]
		return ok
	}
	return strings.Contains(d.padded, " "+term+" ")
}

// Match matches each target against the text, short-circuiting per target at
// the first success: exact, then synonym-expanded, then oracle similarity
// against the candidate terms. Candidates bound the oracle comparisons to the
// document's declared skills rather than the full text. An oracle failure
// degrades the whole call to exact + synonym matching and never propagates.
func (m *Matcher) Match(ctx context.Context, targets []string, text string, candidates []string) Result {
	doc := newDocument(text)

	normCandidates := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if norm := Normalize(c); norm != "" {
			normCandidates = append(normCandidates, norm)
		}
	}

	result := Result{}
	oracleDown := false

	for _, target := range targets {
		if m.matchOne(ctx, doc, target, normCandidates, &oracleDown) {
			result.Matched = append(result.Matched, target)
		}
	}

	result.Count = len(result.Matched)
	result.Degraded = m.oracle != nil && (oracleDown || !m.oracle.IsHealthy())
	return result
}

func (m *Matcher) matchOne(ctx context.Context, doc document, target string, candidates []string, oracleDown *bool) bool {
	norm := Normalize(target)
	if norm == "" {
		return false
	}

	if doc.contains(norm) {
		return true
	}

	for _, variant := range m.synonyms.Variants(norm) {
		if doc.contains(variant) {
			return true
		}
	}

	if m.oracle == nil || *oracleDown || !m.oracle.IsHealthy() {
		return false
	}
	for _, candidate := range candidates {
		sim, err := m.oracle.Similarity(ctx, norm, candidate)
		if err != nil {
			*oracleDown = true
			return false
		}
		if sim >= m.threshold {
			return true
		}
	}
	return false
}
