package engine

import (
	"context"
	"fmt"
	"strings"

	"resumescore/internal/types"
)

// keywordScorer scores required or preferred keyword coverage. Points are
// distributed evenly across the target list rather than through tiered
// cutoffs, which differentiates partial coverage more smoothly.
type keywordScorer struct {
	leaves   *leafSet
	id       string
	max      float64
	required bool
}

func (s *keywordScorer) ID() string        { return s.id }
func (s *keywordScorer) Category() string  { return CategoryKeywords }
func (s *keywordScorer) MaxScore() float64 { return s.max }

func (s *keywordScorer) Score(ctx context.Context, in Input) (types.CriterionScore, []types.Finding) {
	targets := in.Role.Preferred
	if s.required {
		targets = in.Role.Required
	}

	cs := types.CriterionScore{
		Criterion: s.id,
		Category:  CategoryKeywords,
		MaxScore:  s.max,
	}

	if len(targets) == 0 {
		cs.Rationale = "no keywords configured for this role"
		return cs, nil
	}

	result := s.leaves.matcher.Match(ctx, targets, documentText(in.Facts), in.Facts.Skills)
	if result.Degraded {
		in.noteDegraded()
	}

	perMatch := s.max / float64(len(targets))
	cs.Score = perMatch * float64(result.Count)
	cs.Rationale = fmt.Sprintf("matched %d of %d %s keywords", result.Count, len(targets), s.kind())

	return cs, s.missingFindings(targets, result.Matched)
}

func (s *keywordScorer) kind() string {
	if s.required {
		return "required"
	}
	return "preferred"
}

// missingFindings reports unmatched keywords. Missing required keywords are
// warnings; missing preferred ones are suggestions.
func (s *keywordScorer) missingFindings(targets, matched []string) []types.Finding {
	matchedSet := make(map[string]struct{}, len(matched))
	for _, m := range matched {
		matchedSet[m] = struct{}{}
	}

	var missing []string
	for _, t := range targets {
		if _, ok := matchedSet[t]; !ok {
			missing = append(missing, t)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	severity := types.SeveritySuggestion
	if s.required {
		severity = types.SeverityWarning
	}

	return []types.Finding{{
		Severity:   severity,
		Category:   CategoryKeywords,
		Message:    fmt.Sprintf("missing %s keywords: %s", s.kind(), strings.Join(missing, ", ")),
		EntryIndex: -1,
	}}
}
