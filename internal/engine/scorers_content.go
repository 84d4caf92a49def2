package engine

import (
	"context"
	"fmt"
	"regexp"

	"resumescore/internal/types"
)

// verbStrengthScorer scales the average leading-verb tier across all
// achievement lines linearly to the criterion maximum.
type verbStrengthScorer struct {
	leaves *leafSet
}

func (s *verbStrengthScorer) ID() string        { return CriterionVerbStrength }
func (s *verbStrengthScorer) Category() string  { return CategoryContent }
func (s *verbStrengthScorer) MaxScore() float64 { return 10 }

func (s *verbStrengthScorer) Score(_ context.Context, in Input) (types.CriterionScore, []types.Finding) {
	cs := types.CriterionScore{
		Criterion: CriterionVerbStrength,
		Category:  CategoryContent,
		MaxScore:  s.MaxScore(),
	}

	lines := allAchievementLines(entryDescriptions(in.Facts))
	avg, ok := s.leaves.verbs.AverageTier(lines)
	if !ok {
		cs.Rationale = "no achievement lines to classify"
		return cs, nil
	}

	cs.Score = avg / verbTierMax * s.MaxScore()
	cs.Rationale = fmt.Sprintf("average verb impact tier %.1f of %d across %d lines", avg, verbTierMax, len(lines))

	var findings []types.Finding
	weak := s.weakVerbs(lines)
	if len(weak) > 0 {
		findings = append(findings, types.Finding{
			Severity:   types.SeveritySuggestion,
			Category:   CategoryContent,
			Message:    fmt.Sprintf("%d achievement lines open with weak verbs (e.g. %q); lead with stronger action verbs", len(weak), weak[0]),
			EntryIndex: -1,
		})
	}
	return cs, findings
}

func (s *verbStrengthScorer) weakVerbs(lines []string) []string {
	var weak []string
	for _, line := range lines {
		verb, ok := leadingVerb(line)
		if !ok {
			continue
		}
		if s.leaves.verbs.Classify(verb) == 0 {
			weak = append(weak, verb)
		}
	}
	return weak
}

// quantTokenPattern spots numeric, percentage and currency tokens.
var quantTokenPattern = regexp.MustCompile(`\d|%|\$|€|£`)

// Quantification breakpoints over the fraction of achievement lines carrying
// a numeric, percentage or currency token.
const (
	quantFullShare    = 0.50
	quantHighShare    = 0.30
	quantPartialShare = 0.20

	quantFullFactor    = 1.0
	quantHighFactor    = 0.75
	quantPartialFactor = 0.5
	quantLowFactor     = 0.2
)

// quantificationScorer rewards measurable results in achievement lines.
type quantificationScorer struct{}

func (s *quantificationScorer) ID() string        { return CriterionQuantification }
func (s *quantificationScorer) Category() string  { return CategoryContent }
func (s *quantificationScorer) MaxScore() float64 { return 10 }

func (s *quantificationScorer) Score(_ context.Context, in Input) (types.CriterionScore, []types.Finding) {
	cs := types.CriterionScore{
		Criterion: CriterionQuantification,
		Category:  CategoryContent,
		MaxScore:  s.MaxScore(),
	}

	lines := allAchievementLines(entryDescriptions(in.Facts))
	if len(lines) == 0 {
		cs.Rationale = "no achievement lines to assess"
		return cs, nil
	}

	quantified := 0
	for _, line := range lines {
		if quantTokenPattern.MatchString(line) {
			quantified++
		}
	}
	share := float64(quantified) / float64(len(lines))

	factor := quantLowFactor
	switch {
	case share >= quantFullShare:
		factor = quantFullFactor
	case share >= quantHighShare:
		factor = quantHighFactor
	case share >= quantPartialShare:
		factor = quantPartialFactor
	}

	cs.Score = factor * s.MaxScore()
	cs.Rationale = fmt.Sprintf("%d of %d achievement lines carry quantified results (%.0f%%)", quantified, len(lines), share*100)

	var findings []types.Finding
	if share < quantHighShare {
		findings = append(findings, types.Finding{
			Severity:   types.SeveritySuggestion,
			Category:   CategoryContent,
			Message:    "few achievements carry numbers; add metrics, percentages or amounts to show impact",
			EntryIndex: -1,
		})
	}
	return cs, findings
}
