package engine

import (
	"context"
	"fmt"

	"resumescore/internal/types"
)

// experienceAlignmentScorer scores total experience against the target level
// band using graduated proximity.
type experienceAlignmentScorer struct {
	leaves *leafSet
}

func (s *experienceAlignmentScorer) ID() string        { return CriterionExperienceAlignment }
func (s *experienceAlignmentScorer) Category() string  { return CategoryExperience }
func (s *experienceAlignmentScorer) MaxScore() float64 { return 15 }

func (s *experienceAlignmentScorer) Score(_ context.Context, in Input) (types.CriterionScore, []types.Finding) {
	years, findings := s.leaves.experience.Years(in.Facts.Experience)
	factor, meets := s.leaves.experience.Classify(years, in.Band)

	cs := types.CriterionScore{
		Criterion: CriterionExperienceAlignment,
		Category:  CategoryExperience,
		Score:     factor * s.MaxScore(),
		MaxScore:  s.MaxScore(),
	}

	switch {
	case meets:
		cs.Rationale = fmt.Sprintf("%.1f years of experience falls inside the %s band (%.0f-%.0f years)",
			years, in.Band.Name, in.Band.MinYears, in.Band.MaxYears)
	case years > in.Band.MaxYears:
		cs.Rationale = fmt.Sprintf("%.1f years exceeds the %s band (%.0f-%.0f years); over-qualification is only lightly discounted",
			years, in.Band.Name, in.Band.MinYears, in.Band.MaxYears)
	default:
		cs.Rationale = fmt.Sprintf("%.1f years falls short of the %s band (%.0f-%.0f years)",
			years, in.Band.Name, in.Band.MinYears, in.Band.MaxYears)
		findings = append(findings, types.Finding{
			Severity:   types.SeverityWarning,
			Category:   CategoryExperience,
			Message:    fmt.Sprintf("experience (%.1f years) is below the %s range; consider surfacing earlier or adjacent experience", years, in.Band.Name),
			EntryIndex: -1,
		})
	}

	return cs, findings
}

// redFlagScorer deducts capped red flag penalties from a fixed ceiling.
type redFlagScorer struct {
	leaves *leafSet
}

func (s *redFlagScorer) ID() string        { return CriterionRedFlags }
func (s *redFlagScorer) Category() string  { return CategoryExperience }
func (s *redFlagScorer) MaxScore() float64 { return 10 }

func (s *redFlagScorer) Score(_ context.Context, in Input) (types.CriterionScore, []types.Finding) {
	penalties := s.leaves.redFlags.Detect(in.Facts.Experience)

	var total float64
	findings := make([]types.Finding, 0, len(penalties))
	for _, p := range penalties {
		total += p.Points
		findings = append(findings, p.Finding)
	}

	cs := types.CriterionScore{
		Criterion: CriterionRedFlags,
		Category:  CategoryExperience,
		Score:     clamp(s.MaxScore()-total, 0, s.MaxScore()),
		MaxScore:  s.MaxScore(),
	}
	if len(penalties) == 0 {
		cs.Rationale = "no red flags detected"
	} else {
		cs.Rationale = fmt.Sprintf("%d red flags deducted %.1f points", len(penalties), total)
	}

	return cs, findings
}
