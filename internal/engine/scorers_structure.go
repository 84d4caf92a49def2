package engine

import (
	"context"
	"fmt"
	"strings"

	"resumescore/internal/match"
	"resumescore/internal/types"
)

// contactInfoScorer awards one point per contact field present. Absent
// contact data scores the minimum, never an error.
type contactInfoScorer struct{}

func (s *contactInfoScorer) ID() string        { return CriterionContactInfo }
func (s *contactInfoScorer) Category() string  { return CategoryStructure }
func (s *contactInfoScorer) MaxScore() float64 { return 5 }

func (s *contactInfoScorer) Score(_ context.Context, in Input) (types.CriterionScore, []types.Finding) {
	contact := in.Facts.Contact
	fields := []struct {
		value    string
		label    string
		severity types.Severity
	}{
		{contact.Name, "name", types.SeverityWarning},
		{contact.Email, "email", types.SeverityCritical},
		{contact.Phone, "phone", types.SeverityWarning},
		{contact.Location, "location", types.SeveritySuggestion},
		{contact.LinkedIn, "linkedin profile", types.SeveritySuggestion},
	}

	present := 0
	var findings []types.Finding
	for _, f := range fields {
		if strings.TrimSpace(f.value) != "" {
			present++
			continue
		}
		findings = append(findings, types.Finding{
			Severity:   f.severity,
			Category:   CategoryStructure,
			Message:    fmt.Sprintf("missing %s in contact details", f.label),
			Section:    "contact",
			EntryIndex: -1,
		})
	}

	perField := s.MaxScore() / float64(len(fields))
	return types.CriterionScore{
		Criterion: CriterionContactInfo,
		Category:  CategoryStructure,
		Score:     perField * float64(present),
		MaxScore:  s.MaxScore(),
		Rationale: fmt.Sprintf("%d of %d contact fields present", present, len(fields)),
	}, findings
}

// Section-balance thresholds over each section's share of total word count.
const (
	skillsShareCeiling    = 0.30
	experienceShareFloor  = 0.50
	balancePenaltyPerRule = 4.0
)

// sectionBalanceScorer penalizes keyword-stuffed skills sections and thin
// experience sections.
type sectionBalanceScorer struct{}

func (s *sectionBalanceScorer) ID() string        { return CriterionSectionBalance }
func (s *sectionBalanceScorer) Category() string  { return CategoryStructure }
func (s *sectionBalanceScorer) MaxScore() float64 { return 10 }

func (s *sectionBalanceScorer) Score(_ context.Context, in Input) (types.CriterionScore, []types.Finding) {
	cs := types.CriterionScore{
		Criterion: CriterionSectionBalance,
		Category:  CategoryStructure,
		MaxScore:  s.MaxScore(),
	}

	shares, total := sectionShares(in.Facts.Sections)
	if total == 0 {
		cs.Rationale = "no section content to assess"
		return cs, nil
	}

	score := s.MaxScore()
	var findings []types.Finding

	var skillsShare, experienceShare float64
	hasExperience := false
	for name, share := range shares {
		if isSkillsSection(name) {
			skillsShare += share
		}
		if isExperienceSection(name) {
			experienceShare += share
			hasExperience = true
		}
	}

	if skillsShare > skillsShareCeiling {
		score -= balancePenaltyPerRule
		findings = append(findings, types.Finding{
			Severity:   types.SeverityWarning,
			Category:   CategoryStructure,
			Message:    fmt.Sprintf("skills content is %.0f%% of the document; over %.0f%% reads as keyword stuffing", skillsShare*100, skillsShareCeiling*100),
			Section:    "skills",
			EntryIndex: -1,
		})
	}

	if hasExperience && experienceShare < experienceShareFloor {
		score -= balancePenaltyPerRule
		findings = append(findings, types.Finding{
			Severity:   types.SeverityWarning,
			Category:   CategoryStructure,
			Message:    fmt.Sprintf("experience content is only %.0f%% of the document; under %.0f%% suggests insufficient substantive content", experienceShare*100, experienceShareFloor*100),
			Section:    "experience",
			EntryIndex: -1,
		})
	}

	cs.Score = clamp(score, 0, s.MaxScore())
	cs.Rationale = fmt.Sprintf("skills %.0f%%, experience %.0f%% of %d words", skillsShare*100, experienceShare*100, total)
	return cs, findings
}

// sectionShares returns each section's share of total word count.
func sectionShares(sections map[string]string) (map[string]float64, int) {
	counts := make(map[string]int, len(sections))
	total := 0
	for name, body := range sections {
		n := len(match.Tokens(match.Normalize(body)))
		counts[name] = n
		total += n
	}
	if total == 0 {
		return nil, 0
	}
	shares := make(map[string]float64, len(counts))
	for name, n := range counts {
		shares[name] = float64(n) / float64(total)
	}
	return shares, total
}

func isSkillsSection(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "skill") || strings.Contains(n, "technolog") || strings.Contains(n, "tools")
}

func isExperienceSection(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "experience") || strings.Contains(n, "employment") || strings.Contains(n, "work history")
}

// Formatting deductions. Each layout hazard deducts independently from the
// ceiling; ATS parsers drop or mangle most of these structures.
var formattingDeductions = []struct {
	flag    func(types.LayoutFacts) bool
	points  float64
	message string
}{
	{func(l types.LayoutFacts) bool { return l.HasTables }, 2.5, "tables often scramble automated resume parsing"},
	{func(l types.LayoutFacts) bool { return l.HasTextBoxes }, 2.5, "text boxes are frequently dropped by automated parsers"},
	{func(l types.LayoutFacts) bool { return l.HasHeadersFooters }, 1.5, "content in headers or footers may be ignored by parsers"},
	{func(l types.LayoutFacts) bool { return l.HasImages }, 2.0, "embedded images carry no machine-readable content"},
	{func(l types.LayoutFacts) bool { return len(l.NonStandardFonts) > 0 }, 1.5, "non-standard fonts can render or parse inconsistently"},
}

// formattingScorer deducts for layout constructs that hurt machine parsing.
type formattingScorer struct{}

func (s *formattingScorer) ID() string        { return CriterionFormatting }
func (s *formattingScorer) Category() string  { return CategoryStructure }
func (s *formattingScorer) MaxScore() float64 { return 10 }

func (s *formattingScorer) Score(_ context.Context, in Input) (types.CriterionScore, []types.Finding) {
	score := s.MaxScore()
	var findings []types.Finding

	for _, d := range formattingDeductions {
		if !d.flag(in.Facts.Layout) {
			continue
		}
		score -= d.points
		findings = append(findings, types.Finding{
			Severity:   types.SeverityWarning,
			Category:   CategoryStructure,
			Message:    d.message,
			EntryIndex: -1,
		})
	}

	cs := types.CriterionScore{
		Criterion: CriterionFormatting,
		Category:  CategoryStructure,
		Score:     clamp(score, 0, s.MaxScore()),
		MaxScore:  s.MaxScore(),
	}
	if len(findings) == 0 {
		cs.Rationale = "no risky layout constructs detected"
	} else {
		cs.Rationale = fmt.Sprintf("%d layout hazards deducted %.1f points", len(findings), s.MaxScore()-cs.Score)
	}
	return cs, findings
}
