package engine

import (
	"context"
	"strings"

	"resumescore/internal/config"
	"resumescore/internal/types"
)

// Criterion ids, stable across configuration changes. ScoreCriterion resolves
// these, and formatters print them.
const (
	CriterionRequiredKeywords    = "required_keywords"
	CriterionPreferredKeywords   = "preferred_keywords"
	CriterionVerbStrength        = "verb_strength"
	CriterionQuantification      = "quantification"
	CriterionExperienceAlignment = "experience_alignment"
	CriterionRedFlags            = "red_flags"
	CriterionContactInfo         = "contact_info"
	CriterionSectionBalance      = "section_balance"
	CriterionFormatting          = "formatting"
	CriterionGrammar             = "grammar"
	CriterionReadability         = "readability"
)

// Category ids. Each criterion belongs to exactly one category; the category
// ceilings live in the reference data.
const (
	CategoryKeywords   = "keywords"
	CategoryContent    = "content"
	CategoryExperience = "experience"
	CategoryStructure  = "structure"
	CategoryPolish     = "polish"
)

// Input bundles what one scorer may consult: the document facts plus the
// resolved role profile and level band. Scorers are independent; none may
// read another scorer's output.
type Input struct {
	Facts *types.DocumentFacts
	Role  config.RoleProfile
	Band  config.LevelBand

	// set by keyword scorers when oracle matching was unavailable
	degraded *bool
}

func (in Input) noteDegraded() {
	if in.degraded != nil {
		*in.degraded = true
	}
}

// Scorer is one independent criterion scorer: a pure function from document
// facts and configuration to a bounded sub-score with a rationale.
type Scorer interface {
	ID() string
	Category() string
	MaxScore() float64
	Score(ctx context.Context, in Input) (types.CriterionScore, []types.Finding)
}

// scorerSet builds the full scorer family over the shared leaf components.
// Order is fixed so results are deterministic.
func scorerSet(leaves *leafSet) []Scorer {
	return []Scorer{
		&keywordScorer{leaves: leaves, id: CriterionRequiredKeywords, max: 25, required: true},
		&keywordScorer{leaves: leaves, id: CriterionPreferredKeywords, max: 15, required: false},
		&verbStrengthScorer{leaves: leaves},
		&quantificationScorer{},
		&experienceAlignmentScorer{leaves: leaves},
		&redFlagScorer{leaves: leaves},
		&contactInfoScorer{},
		&sectionBalanceScorer{},
		&formattingScorer{},
		&grammarScorer{},
		&readabilityScorer{},
	}
}

// documentText flattens the searchable text of a document: declared skills,
// section bodies, and work-history titles and descriptions.
func documentText(facts *types.DocumentFacts) string {
	var b strings.Builder
	for _, skill := range facts.Skills {
		b.WriteString(skill)
		b.WriteString("\n")
	}
	for _, body := range facts.Sections {
		b.WriteString(body)
		b.WriteString("\n")
	}
	for _, entry := range facts.Experience {
		b.WriteString(entry.Title)
		b.WriteString("\n")
		b.WriteString(entry.Description)
		b.WriteString("\n")
	}
	return b.String()
}

// entryDescriptions collects the free-text descriptions of every entry.
func entryDescriptions(facts *types.DocumentFacts) []string {
	out := make([]string, 0, len(facts.Experience))
	for _, entry := range facts.Experience {
		out = append(out, entry.Description)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
