package types

// ContactFacts holds the contact fields extracted by the parser.
// Any field may be empty; consumers must treat absence as neutral.
type ContactFacts struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// ExperienceEntry is one work-history entry from the parsed document.
type ExperienceEntry struct {
	Title        string `json:"title,omitempty"`
	Organization string `json:"organization,omitempty"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
	Description  string `json:"description,omitempty"`
	DurationText string `json:"durationText,omitempty"`
}

// EducationEntry is one education entry from the parsed document.
type EducationEntry struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

// LayoutFacts captures layout features the parser detected.
type LayoutFacts struct {
	HasTables         bool     `json:"hasTables,omitempty"`
	HasTextBoxes      bool     `json:"hasTextBoxes,omitempty"`
	HasHeadersFooters bool     `json:"hasHeadersFooters,omitempty"`
	HasImages         bool     `json:"hasImages,omitempty"`
	NonStandardFonts  []string `json:"nonStandardFonts,omitempty"`
}

// DocumentFacts is the immutable snapshot of a parsed resume, produced by the
// external parsing collaborator. Every field is optional; the engine treats
// missing fields as empty/neutral and never fails on absence.
type DocumentFacts struct {
	Contact    ContactFacts      `json:"contact,omitempty"`
	Experience []ExperienceEntry `json:"experience,omitempty"`
	Education  []EducationEntry  `json:"education,omitempty"`
	Skills     []string          `json:"skills,omitempty"`
	Sections   map[string]string `json:"sections,omitempty"`
	Layout     LayoutFacts       `json:"layout,omitempty"`
	PageCount  int               `json:"pageCount,omitempty"`
	WordCount  int               `json:"wordCount,omitempty"`
}

// Severity classifies a finding for presentation ordering.
type Severity string

const (
	SeverityCritical   Severity = "critical"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
	SeverityInfo       Severity = "info"
)

// Rank returns the sort weight of a severity; lower sorts first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeveritySuggestion:
		return 2
	default:
		return 3
	}
}

// Finding is one emitted issue or strength. Findings are produced once and
// never mutated; EntryIndex is -1 when the finding is not tied to an entry.
type Finding struct {
	Severity   Severity `json:"severity"`
	Category   string   `json:"category"`
	Message    string   `json:"message"`
	Section    string   `json:"section,omitempty"`
	EntryIndex int      `json:"entryIndex"`
}

// CriterionScore is the bounded sub-score one criterion scorer produced.
type CriterionScore struct {
	Criterion string  `json:"criterion"`
	Category  string  `json:"category"`
	Score     float64 `json:"score"`
	MaxScore  float64 `json:"maxScore"`
	Rationale string  `json:"rationale"`
}

// CategoryScore is one category's aggregate against its two ceilings.
type CategoryScore struct {
	Raw      float64 `json:"raw"`
	Max      float64 `json:"max"`
	BonusMax float64 `json:"bonusMax"`
}

// ConfidenceInterval is the statistical band around the final score.
type ConfidenceInterval struct {
	Lower       float64 `json:"lower"`
	Upper       float64 `json:"upper"`
	Margin      float64 `json:"margin"`
	Level       float64 `json:"level"`
	Reliability string  `json:"reliability"`
}

// ScoreResult is the terminal output of one scoring invocation. It is
// constructed once and immutable after construction.
type ScoreResult struct {
	Score            float64                  `json:"score"`
	RawTotal         float64                  `json:"rawTotal"`
	Role             string                   `json:"role"`
	Level            string                   `json:"level"`
	Categories       map[string]CategoryScore `json:"categories"`
	Criteria         []CriterionScore         `json:"criteria"`
	Findings         []Finding                `json:"findings"`
	Confidence       ConfidenceInterval       `json:"confidence"`
	DegradedMatching bool                     `json:"degradedMatching,omitempty"`
}
