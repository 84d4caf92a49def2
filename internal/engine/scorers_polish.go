package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"resumescore/internal/match"
	"resumescore/internal/types"
)

// Grammar checks are heuristic and deterministic; no external grammar oracle
// is consulted, so a degraded environment cannot change these scores.
var grammarChecks = []struct {
	pattern *regexp.Regexp
	message string
}{
	{regexp.MustCompile(`[^\s]  +[^\s]`), "double spaces between words"},
	{regexp.MustCompile(`(?:^|\s)i(?:\s|'|$)`), `the pronoun "I" written in lowercase`},
	{regexp.MustCompile(`!{2,}`), "multiple exclamation marks"},
	{regexp.MustCompile(` ,|\s\.`), "whitespace before punctuation"},
}

const grammarPointsPerIssue = 1.5

// grammarScorer deducts for mechanical writing issues found in the raw text.
type grammarScorer struct{}

func (s *grammarScorer) ID() string        { return CriterionGrammar }
func (s *grammarScorer) Category() string  { return CategoryPolish }
func (s *grammarScorer) MaxScore() float64 { return 10 }

func (s *grammarScorer) Score(_ context.Context, in Input) (types.CriterionScore, []types.Finding) {
	cs := types.CriterionScore{
		Criterion: CriterionGrammar,
		Category:  CategoryPolish,
		MaxScore:  s.MaxScore(),
	}

	text := documentText(in.Facts)
	if strings.TrimSpace(text) == "" {
		cs.Rationale = "no text to assess"
		return cs, nil
	}

	issues := 0
	var findings []types.Finding
	for _, check := range grammarChecks {
		n := len(check.pattern.FindAllString(text, -1))
		if n == 0 {
			continue
		}
		issues += n
		findings = append(findings, types.Finding{
			Severity:   types.SeveritySuggestion,
			Category:   CategoryPolish,
			Message:    fmt.Sprintf("%s (%d occurrences)", check.message, n),
			EntryIndex: -1,
		})
	}

	if n := repeatedAdjacentWords(text); n > 0 {
		issues += n
		findings = append(findings, types.Finding{
			Severity:   types.SeveritySuggestion,
			Category:   CategoryPolish,
			Message:    fmt.Sprintf("repeated adjacent words (%d occurrences)", n),
			EntryIndex: -1,
		})
	}

	issues += uncapitalizedLines(entryDescriptions(in.Facts), &findings)

	cs.Score = clamp(s.MaxScore()-float64(issues)*grammarPointsPerIssue, 0, s.MaxScore())
	if issues == 0 {
		cs.Rationale = "no mechanical writing issues found"
	} else {
		cs.Rationale = fmt.Sprintf("%d mechanical writing issues found", issues)
	}
	return cs, findings
}

// repeatedAdjacentWords counts words immediately repeated within a line,
// ignoring case and surrounding punctuation. Walked token by token; RE2 has
// no backreferences. Sentence-ending punctuation resets the comparison so a
// word closing one sentence and opening the next does not count.
func repeatedAdjacentWords(text string) int {
	count := 0
	for line := range strings.SplitSeq(text, "\n") {
		prev := ""
		for _, field := range strings.Fields(line) {
			word := strings.ToLower(strings.TrimFunc(field, func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsDigit(r)
			}))
			if word == "" {
				prev = ""
				continue
			}
			if word == prev {
				count++
			}
			if last, _ := utf8.DecodeLastRuneInString(field); last == '.' || last == '!' || last == '?' || last == ';' || last == ':' {
				prev = ""
			} else {
				prev = word
			}
		}
	}
	return count
}

// uncapitalizedLines counts achievement lines opening with a lowercase letter.
func uncapitalizedLines(descriptions []string, findings *[]types.Finding) int {
	count := 0
	for _, line := range allAchievementLines(descriptions) {
		runes := []rune(line)
		if len(runes) > 0 && unicode.IsLower(runes[0]) {
			count++
		}
	}
	if count > 0 {
		*findings = append(*findings, types.Finding{
			Severity:   types.SeveritySuggestion,
			Category:   CategoryPolish,
			Message:    fmt.Sprintf("%d achievement lines start with a lowercase letter", count),
			EntryIndex: -1,
		})
	}
	return count
}

// Readability bands over average words per achievement line. Bullets between
// 8 and 24 words read best; very short ones say too little and very long
// ones bury the achievement.
const (
	readabilityIdealMin = 8.0
	readabilityIdealMax = 24.0
	readabilityNearMin  = 5.0
	readabilityNearMax  = 32.0

	readabilityNearFactor = 0.6
	readabilityFarFactor  = 0.3
)

// readabilityScorer scores average achievement-line length against the ideal
// bullet range.
type readabilityScorer struct{}

func (s *readabilityScorer) ID() string        { return CriterionReadability }
func (s *readabilityScorer) Category() string  { return CategoryPolish }
func (s *readabilityScorer) MaxScore() float64 { return 5 }

func (s *readabilityScorer) Score(_ context.Context, in Input) (types.CriterionScore, []types.Finding) {
	cs := types.CriterionScore{
		Criterion: CriterionReadability,
		Category:  CategoryPolish,
		MaxScore:  s.MaxScore(),
	}

	lines := allAchievementLines(entryDescriptions(in.Facts))
	if len(lines) == 0 {
		cs.Rationale = "no achievement lines to assess"
		return cs, nil
	}

	totalWords := 0
	for _, line := range lines {
		totalWords += len(match.Tokens(match.Normalize(line)))
	}
	avg := float64(totalWords) / float64(len(lines))

	factor := readabilityFarFactor
	switch {
	case avg >= readabilityIdealMin && avg <= readabilityIdealMax:
		factor = 1.0
	case avg >= readabilityNearMin && avg <= readabilityNearMax:
		factor = readabilityNearFactor
	}

	cs.Score = factor * s.MaxScore()
	cs.Rationale = fmt.Sprintf("achievement lines average %.1f words", avg)

	var findings []types.Finding
	if avg > readabilityIdealMax {
		findings = append(findings, types.Finding{
			Severity:   types.SeveritySuggestion,
			Category:   CategoryPolish,
			Message:    "achievement lines run long; aim for 8-24 words per bullet",
			EntryIndex: -1,
		})
	} else if avg < readabilityIdealMin {
		findings = append(findings, types.Finding{
			Severity:   types.SeveritySuggestion,
			Category:   CategoryPolish,
			Message:    "achievement lines are very short; add context and outcomes",
			EntryIndex: -1,
		})
	}
	return cs, findings
}
