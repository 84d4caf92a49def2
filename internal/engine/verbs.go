package engine

import (
	"strings"

	"resumescore/internal/match"
)

// Verb tiers run 0 (vague) through 4 (strategic). Verbs absent from the table
// classify as tier 1, the lowest non-penalizing tier, so gaps in the curated
// vocabulary do not read as weak writing.
const (
	verbTierMax     = 4
	verbTierUnknown = 1
)

// VerbClassifier classifies the leading verb of an achievement line into an
// impact tier. Read-only after construction.
type VerbClassifier struct {
	tiers map[string]int
}

// NewVerbClassifier builds a classifier over a verb -> tier table.
func NewVerbClassifier(table map[string]int) *VerbClassifier {
	tiers := make(map[string]int, len(table))
	for verb, tier := range table {
		tiers[match.Normalize(verb)] = tier
	}
	return &VerbClassifier{tiers: tiers}
}

// Classify returns the tier of a leading verb.
func (c *VerbClassifier) Classify(verb string) int {
	if tier, ok := c.tiers[match.Normalize(verb)]; ok {
		return tier
	}
	return verbTierUnknown
}

// AverageTier averages the leading-verb tier across achievement lines.
// The second return is false when no line yields a verb.
func (c *VerbClassifier) AverageTier(lines []string) (float64, bool) {
	var sum, n int
	for _, line := range lines {
		verb, ok := leadingVerb(line)
		if !ok {
			continue
		}
		sum += c.Classify(verb)
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// leadingVerb extracts the first word of an achievement line.
func leadingVerb(line string) (string, bool) {
	tokens := match.Tokens(match.Normalize(line))
	if len(tokens) == 0 {
		return "", false
	}
	return tokens[0], true
}

// achievementLines splits free-text description into individual achievement
// lines, stripping common bullet markers.
func achievementLines(description string) []string {
	if description == "" {
		return nil
	}
	var lines []string
	for _, raw := range strings.Split(description, "\n") {
		line := strings.TrimSpace(raw)
		line = strings.TrimLeft(line, "-*•·●◦ \t")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// allAchievementLines collects achievement lines across every entry.
func allAchievementLines(descriptions []string) []string {
	var lines []string
	for _, d := range descriptions {
		lines = append(lines, achievementLines(d)...)
	}
	return lines
}
