package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"resumescore/internal/match"
	"resumescore/internal/types"
)

// Penalty is one red flag: a deduction plus the finding explaining it.
// Red flags only ever subtract points.
type Penalty struct {
	Points  float64
	Finding types.Finding
}

// Per-rule point caps. Each rule is capped independently so one severe issue
// cannot single-handedly zero out the category.
const (
	gapPenalty       = 2.0
	longGapPenalty   = 3.0
	gapPenaltyCap    = 4.0
	hoppingPenalty   = 3.0
	repeatPenalty    = 1.0
	repeatPenaltyCap = 2.0
	dateStylePenalty = 1.0

	gapThreshold     = 6 * 30 * 24 * time.Hour  // ~6 months
	longGapThreshold = 12 * 30 * 24 * time.Hour // ~12 months
	shortTenureYears = 1.0
	hoppingMinRoles  = 3
	repeatMinTokens  = 4
	repeatSimilarity = 0.8
)

// RedFlagDetector scans work history for gaps, short tenures, repetition and
// formatting inconsistencies. Stateless and safe for concurrent use.
type RedFlagDetector struct {
	now time.Time
}

// NewRedFlagDetector creates a detector anchored at the given time.
func NewRedFlagDetector(now time.Time) *RedFlagDetector {
	return &RedFlagDetector{now: now}
}

// Detect runs every rule and returns the accumulated penalties. Entries with
// unparsable dates are skipped by the date-based rules; missing data never
// produces a penalty.
func (d *RedFlagDetector) Detect(entries []types.ExperienceEntry) []Penalty {
	var penalties []Penalty
	penalties = append(penalties, d.detectGaps(entries)...)
	penalties = append(penalties, d.detectJobHopping(entries)...)
	penalties = append(penalties, d.detectRepetition(entries)...)
	penalties = append(penalties, d.detectDateStyles(entries)...)
	return penalties
}

type datedEntry struct {
	index      int
	start, end time.Time
}

// parsedEntries returns entries with parseable date ranges, ordered by start.
func (d *RedFlagDetector) parsedEntries(entries []types.ExperienceEntry) []datedEntry {
	var dated []datedEntry
	for i, entry := range entries {
		start, open, ok := parseDate(entry.StartDate)
		if !ok || open {
			continue
		}
		end := d.now
		if strings.TrimSpace(entry.EndDate) != "" {
			parsedEnd, endOpen, ok := parseDate(entry.EndDate)
			if !ok {
				continue
			}
			if !endOpen {
				end = parsedEnd
			}
		}
		if end.Before(start) {
			continue
		}
		dated = append(dated, datedEntry{index: i, start: start, end: end})
	}
	sort.Slice(dated, func(i, j int) bool { return dated[i].start.Before(dated[j].start) })
	return dated
}

// detectGaps flags employment gaps over 6 months, with a higher penalty and
// severity past 12 months. Gaps are measured against the furthest end date
// seen so far, so a short role nested inside a longer concurrent one never
// reads as a gap. One finding per gap; the rule total is capped.
func (d *RedFlagDetector) detectGaps(entries []types.ExperienceEntry) []Penalty {
	dated := d.parsedEntries(entries)
	if len(dated) == 0 {
		return nil
	}

	var penalties []Penalty
	var total float64

	coveredUntil := dated[0].end
	for i := 1; i < len(dated); i++ {
		gap := dated[i].start.Sub(coveredUntil)
		if dated[i].end.After(coveredUntil) {
			coveredUntil = dated[i].end
		}
		if gap <= gapThreshold {
			continue
		}

		points := gapPenalty
		severity := types.SeverityWarning
		if gap > longGapThreshold {
			points = longGapPenalty
			severity = types.SeverityCritical
		}
		if total+points > gapPenaltyCap {
			points = gapPenaltyCap - total
		}
		if points <= 0 {
			break
		}
		total += points

		months := int(gap.Hours() / (24 * 30))
		penalties = append(penalties, Penalty{
			Points: points,
			Finding: types.Finding{
				Severity:   severity,
				Category:   "experience",
				Message:    fmt.Sprintf("employment gap of about %d months before entry %d", months, dated[i].index+1),
				Section:    "experience",
				EntryIndex: dated[i].index,
			},
		})
	}
	return penalties
}

// detectJobHopping flags three or more roles each under one year.
func (d *RedFlagDetector) detectJobHopping(entries []types.ExperienceEntry) []Penalty {
	short := 0
	for _, e := range d.parsedEntries(entries) {
		years := e.end.Sub(e.start).Hours() / (24 * 365.25)
		if years < shortTenureYears {
			short++
		}
	}
	if short < hoppingMinRoles {
		return nil
	}
	return []Penalty{{
		Points: hoppingPenalty,
		Finding: types.Finding{
			Severity:   types.SeverityWarning,
			Category:   "experience",
			Message:    fmt.Sprintf("%d roles each under one year may read as job-hopping", short),
			Section:    "experience",
			EntryIndex: -1,
		},
	}}
}

// detectRepetition flags near-duplicate achievement lines across entries
// using token-set overlap. The rule total is capped.
func (d *RedFlagDetector) detectRepetition(entries []types.ExperienceEntry) []Penalty {
	type taggedLine struct {
		entry  int
		tokens map[string]struct{}
		text   string
	}

	var lines []taggedLine
	for i, entry := range entries {
		for _, line := range achievementLines(entry.Description) {
			tokens := make(map[string]struct{})
			for _, tok := range match.Tokens(match.Normalize(line)) {
				tokens[tok] = struct{}{}
			}
			if len(tokens) < repeatMinTokens {
				continue
			}
			lines = append(lines, taggedLine{entry: i, tokens: tokens, text: line})
		}
	}

	var penalties []Penalty
	var total float64
	flagged := make(map[int]bool)

	for i := 0; i < len(lines) && total < repeatPenaltyCap; i++ {
		if flagged[i] {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if flagged[j] || lines[i].entry == lines[j].entry {
				continue
			}
			if jaccard(lines[i].tokens, lines[j].tokens) < repeatSimilarity {
				continue
			}
			flagged[j] = true
			total += repeatPenalty
			penalties = append(penalties, Penalty{
				Points: repeatPenalty,
				Finding: types.Finding{
					Severity:   types.SeveritySuggestion,
					Category:   "content",
					Message:    fmt.Sprintf("achievement %q is nearly duplicated across entries %d and %d", truncate(lines[i].text, 60), lines[i].entry+1, lines[j].entry+1),
					Section:    "experience",
					EntryIndex: lines[j].entry,
				},
			})
			break
		}
	}
	return penalties
}

// detectDateStyles flags mixing numeric and spelled-month date formats.
// Flagged once per document, not once per entry pair.
func (d *RedFlagDetector) detectDateStyles(entries []types.ExperienceEntry) []Penalty {
	styles := make(map[string]bool)
	for _, entry := range entries {
		if s := dateStyle(entry.StartDate); s != "" {
			styles[s] = true
		}
		if s := dateStyle(entry.EndDate); s != "" {
			styles[s] = true
		}
	}
	if len(styles) < 2 {
		return nil
	}
	return []Penalty{{
		Points: dateStylePenalty,
		Finding: types.Finding{
			Severity:   types.SeveritySuggestion,
			Category:   "structure",
			Message:    "date formats mix numeric and spelled-month styles; pick one",
			Section:    "experience",
			EntryIndex: -1,
		},
	}}
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
