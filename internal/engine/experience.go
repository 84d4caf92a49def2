package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"resumescore/internal/config"
	"resumescore/internal/types"
)

// ExperienceClassifier extracts total years of experience and classifies them
// against a target level band with graduated proximity scoring.
type ExperienceClassifier struct {
	// now is injectable so open-ended ranges stay deterministic under test
	now time.Time
}

// NewExperienceClassifier creates a classifier anchored at the given time.
func NewExperienceClassifier(now time.Time) *ExperienceClassifier {
	return &ExperienceClassifier{now: now}
}

var dateLayouts = []string{
	"Jan 2006",
	"January 2006",
	"01/2006",
	"1/2006",
	"2006-01",
	"2006",
}

var openEndedMarkers = map[string]bool{
	"present": true,
	"current": true,
	"now":     true,
	"ongoing": true,
}

// parseDate parses one start/end marker. open reports an open-ended range
// (present/current); ok is false for unparsable non-empty input.
func parseDate(s string) (t time.Time, open bool, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, false
	}
	if openEndedMarkers[strings.ToLower(s)] {
		return time.Time{}, true, true
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, false, true
		}
	}
	return time.Time{}, false, false
}

// dateStyle reports whether a date marker uses spelled-month or numeric style.
// Used by the red flag detector to spot inconsistent formatting.
func dateStyle(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || openEndedMarkers[strings.ToLower(s)] {
		return ""
	}
	if strings.IndexFunc(s, unicode.IsLetter) >= 0 {
		return "spelled"
	}
	return "numeric"
}

type dateRange struct {
	start, end time.Time
}

// yearPattern extracts explicit year counts from free text, e.g. "5 years of
// Python" or "10+ years".
var yearPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\+?\s*years?`)

// Years computes total experience as the maximum of two independent
// estimates: structured date ranges (overlaps collapsed, concurrent roles not
// double-counted) and the largest explicit year mention in free text. Using
// the maximum keeps candidates who state their experience directly from
// scoring zero when per-role dates are missing. Entries with unparsable dates
// are excluded from the range estimate and reported as findings.
func (c *ExperienceClassifier) Years(entries []types.ExperienceEntry) (float64, []types.Finding) {
	var findings []types.Finding
	var ranges []dateRange

	for i, entry := range entries {
		r, finding := c.entryRange(entry, i)
		if finding != nil {
			findings = append(findings, *finding)
		}
		if r != nil {
			ranges = append(ranges, *r)
		}
	}

	structured := mergedYears(ranges)
	freeText := c.freeTextYears(entries)

	years := structured
	if freeText > years {
		years = freeText
	}
	return years, findings
}

// entryRange parses one entry's dates into a range. Returns a finding for
// malformed markers; the entry is then excluded from the range estimate only.
func (c *ExperienceClassifier) entryRange(entry types.ExperienceEntry, index int) (*dateRange, *types.Finding) {
	if strings.TrimSpace(entry.StartDate) == "" {
		return nil, nil
	}

	start, startOpen, ok := parseDate(entry.StartDate)
	if !ok || startOpen {
		return nil, malformedDateFinding(entry.StartDate, index)
	}

	end := c.now
	if strings.TrimSpace(entry.EndDate) != "" {
		parsedEnd, open, ok := parseDate(entry.EndDate)
		if !ok {
			return nil, malformedDateFinding(entry.EndDate, index)
		}
		if !open {
			end = parsedEnd
		}
	}

	if end.Before(start) {
		return nil, &types.Finding{
			Severity:   types.SeverityInfo,
			Category:   "experience",
			Message:    fmt.Sprintf("entry %d ends (%s) before it starts (%s); excluded from experience total", index+1, entry.EndDate, entry.StartDate),
			Section:    "experience",
			EntryIndex: index,
		}
	}

	return &dateRange{start: start, end: end}, nil
}

func malformedDateFinding(value string, index int) *types.Finding {
	return &types.Finding{
		Severity:   types.SeverityInfo,
		Category:   "experience",
		Message:    fmt.Sprintf("unrecognized date %q; entry excluded from experience total", value),
		Section:    "experience",
		EntryIndex: index,
	}
}

// mergedYears sums range durations after collapsing overlaps.
func mergedYears(ranges []dateRange) float64 {
	if len(ranges) == 0 {
		return 0
	}

	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].start.Before(ranges[j].start)
	})

	merged := []dateRange{ranges[0]}
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if !r.start.After(last.end) {
			if r.end.After(last.end) {
				last.end = r.end
			}
			continue
		}
		merged = append(merged, r)
	}

	var total float64
	for _, r := range merged {
		total += r.end.Sub(r.start).Hours() / (24 * 365.25)
	}
	return total
}

// freeTextYears returns the largest explicit year count mentioned in any
// entry's description or duration text.
func (c *ExperienceClassifier) freeTextYears(entries []types.ExperienceEntry) float64 {
	var best float64
	scan := func(text string) {
		for _, m := range yearPattern.FindAllStringSubmatch(strings.ToLower(text), -1) {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > best {
				best = v
			}
		}
	}
	for _, entry := range entries {
		scan(entry.Description)
		scan(entry.DurationText)
	}
	return best
}

// Graduated proximity factors. Boundaries are inclusive in the candidate's
// favor: a deficit of exactly 1.0 years still earns the near tier.
const (
	proximityFull  = 1.0
	proximityNear  = 0.8
	proximityFar   = 0.6
	proximityFloor = 0.3
)

// Classify scores years against a level band. Membership scores full credit;
// a deficit of up to 1 year scores 80%, up to 2 years 60%, beyond that a 30%
// floor. Over-qualification is never scored worse than a 1-year excess:
// being above the band is a weaker mismatch signal than being below it.
func (c *ExperienceClassifier) Classify(years float64, band config.LevelBand) (factor float64, meets bool) {
	switch {
	case years >= band.MinYears && years <= band.MaxYears:
		return proximityFull, true
	case years > band.MaxYears:
		return proximityNear, false
	}

	deficit := band.MinYears - years
	switch {
	case deficit <= 1.0:
		return proximityNear, false
	case deficit <= 2.0:
		return proximityFar, false
	default:
		return proximityFloor, false
	}
}
