package engine

import (
	"math"
	"testing"
	"time"

	"resumescore/internal/config"
	"resumescore/internal/types"
)

var testNow = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantOpen bool
		wantOK   bool
	}{
		{name: "abbreviated month", input: "Jan 2020", wantOK: true},
		{name: "full month", input: "January 2020", wantOK: true},
		{name: "numeric slash", input: "01/2020", wantOK: true},
		{name: "iso month", input: "2020-01", wantOK: true},
		{name: "year only", input: "2020", wantOK: true},
		{name: "present marker", input: "Present", wantOpen: true, wantOK: true},
		{name: "current marker", input: "current", wantOpen: true, wantOK: true},
		{name: "garbage", input: "sometime in spring", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, open, ok := parseDate(tt.input)
			if ok != tt.wantOK || open != tt.wantOpen {
				t.Errorf("parseDate(%q) = (open=%v, ok=%v), want (open=%v, ok=%v)",
					tt.input, open, ok, tt.wantOpen, tt.wantOK)
			}
		})
	}
}

func TestYears(t *testing.T) {
	c := NewExperienceClassifier(testNow)

	tests := []struct {
		name         string
		entries      []types.ExperienceEntry
		wantYears    float64
		tolerance    float64
		wantFindings int
	}{
		{
			name: "sequential ranges sum",
			entries: []types.ExperienceEntry{
				{StartDate: "Jan 2020", EndDate: "Jan 2022"},
				{StartDate: "Jan 2022", EndDate: "Jan 2024"},
			},
			wantYears: 4.0,
			tolerance: 0.05,
		},
		{
			name: "overlapping concurrent roles are not double counted",
			entries: []types.ExperienceEntry{
				{StartDate: "Jan 2020", EndDate: "Jan 2023"},
				{StartDate: "Jan 2021", EndDate: "Jan 2022"},
			},
			wantYears: 3.0,
			tolerance: 0.05,
		},
		{
			name: "free text beats missing structured dates",
			entries: []types.ExperienceEntry{
				{Description: "5 years of Python development"},
			},
			wantYears: 5.0,
		},
		{
			name: "maximum of structured and free text",
			entries: []types.ExperienceEntry{
				{StartDate: "Jan 2023", EndDate: "Jan 2024", Description: "10+ years in software"},
			},
			wantYears: 10.0,
		},
		{
			name: "open ended range runs to now",
			entries: []types.ExperienceEntry{
				{StartDate: "Jun 2023", EndDate: "Present"},
			},
			wantYears: 2.0,
			tolerance: 0.05,
		},
		{
			name: "malformed date excluded with finding",
			entries: []types.ExperienceEntry{
				{StartDate: "sometime", EndDate: "Jan 2024"},
				{StartDate: "Jan 2022", EndDate: "Jan 2024"},
			},
			wantYears:    2.0,
			tolerance:    0.05,
			wantFindings: 1,
		},
		{
			name:      "no entries",
			entries:   nil,
			wantYears: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			years, findings := c.Years(tt.entries)
			if math.Abs(years-tt.wantYears) > math.Max(tt.tolerance, 1e-9) {
				t.Errorf("Years() = %.2f, want %.2f", years, tt.wantYears)
			}
			if len(findings) != tt.wantFindings {
				t.Errorf("Years() findings = %d, want %d: %v", len(findings), tt.wantFindings, findings)
			}
		})
	}
}

func TestYearsAtLeastFreeTextMention(t *testing.T) {
	c := NewExperienceClassifier(testNow)
	entries := []types.ExperienceEntry{
		{StartDate: "Jan 2024", EndDate: "Jun 2024", Description: "- 7 years of backend work\n- shipped things"},
		{Description: "3 years of SRE"},
	}
	years, _ := c.Years(entries)
	if years < 7 {
		t.Errorf("Years() = %.2f, must be at least the largest free text mention (7)", years)
	}
}

func TestClassify(t *testing.T) {
	c := NewExperienceClassifier(testNow)
	band := config.LevelBand{Name: "Mid Level", MinYears: 2, MaxYears: 6}

	tests := []struct {
		name       string
		years      float64
		wantFactor float64
		wantMeets  bool
	}{
		{name: "inside band", years: 4, wantFactor: proximityFull, wantMeets: true},
		{name: "lower boundary inclusive", years: 2, wantFactor: proximityFull, wantMeets: true},
		{name: "upper boundary inclusive", years: 6, wantFactor: proximityFull, wantMeets: true},
		{name: "deficit of exactly one year favors candidate", years: 1, wantFactor: proximityNear},
		{name: "deficit of exactly two years favors candidate", years: 0, wantFactor: proximityFar},
		{name: "over-qualified scores the near tier", years: 7, wantFactor: proximityNear},
		{name: "heavily over-qualified is never penalized further", years: 20, wantFactor: proximityNear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factor, meets := c.Classify(tt.years, band)
			if factor != tt.wantFactor {
				t.Errorf("Classify(%.1f) factor = %.2f, want %.2f", tt.years, factor, tt.wantFactor)
			}
			if meets != tt.wantMeets {
				t.Errorf("Classify(%.1f) meets = %v, want %v", tt.years, meets, tt.wantMeets)
			}
		})
	}
}

func TestClassifyDeepDeficitFloor(t *testing.T) {
	c := NewExperienceClassifier(testNow)
	band := config.LevelBand{Name: "Senior", MinYears: 5, MaxYears: 12}

	factor, meets := c.Classify(0.5, band)
	if factor != proximityFloor {
		t.Errorf("deep deficit factor = %.2f, want floor %.2f", factor, proximityFloor)
	}
	if meets {
		t.Error("deep deficit must not meet the level")
	}
}

func TestOverlappingBandsBothScoreFull(t *testing.T) {
	c := NewExperienceClassifier(testNow)
	entry := config.LevelBand{Name: "Entry", MinYears: 0, MaxYears: 3}
	mid := config.LevelBand{Name: "Mid", MinYears: 2, MaxYears: 6}

	// 2.5 years sits in the deliberate overlap of adjacent bands.
	for _, band := range []config.LevelBand{entry, mid} {
		factor, meets := c.Classify(2.5, band)
		if factor != proximityFull || !meets {
			t.Errorf("Classify(2.5, %s) = (%.2f, %v), want full credit", band.Name, factor, meets)
		}
	}
}
