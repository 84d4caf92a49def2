package engine

import (
	"context"
	"reflect"
	"testing"
	"time"

	"resumescore/internal/config"
	"resumescore/internal/errors"
	"resumescore/internal/types"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	store := config.NewReferenceStore(config.DefaultReference())
	cfg := &config.Config{
		Engine: config.EngineConfig{
			ConfidenceLevel: 0.95,
			DefaultMargin:   4.0,
		},
		Oracle: config.OracleConfig{SimilarityThreshold: 0.6},
	}
	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	e := New(store, cfg, nil, logger)
	e.now = func() time.Time { return testNow }
	return e
}

func strongFacts() *types.DocumentFacts {
	return &types.DocumentFacts{
		Contact: types.ContactFacts{
			Name:     "Jordan Doe",
			Email:    "jordan@example.com",
			Phone:    "+1 555 0100",
			Location: "Berlin",
			LinkedIn: "linkedin.com/in/jordandoe",
		},
		Experience: []types.ExperienceEntry{
			{
				Title:       "Backend Engineer",
				StartDate:   "Jan 2021",
				EndDate:     "Present",
				Description: "- Built REST API services in Python serving 2M requests per day\n- Reduced deployment time by 40% with Docker pipelines\n- Led migration of the billing database to PostgreSQL",
			},
			{
				Title:       "Software Engineer",
				StartDate:   "Jan 2019",
				EndDate:     "Dec 2020",
				Description: "- Developed SQL reporting jobs handling 300GB daily\n- Automated CI workflows with Git hooks",
			},
		},
		Skills:   []string{"Python", "SQL", "Docker", "Git", "REST API", "Kubernetes"},
		Sections: map[string]string{"experience": "six years of shipping backend services at scale and mentoring engineers on the way", "skills": "python sql docker git"},
		Layout:   types.LayoutFacts{},
	}
}

func TestScoreCompleteResult(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Score(context.Background(), strongFacts(), "backend", "mid")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if result.Score < 0 || result.Score > 100 {
		t.Errorf("Score = %.1f, must stay in [0,100]", result.Score)
	}
	if result.Score < 60 {
		t.Errorf("strong resume scored %.1f, expected at least 60", result.Score)
	}
	if len(result.Criteria) != 11 {
		t.Errorf("criteria = %d, want 11", len(result.Criteria))
	}
	if len(result.Categories) != 5 {
		t.Errorf("categories = %d, want 5", len(result.Categories))
	}
	if result.DegradedMatching {
		t.Error("no oracle configured must not report degraded matching")
	}
	for name, cat := range result.Categories {
		if cat.Raw < 0 || cat.Raw > cat.BonusMax {
			t.Errorf("category %s raw %.1f outside [0, %.1f]", name, cat.Raw, cat.BonusMax)
		}
	}
}

func TestScoreEmptyDocument(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Score(context.Background(), &types.DocumentFacts{}, "backend", "entry")
	if err != nil {
		t.Fatalf("empty document must not fail: %v", err)
	}

	if result.Score > 40 {
		t.Errorf("empty document scored %.1f, expected a low score", result.Score)
	}
	for _, cs := range result.Criteria {
		switch cs.Criterion {
		case CriterionRedFlags, CriterionFormatting:
			// deduction-style criteria report their ceiling when nothing is flagged
			continue
		case CriterionExperienceAlignment:
			// zero years legitimately sits inside the entry band
			continue
		}
		if cs.Score != 0 {
			t.Errorf("criterion %s = %.1f on an empty document, want 0", cs.Criterion, cs.Score)
		}
	}
}

func TestScoreNoContactFieldsIsMinimumNotError(t *testing.T) {
	e := newTestEngine(t)

	facts := strongFacts()
	facts.Contact = types.ContactFacts{}

	result, err := e.Score(context.Background(), facts, "backend", "mid")
	if err != nil {
		t.Fatalf("missing contact fields must not fail: %v", err)
	}
	for _, cs := range result.Criteria {
		if cs.Criterion == CriterionContactInfo && cs.Score != 0 {
			t.Errorf("contact_info = %.1f with no contact fields, want 0", cs.Score)
		}
	}
}

func TestScoreIdempotent(t *testing.T) {
	e := newTestEngine(t)
	facts := strongFacts()

	first, err := e.Score(context.Background(), facts, "backend", "mid")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	second, err := e.Score(context.Background(), facts, "backend", "mid")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("scoring the same facts twice produced different results")
	}
}

func TestScoreUnknownRoleAndLevel(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name     string
		role     string
		level    string
		wantCode string
	}{
		{name: "unknown role", role: "astronaut", level: "mid", wantCode: errors.ErrCodeUnknownRole},
		{name: "unknown level", role: "backend", level: "intergalactic", wantCode: errors.ErrCodeUnknownLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Score(context.Background(), strongFacts(), tt.role, tt.level)
			if err == nil {
				t.Fatal("expected a hard configuration error")
			}
			appErr, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("error type = %T, want *errors.AppError", err)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("error code = %s, want %s", appErr.Code, tt.wantCode)
			}
		})
	}
}

func TestScoreFreeTextExperienceScenario(t *testing.T) {
	e := newTestEngine(t)

	facts := &types.DocumentFacts{
		Experience: []types.ExperienceEntry{
			{Description: "5 years of Python development"},
		},
	}

	result, err := e.Score(context.Background(), facts, "backend", "mid")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	for _, cs := range result.Criteria {
		if cs.Criterion != CriterionExperienceAlignment {
			continue
		}
		if cs.Score != cs.MaxScore {
			t.Errorf("experience_alignment = %.1f/%.1f; 5 stated years must earn full credit against the mid band", cs.Score, cs.MaxScore)
		}
	}
}

func TestScorePipeSeparatedKeywordsScenario(t *testing.T) {
	e := newTestEngine(t)

	facts := &types.DocumentFacts{
		Sections: map[string]string{"skills": "Python | Django | REST API | SQL | Docker | Git"},
	}

	result, err := e.Score(context.Background(), facts, "backend", "entry")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	for _, cs := range result.Criteria {
		if cs.Criterion != CriterionRequiredKeywords {
			continue
		}
		if cs.Score != cs.MaxScore {
			t.Errorf("required_keywords = %.1f/%.1f; pipe separators must not split matches", cs.Score, cs.MaxScore)
		}
	}
}

func TestScoreFindingsSortedBySeverity(t *testing.T) {
	e := newTestEngine(t)

	facts := &types.DocumentFacts{
		Experience: []types.ExperienceEntry{
			{StartDate: "Jan 2019", EndDate: "Jun 2019", Description: "- worked on stuff"},
			{StartDate: "Jan 2021", EndDate: "Jun 2021"},
		},
	}

	result, err := e.Score(context.Background(), facts, "backend", "mid")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	for i := 1; i < len(result.Findings); i++ {
		if result.Findings[i-1].Severity.Rank() > result.Findings[i].Severity.Rank() {
			t.Fatalf("findings not sorted by severity at index %d: %s after %s",
				i, result.Findings[i].Severity, result.Findings[i-1].Severity)
		}
	}
}

func TestScoreCriterion(t *testing.T) {
	e := newTestEngine(t)
	facts := strongFacts()

	cs, err := e.ScoreCriterion(context.Background(), facts, "backend", "mid", CriterionQuantification)
	if err != nil {
		t.Fatalf("ScoreCriterion() error = %v", err)
	}
	if cs.Criterion != CriterionQuantification {
		t.Errorf("criterion = %s, want %s", cs.Criterion, CriterionQuantification)
	}

	full, err := e.Score(context.Background(), facts, "backend", "mid")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	for _, fullCS := range full.Criteria {
		if fullCS.Criterion == CriterionQuantification && fullCS.Score != cs.Score {
			t.Errorf("isolated score %.1f differs from pipeline score %.1f", cs.Score, fullCS.Score)
		}
	}
}

func TestScoreCriterionUnknownID(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.ScoreCriterion(context.Background(), strongFacts(), "backend", "mid", "charisma")
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("error type = %T, want *errors.AppError", err)
	}
	if appErr.Code != errors.ErrCodeUnknownCriterion {
		t.Errorf("error code = %s, want %s", appErr.Code, errors.ErrCodeUnknownCriterion)
	}
}

// panicScorer always panics; used to verify aggregator isolation.
type panicScorer struct{}

func (panicScorer) ID() string        { return "panicky" }
func (panicScorer) Category() string  { return CategoryPolish }
func (panicScorer) MaxScore() float64 { return 5 }
func (panicScorer) Score(context.Context, Input) (types.CriterionScore, []types.Finding) {
	panic("boom")
}

func TestRunScorerRecoversPanic(t *testing.T) {
	e := newTestEngine(t)

	cs, findings := e.runScorer(context.Background(), panicScorer{}, Input{Facts: &types.DocumentFacts{}})
	if cs.Score != 0 {
		t.Errorf("panicked scorer score = %.1f, want 0", cs.Score)
	}
	if cs.MaxScore != 5 {
		t.Errorf("panicked scorer max = %.1f, want 5", cs.MaxScore)
	}
	if len(findings) != 1 || findings[0].Severity != types.SeverityInfo {
		t.Errorf("expected one diagnostic finding, got %v", findings)
	}
}

func TestAggregateBonusThenCap(t *testing.T) {
	ref := config.DefaultReference()

	// Every category at its bonus ceiling pushes the raw sum past 100.
	var criteria []types.CriterionScore
	for name, limits := range ref.Categories {
		criteria = append(criteria, types.CriterionScore{Category: name, Score: limits.BonusMax + 50})
	}

	final, rawTotal, categories := aggregate(criteria, ref, config.RoleProfile{})
	if final != 100 {
		t.Errorf("final = %.1f, want cap at 100", final)
	}
	if rawTotal <= 100 {
		t.Errorf("rawTotal = %.1f, should exceed 100 before the cap", rawTotal)
	}
	for name, cat := range categories {
		if cat.Raw != cat.BonusMax {
			t.Errorf("category %s raw %.1f, want clamp at bonus ceiling %.1f", name, cat.Raw, cat.BonusMax)
		}
	}
}

func TestAggregateRoleWeightAppliedBeforeBonusClamp(t *testing.T) {
	ref := config.DefaultReference()
	role := config.RoleProfile{Weights: map[string]float64{"keywords": 1.2}}

	criteria := []types.CriterionScore{{Category: "keywords", Score: 20}}
	_, _, categories := aggregate(criteria, ref, role)

	if got := categories["keywords"].Raw; got != 24 {
		t.Errorf("weighted keywords raw = %.1f, want 24", got)
	}

	// Weighting past the ceiling still clamps.
	criteria = []types.CriterionScore{{Category: "keywords", Score: 38}}
	_, _, categories = aggregate(criteria, ref, role)
	if got, ceiling := categories["keywords"].Raw, ref.Categories["keywords"].BonusMax; got != ceiling {
		t.Errorf("weighted keywords raw = %.1f, want bonus ceiling %.1f", got, ceiling)
	}
}

func TestAggregateNeverNegative(t *testing.T) {
	ref := config.DefaultReference()
	criteria := []types.CriterionScore{{Category: "keywords", Score: -50}}

	final, _, _ := aggregate(criteria, ref, config.RoleProfile{})
	if final < 0 {
		t.Errorf("final = %.1f, must never drop below 0", final)
	}
}
