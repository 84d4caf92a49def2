package engine

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"resumescore/internal/config"
	"resumescore/internal/errors"
	"resumescore/internal/match"
	"resumescore/internal/types"
)

// leafSet bundles the shared leaf components every scorer may consult.
type leafSet struct {
	matcher    *match.Matcher
	verbs      *VerbClassifier
	experience *ExperienceClassifier
	redFlags   *RedFlagDetector
}

// compiled caches the artifacts derived from one reference snapshot. Rebuilt
// only when the snapshot pointer changes (serve-mode hot swap).
type compiled struct {
	source  *config.Reference
	matcher *match.Matcher
	verbs   *VerbClassifier
}

// Engine scores parsed resumes against a role and level. A scoring invocation
// is synchronous, holds no cross-invocation state, and always observes one
// reference snapshot; concurrent invocations need no locking.
type Engine struct {
	store     *config.ReferenceStore
	cfg       config.EngineConfig
	threshold float64
	oracle    match.Oracle
	estimator *Estimator
	logger    *errors.Logger

	now func() time.Time

	cache atomic.Pointer[compiled]
}

// New creates an engine over the given reference store. oracle may be nil.
func New(store *config.ReferenceStore, cfg *config.Config, oracle match.Oracle, logger *errors.Logger) *Engine {
	return &Engine{
		store:     store,
		cfg:       cfg.Engine,
		threshold: cfg.Oracle.SimilarityThreshold,
		oracle:    oracle,
		estimator: NewEstimator(cfg.Engine.ConfidenceLevel, cfg.Engine.DefaultMargin),
		logger:    logger,
		now:       time.Now,
	}
}

// compile returns the derived artifacts for the current snapshot, rebuilding
// them when the snapshot changed. A rebuild race is benign: both sides build
// identical artifacts from the same snapshot.
func (e *Engine) compile() *compiled {
	ref := e.store.Current()
	if c := e.cache.Load(); c != nil && c.source == ref {
		return c
	}

	c := &compiled{
		source:  ref,
		matcher: match.NewMatcher(match.NewSynonymIndex(ref.Synonyms), e.oracle, e.threshold),
		verbs:   NewVerbClassifier(ref.VerbTiers),
	}
	e.cache.Store(c)
	return c
}

// leaves assembles the per-invocation leaf set. The date-based classifiers
// are anchored at the current time so open-ended ranges stay current.
func (e *Engine) leaves(c *compiled) *leafSet {
	now := e.now()
	return &leafSet{
		matcher:    c.matcher,
		verbs:      c.verbs,
		experience: NewExperienceClassifier(now),
		redFlags:   NewRedFlagDetector(now),
	}
}

// resolve maps role and level ids to their reference entries. Unknown ids are
// configuration errors and the one input class that fails hard.
func resolve(ref *config.Reference, roleID, levelID string) (config.RoleProfile, config.LevelBand, error) {
	role, ok := ref.Role(roleID)
	if !ok {
		return config.RoleProfile{}, config.LevelBand{}, errors.NewConfigError(errors.ErrCodeUnknownRole,
			fmt.Sprintf("unknown role id: %s", roleID), nil).WithContext("role", roleID)
	}
	band, ok := ref.Level(levelID)
	if !ok {
		return config.RoleProfile{}, config.LevelBand{}, errors.NewConfigError(errors.ErrCodeUnknownLevel,
			fmt.Sprintf("unknown level id: %s", levelID), nil).WithContext("level", levelID)
	}
	return role, band, nil
}

// Score evaluates document facts against a role and level, producing the full
// result: per-criterion sub-scores, category aggregates, ranked findings and
// a confidence band. Missing fields in facts never fail the run.
func (e *Engine) Score(ctx context.Context, facts *types.DocumentFacts, roleID, levelID string) (*types.ScoreResult, error) {
	if facts == nil {
		facts = &types.DocumentFacts{}
	}

	comp := e.compile()
	role, band, err := resolve(comp.source, roleID, levelID)
	if err != nil {
		return nil, err
	}

	degraded := false
	in := Input{Facts: facts, Role: role, Band: band, degraded: &degraded}

	var criteria []types.CriterionScore
	var findings []types.Finding
	for _, scorer := range scorerSet(e.leaves(comp)) {
		cs, fs := e.runScorer(ctx, scorer, in)
		criteria = append(criteria, cs)
		findings = append(findings, fs...)
	}

	final, rawTotal, categories := aggregate(criteria, comp.source, role)

	// Stable sort keeps emission order within a severity.
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Severity.Rank() < findings[j].Severity.Rank()
	})

	return &types.ScoreResult{
		Score:            final,
		RawTotal:         rawTotal,
		Role:             roleID,
		Level:            levelID,
		Categories:       categories,
		Criteria:         criteria,
		Findings:         findings,
		Confidence:       e.estimator.Estimate(final, nil),
		DegradedMatching: degraded,
	}, nil
}

// ScoreCriterion re-runs a single criterion scorer in isolation, supporting
// incremental re-scoring after an edit without running the whole pipeline.
func (e *Engine) ScoreCriterion(ctx context.Context, facts *types.DocumentFacts, roleID, levelID, criterionID string) (*types.CriterionScore, error) {
	if facts == nil {
		facts = &types.DocumentFacts{}
	}

	comp := e.compile()
	role, band, err := resolve(comp.source, roleID, levelID)
	if err != nil {
		return nil, err
	}

	for _, scorer := range scorerSet(e.leaves(comp)) {
		if scorer.ID() != criterionID {
			continue
		}
		in := Input{Facts: facts, Role: role, Band: band}
		cs, _ := e.runScorer(ctx, scorer, in)
		return &cs, nil
	}

	return nil, errors.NewConfigError(errors.ErrCodeUnknownCriterion,
		fmt.Sprintf("unknown criterion id: %s", criterionID), nil).WithContext("criterion", criterionID)
}

// Criteria lists the registered criterion ids in scoring order.
func (e *Engine) Criteria() []string {
	comp := e.compile()
	scorers := scorerSet(e.leaves(comp))
	ids := make([]string, len(scorers))
	for i, s := range scorers {
		ids[i] = s.ID()
	}
	return ids
}

// runScorer executes one scorer, converting a panic into a zero score plus a
// diagnostic finding so a single failing criterion cannot abort the others.
func (e *Engine) runScorer(ctx context.Context, scorer Scorer, in Input) (cs types.CriterionScore, findings []types.Finding) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.LogError(errors.NewInternalError(errors.ErrCodeInvalidFacts,
				fmt.Sprintf("criterion scorer panicked: %v", r), nil),
				"Criterion scorer failed", "criterion", scorer.ID())

			cs = types.CriterionScore{
				Criterion: scorer.ID(),
				Category:  scorer.Category(),
				Score:     0,
				MaxScore:  scorer.MaxScore(),
				Rationale: "criterion could not be evaluated",
			}
			findings = []types.Finding{{
				Severity:   types.SeverityInfo,
				Category:   scorer.Category(),
				Message:    fmt.Sprintf("criterion %s could not be evaluated and scored zero", scorer.ID()),
				EntryIndex: -1,
			}}
		}
	}()

	cs, findings = scorer.Score(ctx, in)
	return cs, findings
}
