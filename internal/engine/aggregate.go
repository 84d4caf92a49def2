package engine

import (
	"sort"

	"resumescore/internal/config"
	"resumescore/internal/types"
)

// aggregate groups criterion scores into categories and reduces them to the
// final 0-100 score in two explicit phases: per-category raw totals first
// (weight override applied, then clamped to the generous bonus ceiling), then
// one grand sum capped at 100 as the last step. Capping per-category at the
// standard maximum before summing would destroy the intended behavior where
// excelling in one category compensates for being merely adequate in another.
func aggregate(criteria []types.CriterionScore, ref *config.Reference, role config.RoleProfile) (final, rawTotal float64, categories map[string]types.CategoryScore) {
	categories = make(map[string]types.CategoryScore, len(ref.Categories))

	sums := make(map[string]float64)
	for _, cs := range criteria {
		sums[cs.Category] += cs.Score
	}

	// Fixed iteration order keeps the float sum bit-identical across runs.
	names := make([]string, 0, len(ref.Categories))
	for name := range ref.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		limits := ref.Categories[name]
		raw := sums[name]
		if weight, ok := role.Weights[name]; ok {
			raw *= weight
		}
		raw = clamp(raw, 0, limits.BonusMax)

		categories[name] = types.CategoryScore{
			Raw:      raw,
			Max:      limits.Max,
			BonusMax: limits.BonusMax,
		}
		rawTotal += raw
	}

	final = clamp(rawTotal, 0, 100)
	return final, rawTotal, categories
}
