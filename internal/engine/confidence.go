package engine

import (
	"math"

	"resumescore/internal/types"
)

// Reliability thresholds over the margin width.
const (
	reliabilityHighMargin   = 3.0
	reliabilityMediumMargin = 6.0
)

// Estimator computes a confidence band around a score. With repeated
// independent measurements it uses a standard interval over the sample
// standard deviation; a single measurement falls back to the configured
// default margin rather than failing.
type Estimator struct {
	level         float64
	defaultMargin float64
}

// NewEstimator creates an estimator at the given confidence level.
func NewEstimator(level, defaultMargin float64) *Estimator {
	return &Estimator{level: level, defaultMargin: defaultMargin}
}

// Estimate returns the interval around the point estimate. The interval is
// clamped to the score scale.
func (e *Estimator) Estimate(score float64, samples []float64) types.ConfidenceInterval {
	margin := e.defaultMargin
	if len(samples) > 1 {
		margin = zScore(e.level) * stddev(samples) / math.Sqrt(float64(len(samples)))
	}

	reliability := "low"
	switch {
	case margin <= reliabilityHighMargin:
		reliability = "high"
	case margin <= reliabilityMediumMargin:
		reliability = "medium"
	}

	return types.ConfidenceInterval{
		Lower:       clamp(score-margin, 0, 100),
		Upper:       clamp(score+margin, 0, 100),
		Margin:      margin,
		Level:       e.level,
		Reliability: reliability,
	}
}

// zScore maps a confidence level to its standard normal critical value.
func zScore(level float64) float64 {
	switch {
	case level >= 0.99:
		return 2.576
	case level >= 0.95:
		return 1.960
	case level >= 0.90:
		return 1.645
	default:
		return 1.282
	}
}

func stddev(samples []float64) float64 {
	n := float64(len(samples))
	var mean float64
	for _, s := range samples {
		mean += s
	}
	mean /= n

	var variance float64
	for _, s := range samples {
		variance += (s - mean) * (s - mean)
	}
	variance /= n - 1
	return math.Sqrt(variance)
}
