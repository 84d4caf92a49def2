package engine

import (
	"math"
	"testing"
)

func TestEstimateSingleMeasurement(t *testing.T) {
	e := NewEstimator(0.95, 4.0)

	ci := e.Estimate(75, nil)
	if ci.Margin != 4.0 {
		t.Errorf("single measurement margin = %.2f, want default 4.0", ci.Margin)
	}
	if ci.Lower != 71 || ci.Upper != 79 {
		t.Errorf("interval = [%.1f, %.1f], want [71, 79]", ci.Lower, ci.Upper)
	}
	if ci.Reliability != "medium" {
		t.Errorf("reliability = %s, want medium", ci.Reliability)
	}
}

func TestEstimateWithSamples(t *testing.T) {
	e := NewEstimator(0.95, 4.0)

	tests := []struct {
		name            string
		score           float64
		samples         []float64
		wantMargin      float64
		wantReliability string
	}{
		{
			name:            "tight samples give high reliability",
			score:           80,
			samples:         []float64{79, 80, 81, 80, 80},
			wantMargin:      1.96 * 0.7071 / math.Sqrt(5),
			wantReliability: "high",
		},
		{
			name:            "identical samples give zero margin",
			score:           70,
			samples:         []float64{70, 70, 70},
			wantMargin:      0,
			wantReliability: "high",
		},
		{
			name:            "spread samples give low reliability",
			score:           60,
			samples:         []float64{40, 55, 70, 85, 50},
			wantReliability: "low",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ci := e.Estimate(tt.score, tt.samples)
			if tt.wantMargin > 0 && math.Abs(ci.Margin-tt.wantMargin) > 0.01 {
				t.Errorf("margin = %.4f, want %.4f", ci.Margin, tt.wantMargin)
			}
			if ci.Reliability != tt.wantReliability {
				t.Errorf("reliability = %s, want %s (margin %.2f)", ci.Reliability, tt.wantReliability, ci.Margin)
			}
		})
	}
}

func TestEstimateClampsToScale(t *testing.T) {
	e := NewEstimator(0.95, 6.0)

	low := e.Estimate(2, nil)
	if low.Lower != 0 {
		t.Errorf("lower bound = %.1f, want clamp at 0", low.Lower)
	}
	high := e.Estimate(99, nil)
	if high.Upper != 100 {
		t.Errorf("upper bound = %.1f, want clamp at 100", high.Upper)
	}
}

func TestZScore(t *testing.T) {
	tests := []struct {
		level    float64
		expected float64
	}{
		{0.99, 2.576},
		{0.95, 1.960},
		{0.90, 1.645},
		{0.80, 1.282},
	}

	for _, tt := range tests {
		if got := zScore(tt.level); got != tt.expected {
			t.Errorf("zScore(%.2f) = %.3f, want %.3f", tt.level, got, tt.expected)
		}
	}
}
