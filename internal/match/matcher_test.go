package match

import (
	"context"
	"fmt"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases",
			input:    "Python Developer",
			expected: "python developer",
		},
		{
			name:     "pipe separators become spaces",
			input:    "Python | Django | REST API",
			expected: "python django rest api",
		},
		{
			name:     "tabs and commas collapse",
			input:    "Go,\tDocker,,  Kubernetes",
			expected: "go docker kubernetes",
		},
		{
			name:     "plus and hash survive",
			input:    "C++ and C# experience",
			expected: "c++ and c# experience",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "only separators",
			input:    "|||---///",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSynonymIndexBidirectional(t *testing.T) {
	idx := NewSynonymIndex(map[string][]string{
		"kubernetes": {"k8s", "kube"},
		"javascript": {"js"},
	})

	tests := []struct {
		name  string
		term  string
		wants []string
	}{
		{name: "canonical resolves variants", term: "kubernetes", wants: []string{"kubernetes", "k8s", "kube"}},
		{name: "variant resolves canonical", term: "k8s", wants: []string{"kubernetes"}},
		{name: "case insensitive lookup", term: "K8S", wants: []string{"kubernetes"}},
		{name: "unknown term returns itself", term: "rust", wants: []string{"rust"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			variants := idx.Variants(tt.term)
			set := make(map[string]bool)
			for _, v := range variants {
				set[v] = true
			}
			for _, want := range tt.wants {
				if !set[want] {
					t.Errorf("Variants(%q) = %v, missing %q", tt.term, variants, want)
				}
			}
		})
	}
}

func TestMatcherExactAndSynonyms(t *testing.T) {
	idx := NewSynonymIndex(map[string][]string{
		"kubernetes": {"k8s"},
		"rest api":   {"restful"},
	})
	m := NewMatcher(idx, nil, 0.6)

	tests := []struct {
		name        string
		targets     []string
		text        string
		wantMatched []string
	}{
		{
			name:        "pipe separated skills all match",
			targets:     []string{"python", "django", "rest api"},
			text:        "Python | Django | REST API",
			wantMatched: []string{"python", "django", "rest api"},
		},
		{
			name:        "single token respects word boundaries",
			targets:     []string{"api"},
			text:        "rapid prototyping experience",
			wantMatched: nil,
		},
		{
			name:        "synonym variant in text counts",
			targets:     []string{"kubernetes"},
			text:        "deployed services to k8s clusters",
			wantMatched: []string{"kubernetes"},
		},
		{
			name:        "synonym lookup works in reverse",
			targets:     []string{"k8s"},
			text:        "ran Kubernetes in production",
			wantMatched: []string{"k8s"},
		},
		{
			name:        "phrase matching is boundary safe",
			targets:     []string{"rest api"},
			text:        "built RESTful services",
			wantMatched: []string{"rest api"},
		},
		{
			name:        "no match on empty text",
			targets:     []string{"python"},
			text:        "",
			wantMatched: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := m.Match(context.Background(), tt.targets, tt.text, nil)
			if result.Count != len(tt.wantMatched) {
				t.Fatalf("Match() count = %d, want %d (matched %v)", result.Count, len(tt.wantMatched), result.Matched)
			}
			for i, want := range tt.wantMatched {
				if result.Matched[i] != want {
					t.Errorf("Match() matched[%d] = %q, want %q", i, result.Matched[i], want)
				}
			}
			if result.Degraded {
				t.Error("Match() degraded = true without an oracle configured")
			}
		})
	}
}

func TestMatcherSynonymMonotonicity(t *testing.T) {
	targets := []string{"kubernetes", "javascript", "python"}
	text := "k8s and js development"

	bare := NewMatcher(NewSynonymIndex(nil), nil, 0.6)
	expanded := NewMatcher(NewSynonymIndex(map[string][]string{
		"kubernetes": {"k8s"},
		"javascript": {"js"},
	}), nil, 0.6)

	without := bare.Match(context.Background(), targets, text, nil)
	with := expanded.Match(context.Background(), targets, text, nil)

	if with.Count < without.Count {
		t.Errorf("enabling synonyms reduced matches: %d -> %d", without.Count, with.Count)
	}
	if with.Count != 2 {
		t.Errorf("expected 2 synonym matches, got %d (%v)", with.Count, with.Matched)
	}
}

// stubOracle returns a fixed similarity for one term pair and an error when
// failing is set.
type stubOracle struct {
	pairs   map[string]float64
	failing bool
	calls   int
}

func (s *stubOracle) Similarity(_ context.Context, a, b string) (float64, error) {
	s.calls++
	if s.failing {
		return 0, fmt.Errorf("oracle unavailable")
	}
	return s.pairs[a+"|"+b], nil
}

func (s *stubOracle) IsHealthy() bool       { return !s.failing }
func (s *stubOracle) Stats() map[string]any { return map[string]any{"enabled": true} }

func TestMatcherOracleFallback(t *testing.T) {
	t.Run("oracle match above threshold", func(t *testing.T) {
		oracle := &stubOracle{pairs: map[string]float64{"golang|go programming": 0.85}}
		m := NewMatcher(NewSynonymIndex(nil), oracle, 0.6)

		result := m.Match(context.Background(), []string{"golang"}, "systems work", []string{"Go Programming"})
		if result.Count != 1 {
			t.Fatalf("expected oracle match, got %v", result.Matched)
		}
		if result.Degraded {
			t.Error("healthy oracle should not report degraded")
		}
	})

	t.Run("oracle below threshold does not match", func(t *testing.T) {
		oracle := &stubOracle{pairs: map[string]float64{"golang|java": 0.3}}
		m := NewMatcher(NewSynonymIndex(nil), oracle, 0.6)

		result := m.Match(context.Background(), []string{"golang"}, "enterprise work", []string{"java"})
		if result.Count != 0 {
			t.Fatalf("expected no match, got %v", result.Matched)
		}
	})

	t.Run("oracle failure degrades silently", func(t *testing.T) {
		oracle := &stubOracle{failing: true}
		m := NewMatcher(NewSynonymIndex(nil), oracle, 0.6)

		result := m.Match(context.Background(), []string{"python", "golang"}, "Python developer", []string{"go"})
		if result.Count != 1 || result.Matched[0] != "python" {
			t.Fatalf("exact matching must survive oracle failure, got %v", result.Matched)
		}
		if !result.Degraded {
			t.Error("failed oracle must set the degraded flag")
		}
	})

	t.Run("exact match short-circuits before oracle", func(t *testing.T) {
		oracle := &stubOracle{}
		m := NewMatcher(NewSynonymIndex(nil), oracle, 0.6)

		m.Match(context.Background(), []string{"python"}, "Python developer", []string{"python"})
		if oracle.calls != 0 {
			t.Errorf("oracle called %d times for an exact match", oracle.calls)
		}
	})
}

func BenchmarkMatch(b *testing.B) {
	idx := NewSynonymIndex(map[string][]string{
		"kubernetes": {"k8s"},
		"javascript": {"js"},
		"postgresql": {"postgres"},
	})
	m := NewMatcher(idx, nil, 0.6)
	targets := []string{"python", "kubernetes", "postgresql", "rest api", "docker"}
	text := "Seasoned engineer: Python, k8s, postgres, RESTful APIs, Docker and more."

	for b.Loop() {
		m.Match(context.Background(), targets, text, nil)
	}
}
