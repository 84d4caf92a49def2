package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeReferenceFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reference.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadReferenceBuiltin(t *testing.T) {
	ref, err := LoadReference("")
	require.NoError(t, err)

	assert.NotEmpty(t, ref.Version)
	assert.NotEmpty(t, ref.Synonyms)
	assert.NotEmpty(t, ref.VerbTiers)

	// Built-in profiles cover the documented roles and levels
	for _, id := range []string{"backend", "frontend", "fullstack", "data", "devops"} {
		role, ok := ref.Role(id)
		assert.True(t, ok, "missing role %s", id)
		assert.NotEmpty(t, role.Required, "role %s has no required keywords", id)
	}
	for _, id := range []string{"entry", "mid", "senior", "lead"} {
		_, ok := ref.Level(id)
		assert.True(t, ok, "missing level %s", id)
	}

	// Every category carries a bonus ceiling at or above its max
	require.NotEmpty(t, ref.Categories)
	for id, limits := range ref.Categories {
		assert.GreaterOrEqual(t, limits.BonusMax, limits.Max, "category %s", id)
	}
}

func TestLoadReferenceOverlay(t *testing.T) {
	path := writeReferenceFile(t, `
version: custom-2
synonyms:
  golang:
    - golang
    - go
roles:
  mobile:
    name: Mobile Engineer
    required:
      - swift
      - kotlin
    preferred:
      - flutter
levels:
  principal:
    name: Principal
    minYears: 12
    maxYears: 30
`)

	ref, err := LoadReference(path)
	require.NoError(t, err)

	assert.Equal(t, "custom-2", ref.Version)

	// Overlay entries merge by key on top of the built-in tables
	role, ok := ref.Role("mobile")
	require.True(t, ok)
	assert.Equal(t, []string{"swift", "kotlin"}, role.Required)

	band, ok := ref.Level("principal")
	require.True(t, ok)
	assert.Equal(t, 12.0, band.MinYears)
	assert.Equal(t, 30.0, band.MaxYears)

	// Built-in entries survive the overlay
	_, ok = ref.Role("backend")
	assert.True(t, ok)
	_, ok = ref.Level("senior")
	assert.True(t, ok)
	assert.Contains(t, ref.Synonyms, "golang")
}

func TestLoadReferenceInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name: "role without required keywords",
			content: `
roles:
  empty:
    name: Empty
    required: []
`,
			errMsg: `role "empty"`,
		},
		{
			name: "level band inverted",
			content: `
levels:
  broken:
    name: Broken
    minYears: 10
    maxYears: 2
`,
			errMsg: `level "broken"`,
		},
		{
			name: "verb tier out of range",
			content: `
verbTiers:
  exploded: 9
`,
			errMsg: "tier 9 out of range",
		},
		{
			name: "weight override for unknown category",
			content: `
roles:
  weird:
    name: Weird
    required:
      - go
    weights:
      nonsense: 1.5
`,
			errMsg: `weight override for unknown category "nonsense"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeReferenceFile(t, tt.content)
			_, err := LoadReference(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadReferenceMissingFile(t *testing.T) {
	_, err := LoadReference(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestReferenceStoreSwap(t *testing.T) {
	first := DefaultReference()
	store := NewReferenceStore(first)
	assert.Same(t, first, store.Current())

	second := DefaultReference()
	second.Version = "swapped"
	store.Swap(second)

	assert.Same(t, second, store.Current())
	assert.Equal(t, "swapped", store.Current().Version)

	// The original snapshot is untouched by the swap
	assert.Equal(t, "builtin-1", first.Version)
}
