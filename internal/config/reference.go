package config

import (
	"fmt"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// RoleProfile defines the keyword expectations for one target role.
// Weights optionally override per-category multipliers (applied to the raw
// category total before the bonus clamp).
type RoleProfile struct {
	Name      string             `mapstructure:"name" json:"name"`
	Required  []string           `mapstructure:"required" json:"required" validate:"min=1,dive,required"`
	Preferred []string           `mapstructure:"preferred" json:"preferred" validate:"dive,required"`
	Weights   map[string]float64 `mapstructure:"weights" json:"weights,omitempty" validate:"omitempty,dive,gt=0"`
}

// LevelBand is an inclusive year range for one experience tier. Adjacent
// bands overlap at their boundary on purpose: a candidate near a boundary
// scores full credit against either adjacent level.
type LevelBand struct {
	Name     string  `mapstructure:"name" json:"name"`
	MinYears float64 `mapstructure:"minYears" json:"minYears" validate:"gte=0"`
	MaxYears float64 `mapstructure:"maxYears" json:"maxYears" validate:"gtefield=MinYears"`
}

// CategoryLimits holds the two ceilings of one scoring category. BonusMax is
// deliberately above Max so a strong category can compensate elsewhere; the
// grand total is capped at 100 after summation.
type CategoryLimits struct {
	Max      float64 `mapstructure:"max" json:"max" validate:"gt=0"`
	BonusMax float64 `mapstructure:"bonusMax" json:"bonusMax" validate:"gtefield=Max"`
}

// Reference is the static scoring reference data: synonym table, verb tiers,
// role profiles, level bands, and category ceilings. A Reference is immutable
// after LoadReference returns; serve mode swaps whole snapshots, never fields.
type Reference struct {
	Version    string                    `mapstructure:"version" json:"version"`
	Synonyms   map[string][]string       `mapstructure:"synonyms" json:"synonyms"`
	VerbTiers  map[string]int            `mapstructure:"verbTiers" json:"verbTiers"`
	Roles      map[string]RoleProfile    `mapstructure:"roles" json:"roles"`
	Levels     map[string]LevelBand      `mapstructure:"levels" json:"levels"`
	Categories map[string]CategoryLimits `mapstructure:"categories" json:"categories"`
}

// referenceOverlay is the shape of a user-provided reference file. Every
// section is optional; present sections replace the built-in entries by key.
type referenceOverlay struct {
	Version    string                    `mapstructure:"version"`
	Synonyms   map[string][]string       `mapstructure:"synonyms"`
	VerbTiers  map[string]int            `mapstructure:"verbTiers"`
	Roles      map[string]RoleProfile    `mapstructure:"roles"`
	Levels     map[string]LevelBand      `mapstructure:"levels"`
	Categories map[string]CategoryLimits `mapstructure:"categories"`
}

// LoadReference builds the reference snapshot from the built-in tables,
// overlaying entries from the given YAML file when path is non-empty.
func LoadReference(path string) (*Reference, error) {
	ref := DefaultReference()

	if path != "" {
		v := viper.New()
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read reference file %s: %w", path, err)
		}

		var overlay referenceOverlay
		if err := v.Unmarshal(&overlay); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reference file %s: %w", path, err)
		}

		ref.merge(&overlay)
	}

	if err := ref.validate(); err != nil {
		return nil, fmt.Errorf("invalid reference data: %w", err)
	}

	return ref, nil
}

// merge overlays per-key entries from a user file onto the built-in tables.
func (r *Reference) merge(o *referenceOverlay) {
	if o.Version != "" {
		r.Version = o.Version
	}
	for term, variants := range o.Synonyms {
		r.Synonyms[term] = variants
	}
	for verb, tier := range o.VerbTiers {
		r.VerbTiers[verb] = tier
	}
	for id, role := range o.Roles {
		r.Roles[id] = role
	}
	for id, band := range o.Levels {
		r.Levels[id] = band
	}
	for id, limits := range o.Categories {
		r.Categories[id] = limits
	}
}

// validate checks structural soundness of the assembled tables.
func (r *Reference) validate() error {
	validate := validator.New()

	if len(r.Roles) == 0 {
		return fmt.Errorf("at least one role profile is required")
	}
	if len(r.Levels) == 0 {
		return fmt.Errorf("at least one level band is required")
	}
	if len(r.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}

	for id, role := range r.Roles {
		if err := validate.Struct(role); err != nil {
			return fmt.Errorf("role %q: %w", id, err)
		}
		for category := range role.Weights {
			if _, ok := r.Categories[category]; !ok {
				return fmt.Errorf("role %q: weight override for unknown category %q", id, category)
			}
		}
	}

	for id, band := range r.Levels {
		if err := validate.Struct(band); err != nil {
			return fmt.Errorf("level %q: %w", id, err)
		}
	}

	for id, limits := range r.Categories {
		if err := validate.Struct(limits); err != nil {
			return fmt.Errorf("category %q: %w", id, err)
		}
	}

	for verb, tier := range r.VerbTiers {
		if tier < 0 || tier > 4 {
			return fmt.Errorf("verb %q: tier %d out of range [0,4]", verb, tier)
		}
	}

	return nil
}

// Role returns the profile for the given role id.
func (r *Reference) Role(id string) (RoleProfile, bool) {
	role, ok := r.Roles[id]
	return role, ok
}

// Level returns the band for the given level id.
func (r *Reference) Level(id string) (LevelBand, bool) {
	band, ok := r.Levels[id]
	return band, ok
}

// RoleIDs returns the configured role ids in unspecified order.
func (r *Reference) RoleIDs() []string {
	ids := make([]string, 0, len(r.Roles))
	for id := range r.Roles {
		ids = append(ids, id)
	}
	return ids
}

// LevelIDs returns the configured level ids in unspecified order.
func (r *Reference) LevelIDs() []string {
	ids := make([]string, 0, len(r.Levels))
	for id := range r.Levels {
		ids = append(ids, id)
	}
	return ids
}

// ReferenceStore holds the current reference snapshot and allows atomic
// replacement in serve mode. Readers always see one consistent snapshot.
type ReferenceStore struct {
	current atomic.Pointer[Reference]
}

// NewReferenceStore creates a store seeded with the given snapshot.
func NewReferenceStore(ref *Reference) *ReferenceStore {
	s := &ReferenceStore{}
	s.current.Store(ref)
	return s
}

// Current returns the active snapshot.
func (s *ReferenceStore) Current() *Reference {
	return s.current.Load()
}

// Swap atomically replaces the active snapshot.
func (s *ReferenceStore) Swap(ref *Reference) {
	s.current.Store(ref)
}
