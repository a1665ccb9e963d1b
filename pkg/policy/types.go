package policy

import (
	"time"

	"bdr-ai/claimgate/pkg/claim"
)

// FieldCapability declares whether a single input field is permitted and what
// values it may carry. Exactly one of AllowedValues or the Min/Max range is
// set for constrained fields; boolean fields set neither.
type FieldCapability struct {
	// Allowed must be true for the field to be accepted at all.
	Allowed bool `yaml:"allowed"`

	// AllowedValues enumerates the permitted values for string-typed fields.
	AllowedValues []string `yaml:"allowed_values,omitempty"`

	// Min is the inclusive lower bound for numeric fields.
	Min *float64 `yaml:"min,omitempty"`

	// Max is the inclusive upper bound for numeric fields.
	Max *float64 `yaml:"max,omitempty"`
}

// PermitsValue reports whether the given string value is within the field's
// enumerated value set. Fields without an enumeration permit any value.
func (fc *FieldCapability) PermitsValue(value string) bool {
	if len(fc.AllowedValues) == 0 {
		return true
	}
	for _, v := range fc.AllowedValues {
		if v == value {
			return true
		}
	}
	return false
}

// PermitsNumber reports whether the given numeric value is within the field's
// declared range. Unbounded sides always permit.
func (fc *FieldCapability) PermitsNumber(value float64) bool {
	if fc.Min != nil && value < *fc.Min {
		return false
	}
	if fc.Max != nil && value > *fc.Max {
		return false
	}
	return true
}

// CapabilityDictionary is the static allow-list of input fields and advisory
// actions. It is loaded once at process start and read-only thereafter.
type CapabilityDictionary struct {
	// Version identifies the dictionary revision (semantic version string).
	Version string `yaml:"version"`

	// Fields maps input field name to its capability declaration. A field
	// absent from this map is never accepted as input.
	Fields map[string]FieldCapability `yaml:"fields"`

	// AdmissibleCategories maps claim type to the advisory severity
	// categories the model is permitted to suggest for it. A suggestion
	// outside this set is a boundary violation.
	AdmissibleCategories map[string][]string `yaml:"admissible_categories"`
}

// Field returns the capability for the named field and whether it exists.
func (d *CapabilityDictionary) Field(name string) (FieldCapability, bool) {
	fc, ok := d.Fields[name]
	return fc, ok
}

// CategoryAdmissible reports whether the given advisory category is
// permitted for the claim type.
func (d *CapabilityDictionary) CategoryAdmissible(claimType claim.Type, category string) bool {
	allowed, ok := d.AdmissibleCategories[string(claimType)]
	if !ok {
		return false
	}
	for _, c := range allowed {
		if c == category {
			return true
		}
	}
	return false
}

// DamageThresholds are the frozen damage amount boundaries, in USD.
type DamageThresholds struct {
	Low    float64 `yaml:"low"`
	Medium float64 `yaml:"medium"`
	High   float64 `yaml:"high"`
}

// DamageBandPoints assigns the base severity points for each damage band.
type DamageBandPoints struct {
	Low      float64 `yaml:"low"`
	Medium   float64 `yaml:"medium"`
	High     float64 `yaml:"high"`
	VeryHigh float64 `yaml:"very_high"`
}

// SeverityThresholds are the composite score cutoffs separating the three
// advisory severity categories.
type SeverityThresholds struct {
	Low    float64 `yaml:"low"`
	Medium float64 `yaml:"medium"`
}

// BoundarySpec is the frozen decision boundary rule table. The advisory model
// evaluates exclusively against these constants; they are immutable at
// runtime.
type BoundarySpec struct {
	// Version identifies the boundary spec revision.
	Version string `yaml:"version"`

	// DamageThresholds separate the low/medium/high/very-high damage bands.
	DamageThresholds DamageThresholds `yaml:"damage_thresholds"`

	// DamageBandPoints are the base score contributions per damage band.
	DamageBandPoints DamageBandPoints `yaml:"damage_band_points"`

	// RiskWeights scale the score by declared risk factor.
	RiskWeights map[string]float64 `yaml:"risk_weights"`

	// InjuryMultiplier scales the score when an injury is involved.
	InjuryMultiplier float64 `yaml:"injury_multiplier"`

	// LiabilityMultiplier scales the score for liability claims.
	LiabilityMultiplier float64 `yaml:"liability_multiplier"`

	// SeverityThresholds classify the composite score into Low/Medium/High.
	SeverityThresholds SeverityThresholds `yaml:"severity_thresholds"`
}

// BasePoints returns the damage band base score for the given amount.
func (s *BoundarySpec) BasePoints(damageAmount float64) float64 {
	switch {
	case damageAmount < s.DamageThresholds.Low:
		return s.DamageBandPoints.Low
	case damageAmount < s.DamageThresholds.Medium:
		return s.DamageBandPoints.Medium
	case damageAmount < s.DamageThresholds.High:
		return s.DamageBandPoints.High
	default:
		return s.DamageBandPoints.VeryHigh
	}
}

// RiskWeight returns the score weight for the given risk factor, defaulting
// to 1.0 for unknown factors (unknown factors are rejected upstream by the
// governance validator).
func (s *BoundarySpec) RiskWeight(r claim.RiskFactor) float64 {
	if w, ok := s.RiskWeights[string(r)]; ok {
		return w
	}
	return 1.0
}

// Bundle is the sealed pair of capability dictionary and boundary spec. It is
// created once by LoadBundle (or NewBundle in tests) and never mutated; all
// pipeline invocations share it for unsynchronized concurrent reads.
type Bundle struct {
	dictionary *CapabilityDictionary
	boundary   *BoundarySpec

	// Content hashes of the source files, recorded for audit payloads and
	// used by the FreezeGuard to detect on-disk tampering.
	dictionaryHash string
	boundaryHash   string

	loadedAt time.Time
}

// NewBundle seals a dictionary and boundary spec into an immutable bundle.
// Both must already be validated.
func NewBundle(dict *CapabilityDictionary, spec *BoundarySpec) *Bundle {
	return &Bundle{
		dictionary: dict,
		boundary:   spec,
		loadedAt:   time.Now(),
	}
}

// Dictionary returns the sealed capability dictionary.
func (b *Bundle) Dictionary() *CapabilityDictionary { return b.dictionary }

// Boundary returns the sealed boundary spec.
func (b *Bundle) Boundary() *BoundarySpec { return b.boundary }

// DictionaryHash returns the SHA-256 hash of the dictionary source file, or
// empty if the bundle was constructed in memory.
func (b *Bundle) DictionaryHash() string { return b.dictionaryHash }

// BoundaryHash returns the SHA-256 hash of the boundary spec source file, or
// empty if the bundle was constructed in memory.
func (b *Bundle) BoundaryHash() string { return b.boundaryHash }

// LoadedAt returns when the bundle was sealed.
func (b *Bundle) LoadedAt() time.Time { return b.loadedAt }

// Reload always fails. Policy is loaded once at process start; any runtime
// mutation request is rejected.
func (b *Bundle) Reload() error {
	return ErrPolicyFrozen
}
