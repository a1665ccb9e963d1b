package policy

import (
	"fmt"
	"regexp"

	"bdr-ai/claimgate/pkg/claim"
)

var (
	// semverPattern validates semantic version strings (e.g. "1.0.0")
	semverPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+(-[a-zA-Z0-9.-]+)?$`)

	// knownCategories are the advisory severity categories the engine
	// understands. The dictionary may restrict per claim type but never
	// extend beyond these.
	knownCategories = map[string]bool{
		"Low":    true,
		"Medium": true,
		"High":   true,
	}

	// requiredFields are the input fields every dictionary must declare.
	requiredFields = []string{"claim_type", "damage_amount", "injury_involved", "risk_factor"}
)

// Validator validates capability dictionaries and boundary specs before they
// are sealed into a Bundle. It runs a structural pass (required fields and
// shapes) and, when that passes, a semantic pass (internal consistency).
type Validator struct{}

// NewValidator creates a new policy validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDictionary runs both validation passes on a capability dictionary.
func (v *Validator) ValidateDictionary(d *CapabilityDictionary) error {
	errs := NewErrorList()

	v.dictionaryStructural(d, errs)
	if !errs.HasErrorType(ErrorTypeStructural) {
		v.dictionarySemantic(d, errs)
	}

	return errs.ToError()
}

// ValidateBoundary runs both validation passes on a boundary spec.
func (v *Validator) ValidateBoundary(s *BoundarySpec) error {
	errs := NewErrorList()

	v.boundaryStructural(s, errs)
	if !errs.HasErrorType(ErrorTypeStructural) {
		v.boundarySemantic(s, errs)
	}

	return errs.ToError()
}

func (v *Validator) dictionaryStructural(d *CapabilityDictionary, errs *ErrorList) {
	if d.Version == "" {
		errs.Add(ErrorTypeStructural, "version", "missing required field")
	} else if !semverPattern.MatchString(d.Version) {
		errs.Add(ErrorTypeStructural, "version", fmt.Sprintf("%q is not a semantic version", d.Version))
	}

	if len(d.Fields) == 0 {
		errs.Add(ErrorTypeStructural, "fields", "dictionary declares no fields")
		return
	}

	for _, name := range requiredFields {
		if _, ok := d.Fields[name]; !ok {
			errs.Add(ErrorTypeStructural, "fields."+name, "required field is not declared")
		}
	}

	if len(d.AdmissibleCategories) == 0 {
		errs.Add(ErrorTypeStructural, "admissible_categories", "no admissible categories declared")
	}
}

func (v *Validator) dictionarySemantic(d *CapabilityDictionary, errs *ErrorList) {
	for name, fc := range d.Fields {
		path := "fields." + name
		if len(fc.AllowedValues) > 0 && (fc.Min != nil || fc.Max != nil) {
			errs.Add(ErrorTypeSemantic, path, "field declares both enumerated values and a numeric range")
		}
		if fc.Min != nil && fc.Max != nil && *fc.Min > *fc.Max {
			errs.Add(ErrorTypeSemantic, path, fmt.Sprintf("min %v exceeds max %v", *fc.Min, *fc.Max))
		}
	}

	for typeName, categories := range d.AdmissibleCategories {
		path := "admissible_categories." + typeName
		if _, err := claim.ParseType(typeName); err != nil {
			errs.Add(ErrorTypeSemantic, path, fmt.Sprintf("unknown claim type %q", typeName))
		}
		if len(categories) == 0 {
			errs.Add(ErrorTypeSemantic, path, "claim type admits no advisory categories")
		}
		for _, c := range categories {
			if !knownCategories[c] {
				errs.Add(ErrorTypeSemantic, path, fmt.Sprintf("unknown advisory category %q", c))
			}
		}
	}

	// Every claim type the dictionary accepts must have an admissible
	// category set, otherwise the advisory output can never pass governance.
	if fc, ok := d.Fields["claim_type"]; ok {
		for _, typeName := range fc.AllowedValues {
			if _, ok := d.AdmissibleCategories[typeName]; !ok {
				errs.Add(ErrorTypeSemantic, "admissible_categories",
					fmt.Sprintf("claim type %q is accepted but has no admissible categories", typeName))
			}
		}
	}
}

func (v *Validator) boundaryStructural(s *BoundarySpec, errs *ErrorList) {
	if s.Version == "" {
		errs.Add(ErrorTypeStructural, "version", "missing required field")
	} else if !semverPattern.MatchString(s.Version) {
		errs.Add(ErrorTypeStructural, "version", fmt.Sprintf("%q is not a semantic version", s.Version))
	}

	if len(s.RiskWeights) == 0 {
		errs.Add(ErrorTypeStructural, "risk_weights", "missing required field")
	}
	if s.InjuryMultiplier == 0 {
		errs.Add(ErrorTypeStructural, "injury_multiplier", "missing required field")
	}
	if s.DamageThresholds == (DamageThresholds{}) {
		errs.Add(ErrorTypeStructural, "damage_thresholds", "missing required field")
	}
	if s.SeverityThresholds == (SeverityThresholds{}) {
		errs.Add(ErrorTypeStructural, "severity_thresholds", "missing required field")
	}
}

func (v *Validator) boundarySemantic(s *BoundarySpec, errs *ErrorList) {
	t := s.DamageThresholds
	if !(t.Low < t.Medium && t.Medium < t.High) {
		errs.Add(ErrorTypeSemantic, "damage_thresholds",
			fmt.Sprintf("thresholds must be strictly increasing, got %v < %v < %v", t.Low, t.Medium, t.High))
	}

	p := s.DamageBandPoints
	if !(p.Low < p.Medium && p.Medium < p.High && p.High < p.VeryHigh) {
		errs.Add(ErrorTypeSemantic, "damage_band_points",
			"band points must be strictly increasing across bands")
	}

	for _, r := range claim.RiskFactors() {
		w, ok := s.RiskWeights[string(r)]
		if !ok {
			errs.Add(ErrorTypeSemantic, "risk_weights."+string(r), "missing weight for risk factor")
			continue
		}
		if w <= 0 {
			errs.Add(ErrorTypeSemantic, "risk_weights."+string(r), fmt.Sprintf("weight must be positive, got %v", w))
		}
	}
	for name := range s.RiskWeights {
		if _, err := claim.ParseRiskFactor(name); err != nil {
			errs.Add(ErrorTypeSemantic, "risk_weights."+name, "unknown risk factor")
		}
	}

	if s.InjuryMultiplier < 1 {
		errs.Add(ErrorTypeSemantic, "injury_multiplier",
			fmt.Sprintf("multiplier must be >= 1, got %v", s.InjuryMultiplier))
	}
	if s.LiabilityMultiplier != 0 && s.LiabilityMultiplier < 1 {
		errs.Add(ErrorTypeSemantic, "liability_multiplier",
			fmt.Sprintf("multiplier must be >= 1, got %v", s.LiabilityMultiplier))
	}

	if s.SeverityThresholds.Low >= s.SeverityThresholds.Medium {
		errs.Add(ErrorTypeSemantic, "severity_thresholds",
			fmt.Sprintf("low threshold %v must be below medium threshold %v",
				s.SeverityThresholds.Low, s.SeverityThresholds.Medium))
	}
}
