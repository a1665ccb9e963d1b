package policy

import (
	"strings"
	"testing"
)

func TestValidateDictionary_Default(t *testing.T) {
	v := NewValidator()
	if err := v.ValidateDictionary(DefaultDictionary()); err != nil {
		t.Fatalf("default dictionary should validate: %v", err)
	}
}

func TestValidateDictionary_MissingRequiredField(t *testing.T) {
	d := DefaultDictionary()
	delete(d.Fields, "damage_amount")

	err := NewValidator().ValidateDictionary(d)
	if err == nil {
		t.Fatal("expected validation error for missing damage_amount")
	}
	if !strings.Contains(err.Error(), "fields.damage_amount") {
		t.Errorf("error should name the missing field, got: %v", err)
	}
}

func TestValidateDictionary_BadVersion(t *testing.T) {
	d := DefaultDictionary()
	d.Version = "not-a-version"

	err := NewValidator().ValidateDictionary(d)
	if err == nil {
		t.Fatal("expected validation error for bad version")
	}
}

func TestValidateDictionary_UnknownCategory(t *testing.T) {
	d := DefaultDictionary()
	d.AdmissibleCategories["Auto"] = []string{"Low", "Extreme"}

	err := NewValidator().ValidateDictionary(d)
	if err == nil {
		t.Fatal("expected validation error for unknown category")
	}
	if !strings.Contains(err.Error(), "Extreme") {
		t.Errorf("error should name the unknown category, got: %v", err)
	}
}

func TestValidateDictionary_AcceptedTypeWithoutCategories(t *testing.T) {
	d := DefaultDictionary()
	delete(d.AdmissibleCategories, "Health")

	err := NewValidator().ValidateDictionary(d)
	if err == nil {
		t.Fatal("expected validation error when an accepted claim type has no categories")
	}
}

func TestValidateDictionary_InvertedRange(t *testing.T) {
	d := DefaultDictionary()
	lo, hi := 100.0, 10.0
	d.Fields["damage_amount"] = FieldCapability{Allowed: true, Min: &lo, Max: &hi}

	err := NewValidator().ValidateDictionary(d)
	if err == nil {
		t.Fatal("expected validation error for min > max")
	}
}

func TestValidateBoundary_Default(t *testing.T) {
	if err := NewValidator().ValidateBoundary(DefaultBoundarySpec()); err != nil {
		t.Fatalf("default boundary spec should validate: %v", err)
	}
}

func TestValidateBoundary_UnorderedThresholds(t *testing.T) {
	s := DefaultBoundarySpec()
	s.DamageThresholds = DamageThresholds{Low: 50000, Medium: 15000, High: 5000}

	err := NewValidator().ValidateBoundary(s)
	if err == nil {
		t.Fatal("expected validation error for unordered thresholds")
	}
}

func TestValidateBoundary_MissingRiskWeight(t *testing.T) {
	s := DefaultBoundarySpec()
	delete(s.RiskWeights, "medium")

	err := NewValidator().ValidateBoundary(s)
	if err == nil {
		t.Fatal("expected validation error for missing risk weight")
	}
}

func TestValidateBoundary_BadMultiplier(t *testing.T) {
	s := DefaultBoundarySpec()
	s.InjuryMultiplier = 0.5

	err := NewValidator().ValidateBoundary(s)
	if err == nil {
		t.Fatal("expected validation error for injury multiplier below 1")
	}
}

func TestValidateBoundary_SeverityThresholdOrder(t *testing.T) {
	s := DefaultBoundarySpec()
	s.SeverityThresholds = SeverityThresholds{Low: 15, Medium: 5}

	err := NewValidator().ValidateBoundary(s)
	if err == nil {
		t.Fatal("expected validation error for inverted severity thresholds")
	}
}
