package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"bdr-ai/claimgate/pkg/claim"
)

// LoadBundle reads, validates, and seals the capability dictionary and
// boundary spec from the given YAML files. This is the only way policy enters
// the process; the returned Bundle is immutable for the process lifetime.
func LoadBundle(dictionaryPath, boundaryPath string) (*Bundle, error) {
	dict, dictHash, err := loadDictionary(dictionaryPath)
	if err != nil {
		return nil, err
	}

	spec, specHash, err := loadBoundary(boundaryPath)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		dictionary:     dict,
		boundary:       spec,
		dictionaryHash: dictHash,
		boundaryHash:   specHash,
		loadedAt:       time.Now(),
	}, nil
}

func loadDictionary(path string) (*CapabilityDictionary, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read capability dictionary %q: %w", path, err)
	}

	var dict CapabilityDictionary
	if err := yaml.Unmarshal(data, &dict); err != nil {
		return nil, "", fmt.Errorf("failed to parse capability dictionary %q: %w", path, err)
	}

	if err := NewValidator().ValidateDictionary(&dict); err != nil {
		return nil, "", fmt.Errorf("capability dictionary %q: %w", path, err)
	}

	return &dict, hashContent(data), nil
}

func loadBoundary(path string) (*BoundarySpec, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read boundary spec %q: %w", path, err)
	}

	var spec BoundarySpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, "", fmt.Errorf("failed to parse boundary spec %q: %w", path, err)
	}

	if err := NewValidator().ValidateBoundary(&spec); err != nil {
		return nil, "", fmt.Errorf("boundary spec %q: %w", path, err)
	}

	return &spec, hashContent(data), nil
}

// hashContent returns the hex-encoded SHA-256 hash of a policy document.
func hashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DefaultDictionary returns the built-in capability dictionary matching the
// four frozen input fields. It accepts all claim types and risk factors and
// bounds damage amounts to [0, 10,000,000] USD.
func DefaultDictionary() *CapabilityDictionary {
	minDamage := 0.0
	maxDamage := 10_000_000.0

	claimTypes := make([]string, 0, len(claim.Types()))
	for _, t := range claim.Types() {
		claimTypes = append(claimTypes, string(t))
	}
	riskFactors := make([]string, 0, len(claim.RiskFactors()))
	for _, r := range claim.RiskFactors() {
		riskFactors = append(riskFactors, string(r))
	}

	allCategories := []string{"Low", "Medium", "High"}
	admissible := make(map[string][]string, len(claimTypes))
	for _, t := range claimTypes {
		admissible[t] = allCategories
	}

	return &CapabilityDictionary{
		Version: "1.0.0",
		Fields: map[string]FieldCapability{
			"claim_type":      {Allowed: true, AllowedValues: claimTypes},
			"damage_amount":   {Allowed: true, Min: &minDamage, Max: &maxDamage},
			"injury_involved": {Allowed: true},
			"risk_factor":     {Allowed: true, AllowedValues: riskFactors},
		},
		AdmissibleCategories: admissible,
	}
}

// DefaultBoundarySpec returns the frozen decision boundaries from the
// versioned decision spec: damage thresholds 5k/15k/50k USD, risk weights
// 1.0/1.5/2.0, injury multiplier 1.8, and severity score thresholds 5/15.
func DefaultBoundarySpec() *BoundarySpec {
	return &BoundarySpec{
		Version: "1.0.0",
		DamageThresholds: DamageThresholds{
			Low:    5000,
			Medium: 15000,
			High:   50000,
		},
		DamageBandPoints: DamageBandPoints{
			Low:      2,
			Medium:   5,
			High:     10,
			VeryHigh: 20,
		},
		RiskWeights: map[string]float64{
			string(claim.RiskLow):    1.0,
			string(claim.RiskMedium): 1.5,
			string(claim.RiskHigh):   2.0,
		},
		InjuryMultiplier:    1.8,
		LiabilityMultiplier: 1.2,
		SeverityThresholds: SeverityThresholds{
			Low:    5,
			Medium: 15,
		},
	}
}
