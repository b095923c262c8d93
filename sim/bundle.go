package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PolicyBundle holds unified policy configuration, loadable from a
// YAML file. Nil pointer fields mean "not set in YAML" — they do not
// override CLI defaults. String fields use empty string for "not set".
type PolicyBundle struct {
	Placement   PlacementConfig `yaml:"placement"`
	VMSelection string          `yaml:"vm_selection"`
	Migration   MigrationConfig `yaml:"migration"`
}

// PlacementConfig selects the placement policy.
type PlacementConfig struct {
	Policy string `yaml:"policy"`
}

// MigrationConfig holds migration trigger thresholds.
type MigrationConfig struct {
	UnderUtilizationThreshold *float64 `yaml:"under_utilization_threshold"`
	OverUtilizationThreshold  *float64 `yaml:"over_utilization_threshold"`
}

// Default migration thresholds, matching the common static-threshold
// configuration of the reference policies.
const (
	DefaultUnderUtilizationThreshold = 0.35
	DefaultOverUtilizationThreshold  = 0.7
)

// LoadPolicyBundle reads and parses a YAML policy configuration file.
func LoadPolicyBundle(path string) (*PolicyBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy config: %w", err)
	}
	var bundle PolicyBundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parsing policy config: %w", err)
	}
	return &bundle, nil
}

// ValidPlacementPolicies is the set of recognized placement policy
// names. Shared by Validate() and NewPlacementPolicy callers.
var ValidPlacementPolicies = map[string]bool{
	"":                        true,
	PolicyFewestVMs:           true,
	PolicyRoundRobinSocial:    true,
	PolicyBestFitSocialCredit: true,
}

// ValidVMSelectionPolicies is the set of recognized VM-selection
// policy names.
var ValidVMSelectionPolicies = map[string]bool{
	"":                  true,
	VMSelectionFirstFit: true,
	VMSelectionSmallest: true,
}

// Validate checks that all policy names and threshold ranges in the
// bundle are valid. Threshold violations wrap ErrInvalidThreshold:
// they are configuration-time failures, never tick-time ones.
func (b *PolicyBundle) Validate() error {
	if !ValidPlacementPolicies[b.Placement.Policy] {
		return fmt.Errorf("unknown placement policy %q", b.Placement.Policy)
	}
	if !ValidVMSelectionPolicies[b.VMSelection] {
		return fmt.Errorf("unknown vm selection policy %q", b.VMSelection)
	}
	under, over := b.Thresholds(DefaultUnderUtilizationThreshold, DefaultOverUtilizationThreshold)
	return validateThresholds(under, over)
}

// Thresholds returns the bundle's thresholds, falling back to the
// given defaults for unset fields.
func (b *PolicyBundle) Thresholds(defaultUnder, defaultOver float64) (under, over float64) {
	under, over = defaultUnder, defaultOver
	if b.Migration.UnderUtilizationThreshold != nil {
		under = *b.Migration.UnderUtilizationThreshold
	}
	if b.Migration.OverUtilizationThreshold != nil {
		over = *b.Migration.OverUtilizationThreshold
	}
	return under, over
}
