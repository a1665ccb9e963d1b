// Package config defines claimgate's configuration model and loading.
//
// Configuration is read from a YAML file, filled in with defaults, then
// overridden by CLAIMGATE_SECTION_FIELD environment variables, and finally
// validated. Policy content itself (the capability dictionary and decision
// boundary spec) is deliberately not part of this package; policy files are
// loaded read-only by pkg/policy and are immutable at runtime.
package config
