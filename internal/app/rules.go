package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadRules reads a RawRequest from a YAML rules file. The file carries the
// same fields as the CLI flags:
//
//	include: [ "us:3", "de:2" ]
//	exclude: [ "jp" ]
//	prefer:  [ "us-nyc" ]
//	shun:    [ "us-lax-004" ]
//	rename:  [ "us-nyc-001=home" ]
//	max: 10
//	seed: 42
//	dns: [ "10.64.0.1" ]
func LoadRules(path string) (RawRequest, error) {
	var raw RawRequest
	data, err := os.ReadFile(path)
	if err != nil {
		return raw, fmt.Errorf("read rules file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return raw, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	return raw, nil
}

// MergeRequests layers an override (typically CLI flags) on top of a base
// (typically a rules file). List fields are concatenated; scalar fields from
// the override win when set.
func MergeRequests(base, override RawRequest) RawRequest {
	merged := base
	merged.Include = append(merged.Include, override.Include...)
	merged.Exclude = append(merged.Exclude, override.Exclude...)
	merged.Prefer = append(merged.Prefer, override.Prefer...)
	merged.Shun = append(merged.Shun, override.Shun...)
	merged.Reject = append(merged.Reject, override.Reject...)
	merged.Rename = append(merged.Rename, override.Rename...)

	if len(override.DNS) > 0 {
		merged.DNS = override.DNS
	}
	if override.Max != 0 {
		merged.Max = override.Max
	}
	if override.Seed != nil {
		merged.Seed = override.Seed
	}
	if override.Prefix != "" {
		merged.Prefix = override.Prefix
	}
	if override.Address != "" {
		merged.Address = override.Address
	}
	if override.PrivateKey != "" {
		merged.PrivateKey = override.PrivateKey
	}
	return merged
}
