// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"fmt"
	"maps"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseVars parses the --vars command line value, an inline YAML
// mapping such as "{start_date: 2026-01-01, full_refresh: true}".
// An empty value yields nil.
func ParseVars(value string) (map[string]any, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	var parsed map[string]any
	if err := yaml.Unmarshal([]byte(value), &parsed); err != nil {
		return nil, fmt.Errorf("parsing --vars: %w", err)
	}
	return parsed, nil
}

// MergeVars overlays command line overrides onto the project's vars.
// The result is never nil, so an absent var set and an empty one
// fingerprint identically.
func MergeVars(projectVars, overrides map[string]any) map[string]any {
	merged := make(map[string]any, len(projectVars)+len(overrides))
	maps.Copy(merged, projectVars)
	maps.Copy(merged, overrides)
	return merged
}
