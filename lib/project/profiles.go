// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProfilesFileName is the file read from the profiles directory.
const ProfilesFileName = "profiles.yaml"

// Profiles maps profile names to their connection targets. Profiles
// live outside the repository because they carry credentials.
type Profiles map[string]*Profile

// Profile is one named entry in profiles.yaml: a default target name
// and a set of connection targets.
type Profile struct {
	Target  string             `yaml:"target" json:"target"`
	Outputs map[string]*Target `yaml:"outputs" json:"outputs"`
}

// Target is one warehouse connection. String fields support
// ${VAR} and ${VAR:-default} expansion from the environment, so
// credentials stay out of the file.
type Target struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host,omitempty" json:"host,omitempty"`
	Port     int    `yaml:"port,omitempty" json:"port,omitempty"`
	User     string `yaml:"user,omitempty" json:"user,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	Database string `yaml:"database,omitempty" json:"database,omitempty"`
	Schema   string `yaml:"schema,omitempty" json:"schema,omitempty"`
	Threads  int    `yaml:"threads,omitempty" json:"threads,omitempty"`
}

// DefaultProfilesDir returns the profiles directory:
// STRATA_PROFILES_DIR if set, otherwise ~/.strata.
func DefaultProfilesDir() string {
	if directory := os.Getenv("STRATA_PROFILES_DIR"); directory != "" {
		return directory
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".strata"
	}
	return filepath.Join(home, ".strata")
}

// LoadProfiles reads profiles.yaml from directory and expands
// environment references in every target.
func LoadProfiles(directory string) (Profiles, error) {
	path := filepath.Join(directory, ProfilesFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var profiles Profiles
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	for _, profile := range profiles {
		for _, target := range profile.Outputs {
			if target != nil {
				target.expandVariables()
			}
		}
	}
	return profiles, nil
}

// SelectTarget resolves the connection target for the named profile.
// An empty targetName selects the profile's default target.
func (p Profiles) SelectTarget(profileName, targetName string) (*Target, error) {
	profile, ok := p[profileName]
	if !ok {
		return nil, fmt.Errorf("profile %q not found in %s (available: %s)",
			profileName, ProfilesFileName, joinNames(profileKeys(p)))
	}
	if len(profile.Outputs) == 0 {
		return nil, fmt.Errorf("profile %q has no outputs", profileName)
	}

	if targetName == "" {
		targetName = profile.Target
	}
	if targetName == "" {
		return nil, fmt.Errorf("profile %q does not name a default target; pass --target", profileName)
	}

	target, ok := profile.Outputs[targetName]
	if !ok || target == nil {
		return nil, fmt.Errorf("target %q not found in profile %q (available: %s)",
			targetName, profileName, joinNames(outputKeys(profile)))
	}
	return target, nil
}

func profileKeys(p Profiles) []string {
	keys := make([]string, 0, len(p))
	for name := range p {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

func outputKeys(profile *Profile) []string {
	keys := make([]string, 0, len(profile.Outputs))
	for name := range profile.Outputs {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// varPattern matches ${VAR} and ${VAR:-default} references.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVariables expands environment references in the target's
// string fields.
func (t *Target) expandVariables() {
	t.Host = expandVars(t.Host)
	t.User = expandVars(t.User)
	t.Password = expandVars(t.Password)
	t.Database = expandVars(t.Database)
	t.Schema = expandVars(t.Schema)
}

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// ValidTargetTypes lists the warehouse adapters the tool knows how to
// connect to. Validation is advisory: parsing does not open
// connections, so an unknown type only fails at build time.
var ValidTargetTypes = []string{"postgres", "snowflake", "bigquery", "duckdb"}

// Validate checks the target for obvious mistakes.
func (t *Target) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target has no type (want one of %v)", ValidTargetTypes)
	}
	if !slices.Contains(ValidTargetTypes, t.Type) {
		return fmt.Errorf("unknown target type %q (want one of %v)", t.Type, ValidTargetTypes)
	}
	return nil
}
