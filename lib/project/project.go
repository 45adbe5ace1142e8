// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/strata-build/strata/lib/fingerprint"
)

// Project file names, in preference order. A project directory must
// contain exactly one of them.
const (
	FileNameYAML  = "strata.yaml"
	FileNameJSONC = "strata.jsonc"
)

// Project is the parsed project file. Paths are relative to Root.
type Project struct {
	// Name identifies the project and prefixes every unique id minted
	// from its files.
	Name string `yaml:"name" json:"name"`

	// Version is the project's own version string, not the tool's.
	Version string `yaml:"version,omitempty" json:"version,omitempty"`

	// Profile names the profiles.yaml entry holding connection
	// targets. Defaults to Name.
	Profile string `yaml:"profile,omitempty" json:"profile,omitempty"`

	// ModelPaths are the directories searched for models and schema
	// files. Default: ["models"].
	ModelPaths []string `yaml:"model-paths,omitempty" json:"model-paths,omitempty"`

	// MacroPaths are the directories searched for macros.
	// Default: ["macros"].
	MacroPaths []string `yaml:"macro-paths,omitempty" json:"macro-paths,omitempty"`

	// DocPaths are the directories searched for doc blocks. Defaults
	// to ModelPaths, so docs can live beside the models they describe.
	DocPaths []string `yaml:"doc-paths,omitempty" json:"doc-paths,omitempty"`

	// TargetPath is where build output and the parse cache live.
	// Default: "target".
	TargetPath string `yaml:"target-path,omitempty" json:"target-path,omitempty"`

	// Vars are project-level variables, overridable from the command
	// line. They are pinned: a change invalidates the parse cache.
	Vars map[string]any `yaml:"vars,omitempty" json:"vars,omitempty"`

	// PartialParse disables cache reuse when set to false. Unset
	// means enabled.
	PartialParse *bool `yaml:"partial-parse,omitempty" json:"partial-parse,omitempty"`

	// Root is the directory holding the project file.
	Root string `yaml:"-" json:"-"`

	// FileHash fingerprints the raw project file bytes.
	FileHash fingerprint.Hash `yaml:"-" json:"-"`
}

// Find locates the project file in directory. Exactly one of
// strata.yaml and strata.jsonc must exist.
func Find(directory string) (string, error) {
	yamlPath := filepath.Join(directory, FileNameYAML)
	jsoncPath := filepath.Join(directory, FileNameJSONC)

	_, yamlErr := os.Stat(yamlPath)
	_, jsoncErr := os.Stat(jsoncPath)

	switch {
	case yamlErr == nil && jsoncErr == nil:
		return "", fmt.Errorf("%s contains both %s and %s; keep one", directory, FileNameYAML, FileNameJSONC)
	case yamlErr == nil:
		return yamlPath, nil
	case jsoncErr == nil:
		return jsoncPath, nil
	default:
		return "", fmt.Errorf("no %s or %s in %s", FileNameYAML, FileNameJSONC, directory)
	}
}

// Load finds and parses the project file in directory, applies
// defaults, and validates the result.
func Load(directory string) (*Project, error) {
	path, err := Find(directory)
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile parses a specific project file. The format follows the
// extension: .yaml/.yml is YAML, .jsonc/.json is JSON extended with
// comments and trailing commas.
func LoadFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	parsed := &Project{}
	switch extension := filepath.Ext(path); extension {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, parsed); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".jsonc", ".json":
		if err := json.Unmarshal(jsonc.ToJSON(data), parsed); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("project file %s: unsupported extension %q", path, extension)
	}

	root, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	parsed.Root = root
	parsed.FileHash = fingerprint.HashFile(data)
	parsed.applyDefaults()

	if err := parsed.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project file %s:\n%w", path, err)
	}
	return parsed, nil
}

func (p *Project) applyDefaults() {
	if p.Profile == "" {
		p.Profile = p.Name
	}
	if len(p.ModelPaths) == 0 {
		p.ModelPaths = []string{"models"}
	}
	if len(p.MacroPaths) == 0 {
		p.MacroPaths = []string{"macros"}
	}
	if len(p.DocPaths) == 0 {
		p.DocPaths = slices.Clone(p.ModelPaths)
	}
	if p.TargetPath == "" {
		p.TargetPath = "target"
	}
}

// namePattern constrains project names: they appear inside dotted
// unique ids, so dots and uppercase are out.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Validate checks the project definition for errors. All problems are
// reported together.
func (p *Project) Validate() error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, fmt.Errorf("name is required"))
	} else if !namePattern.MatchString(p.Name) {
		errs = append(errs, fmt.Errorf("name %q must start with a lowercase letter and use only lowercase letters, digits, and underscores", p.Name))
	}

	for _, path := range p.ModelPaths {
		if err := validateSearchPath("model-paths", path); err != nil {
			errs = append(errs, err)
		}
	}
	for _, path := range p.MacroPaths {
		if err := validateSearchPath("macro-paths", path); err != nil {
			errs = append(errs, err)
		}
	}
	for _, path := range p.DocPaths {
		if err := validateSearchPath("doc-paths", path); err != nil {
			errs = append(errs, err)
		}
	}
	if err := validateSearchPath("target-path", p.TargetPath); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// validateSearchPath rejects paths that leave the project root.
func validateSearchPath(field, path string) error {
	if path == "" {
		return fmt.Errorf("%s: empty path", field)
	}
	if filepath.IsAbs(path) {
		return fmt.Errorf("%s: %q must be relative to the project root", field, path)
	}
	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%s: %q escapes the project root", field, path)
	}
	return nil
}

// PartialParseEnabled reports whether cache reuse is allowed for this
// project. Unset means enabled.
func (p *Project) PartialParseEnabled() bool {
	return p.PartialParse == nil || *p.PartialParse
}

// CachePath returns the parse cache location under the target
// directory.
func (p *Project) CachePath() string {
	return filepath.Join(p.Root, p.TargetPath, "parse.cache")
}
