// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"io/fs"

	"github.com/spf13/pflag"

	"github.com/strata-build/strata/lib/loader"
	"github.com/strata-build/strata/lib/project"
)

// ProjectConfig carries the flags shared by every project-scoped
// command: where the project lives, where profiles live, which
// connection target to pin, and command-line variable overrides.
// It implements [FlagBinder], so params structs include it as a field
// and get the flag surface plus the [ProjectConfig.Load] resolver.
type ProjectConfig struct {
	ProjectDir  string
	ProfilesDir string
	Target      string
	Vars        string
}

// AddFlags binds the shared project flags, satisfying [FlagBinder].
func (c *ProjectConfig) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.ProjectDir, "project-dir", ".",
		"directory holding the project file")
	flagSet.StringVar(&c.ProfilesDir, "profiles-dir", "",
		"directory holding profiles.yaml (default: STRATA_PROFILES_DIR or ~/.strata)")
	flagSet.StringVarP(&c.Target, "target", "t", "",
		"profile target to pin (default: the profile's default target)")
	flagSet.StringVar(&c.Vars, "vars", "",
		"YAML mapping of variable overrides")
}

// Load resolves the configured project, target, and var overrides into
// loader options. The returned options carry no logger; callers attach
// one before constructing the loader.
func (c *ProjectConfig) Load() (loader.Options, error) {
	proj, err := project.Load(c.ProjectDir)
	if err != nil {
		return loader.Options{}, Validation("loading project: %w", err)
	}

	overrides, err := project.ParseVars(c.Vars)
	if err != nil {
		return loader.Options{}, Validation("%w", err)
	}

	target, err := c.selectTarget(proj)
	if err != nil {
		return loader.Options{}, err
	}

	return loader.Options{
		Project: proj,
		Target:  target,
		Vars:    overrides,
	}, nil
}

// selectTarget resolves the profile target. A missing profiles.yaml is
// tolerated: parsing needs no warehouse connection, so a project
// without profiles parses with an unpinned target. An explicit
// --target with no profiles file is still an error, because the caller
// asked for something that cannot be honored.
func (c *ProjectConfig) selectTarget(proj *project.Project) (*project.Target, error) {
	directory := c.ProfilesDir
	if directory == "" {
		directory = project.DefaultProfilesDir()
	}

	profiles, err := project.LoadProfiles(directory)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if c.Target != "" {
				return nil, Validation("--target %s: no %s in %s", c.Target, project.ProfilesFileName, directory)
			}
			return nil, nil
		}
		return nil, Validation("loading profiles: %w", err)
	}

	target, err := profiles.SelectTarget(proj.Profile, c.Target)
	if err != nil {
		return nil, Validation("%w", err)
	}
	return target, nil
}
