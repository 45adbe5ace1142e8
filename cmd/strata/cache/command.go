// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

// Package cache implements "strata cache": inspection and management
// of the parse cache file.
package cache

import (
	"errors"
	"io/fs"

	"github.com/strata-build/strata/cmd/strata/cli"
	"github.com/strata-build/strata/lib/cachefile"
	"github.com/strata-build/strata/lib/project"
	"github.com/strata-build/strata/lib/registry"
)

// Command returns the "cache" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "cache",
		Summary: "Inspect and manage the parse cache",
		Description: `Inspect and manage the parse cache written by "strata parse".

The cache lives under the project's target directory (target/parse.cache
by default) and holds the complete previous pass: every parsed artifact
plus per-file fingerprints. These commands read it directly; none of
them trigger a parse.`,
		Subcommands: []*cli.Command{
			statusCommand(),
			listCommand(),
			showCommand(),
			verifyCommand(),
			diagCommand(),
			clearCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Check whether the next parse would reuse the cache",
				Command:     "strata cache status",
			},
			{
				Description: "List every cached artifact",
				Command:     "strata cache list",
			},
			{
				Description: "Show one cached model",
				Command:     "strata cache show model.jaffle.orders",
			},
		},
	}
}

// openRegistry loads the project in dir and decodes its cache file.
// A missing cache is NotFound with a pointer to "strata parse"; a
// present but undecodable cache is Internal.
func openRegistry(dir string) (*project.Project, *registry.Registry, cachefile.Info, error) {
	proj, err := project.Load(dir)
	if err != nil {
		return nil, nil, cachefile.Info{}, cli.Validation("loading project: %w", err)
	}

	reg, info, err := cachefile.Read(proj.CachePath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, cachefile.Info{}, cli.NotFound("no parse cache at %s", proj.CachePath()).
				WithHint("Run 'strata parse' to create one.")
		}
		return nil, nil, cachefile.Info{}, cli.Internal("reading parse cache: %w", err)
	}
	return proj, reg, info, nil
}
