// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

// Package docs implements "strata docs": browsing the doc blocks
// stored in the parse cache.
package docs

import (
	"errors"
	"io/fs"

	"github.com/strata-build/strata/cmd/strata/cli"
	"github.com/strata-build/strata/lib/cachefile"
	"github.com/strata-build/strata/lib/project"
	"github.com/strata-build/strata/lib/registry"
	"github.com/strata-build/strata/lib/resource"
)

// Command returns the "docs" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "docs",
		Summary: "Browse cached doc blocks",
		Description: `Browse the doc blocks captured by the last parse: one block per
markdown file found under the project's doc paths.

Both commands read the parse cache directly; run "strata parse" first.`,
		Subcommands: []*cli.Command{
			listCommand(),
			showCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "List every doc with its first line",
				Command:     "strata docs list",
			},
			{
				Description: "Render a doc in the terminal",
				Command:     "strata docs show overview",
			},
		},
	}
}

// openDocs loads the project in dir and decodes its cache file.
func openDocs(dir string) (*project.Project, *registry.Registry, error) {
	proj, err := project.Load(dir)
	if err != nil {
		return nil, nil, cli.Validation("loading project: %w", err)
	}

	reg, _, err := cachefile.Read(proj.CachePath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, cli.NotFound("no parse cache at %s", proj.CachePath()).
				WithHint("Run 'strata parse' to create one.")
		}
		return nil, nil, cli.Internal("reading parse cache: %w", err)
	}
	return proj, reg, nil
}

// resolveDoc finds a doc by unique id, or by bare name qualified with
// the project's package.
func resolveDoc(proj *project.Project, reg *registry.Registry, name string) (*resource.Doc, error) {
	if doc, ok := reg.Docs[name]; ok {
		return doc, nil
	}
	if doc, ok := reg.Docs["doc."+proj.Name+"."+name]; ok {
		return doc, nil
	}
	return nil, cli.NotFound("no doc %q in the cache", name).
		WithHint("Run 'strata docs list' to see available docs.")
}
