// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/strata-build/strata/cmd/strata/cli"
	"github.com/strata-build/strata/lib/registry"
)

type listParams struct {
	cli.JSONOutput
	Dir      string `json:"project_dir" flag:"project-dir" desc:"project directory" default:"."`
	Nodes    bool   `json:"nodes"       flag:"nodes"       desc:"list nodes"`
	Sources  bool   `json:"sources"     flag:"sources"     desc:"list source tables"`
	Docs     bool   `json:"docs"        flag:"docs"        desc:"list docs"`
	Macros   bool   `json:"macros"      flag:"macros"      desc:"list macros"`
	Patches  bool   `json:"patches"     flag:"patches"     desc:"list patches"`
	Files    bool   `json:"files"       flag:"files"       desc:"list tracked files"`
	Disabled bool   `json:"disabled"    flag:"disabled"    desc:"list disabled nodes"`
}

// selectedAll reports whether no kind filter was given, which means
// every kind is listed.
func (p *listParams) selectedAll() bool {
	return !p.Nodes && !p.Sources && !p.Docs && !p.Macros && !p.Patches && !p.Files && !p.Disabled
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List the cache's artifacts",
		Description: `List the artifacts held in the parse cache, one row per entry.

With no kind flags, every kind is listed. Passing one or more kind
flags restricts the listing to those kinds. Disabled nodes are listed
separately from active ones because the same unique id can carry
several disabled variants.`,
		Usage:  "strata cache list [flags]",
		Params: func() any { return &params },
		Run: func(args []string) error {
			return runList(&params, args, os.Stdout)
		},
		Examples: []cli.Example{
			{
				Description: "Every cached artifact",
				Command:     "strata cache list",
			},
			{
				Description: "Only models and their schema patches",
				Command:     "strata cache list --nodes --patches",
			},
			{
				Description: "Tracked files as JSON",
				Command:     "strata cache list --files --json",
			},
		},
	}
}

// listEntry is one row of output.
type listEntry struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	Path string `json:"path,omitempty"`
}

func runList(params *listParams, args []string, stdout io.Writer) error {
	if len(args) > 0 {
		return cli.Validation("list takes no positional arguments, got %q", args[0])
	}

	_, reg, _, err := openRegistry(params.Dir)
	if err != nil {
		return err
	}

	entries := collectEntries(params, reg)

	if done, err := params.EmitJSON(entries); done {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(stdout, "Nothing matched.")
		return nil
	}

	writer := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "KIND\tID\tPATH")
	for _, entry := range entries {
		path := entry.Path
		if path == "" {
			path = "-"
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\n", entry.Kind, entry.ID, path)
	}
	return writer.Flush()
}

// collectEntries flattens the selected registry tables into sorted
// rows, grouped by kind in a fixed order.
func collectEntries(params *listParams, reg *registry.Registry) []listEntry {
	all := params.selectedAll()
	var entries []listEntry

	if all || params.Nodes {
		for _, id := range slices.Sorted(maps.Keys(reg.Nodes)) {
			entries = append(entries, listEntry{Kind: "node", ID: id, Path: reg.Nodes[id].OriginalPath})
		}
	}
	if all || params.Sources {
		for _, id := range slices.Sorted(maps.Keys(reg.Sources)) {
			entries = append(entries, listEntry{Kind: "source", ID: id, Path: reg.Sources[id].OriginalPath})
		}
	}
	if all || params.Docs {
		for _, id := range slices.Sorted(maps.Keys(reg.Docs)) {
			entries = append(entries, listEntry{Kind: "doc", ID: id, Path: reg.Docs[id].OriginalPath})
		}
	}
	if all || params.Macros {
		for _, id := range slices.Sorted(maps.Keys(reg.Macros)) {
			entries = append(entries, listEntry{Kind: "macro", ID: id, Path: reg.Macros[id].OriginalPath})
		}
	}
	if all || params.Patches {
		for _, name := range slices.Sorted(maps.Keys(reg.Patches)) {
			entries = append(entries, listEntry{Kind: "patch", ID: name, Path: reg.Patches[name].OriginalPath})
		}
	}
	if all || params.Disabled {
		for _, id := range slices.Sorted(maps.Keys(reg.Disabled)) {
			for _, variant := range reg.Disabled[id] {
				entries = append(entries, listEntry{Kind: "disabled", ID: id, Path: variant.OriginalPath})
			}
		}
	}
	if all || params.Files {
		for _, key := range slices.Sorted(maps.Keys(reg.Files)) {
			entries = append(entries, listEntry{Kind: "file", ID: key})
		}
	}
	return entries
}
