// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package docs

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/strata-build/strata/cmd/strata/cli"
	"github.com/strata-build/strata/lib/docview"
)

type listParams struct {
	cli.JSONOutput
	Dir string `json:"project_dir" flag:"project-dir" desc:"project directory" default:"."`
}

type docEntry struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Summary string `json:"summary,omitempty"`
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List cached doc blocks",
		Description: `List every doc block in the cache with a one-line summary: the
text of its first heading, or of its first paragraph when there is
no heading.`,
		Usage:  "strata docs list [flags]",
		Params: func() any { return &params },
		Run: func(args []string) error {
			return runList(&params, args, os.Stdout)
		},
	}
}

func runList(params *listParams, args []string, stdout io.Writer) error {
	if len(args) > 0 {
		return cli.Validation("list takes no positional arguments, got %q", args[0])
	}

	_, reg, err := openDocs(params.Dir)
	if err != nil {
		return err
	}

	entries := make([]docEntry, 0, len(reg.Docs))
	for _, id := range slices.Sorted(maps.Keys(reg.Docs)) {
		doc := reg.Docs[id]
		entries = append(entries, docEntry{
			ID:      id,
			Path:    doc.OriginalPath,
			Summary: docview.Summary(doc.Contents),
		})
	}

	if done, err := params.EmitJSON(entries); done {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(stdout, "No docs in the cache.")
		return nil
	}

	writer := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tSUMMARY")
	for _, entry := range entries {
		summary := entry.Summary
		if summary == "" {
			summary = "-"
		}
		fmt.Fprintf(writer, "%s\t%s\n", entry.ID, summary)
	}
	return writer.Flush()
}
