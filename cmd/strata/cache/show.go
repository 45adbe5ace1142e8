// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"golang.org/x/term"

	"github.com/strata-build/strata/cmd/strata/cli"
	"github.com/strata-build/strata/lib/resource"
)

type showParams struct {
	cli.JSONOutput
	Dir string `json:"project_dir" flag:"project-dir" desc:"project directory" default:"."`
}

func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show one cached artifact",
		Description: `Show a single cached artifact by unique id.

Nodes, sources, docs, and macros are addressed by their unique id
(for example model.jaffle.orders). Patches are addressed by the bare
resource name they attach to. Disabled nodes are found under their
unique id; every disabled variant is shown.

SQL bodies are syntax highlighted when stdout is a terminal.`,
		Usage:  "strata cache show <unique-id> [flags]",
		Params: func() any { return &params },
		Run: func(args []string) error {
			color := term.IsTerminal(int(os.Stdout.Fd()))
			return runShow(&params, args, os.Stdout, color)
		},
		Examples: []cli.Example{
			{
				Description: "Show a cached model with its SQL",
				Command:     "strata cache show model.jaffle.orders",
			},
			{
				Description: "Show a source table as JSON",
				Command:     "strata cache show source.jaffle.stripe.payments --json",
			},
		},
	}
}

func runShow(params *showParams, args []string, stdout io.Writer, color bool) error {
	if len(args) != 1 {
		return cli.Validation("show takes exactly one unique id, got %d arguments", len(args))
	}
	id := args[0]

	_, reg, _, err := openRegistry(params.Dir)
	if err != nil {
		return err
	}

	if node, ok := reg.Nodes[id]; ok {
		if done, err := params.EmitJSON(node); done {
			return err
		}
		printNode(stdout, node, color)
		return nil
	}
	if table, ok := reg.Sources[id]; ok {
		if done, err := params.EmitJSON(table); done {
			return err
		}
		printSource(stdout, table)
		return nil
	}
	if doc, ok := reg.Docs[id]; ok {
		if done, err := params.EmitJSON(doc); done {
			return err
		}
		printHeader(stdout, "doc", doc.UniqueID, doc.OriginalPath)
		fmt.Fprintf(stdout, "\n%s\n", strings.TrimRight(doc.Contents, "\n"))
		return nil
	}
	if macro, ok := reg.Macros[id]; ok {
		if done, err := params.EmitJSON(macro); done {
			return err
		}
		printHeader(stdout, "macro", macro.UniqueID, macro.OriginalPath)
		printSQL(stdout, macro.Body, color)
		return nil
	}
	if variants, ok := reg.Disabled[id]; ok {
		if done, err := params.EmitJSON(variants); done {
			return err
		}
		fmt.Fprintf(stdout, "%s is disabled (%d variant(s))\n", id, len(variants))
		for i, variant := range variants {
			fmt.Fprintf(stdout, "\n-- variant %d: %s\n", i+1, variant.OriginalPath)
			printSQL(stdout, variant.RawSQL, color)
		}
		return nil
	}
	if patch, ok := reg.Patches[id]; ok {
		if done, err := params.EmitJSON(patch); done {
			return err
		}
		printPatch(stdout, patch)
		return nil
	}

	return cli.NotFound("no artifact %q in the cache", id).
		WithHint("Run 'strata cache list' to see available ids.")
}

func printHeader(w io.Writer, kind, id, path string) {
	fmt.Fprintf(w, "%s %s\n", kind, id)
	if path != "" {
		fmt.Fprintf(w, "path: %s\n", path)
	}
}

func printNode(w io.Writer, node *resource.Node, color bool) {
	printHeader(w, string(node.Kind), node.UniqueID, node.OriginalPath)
	if len(node.Tags) > 0 {
		fmt.Fprintf(w, "tags: %s\n", strings.Join(node.Tags, ", "))
	}
	if node.Description != "" {
		fmt.Fprintf(w, "description: %s\n", node.Description)
	}
	if !node.Enabled {
		fmt.Fprintln(w, "enabled: false")
	}
	if node.RawSQL != "" {
		printSQL(w, node.RawSQL, color)
	}
}

func printSource(w io.Writer, table *resource.SourceTable) {
	printHeader(w, "source", table.UniqueID, table.OriginalPath)
	fmt.Fprintf(w, "source: %s\n", table.SourceName)
	if table.Database != "" {
		fmt.Fprintf(w, "database: %s\n", table.Database)
	}
	if table.Schema != "" {
		fmt.Fprintf(w, "schema: %s\n", table.Schema)
	}
	if table.Loader != "" {
		fmt.Fprintf(w, "loader: %s\n", table.Loader)
	}
	if table.Description != "" {
		fmt.Fprintf(w, "description: %s\n", table.Description)
	}
}

func printPatch(w io.Writer, patch *resource.Patch) {
	printHeader(w, "patch", patch.Name, patch.OriginalPath)
	if patch.Description != "" {
		fmt.Fprintf(w, "description: %s\n", patch.Description)
	}
	for _, column := range patch.Columns {
		if column.Description != "" {
			fmt.Fprintf(w, "  column %s: %s\n", column.Name, column.Description)
		} else {
			fmt.Fprintf(w, "  column %s\n", column.Name)
		}
	}
}

// printSQL writes a SQL body, syntax highlighted when color is on.
// Highlighting failures fall back to the plain text.
func printSQL(w io.Writer, sql string, color bool) {
	sql = strings.TrimRight(sql, "\n")
	if sql == "" {
		return
	}
	fmt.Fprintln(w)
	if color {
		if err := quick.Highlight(w, sql+"\n", "sql", "terminal256", "monokai"); err == nil {
			return
		}
	}
	fmt.Fprintf(w, "%s\n", sql)
}
