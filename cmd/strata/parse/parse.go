// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

// Package parse implements "strata parse": one full pass over the
// project's source tree, reusing the parse cache where fingerprints
// allow and writing the refreshed cache back.
package parse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/strata-build/strata/cmd/strata/cli"
	"github.com/strata-build/strata/lib/cachefile"
	"github.com/strata-build/strata/lib/loader"
	"github.com/strata-build/strata/lib/registry"
)

type parseParams struct {
	cli.JSONOutput
	Project cli.ProjectConfig

	NoPartial   bool   `json:"no_partial_parse" flag:"no-partial-parse" desc:"ignore the parse cache and do not write one"`
	Compression string `json:"compression"      flag:"compression"      desc:"cache compression: none, lz4, or zstd" default:"zstd"`
	LogLevel    string `json:"log_level"        flag:"log-level"        desc:"log verbosity: debug, info, warn, or error"`
}

// Command returns the "parse" command.
func Command() *cli.Command {
	var params parseParams

	return &cli.Command{
		Name:    "parse",
		Summary: "Parse the project, reusing the cache where possible",
		Description: `Parse every model, schema, macro, and doc file in the project and
report how much of the previous pass was reused.

The parse cache (target/parse.cache by default) stores the previous
pass keyed by file fingerprint. When the cache was written by this
same strata version and the pinned inputs (vars, profile target,
project file) are unchanged, unmodified files are replayed from the
cache instead of reparsed. Everything else is parsed fresh, and the
merged result is written back for the next invocation.

--no-partial-parse skips both reuse and the write-back for this
invocation without touching the partial-parse setting in the project
file.`,
		Usage:  "strata parse [flags]",
		Params: func() any { return &params },
		Run: func(args []string) error {
			return runParse(&params, args, os.Stdout)
		},
		Examples: []cli.Example{
			{
				Description: "Parse the project in the current directory",
				Command:     "strata parse",
			},
			{
				Description: "Override a project variable for this pass",
				Command:     "strata parse --vars 'start_date: 2026-06-01'",
			},
			{
				Description: "Force a full parse without cache reuse",
				Command:     "strata parse --no-partial-parse",
			},
			{
				Description: "Machine-readable pass statistics",
				Command:     "strata parse --json",
			},
		},
	}
}

// parseReport is the --json payload for a completed pass.
type parseReport struct {
	Project   string         `json:"project"`
	Stats     loader.Stats   `json:"stats"`
	Contents  registry.Stats `json:"contents"`
	ElapsedMS int64          `json:"elapsed_ms"`
}

func runParse(params *parseParams, args []string, stdout io.Writer) error {
	if len(args) > 0 {
		return cli.Validation("parse takes no positional arguments, got %q", args[0])
	}

	compression, err := cachefile.ParseCompression(params.Compression)
	if err != nil {
		return cli.Validation("%w", err)
	}

	options, err := params.Project.Load()
	if err != nil {
		return err
	}
	options.DisableCache = params.NoPartial
	options.Compression = compression
	options.Logger = cli.NewCommandLogger(params.LogLevel).With("command", "parse")

	ldr, err := loader.New(options)
	if err != nil {
		return cli.Internal("%w", err)
	}

	start := time.Now()
	result, err := ldr.Parse(context.Background())
	if err != nil {
		return classify(err)
	}
	elapsed := time.Since(start)

	if err := ldr.Save(result); err != nil {
		return cli.Internal("%w", err)
	}

	report := parseReport{
		Project:   options.Project.Name,
		Stats:     result.Stats,
		Contents:  result.Registry.Stats(),
		ElapsedMS: elapsed.Milliseconds(),
	}
	if done, err := params.EmitJSON(report); done {
		return err
	}

	fmt.Fprintf(stdout, "Parsed %s: %d files (%d reused, %d parsed) in %s\n",
		report.Project, report.Stats.Files, report.Stats.Reused, report.Stats.Parsed,
		elapsed.Round(time.Millisecond))
	if !report.Stats.CacheUsed && report.Stats.CacheNote != "" {
		fmt.Fprintf(stdout, "Cache not used: %s\n", report.Stats.CacheNote)
	}
	fmt.Fprintf(stdout, "  nodes %d  sources %d  docs %d  macros %d  patches %d  disabled %d\n",
		report.Contents.Nodes, report.Contents.Sources, report.Contents.Docs,
		report.Contents.Macros, report.Contents.Patches, report.Contents.Disabled)
	return nil
}

// classify maps pass failures onto exit-code categories. Duplicate ids
// are the project conflicting with itself; consistency failures mean a
// damaged registry slipped past the cache gates, which is a bug, not
// bad input. Everything else (unparseable YAML, bad frontmatter,
// unreadable files) is the caller's tree.
func classify(err error) error {
	switch {
	case registry.IsDuplicate(err):
		return cli.Conflict("%w", err)
	case registry.IsConsistency(err):
		return cli.Internal("%w", err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return cli.Validation("%w", err)
	}
}
