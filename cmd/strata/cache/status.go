// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"fmt"
	"io"
	"os"

	"github.com/strata-build/strata/cmd/strata/cli"
	"github.com/strata-build/strata/lib/fingerprint"
	"github.com/strata-build/strata/lib/loader"
)

type statusParams struct {
	cli.JSONOutput
	Project cli.ProjectConfig
}

func statusCommand() *cli.Command {
	var params statusParams

	return &cli.Command{
		Name:    "status",
		Summary: "Report whether the next parse would reuse the cache",
		Description: `Report the cache file's envelope, contents, and whether the next
parse would reuse it.

Usability is judged exactly the way "strata parse" judges it: the
cache must have been written by this strata version, and the pinned
inputs (vars, profile target, project file) must match the current
configuration. Pass the same --target and --vars you would pass to
parse to get the answer for that configuration.`,
		Usage:  "strata cache status [flags]",
		Params: func() any { return &params },
		Run: func(args []string) error {
			return runStatus(&params, args, os.Stdout)
		},
		Examples: []cli.Example{
			{
				Description: "Status for the default configuration",
				Command:     "strata cache status",
			},
			{
				Description: "Would the cache survive a vars override?",
				Command:     "strata cache status --vars 'start_date: 2026-06-01'",
			},
		},
	}
}

func runStatus(params *statusParams, args []string, stdout io.Writer) error {
	if len(args) > 0 {
		return cli.Validation("status takes no positional arguments, got %q", args[0])
	}

	options, err := params.Project.Load()
	if err != nil {
		return err
	}

	ldr, err := loader.New(options)
	if err != nil {
		return cli.Internal("%w", err)
	}
	status := ldr.CacheStatus()

	if done, err := params.EmitJSON(status); done {
		return err
	}

	fmt.Fprintf(stdout, "Cache: %s\n", status.Path)
	if !status.Exists {
		fmt.Fprintln(stdout, "No cache file. Run 'strata parse' to create one.")
		return nil
	}
	if status.Error != "" {
		fmt.Fprintf(stdout, "Unreadable: %s\n", status.Error)
		return nil
	}

	fmt.Fprintf(stdout, "Written by: strata %s\n", status.Info.Version)
	fmt.Fprintf(stdout, "Compression: %s (%s stored, %s raw)\n",
		status.Info.Compression, formatBytes(status.Info.PayloadSize), formatBytes(status.Info.RawSize))
	contents := status.Contents
	fmt.Fprintf(stdout, "Contents: %d nodes, %d sources, %d docs, %d macros, %d patches, %d files\n",
		contents.Nodes, contents.Sources, contents.Docs, contents.Macros, contents.Patches, contents.Files)
	if contents.Disabled > 0 {
		fmt.Fprintf(stdout, "Disabled: %d\n", contents.Disabled)
	}
	fmt.Fprintf(stdout, "Pinned: vars %s, profile %s\n",
		fingerprint.FormatShort(status.Pinned.Vars), fingerprint.FormatShort(status.Pinned.Profile))
	if status.Usable {
		fmt.Fprintln(stdout, "Usable: yes")
	} else {
		fmt.Fprintf(stdout, "Usable: no (%s)\n", status.Note)
	}
	return nil
}

// formatBytes formats a byte count as a human-readable string.
func formatBytes(bytes int64) string {
	switch {
	case bytes >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(1<<30))
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
