// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete strata CLI command tree.
package commands

import (
	"fmt"
	"runtime"

	cachecmd "github.com/strata-build/strata/cmd/strata/cache"
	"github.com/strata-build/strata/cmd/strata/cli"
	docscmd "github.com/strata-build/strata/cmd/strata/docs"
	parsecmd "github.com/strata-build/strata/cmd/strata/parse"
	"github.com/strata-build/strata/lib/version"
)

// Root builds and returns the complete strata CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "strata",
		Description: `Strata: incremental parsing for SQL transformation projects.

Parse a project once, then reparse only what changed: every pass
saves its results to a cache file that the next pass reuses for
files whose content and configuration are untouched.`,
		Subcommands: []*cli.Command{
			parsecmd.Command(),
			cachecmd.Command(),
			docscmd.Command(),
			versionCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Parse the project in the current directory",
				Command:     "strata parse",
			},
			{
				Description: "Would the next parse reuse the cache?",
				Command:     "strata cache status",
			},
			{
				Description: "Inspect one cached model",
				Command:     "strata cache show model.jaffle.orders",
			},
			{
				Description: "Render a doc block in the terminal",
				Command:     "strata docs show overview",
			},
		},
	}
}

type versionReport struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func versionCommand() *cli.Command {
	var params struct{ cli.JSONOutput }

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Params:  func() any { return &params },
		Run: func(args []string) error {
			report := versionReport{
				Version:   version.Version,
				Commit:    version.GitCommit,
				BuildTime: version.BuildTime,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			if done, err := params.EmitJSON(report); done {
				return err
			}
			fmt.Printf("strata %s\n", version.Full())
			return nil
		},
	}
}
