// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/strata-build/strata/cmd/strata/cli"
	"github.com/strata-build/strata/lib/project"
)

type clearParams struct {
	Dir string `flag:"project-dir" desc:"project directory" default:"."`
}

func clearCommand() *cli.Command {
	var params clearParams

	return &cli.Command{
		Name:    "clear",
		Summary: "Delete the cache file",
		Description: `Delete the parse cache. The next "strata parse" runs from scratch
and writes a fresh cache. Clearing a cache that does not exist is not
an error.`,
		Usage:  "strata cache clear [flags]",
		Params: func() any { return &params },
		Run: func(args []string) error {
			return runClear(&params, args, os.Stdout)
		},
	}
}

func runClear(params *clearParams, args []string, stdout io.Writer) error {
	if len(args) > 0 {
		return cli.Validation("clear takes no positional arguments, got %q", args[0])
	}

	proj, err := project.Load(params.Dir)
	if err != nil {
		return cli.Validation("loading project: %w", err)
	}

	path := proj.CachePath()
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(stdout, "no cache file at %s\n", path)
			return nil
		}
		return cli.Internal("removing %s: %w", path, err)
	}

	fmt.Fprintf(stdout, "removed %s\n", path)
	return nil
}
