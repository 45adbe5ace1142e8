// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"fmt"
	"io"
	"os"

	"github.com/strata-build/strata/cmd/strata/cli"
)

type verifyParams struct {
	Dir string `flag:"project-dir" desc:"project directory" default:"."`
}

func verifyCommand() *cli.Command {
	var params verifyParams

	return &cli.Command{
		Name:    "verify",
		Summary: "Check the cache's internal consistency",
		Description: `Decode the cache file and check its cross-references: every id a
file records must resolve to an artifact, and every artifact must be
claimed by exactly the files that produced it.

The parse pass runs the same check before trusting a cache, so a
failing verify explains why "strata parse" reported a full reparse.
Exits 1 when the cache is inconsistent.`,
		Usage:  "strata cache verify [flags]",
		Params: func() any { return &params },
		Run: func(args []string) error {
			return runVerify(&params, args, os.Stdout)
		},
	}
}

func runVerify(params *verifyParams, args []string, stdout io.Writer) error {
	if len(args) > 0 {
		return cli.Validation("verify takes no positional arguments, got %q", args[0])
	}

	proj, reg, _, err := openRegistry(params.Dir)
	if err != nil {
		return err
	}

	if err := reg.Verify(); err != nil {
		fmt.Fprintf(stdout, "cache verify failed: %v\n", err)
		return &cli.ExitError{Code: 1}
	}

	stats := reg.Stats()
	fmt.Fprintf(stdout, "%s: ok (%d artifacts across %d files)\n",
		proj.CachePath(), stats.Nodes+stats.Sources+stats.Docs+stats.Macros+stats.Patches+stats.Disabled, stats.Files)
	return nil
}
