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
	"github.com/strata-build/strata/lib/cachefile"
	"github.com/strata-build/strata/lib/project"
)

type diagParams struct {
	Dir string `flag:"project-dir" desc:"project directory" default:"."`
}

func diagCommand() *cli.Command {
	var params diagParams

	return &cli.Command{
		Name:    "diag",
		Summary: "Dump the cache payload in CBOR diagnostic notation",
		Description: `Decompress the cache payload and write it as RFC 8949 Extended
Diagnostic Notation (EDN) to stdout.

Unlike JSON output, diagnostic notation preserves CBOR type
information: integer vs float, byte strings vs text strings, and
tagged values. This is the raw serialized registry, envelope and all,
useful when the cache decodes but looks wrong.`,
		Usage:  "strata cache diag [flags]",
		Params: func() any { return &params },
		Run: func(args []string) error {
			return runDiag(&params, args, os.Stdout)
		},
		Examples: []cli.Example{
			{
				Description: "Inspect the serialized registry",
				Command:     "strata cache diag | less",
			},
		},
	}
}

func runDiag(params *diagParams, args []string, stdout io.Writer) error {
	if len(args) > 0 {
		return cli.Validation("diag takes no positional arguments, got %q", args[0])
	}

	proj, err := project.Load(params.Dir)
	if err != nil {
		return cli.Validation("loading project: %w", err)
	}

	notation, err := cachefile.Diagnose(proj.CachePath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cli.NotFound("no parse cache at %s", proj.CachePath()).
				WithHint("Run 'strata parse' to create one.")
		}
		return cli.Internal("%w", err)
	}

	fmt.Fprintln(stdout, notation)
	return nil
}
