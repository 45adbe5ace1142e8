// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package docs

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/strata-build/strata/cmd/strata/cli"
	"github.com/strata-build/strata/lib/docview"
)

type showParams struct {
	cli.JSONOutput
	Dir   string `json:"project_dir" flag:"project-dir" desc:"project directory" default:"."`
	Width int    `json:"width"       flag:"width,w"     desc:"wrap width (0 uses the terminal width)"`
	Raw   bool   `json:"raw"         flag:"raw"         desc:"print the raw markdown without rendering"`
}

func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Render one doc block",
		Description: `Render a cached doc block as terminal text.

Docs are addressed by unique id (doc.jaffle.overview) or by bare name
(overview); bare names resolve within this project's package. Output
wraps at --width columns, defaulting to the terminal width on a TTY
and 80 columns otherwise.`,
		Usage:  "strata docs show <doc> [flags]",
		Params: func() any { return &params },
		Run: func(args []string) error {
			return runShow(&params, args, os.Stdout, displayWidth(params.Width))
		},
		Examples: []cli.Example{
			{
				Description: "Render by bare name",
				Command:     "strata docs show overview",
			},
			{
				Description: "Narrow output for a side pane",
				Command:     "strata docs show overview --width 60",
			},
		},
	}
}

// displayWidth picks the wrap width: an explicit flag wins, then the
// terminal width, then the docview default.
func displayWidth(flag int) int {
	if flag > 0 {
		return flag
	}
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return docview.DefaultWidth
}

func runShow(params *showParams, args []string, stdout io.Writer, width int) error {
	if len(args) != 1 {
		return cli.Validation("show takes exactly one doc, got %d arguments", len(args))
	}

	proj, reg, err := openDocs(params.Dir)
	if err != nil {
		return err
	}
	doc, err := resolveDoc(proj, reg, args[0])
	if err != nil {
		return err
	}

	if done, err := params.EmitJSON(doc); done {
		return err
	}
	if params.Raw {
		fmt.Fprintln(stdout, strings.TrimRight(doc.Contents, "\n"))
		return nil
	}

	fmt.Fprintln(stdout, docview.New(stdout, width).Render(doc.Contents))
	return nil
}
