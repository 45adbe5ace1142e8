// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one node of the CLI tree: either a group that dispatches
// to subcommands or a leaf that runs.
type Command struct {
	// Name is what the user types to select this command ("cache",
	// "status").
	Name string

	// Summary is the one-liner shown in the parent's command listing.
	Summary string

	// Description is the long-form help shown for this command. Falls
	// back to Summary when empty.
	Description string

	// Usage overrides the synthesized usage line, for commands with
	// positional arguments ("strata cache show <unique-id> [flags]").
	Usage string

	// Params returns a pointer to the command's parameter struct.
	// When set, Execute binds a flag set from the struct's tags via
	// [BindFlags], so the fields are populated by the time Run is
	// called. Most commands use this.
	Params func() any

	// Flags builds the command's flag set directly, for flag surfaces
	// struct tags cannot express. Takes precedence over Params. With
	// both nil the command accepts no flags.
	Flags func() *pflag.FlagSet

	// Run executes a leaf command with the positional args left after
	// flag parsing. A group with a Run executes it when no subcommand
	// argument is present.
	Run func(args []string) error

	// Subcommands are dispatched by the first positional argument.
	Subcommands []*Command

	// Examples are rendered at the end of the help output.
	Examples []Example

	// parent is filled in during dispatch so errors and help can show
	// the full command path.
	parent *Command
}

// Example is one worked command line in the help output.
type Example struct {
	// Description says what the example accomplishes.
	Description string
	// Command is the literal invocation.
	Command string
}

// Execute runs the command tree against args: it prints help when
// asked, dispatches to a subcommand, or parses flags and invokes Run.
func (c *Command) Execute(args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(os.Stderr)
		return nil
	}

	if len(args) > 0 && len(c.Subcommands) > 0 && !strings.HasPrefix(args[0], "-") {
		return c.dispatch(args[0], args[1:])
	}

	if c.Run == nil && len(c.Subcommands) > 0 {
		c.PrintHelp(os.Stderr)
		if len(args) == 0 {
			return fmt.Errorf("subcommand required")
		}
		return fmt.Errorf("subcommand required (got flag %q)", args[0])
	}

	rest, err := c.parseFlags(args)
	if err != nil {
		return err
	}
	if c.Run != nil {
		return c.Run(rest)
	}

	c.PrintHelp(os.Stderr)
	return fmt.Errorf("no action defined for %q", c.fullName())
}

// dispatch hands the remaining args to the named subcommand, or
// reports the closest name when nothing matches.
func (c *Command) dispatch(name string, rest []string) error {
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			sub.parent = c
			return sub.Execute(rest)
		}
	}

	if match := suggestCommand(name, c.Subcommands); match != "" {
		return fmt.Errorf("unknown command %q (did you mean %q?)\n\nRun '%s --help' for usage.",
			name, match, c.fullName())
	}
	return fmt.Errorf("unknown command %q\n\nRun '%s --help' for usage.", name, c.fullName())
}

// parseFlags runs args through the command's flag surface and returns
// the positional remainder.
func (c *Command) parseFlags(args []string) ([]string, error) {
	factory := c.flagFactory()
	if factory == nil {
		return args, nil
	}

	flagSet := factory()
	// Errors are reported below, with a suggestion where one exists;
	// silence pflag's own printing.
	flagSet.SetOutput(io.Discard)
	err := flagSet.Parse(args)
	if err == nil {
		return flagSet.Args(), nil
	}

	if strings.Contains(err.Error(), "unknown flag") {
		// Suggest against a fresh flag set; the failed parse may have
		// left state in the first one.
		if match := suggestFlag(args, factory()); match != "" {
			return nil, fmt.Errorf("%s (did you mean %s?)\n\nRun '%s --help' for usage.",
				err, match, c.fullName())
		}
	}
	return nil, fmt.Errorf("%s\n\nRun '%s --help' for usage.", err, c.fullName())
}

// flagFactory resolves the command's flag surface: an explicit Flags
// function wins, then a Params struct bound through its tags, then
// nil for commands with no flags.
func (c *Command) flagFactory() func() *pflag.FlagSet {
	if c.Flags != nil {
		return c.Flags
	}
	if c.Params != nil {
		return func() *pflag.FlagSet {
			return FlagsFromParams(c.Name, c.Params())
		}
	}
	return nil
}

// PrintHelp writes the command's help text: description, usage,
// subcommand listing, flags, and examples, in that order.
func (c *Command) PrintHelp(w io.Writer) {
	name := c.fullName()

	switch {
	case c.Description != "":
		fmt.Fprintf(w, "%s\n\n", c.Description)
	case c.Summary != "":
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	switch {
	case c.Usage != "":
		fmt.Fprintf(w, "Usage:\n  %s\n", c.Usage)
	case len(c.Subcommands) > 0:
		fmt.Fprintf(w, "Usage:\n  %s <command> [flags]\n", name)
	default:
		fmt.Fprintf(w, "Usage:\n  %s [flags]\n", name)
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		writer := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(writer, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		writer.Flush()
	}

	if factory := c.flagFactory(); factory != nil {
		flagSet := factory()
		var rendered strings.Builder
		flagSet.SetOutput(&rendered)
		flagSet.PrintDefaults()
		if rendered.Len() > 0 {
			fmt.Fprintf(w, "\nFlags:\n%s", rendered.String())
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprintf(w, "\nExamples:\n")
		for _, example := range c.Examples {
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n", example.Description)
			}
			fmt.Fprintf(w, "  %s\n", example.Command)
			if example.Description != "" {
				fmt.Fprintln(w)
			}
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", name)
	}
}

// fullName walks the parent chain to produce the full command path,
// "strata cache status" style.
func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}
