// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the strata CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a flag surface, and a Run
// function. Commands are assembled into a tree in cmd/strata/commands
// and dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and structured help output with examples.
//
// Commands declare their flags as tagged struct fields and return the
// struct through [Command.Params]; [BindFlags] reflects the tags into a
// [pflag.FlagSet]. Embedding [JSONOutput] in a params struct adds the
// --json flag and the EmitJSON method for machine-readable output.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3). This is implemented in
// suggest.go.
//
// Failures are classified with [ToolError] categories so scripts can
// branch on the exit code instead of parsing message text; the mapping
// lives in [ExitCodeFor]. Commands that write their own diagnostics
// return [ExitError] to set the exit code without a redundant error
// line.
package cli
