// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// NewCommandLogger creates a structured logger for CLI command operations.
// When stderr is a terminal, uses slog.TextHandler for human-readable
// output. When stderr is piped or redirected (CI, scripts, integration
// tests), uses slog.JSONHandler for machine-parseable output.
//
// The level argument comes from a command's --log-level flag; when it
// is empty, the STRATA_LOG environment variable is consulted, and when
// that is unset too the level is info.
//
// Callers scope the logger with command-specific context via With():
//
//	logger := cli.NewCommandLogger(params.LogLevel).With(
//	    "command", "parse",
//	    "project", project.Name,
//	)
func NewCommandLogger(level string) *slog.Logger {
	if level == "" {
		level = os.Getenv("STRATA_LOG")
	}
	options := &slog.HandlerOptions{Level: parseLogLevel(level)}
	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}

// parseLogLevel maps a level name to its slog level. Empty or
// unrecognized names mean info.
func parseLogLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
