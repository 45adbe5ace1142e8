// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// suggestionCutoff is the largest edit distance considered close
// enough to offer as a correction. Three edits covers the usual typo
// shapes: a transposition, a dropped letter, a doubled letter.
const suggestionCutoff = 3

// nearest returns the candidate with the smallest edit distance from
// input, or "" when every candidate is further than the cutoff.
func nearest(input string, candidates []string) string {
	best := ""
	bestDistance := suggestionCutoff + 1
	for _, candidate := range candidates {
		if distance := levenshtein(input, candidate); distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}
	return best
}

// suggestCommand picks the closest subcommand name to the unknown
// input for a "did you mean" hint, or "" when nothing is close.
func suggestCommand(unknown string, commands []*Command) string {
	names := make([]string, len(commands))
	for i, command := range commands {
		names[i] = command.Name
	}
	return nearest(unknown, names)
}

// suggestFlag finds the first flag-shaped argument that flagSet does
// not define and returns the closest defined name, prefixed the way
// the caller would type it (-x for shorthands, --name otherwise).
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	defined := make(map[string]bool)
	var names []string
	flagSet.VisitAll(func(flag *pflag.Flag) {
		defined[flag.Name] = true
		names = append(names, flag.Name)
	})

	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name := strings.TrimLeft(arg, "-")
		name, _, _ = strings.Cut(name, "=")
		if defined[name] {
			continue
		}

		// Only the first unknown flag matters; pflag stops parsing
		// there anyway.
		match := nearest(name, names)
		switch {
		case match == "":
			return ""
		case len(match) == 1:
			return "-" + match
		default:
			return "--" + match
		}
	}
	return ""
}

// levenshtein returns the edit distance between a and b: the number
// of single-character insertions, deletions, and substitutions
// separating them.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 || len(b) == 0 {
		return len(a) + len(b)
	}

	// Two rolling rows of the distance matrix; the shorter string
	// spans the rows to keep them small.
	if len(a) > len(b) {
		a, b = b, a
	}
	previous := make([]int, len(a)+1)
	current := make([]int, len(a)+1)
	for i := range previous {
		previous[i] = i
	}

	for j := 1; j <= len(b); j++ {
		current[0] = j
		for i := 1; i <= len(a); i++ {
			replace := previous[i-1]
			if a[i-1] != b[j-1] {
				replace++
			}
			current[i] = min(replace, previous[i]+1, current[i-1]+1)
		}
		previous, current = current, previous
	}
	return previous[len(a)]
}
