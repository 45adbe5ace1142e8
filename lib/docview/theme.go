// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package docview

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette for rendered docs. All colors are
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	Heading lipgloss.Color
	Rule    lipgloss.Color
	Link    lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),
	Heading:    lipgloss.Color("255"),
	Rule:       lipgloss.Color("240"),
	Link:       lipgloss.Color("75"), // blue
}
