// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

// Package docview renders doc blocks as styled terminal text.
//
// Doc blocks are markdown, written hard-wrapped in editors. The
// renderer reflows paragraphs to the display width (soft line breaks
// become spaces), styles headings and emphasis, indents lists and
// blockquotes, and syntax-highlights fenced code with chroma. Code
// fences without a language are highlighted as SQL, the dominant
// language in any strata project.
//
// Styling follows the capabilities termenv detects for the output:
// a terminal gets ANSI color, a pipe gets plain text. Pipe tables are
// deliberately not supported and render as their source text.
//
// [Summary] produces the one-line plain form used in listings.
package docview
