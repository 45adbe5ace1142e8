// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

// Package parser turns project files into registry entries.
//
// Four file shapes exist. Model files are SQL with optional YAML
// frontmatter between "---" fences (enabled, kind, tags,
// description). Macro files are plain SQL, one macro per file named
// by the file stem. Doc files are markdown, one doc block per file.
// Schema files are YAML declaring warehouse sources and model
// property patches.
//
// The parser performs no SQL analysis: the body of a model is stored
// verbatim for downstream compilation. What matters here is minting
// stable unique ids and recording provenance so the parse cache can
// replay unchanged files.
package parser
