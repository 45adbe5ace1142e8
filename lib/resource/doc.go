// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

// Package resource defines the artifact types a parse pass produces:
// buildable [Node] units, declared [SourceTable] externals, [Macro]
// fragments, [Doc] blocks, and schema [Patch] metadata.
//
// Nodes, sources, macros, and docs are identified by a globally unique
// id built from their kind, owning project, and name (see [NodeID] and
// friends). Patches are the exception: they are keyed by bare model
// name in a namespace of their own.
//
// These are plain data carriers. Identity and uniqueness rules are
// enforced where the artifacts are registered, in lib/registry.
package resource
