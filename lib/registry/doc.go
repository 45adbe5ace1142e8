// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

// Package registry holds the result set of a parse pass and the reuse
// protocol that makes passes incremental.
//
// A [Registry] owns five identity-keyed artifact tables (nodes,
// sources, docs, macros, patches), a side table of disabled node
// variants, and one provenance record per input file listing the ids
// parsed out of it in insertion order. Insertion enforces uniqueness
// per the configured [Policy]; provenance ordering is what lets a
// later pass replay a file's artifacts exactly.
//
// The incremental path: a new pass asks its previous registry
// [Registry.HasFile] (same search key, same content fingerprint)
// and on a hit calls [Registry.ReuseFileFrom] to migrate that file's
// artifacts wholesale instead of re-parsing. Files that changed, and
// files with no stable identity at all (remote payloads), are parsed
// fresh through the add operations.
//
// Three error conditions matter to callers: duplicate resource and
// duplicate patch errors are user mistakes that terminate the pass
// with both origins named, and [ConsistencyError] means the cache
// itself is corrupt, so the pass runner abandons the cache entirely
// rather than trusting any more of it. [IsDuplicate] and
// [IsConsistency] classify wrapped errors.
package registry
