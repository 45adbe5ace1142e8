// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

// Package source models the input files of a parse pass.
//
// A [File] couples a file's identity (where it was found, or that it
// arrived as an ad-hoc remote payload), its content fingerprint, and
// the ordered identifiers of every artifact parsed out of it. The
// registry keys files by their search key (the project-relative path);
// remote payloads have none and are therefore invisible to the cache.
package source
