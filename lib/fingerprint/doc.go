// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

// Package fingerprint computes the content digests that drive strata's
// incremental parsing.
//
// A fingerprint is an opaque, equality-comparable [Hash]: the parse
// cache never inspects one beyond comparing it to another. Two domains
// exist, separated by BLAKE3 keyed hashing so their values can never
// collide:
//
//   - [HashFile] digests raw source file bytes. Stored on every file
//     record; compared on the next pass to decide whether the file's
//     artifacts can be reused without re-parsing.
//   - [HashConfig] digests canonical configuration images (vars,
//     profile target, project files). A registry records these as its
//     pinned inputs; any drift invalidates the whole cache, since
//     configuration can change what parsing would produce.
//
// [Cache] memoizes file hashing across passes keyed by (path, size,
// mtime), so a warm pass stats files instead of re-reading them.
package fingerprint
