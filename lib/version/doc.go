// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

// Package version records the build identity of the strata binary.
//
// Release builds stamp [Version], [GitCommit], [GitDirty], and
// [BuildTime] through -ldflags -X; a plain `go build` leaves the
// development defaults in place.
//
// [Version] doubles as the compatibility stamp for parse cache files:
// the cachefile package writes it into every cache envelope, and the
// loader refuses to reuse a cache stamped by a different version.
// Bumping it therefore invalidates every cache written by earlier
// builds.
package version
