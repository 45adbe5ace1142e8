// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
)

// Set at build time via -ldflags -X. The defaults describe a local
// development build.
var (
	// Version is the semantic version of this build. It is stamped
	// into every parse cache file; a mismatch on load forces a full
	// reparse.
	Version = "0.4.0-dev"

	// GitCommit is the abbreviated commit SHA the binary was built from.
	GitCommit = "unknown"

	// GitDirty is "true" when the working tree had uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"
)

// Full renders the complete version block shown by `strata version`:
// semantic version and commit on the first line, Go toolchain and
// platform indented below it.
func Full() string {
	commit := GitCommit
	if GitDirty == "true" {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s, %s)\n  Go: %s\n  Platform: %s/%s",
		Version, commit, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
