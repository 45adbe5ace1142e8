// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

// Package loader runs parse passes: it discovers a project's source
// files, decides per file whether the previous pass's results can be
// replayed from the on-disk cache, and parses whatever changed.
//
// A pass begins by loading the saved registry through cachefile.Read
// and applying the wholesale gates: the cache must have been written
// by this build of strata, and the pinned configuration fingerprints
// (vars, profile, project files) must match the current invocation
// exactly. A cache that fails any gate is discarded whole and the
// pass parses everything.
//
// With a usable cache, each discovered file is fingerprinted and
// looked up by search key and checksum. A hit replays the file's
// recorded artifacts into the new registry via ReuseFileFrom; a miss
// parses the file fresh. Either way the new registry is complete at
// the end of the pass and can be saved for the next one.
package loader
