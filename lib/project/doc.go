// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

// Package project loads the two configuration surfaces of a strata
// project.
//
// The project file (strata.yaml, or strata.jsonc for teams that
// prefer commented JSON) lives in the repository and declares the
// project name, search paths, vars, and cache settings. The profiles
// file (profiles.yaml) lives outside the repository, by default in
// ~/.strata (overridable via STRATA_PROFILES_DIR or --profiles-dir),
// and holds named connection targets with credentials. Target fields
// support ${VAR} and ${VAR:-default} expansion so secrets can stay in
// the environment.
//
// The package also computes the pinned input fingerprints
// (PinnedInputs): hashes of the merged vars, the selected target, and
// the project file itself. The parse cache refuses to reuse results
// when any of them changed.
package project
