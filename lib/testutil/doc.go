// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for strata packages.
//
// [WriteTree] materializes a file tree from a map, so scenario tests
// can lay out a project directory in a few lines instead of a chain
// of MkdirAll/WriteFile calls. [ProjectDir] layers a strata.yaml on
// top of a tree and returns the directory, ready for project.Load.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no strata-internal dependencies.
package testutil
