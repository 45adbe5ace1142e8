// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"errors"
	"fmt"
)

// DuplicateResourceError reports two artifacts registered under the
// same unique id where the policy demands uniqueness. This is a user
// data error: two files define the same logical unit, and the pass
// terminates with both origins in the diagnostic.
type DuplicateResourceError struct {
	// Kind is the artifact kind ("node", "source", "macro", "doc").
	Kind string

	// UniqueID is the contested identifier.
	UniqueID string

	// Name is the artifact's bare name.
	Name string

	// ExistingPath and NewPath are the original file paths of the
	// artifact already registered and the one that collided with it.
	ExistingPath string
	NewPath      string
}

func (e *DuplicateResourceError) Error() string {
	return fmt.Sprintf("duplicate %s %s: defined in %s and %s",
		e.Kind, e.UniqueID, e.ExistingPath, e.NewPath)
}

// DuplicatePatchError reports two patches registered under the same
// name. Patches live in a name-keyed namespace of their own, so this
// is distinct from (and reported differently than) a duplicate unique
// id.
type DuplicatePatchError struct {
	Name         string
	ExistingPath string
	NewPath      string
}

func (e *DuplicatePatchError) Error() string {
	return fmt.Sprintf("duplicate patch for %s: defined in %s and %s",
		e.Name, e.ExistingPath, e.NewPath)
}

// ConsistencyError reports a registry whose file provenance sequences
// and artifact tables have diverged: an id recorded against a file has
// no corresponding artifact. This never arises from user data; it
// means the cache is corrupt or a caller broke the registry's
// invariants, so it is fatal and the whole pass must be abandoned
// rather than falling back to a fresh parse of one file.
type ConsistencyError struct {
	// UniqueID is the unresolvable identifier.
	UniqueID string

	// Table names the table(s) the id was expected in, e.g. "docs" or
	// "nodes or disabled".
	Table string

	// Path is the original path of the file whose sequence referenced
	// the id.
	Path string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("parse cache inconsistency: %s recorded for %s has no entry in %s",
		e.UniqueID, e.Path, e.Table)
}

// IsDuplicate returns true when err is (or wraps) a duplicate
// resource or duplicate patch error.
func IsDuplicate(err error) bool {
	var resourceError *DuplicateResourceError
	if errors.As(err, &resourceError) {
		return true
	}
	var patchError *DuplicatePatchError
	return errors.As(err, &patchError)
}

// IsConsistency returns true when err is (or wraps) a consistency
// error. Callers use this to distinguish "abandon the whole pass"
// from ordinary per-file failures.
func IsConsistency(err error) bool {
	var consistencyError *ConsistencyError
	return errors.As(err, &consistencyError)
}
