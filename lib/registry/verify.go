// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Verify re-checks the invariants a well-formed registry maintains:
// every file is stored under its own search key, and every id in a
// file's provenance sequences resolves to an artifact in the matching
// table. A freshly built registry always verifies; a loaded cache
// that does not has been corrupted (or written by a buggy tool) and
// must not be reused.
//
// All faults are collected and joined rather than returning the
// first, so one verify run reports the full damage.
func (r *Registry) Verify() error {
	var faults []error

	// Deterministic order so repeated runs report identically.
	for _, key := range slices.Sorted(maps.Keys(r.Files)) {
		file := r.Files[key]
		fileKey, ok := file.SearchKey()
		if !ok {
			faults = append(faults, fmt.Errorf("file %s is tracked but has no search key", key))
		} else if fileKey != key {
			faults = append(faults, fmt.Errorf("file stored under %s reports search key %s", key, fileKey))
		}

		path := file.OriginalPath()
		for _, id := range file.Nodes {
			_, active := r.Nodes[id]
			_, disabled := r.Disabled[id]
			if !active && !disabled {
				faults = append(faults, &ConsistencyError{UniqueID: id, Table: "nodes or disabled", Path: path})
			}
		}
		for _, id := range file.Sources {
			if _, ok := r.Sources[id]; !ok {
				faults = append(faults, &ConsistencyError{UniqueID: id, Table: "sources", Path: path})
			}
		}
		for _, id := range file.Docs {
			if _, ok := r.Docs[id]; !ok {
				faults = append(faults, &ConsistencyError{UniqueID: id, Table: "docs", Path: path})
			}
		}
		for _, id := range file.Macros {
			if _, ok := r.Macros[id]; !ok {
				faults = append(faults, &ConsistencyError{UniqueID: id, Table: "macros", Path: path})
			}
		}
		for _, name := range file.Patches {
			if _, ok := r.Patches[name]; !ok {
				faults = append(faults, &ConsistencyError{UniqueID: name, Table: "patches", Path: path})
			}
		}
	}

	return errors.Join(faults...)
}
