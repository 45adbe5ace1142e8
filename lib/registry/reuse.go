// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import "github.com/strata-build/strata/lib/source"

// ReuseFileFrom migrates every artifact that old recorded for f into
// r, preserving per-file order. The caller must already have
// established via old.HasFile(f) that f's content is unchanged; this
// method does not re-check the fingerprint.
//
// The migration replays old's provenance sequences for the file in a
// fixed order (docs, macros, sources, nodes, patches) so that any
// duplicate failure surfaces at the same point on every run. Artifact
// values are inserted as-is, never re-derived: a reused node is the
// old registry's node.
//
// Returns false with a nil error when f has no stable identity
// (remote payloads are always parsed fresh). Returns an error when an
// insertion fails: duplicate errors are user data errors and should
// terminate the pass with a diagnostic, while consistency errors
// (an id in old's sequences that resolves to nothing) mean the cache
// itself cannot be trusted and the whole pass must be abandoned.
func (r *Registry) ReuseFileFrom(old *Registry, f *source.File) (bool, error) {
	if _, ok := f.SearchKey(); !ok {
		return false, nil
	}
	oldFile := old.GetFile(f)

	for _, docID := range oldFile.Docs {
		doc, ok := old.Docs[docID]
		if !ok {
			return false, &ConsistencyError{UniqueID: docID, Table: "docs", Path: f.OriginalPath()}
		}
		if err := r.AddDoc(f, doc); err != nil {
			return false, err
		}
	}

	for _, macroID := range oldFile.Macros {
		macro, ok := old.Macros[macroID]
		if !ok {
			return false, &ConsistencyError{UniqueID: macroID, Table: "macros", Path: f.OriginalPath()}
		}
		if err := r.AddMacro(f, macro); err != nil {
			return false, err
		}
	}

	for _, sourceID := range oldFile.Sources {
		table, ok := old.Sources[sourceID]
		if !ok {
			return false, &ConsistencyError{UniqueID: sourceID, Table: "sources", Path: f.OriginalPath()}
		}
		if err := r.AddSource(f, table); err != nil {
			return false, err
		}
	}

	for _, nodeID := range oldFile.Nodes {
		if node, ok := old.Nodes[nodeID]; ok {
			if err := r.AddNode(f, node); err != nil {
				return false, err
			}
			continue
		}
		if _, ok := old.Disabled[nodeID]; ok {
			variants, err := old.DisabledFor(nodeID, f)
			if err != nil {
				return false, err
			}
			for _, variant := range variants {
				r.AddDisabled(f, variant)
			}
			continue
		}
		return false, &ConsistencyError{UniqueID: nodeID, Table: "nodes or disabled", Path: f.OriginalPath()}
	}

	for _, patchName := range oldFile.Patches {
		patch, ok := old.Patches[patchName]
		if !ok {
			return false, &ConsistencyError{UniqueID: patchName, Table: "patches", Path: f.OriginalPath()}
		}
		if err := r.AddPatch(f, patch); err != nil {
			return false, err
		}
	}

	return true, nil
}
