// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import "fmt"

// NodeKind enumerates the buildable unit kinds.
type NodeKind string

const (
	// KindModel is a SQL transformation materialized in the warehouse.
	KindModel NodeKind = "model"

	// KindSeed is a data file loaded verbatim.
	KindSeed NodeKind = "seed"

	// KindSnapshot captures slowly changing source state.
	KindSnapshot NodeKind = "snapshot"

	// KindTest is an assertion run against built relations.
	KindTest NodeKind = "test"

	// KindAnalysis is compiled but never materialized.
	KindAnalysis NodeKind = "analysis"

	// KindOperation is a maintenance statement run on demand.
	KindOperation NodeKind = "operation"

	// KindQuery is an ad-hoc statement submitted without a backing
	// project file. Query nodes only ever appear in ephemeral
	// registries.
	KindQuery NodeKind = "query"
)

// Node is a buildable unit parsed from a project file (or, for
// KindQuery, from a remote payload). Disabled nodes carry the same
// shape with Enabled false; they are excluded from the active node
// table but retained in the registry's disabled table, keyed by
// UniqueID and disambiguated by OriginalPath.
type Node struct {
	UniqueID    string   `json:"unique_id"`
	Name        string   `json:"name"`
	Kind        NodeKind `json:"kind"`
	PackageName string   `json:"package_name"`

	// Path is relative to the searched source directory;
	// OriginalPath is the project-relative path (the same value a
	// source.File reports as its original path).
	Path         string `json:"path"`
	OriginalPath string `json:"original_file_path"`

	RawSQL      string   `json:"raw_sql,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// Enabled is false for nodes parsed with an enabled: false
	// frontmatter toggle. No omitempty: false must survive
	// serialization.
	Enabled bool `json:"enabled"`
}

// NodeID builds the globally unique identifier for a buildable unit:
// "<kind>.<project>.<name>".
func NodeID(kind NodeKind, project, name string) string {
	return fmt.Sprintf("%s.%s.%s", kind, project, name)
}
