// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"maps"

	"github.com/strata-build/strata/lib/fingerprint"
	"github.com/strata-build/strata/lib/resource"
	"github.com/strata-build/strata/lib/source"
)

// Pinned holds the fingerprints of the configuration inputs a pass
// was parsed under. Parsing output depends on these as much as on
// file contents, so a cache whose pinned inputs drifted is unusable
// wholesale, before any per-file comparison.
type Pinned struct {
	// Vars fingerprints the fully merged vars map.
	Vars fingerprint.Hash `json:"vars"`

	// Profile fingerprints the selected profile target.
	Profile fingerprint.Hash `json:"profile"`

	// Projects fingerprints each loaded project file, keyed by project
	// name.
	Projects map[string]fingerprint.Hash `json:"projects,omitempty"`
}

// Equal reports whether two pinned input sets are identical.
func (p Pinned) Equal(other Pinned) bool {
	return p.Vars == other.Vars &&
		p.Profile == other.Profile &&
		maps.Equal(p.Projects, other.Projects)
}

// Registry is the result set of one parse pass: every artifact parsed,
// keyed by identity, plus the per-file provenance records that make
// incremental reuse possible.
//
// A Registry is not safe for concurrent use. Duplicate enforcement is
// check-then-insert with no internal locking, so a registry under
// construction must have exactly one writer; the pass runner
// serializes all insertions. A completed registry is read-only by
// contract and may then be shared freely; the reuse engine reads the
// previous pass's registry that way.
//
// The maps are exported for serialization. All mutation goes through
// the add operations, which maintain the invariants: ids in Nodes,
// Sources, Docs, and Macros are globally unique (under the default
// policy), Patches is keyed by bare name, and every id recorded in a
// file's sequences resolves to an entry in the matching table
// (Disabled included).
type Registry struct {
	Pinned Pinned `json:"pinned"`

	Nodes   map[string]*resource.Node        `json:"nodes"`
	Sources map[string]*resource.SourceTable `json:"sources"`
	Docs    map[string]*resource.Doc         `json:"docs"`
	Macros  map[string]*resource.Macro       `json:"macros"`
	Patches map[string]*resource.Patch       `json:"patches"`

	// Files maps search keys to the canonical record of each tracked
	// input file. Remote files never appear here.
	Files map[string]*source.File `json:"files"`

	// Disabled holds nodes excluded from the active set, keyed by
	// unique id. Multiple files may disable the same id (the same
	// logical unit defined under different conditional branches), so
	// the value is an ordered slice of variants.
	Disabled map[string][]*resource.Node `json:"disabled,omitempty"`

	// policy is runtime configuration, not state; it is deliberately
	// unexported so it never serializes. A decoded registry has the
	// zero policy, which resolves to the built-in per-kind rules.
	policy Policy
}

// New returns an empty registry pinned to the given configuration
// fingerprints, using the default conflict policy.
func New(pinned Pinned) *Registry {
	return &Registry{
		Pinned:   pinned,
		Nodes:    make(map[string]*resource.Node),
		Sources:  make(map[string]*resource.SourceTable),
		Docs:     make(map[string]*resource.Doc),
		Macros:   make(map[string]*resource.Macro),
		Patches:  make(map[string]*resource.Patch),
		Files:    make(map[string]*source.File),
		Disabled: make(map[string][]*resource.Node),
	}
}

// NewWithPolicy returns an empty registry with an explicit conflict
// policy. Zero fields in the policy keep their built-in rules.
func NewWithPolicy(pinned Pinned, policy Policy) *Registry {
	r := New(pinned)
	r.policy = policy
	return r
}

// NewEphemeral returns a registry for ad-hoc invocations that have no
// configuration inputs: every pinned fingerprint is empty, so an
// ephemeral registry never matches a saved cache and is never worth
// saving. This is a deliberately separate constructor path rather
// than optional arguments on New.
func NewEphemeral() *Registry {
	return New(Pinned{})
}

// GetFile returns the canonical record for f. Files without a search
// key are returned unchanged and never tracked. Otherwise the first
// call for a search key inserts f and later calls return the stored
// record, so callers that route appends through the returned value
// always mutate the record the registry owns.
func (r *Registry) GetFile(f *source.File) *source.File {
	key, ok := f.SearchKey()
	if !ok {
		return f
	}
	if r.Files == nil {
		r.Files = make(map[string]*source.File)
	}
	if existing, ok := r.Files[key]; ok {
		return existing
	}
	r.Files[key] = f
	return f
}

// HasFile reports whether a file with f's search key is tracked and
// its stored fingerprint equals f's exactly. Files without a search
// key are never considered cached.
func (r *Registry) HasFile(f *source.File) bool {
	key, ok := f.SearchKey()
	if !ok {
		return false
	}
	existing, ok := r.Files[key]
	if !ok {
		return false
	}
	return existing.Checksum == f.Checksum
}

// AddNode registers a buildable unit parsed from f. Under the strict
// policy a unique id collision returns a *DuplicateResourceError
// naming both origins.
func (r *Registry) AddNode(f *source.File, node *resource.Node) error {
	if r.policy.nodes() == ConflictStrict {
		if existing, ok := r.Nodes[node.UniqueID]; ok {
			return &DuplicateResourceError{
				Kind:         "node",
				UniqueID:     node.UniqueID,
				Name:         node.Name,
				ExistingPath: existing.OriginalPath,
				NewPath:      node.OriginalPath,
			}
		}
	}
	if r.Nodes == nil {
		r.Nodes = make(map[string]*resource.Node)
	}
	r.Nodes[node.UniqueID] = node
	file := r.GetFile(f)
	file.Nodes = append(file.Nodes, node.UniqueID)
	return nil
}

// AddSource registers a source table parsed from f. Same uniqueness
// contract as AddNode.
func (r *Registry) AddSource(f *source.File, table *resource.SourceTable) error {
	if r.policy.sources() == ConflictStrict {
		if existing, ok := r.Sources[table.UniqueID]; ok {
			return &DuplicateResourceError{
				Kind:         "source",
				UniqueID:     table.UniqueID,
				Name:         table.Name,
				ExistingPath: existing.OriginalPath,
				NewPath:      table.OriginalPath,
			}
		}
	}
	if r.Sources == nil {
		r.Sources = make(map[string]*resource.SourceTable)
	}
	r.Sources[table.UniqueID] = table
	file := r.GetFile(f)
	file.Sources = append(file.Sources, table.UniqueID)
	return nil
}

// AddDisabled registers a node excluded from the active set. Disabled
// ids are never duplicate-checked: several files legitimately disable
// the same id, and each variant is kept. The id is appended to the
// file's node sequence; provenance does not distinguish active from
// disabled.
func (r *Registry) AddDisabled(f *source.File, node *resource.Node) {
	if r.Disabled == nil {
		r.Disabled = make(map[string][]*resource.Node)
	}
	r.Disabled[node.UniqueID] = append(r.Disabled[node.UniqueID], node)
	file := r.GetFile(f)
	file.Nodes = append(file.Nodes, node.UniqueID)
}

// AddMacro registers a macro parsed from f. Under the default policy
// an id collision silently overwrites; both insertions still appear
// in their files' macro sequences.
func (r *Registry) AddMacro(f *source.File, macro *resource.Macro) error {
	if r.policy.macros() == ConflictStrict {
		if existing, ok := r.Macros[macro.UniqueID]; ok {
			return &DuplicateResourceError{
				Kind:         "macro",
				UniqueID:     macro.UniqueID,
				Name:         macro.Name,
				ExistingPath: existing.OriginalPath,
				NewPath:      macro.OriginalPath,
			}
		}
	}
	if r.Macros == nil {
		r.Macros = make(map[string]*resource.Macro)
	}
	r.Macros[macro.UniqueID] = macro
	file := r.GetFile(f)
	file.Macros = append(file.Macros, macro.UniqueID)
	return nil
}

// AddDoc registers a documentation block parsed from f. Same
// overwrite contract as AddMacro.
func (r *Registry) AddDoc(f *source.File, doc *resource.Doc) error {
	if r.policy.docs() == ConflictStrict {
		if existing, ok := r.Docs[doc.UniqueID]; ok {
			return &DuplicateResourceError{
				Kind:         "doc",
				UniqueID:     doc.UniqueID,
				Name:         doc.Name,
				ExistingPath: existing.OriginalPath,
				NewPath:      doc.OriginalPath,
			}
		}
	}
	if r.Docs == nil {
		r.Docs = make(map[string]*resource.Doc)
	}
	r.Docs[doc.UniqueID] = doc
	file := r.GetFile(f)
	file.Docs = append(file.Docs, doc.UniqueID)
	return nil
}

// AddPatch registers a schema patch parsed from f, keyed by name. A
// name collision under the strict policy returns a
// *DuplicatePatchError naming both origins.
func (r *Registry) AddPatch(f *source.File, patch *resource.Patch) error {
	if r.policy.patches() == ConflictStrict {
		if existing, ok := r.Patches[patch.Name]; ok {
			return &DuplicatePatchError{
				Name:         patch.Name,
				ExistingPath: existing.OriginalPath,
				NewPath:      patch.OriginalPath,
			}
		}
	}
	if r.Patches == nil {
		r.Patches = make(map[string]*resource.Patch)
	}
	r.Patches[patch.Name] = patch
	file := r.GetFile(f)
	file.Patches = append(file.Patches, patch.Name)
	return nil
}

// DisabledFor returns the disabled variants registered under uniqueID
// that originated from the same original path as f, in registration
// order. Calling this for an id with no disabled entry at all is a
// caller bug or a corrupt cache, and returns a *ConsistencyError.
func (r *Registry) DisabledFor(uniqueID string, f *source.File) ([]*resource.Node, error) {
	variants, ok := r.Disabled[uniqueID]
	if !ok {
		return nil, &ConsistencyError{
			UniqueID: uniqueID,
			Table:    "disabled",
			Path:     f.OriginalPath(),
		}
	}
	var matches []*resource.Node
	for _, node := range variants {
		if node.OriginalPath == f.OriginalPath() {
			matches = append(matches, node)
		}
	}
	return matches, nil
}

// Stats summarizes a registry for pass output and cache status.
type Stats struct {
	Nodes    int `json:"nodes"`
	Sources  int `json:"sources"`
	Docs     int `json:"docs"`
	Macros   int `json:"macros"`
	Patches  int `json:"patches"`
	Files    int `json:"files"`
	Disabled int `json:"disabled"`
}

// Stats counts the registry's contents. Disabled counts variants, not
// distinct ids.
func (r *Registry) Stats() Stats {
	disabled := 0
	for _, variants := range r.Disabled {
		disabled += len(variants)
	}
	return Stats{
		Nodes:    len(r.Nodes),
		Sources:  len(r.Sources),
		Docs:     len(r.Docs),
		Macros:   len(r.Macros),
		Patches:  len(r.Patches),
		Files:    len(r.Files),
		Disabled: disabled,
	}
}
