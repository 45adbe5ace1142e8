// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package registry

// Conflict selects what happens when an artifact is registered under
// an id (or patch name) that is already taken.
type Conflict uint8

const (
	// ConflictDefault applies the built-in rule for the artifact kind:
	// strict for nodes, sources, and patches; overwrite for macros and
	// docs.
	ConflictDefault Conflict = iota

	// ConflictStrict rejects the insertion with a duplicate error.
	ConflictStrict

	// ConflictOverwrite silently replaces the existing artifact. The
	// provenance sequences still record both insertions.
	ConflictOverwrite
)

// Policy sets the conflict behavior per artifact kind. The zero value
// selects every kind's built-in rule, which reproduces the historical
// asymmetry: two files defining the same model is a user error, while
// a macro or doc redefinition silently takes the last writer. Whether
// that relaxation for macros is desirable is genuinely unsettled;
// keeping it a policy knob means strict macro mode is available
// without touching the registry.
type Policy struct {
	Nodes   Conflict
	Sources Conflict
	Macros  Conflict
	Docs    Conflict
	Patches Conflict
}

func resolve(chosen, builtin Conflict) Conflict {
	if chosen == ConflictDefault {
		return builtin
	}
	return chosen
}

func (p Policy) nodes() Conflict   { return resolve(p.Nodes, ConflictStrict) }
func (p Policy) sources() Conflict { return resolve(p.Sources, ConflictStrict) }
func (p Policy) macros() Conflict  { return resolve(p.Macros, ConflictOverwrite) }
func (p Policy) docs() Conflict    { return resolve(p.Docs, ConflictOverwrite) }
func (p Policy) patches() Conflict { return resolve(p.Patches, ConflictStrict) }
