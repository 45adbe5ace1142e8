// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"fmt"

	"github.com/strata-build/strata/lib/codec"
	"github.com/strata-build/strata/lib/fingerprint"
	"github.com/strata-build/strata/lib/registry"
)

// PinnedInputs computes the fingerprints the cache compares before
// reusing anything: the merged var set, the selected connection
// target, and the raw project file. Var and target images go through
// deterministic CBOR so equal values always produce equal hashes.
func PinnedInputs(proj *Project, target *Target, overrides map[string]any) (registry.Pinned, error) {
	varsImage, err := codec.Marshal(MergeVars(proj.Vars, overrides))
	if err != nil {
		return registry.Pinned{}, fmt.Errorf("encoding vars for fingerprinting: %w", err)
	}

	targetImage, err := codec.Marshal(target)
	if err != nil {
		return registry.Pinned{}, fmt.Errorf("encoding target for fingerprinting: %w", err)
	}

	return registry.Pinned{
		Vars:    fingerprint.HashConfig(varsImage),
		Profile: fingerprint.HashConfig(targetImage),
		Projects: map[string]fingerprint.Hash{
			proj.Name: proj.FileHash,
		},
	}, nil
}
