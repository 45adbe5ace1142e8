// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"path/filepath"

	"github.com/strata-build/strata/lib/fingerprint"
)

// PathKind discriminates how a file entered the pass.
type PathKind string

const (
	// PathKindProject is a file discovered under one of the project's
	// configured source directories. Project files have a stable search
	// key and participate in the parse cache.
	PathKindProject PathKind = "project"

	// PathKindRemote is a payload handed to strata without a backing
	// project file (an ad-hoc query submitted over the API). Remote
	// files have no search key and are always parsed fresh.
	PathKindRemote PathKind = "remote"
)

// File is the record of one input file within a single pass: where it
// came from, the fingerprint of its contents, and the identifiers of
// every artifact parsed out of it, in insertion order.
//
// The id sequences record per-file provenance. Reuse replays them
// verbatim, so after a cache hit the artifacts reappear in exactly the
// order a fresh parse would have produced. A File is owned by the
// registry that created or retrieved it; callers append to the
// sequences only through the registry's add operations.
type File struct {
	Kind PathKind `json:"kind"`

	// SearchedPath is the configured source directory the file was
	// found under, relative to the project root (for example "models").
	SearchedPath string `json:"searched_path,omitempty"`

	// RelativePath is the file's path below SearchedPath.
	RelativePath string `json:"relative_path,omitempty"`

	// ProjectRoot is the absolute path of the project the file belongs
	// to. Deliberately excluded from the search key so a cache survives
	// the project directory moving.
	ProjectRoot string `json:"project_root,omitempty"`

	// Checksum fingerprints the file contents as of this pass.
	Checksum fingerprint.Hash `json:"checksum"`

	// Artifact id sequences, in insertion order. Nodes also carries the
	// ids of disabled nodes: provenance tracking does not care whether
	// a node ended up active.
	Nodes   []string `json:"nodes,omitempty"`
	Sources []string `json:"sources,omitempty"`
	Docs    []string `json:"docs,omitempty"`
	Macros  []string `json:"macros,omitempty"`
	Patches []string `json:"patches,omitempty"`
}

// NewFile returns a project file record with empty artifact sequences.
func NewFile(projectRoot, searchedPath, relativePath string, checksum fingerprint.Hash) *File {
	return &File{
		Kind:         PathKindProject,
		SearchedPath: searchedPath,
		RelativePath: relativePath,
		ProjectRoot:  projectRoot,
		Checksum:     checksum,
	}
}

// NewRemoteFile returns a record for an ad-hoc payload. The checksum
// is computed for display purposes; remote files are never matched
// against a cache.
func NewRemoteFile(contents []byte) *File {
	return &File{
		Kind:     PathKindRemote,
		Checksum: fingerprint.HashFile(contents),
	}
}

// SearchKey returns the identity the parse cache tracks this file
// under, and whether one exists. Remote files return false: they have
// no stable identity to cache against.
func (f *File) SearchKey() (string, bool) {
	if f.Kind != PathKindProject {
		return "", false
	}
	return f.OriginalPath(), true
}

// OriginalPath returns the project-relative path of the file
// (SearchedPath joined with RelativePath). This is the path that
// disambiguates artifacts sharing a unique id, and the stable half of
// the search key. Empty for remote files.
func (f *File) OriginalPath() string {
	if f.Kind != PathKindProject {
		return ""
	}
	return filepath.Join(f.SearchedPath, f.RelativePath)
}

// FullPath returns the absolute on-disk path of the file. Empty for
// remote files.
func (f *File) FullPath() string {
	if f.Kind != PathKindProject {
		return ""
	}
	return filepath.Join(f.ProjectRoot, f.SearchedPath, f.RelativePath)
}
