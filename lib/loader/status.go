// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"errors"
	"io/fs"

	"github.com/strata-build/strata/lib/cachefile"
	"github.com/strata-build/strata/lib/registry"
)

// CacheStatus describes the on-disk cache file relative to the
// current invocation's configuration.
type CacheStatus struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`

	// Error carries the read failure for an existing but unreadable
	// file.
	Error string `json:"error,omitempty"`

	// Info and Contents describe a readable cache file.
	Info     *cachefile.Info `json:"info,omitempty"`
	Contents *registry.Stats `json:"contents,omitempty"`

	// Pinned holds the configuration fingerprints the cache was
	// written under.
	Pinned *registry.Pinned `json:"pinned,omitempty"`

	// Usable reports whether the next pass would seed reuse from the
	// file; Note says why not when it would not.
	Usable bool   `json:"usable"`
	Note   string `json:"note,omitempty"`
}

// CacheStatus inspects the cache file without running a pass.
func (l *Loader) CacheStatus() *CacheStatus {
	status := &CacheStatus{Path: l.project.CachePath()}

	reg, info, err := cachefile.Read(status.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		status.Note = "no cache file"
		return status
	case err != nil:
		status.Exists = true
		status.Error = err.Error()
		status.Note = "cache file unreadable"
		return status
	}

	status.Exists = true
	status.Info = &info
	contents := reg.Stats()
	status.Contents = &contents
	status.Pinned = &reg.Pinned

	if !l.project.PartialParseEnabled() {
		status.Note = "partial parsing disabled in project file"
		return status
	}
	status.Usable, status.Note = l.usability(reg, info)
	return status
}
