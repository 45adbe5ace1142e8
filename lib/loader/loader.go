// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"

	"github.com/strata-build/strata/lib/cachefile"
	"github.com/strata-build/strata/lib/fingerprint"
	"github.com/strata-build/strata/lib/parser"
	"github.com/strata-build/strata/lib/project"
	"github.com/strata-build/strata/lib/registry"
	"github.com/strata-build/strata/lib/source"
	"github.com/strata-build/strata/lib/version"
)

// Options configures a Loader.
type Options struct {
	// Project is the project whose sources are parsed. Required.
	Project *project.Project

	// Target is the selected connection target, folded into the
	// pinned fingerprints. May be nil for invocations that never
	// touch a warehouse; the cache then pins an empty target.
	Target *project.Target

	// Vars are command-line variable overrides, merged over the
	// project's vars before fingerprinting.
	Vars map[string]any

	// DisableCache turns off both cache reuse and cache writing for
	// this invocation, regardless of the project's partial-parse
	// setting.
	DisableCache bool

	// Compression selects how saved cache payloads are compressed.
	// The zero value stores them uncompressed.
	Compression cachefile.Compression

	// Logger receives diagnostic messages. If nil, a no-op logger is
	// used.
	Logger *slog.Logger
}

// Loader runs parse passes for one project and moves their results in
// and out of the on-disk cache.
type Loader struct {
	project *project.Project
	parser  *parser.Parser
	pinned  registry.Pinned
	hasher  *fingerprint.Cache
	logger  *slog.Logger
	opts    Options
}

// New builds a Loader, fingerprinting the invocation's configuration
// inputs up front so every pass and status check compares against the
// same pinned set.
func New(opts Options) (*Loader, error) {
	if opts.Project == nil {
		return nil, fmt.Errorf("project is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	pinned, err := project.PinnedInputs(opts.Project, opts.Target, opts.Vars)
	if err != nil {
		return nil, err
	}
	hasher, err := fingerprint.NewCache(fingerprint.DefaultCacheCapacity)
	if err != nil {
		return nil, err
	}

	return &Loader{
		project: opts.Project,
		parser:  &parser.Parser{Project: opts.Project.Name},
		pinned:  pinned,
		hasher:  hasher,
		logger:  opts.Logger,
		opts:    opts,
	}, nil
}

// Stats counts what one parse pass did.
type Stats struct {
	// Files is the number of source files discovered.
	Files int `json:"files"`

	// Reused counts files whose artifacts were replayed from the
	// previous pass; Parsed counts files parsed fresh. They sum to
	// Files.
	Reused int `json:"reused"`
	Parsed int `json:"parsed"`

	// CacheUsed reports whether a previous pass seeded reuse.
	// CacheNote says why not when it did not.
	CacheUsed bool   `json:"cache_used"`
	CacheNote string `json:"cache_note,omitempty"`
}

// Result is the outcome of one parse pass.
type Result struct {
	Registry *registry.Registry
	Stats    Stats
}

// Parse runs a full pass over the project's search paths, replaying
// per-file results from the previous saved pass wherever the cache
// allows it and parsing the rest fresh.
func (l *Loader) Parse(ctx context.Context) (*Result, error) {
	old, _, usable, note := l.openCache()
	if !usable {
		old = nil
		l.logger.Debug("parsing without cache reuse", "reason", note)
	}
	stats := Stats{CacheUsed: usable, CacheNote: note}

	files, err := l.discover(ctx)
	if err != nil {
		return nil, err
	}

	fresh := registry.New(l.pinned)
	for _, d := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		relative := filepath.FromSlash(d.relative)
		full := filepath.Join(l.project.Root, d.searched, relative)

		checksum, err := l.hasher.FileHash(full)
		if err != nil {
			return nil, fmt.Errorf("fingerprinting %s: %w", full, err)
		}
		candidate := source.NewFile(l.project.Root, d.searched, relative, checksum)

		if old != nil && old.HasFile(candidate) {
			reused, err := fresh.ReuseFileFrom(old, candidate)
			if err != nil {
				return nil, fmt.Errorf("reusing %s: %w", candidate.OriginalPath(), err)
			}
			if reused {
				stats.Reused++
				l.logger.Debug("file reused", "path", candidate.OriginalPath())
				continue
			}
		}

		contents, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", full, err)
		}
		if err := l.parser.ParseFile(fresh, candidate, d.role, contents); err != nil {
			return nil, err
		}
		stats.Parsed++
		l.logger.Debug("file parsed", "path", candidate.OriginalPath(), "role", d.role)
	}
	stats.Files = len(files)

	l.logger.Info("parse complete",
		"files", stats.Files,
		"reused", stats.Reused,
		"parsed", stats.Parsed,
		"cache_used", stats.CacheUsed)
	return &Result{Registry: fresh, Stats: stats}, nil
}

// Save writes the pass's registry to the project cache path so the
// next pass can reuse it. Invocations with the cache disabled save
// nothing and return nil.
func (l *Loader) Save(result *Result) error {
	if l.opts.DisableCache || !l.project.PartialParseEnabled() {
		l.logger.Debug("cache write skipped", "path", l.project.CachePath())
		return nil
	}
	info, err := cachefile.Write(l.project.CachePath(), version.Version, result.Registry, l.opts.Compression)
	if err != nil {
		return fmt.Errorf("writing parse cache: %w", err)
	}
	l.logger.Info("parse cache written",
		"path", l.project.CachePath(),
		"bytes", info.PayloadSize,
		"compression", info.Compression)
	return nil
}

// openCache loads the previous pass's registry and decides whether it
// may seed reuse. The registry and envelope info come back even when
// the gates fail, so status reporting can describe the file; reg is
// nil only when nothing readable exists on disk.
func (l *Loader) openCache() (reg *registry.Registry, info cachefile.Info, usable bool, note string) {
	if l.opts.DisableCache {
		return nil, cachefile.Info{}, false, "cache disabled for this invocation"
	}
	if !l.project.PartialParseEnabled() {
		return nil, cachefile.Info{}, false, "partial parsing disabled in project file"
	}

	path := l.project.CachePath()
	reg, info, err := cachefile.Read(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, cachefile.Info{}, false, "no cache file"
	case err != nil:
		// A damaged cache costs one full parse, nothing more.
		l.logger.Warn("cache file unreadable, parsing everything", "path", path, "error", err)
		return nil, cachefile.Info{}, false, "cache file unreadable"
	}

	usable, note = l.usability(reg, info)
	return reg, info, usable, note
}

// usability applies the wholesale gates: a cache seeds reuse only when
// it was written by this build under identical pinned inputs.
func (l *Loader) usability(reg *registry.Registry, info cachefile.Info) (bool, string) {
	if info.Version != version.Version {
		return false, fmt.Sprintf("cache written by strata %s, this is %s", info.Version, version.Version)
	}
	switch {
	case reg.Pinned.Vars != l.pinned.Vars:
		return false, "vars changed since the cache was written"
	case reg.Pinned.Profile != l.pinned.Profile:
		return false, "profile changed since the cache was written"
	case !maps.Equal(reg.Pinned.Projects, l.pinned.Projects):
		return false, "project file changed since the cache was written"
	}
	return true, ""
}
