// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/strata-build/strata/lib/parser"
)

// discovered is one source file found under a configured search path.
// relative is slash-separated, as returned by the glob walk.
type discovered struct {
	searched string
	relative string
	role     parser.Role
}

// globRole pairs a doublestar pattern with the role its matches parse
// under.
type globRole struct {
	pattern string
	role    parser.Role
}

var (
	modelGlobs = []globRole{
		{"**/*.sql", parser.RoleModel},
		{"**/*.{yml,yaml}", parser.RoleSchema},
	}
	macroGlobs = []globRole{
		{"**/*.sql", parser.RoleMacro},
	}
	docGlobs = []globRole{
		{"**/*.md", parser.RoleDoc},
	}
)

// roleRank fixes the order roles are parsed in. Docs and macros carry
// no cross-references, so they go first; schema patches come after the
// models they annotate.
func roleRank(role parser.Role) int {
	switch role {
	case parser.RoleDoc:
		return 0
	case parser.RoleMacro:
		return 1
	case parser.RoleModel:
		return 2
	case parser.RoleSchema:
		return 3
	}
	return 4
}

// discover walks the project's search paths and returns every source
// file in deterministic order: by role, then search path, then
// relative path. Search paths that do not exist are skipped, and so
// is anything under a dot-prefixed directory.
func (l *Loader) discover(ctx context.Context) ([]discovered, error) {
	var files []discovered

	walk := func(searchPaths []string, globs []globRole) error {
		for _, searched := range searchPaths {
			if err := ctx.Err(); err != nil {
				return err
			}
			root := filepath.Join(l.project.Root, searched)
			if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
				l.logger.Debug("search path missing, skipping", "path", searched)
				continue
			} else if err != nil {
				return fmt.Errorf("checking search path %s: %w", root, err)
			}
			fsys := os.DirFS(root)
			for _, g := range globs {
				matches, err := doublestar.Glob(fsys, g.pattern)
				if err != nil {
					return fmt.Errorf("walking %s: %w", root, err)
				}
				for _, match := range matches {
					if hiddenPath(match) {
						continue
					}
					files = append(files, discovered{searched: searched, relative: match, role: g.role})
				}
			}
		}
		return nil
	}

	if err := walk(l.project.ModelPaths, modelGlobs); err != nil {
		return nil, err
	}
	if err := walk(l.project.MacroPaths, macroGlobs); err != nil {
		return nil, err
	}
	if err := walk(l.project.DocPaths, docGlobs); err != nil {
		return nil, err
	}

	slices.SortFunc(files, func(a, b discovered) int {
		if c := cmp.Compare(roleRank(a.role), roleRank(b.role)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.searched, b.searched); c != 0 {
			return c
		}
		return cmp.Compare(a.relative, b.relative)
	})
	return files, nil
}

// hiddenPath reports whether any segment of a slash-separated path
// starts with a dot. Editor droppings and VCS directories do not
// parse.
func hiddenPath(path string) bool {
	for _, segment := range strings.Split(path, "/") {
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}
