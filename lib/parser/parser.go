// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/strata-build/strata/lib/registry"
	"github.com/strata-build/strata/lib/resource"
	"github.com/strata-build/strata/lib/source"
)

// Role tells ParseFile which routine applies to a discovered file.
// The loader assigns roles at discovery time: SQL under model paths
// is a model and SQL under macro paths is a macro; markdown and
// schema YAML only exist under model paths.
type Role int

const (
	RoleModel Role = iota + 1
	RoleMacro
	RoleDoc
	RoleSchema
)

// String returns the role name as used in log output.
func (r Role) String() string {
	switch r {
	case RoleModel:
		return "model"
	case RoleMacro:
		return "macro"
	case RoleDoc:
		return "doc"
	case RoleSchema:
		return "schema"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// Parser turns file contents into registry entries. It is stateless
// apart from the project name that prefixes every minted unique id.
type Parser struct {
	// Project is the owning project's name.
	Project string
}

// ParseFile parses contents according to role and records the
// results against file in the registry. Duplicate-definition errors
// from the registry propagate unchanged so callers can distinguish
// them from syntax errors.
func (p *Parser) ParseFile(reg *registry.Registry, file *source.File, role Role, contents []byte) error {
	switch role {
	case RoleModel:
		return p.parseModel(reg, file, contents)
	case RoleMacro:
		return p.parseMacro(reg, file, contents)
	case RoleDoc:
		return p.parseDoc(reg, file, contents)
	case RoleSchema:
		return p.parseSchema(reg, file, contents)
	default:
		return fmt.Errorf("parsing %s: unknown role %d", file.OriginalPath(), int(role))
	}
}

// parseModel reads one model from a SQL file: optional YAML
// frontmatter, then the statement body. A model disabled in its
// frontmatter goes to the disabled table instead of the active one.
func (p *Parser) parseModel(reg *registry.Registry, file *source.File, contents []byte) error {
	path := file.OriginalPath()

	header, body, err := splitFrontmatter(contents)
	if err != nil {
		return fmt.Errorf("model %s: %w", path, err)
	}

	kind := resource.KindModel
	enabled := true
	var tags []string
	description := ""
	if header != nil {
		kind, err = kindFromHeader(header.Kind)
		if err != nil {
			return fmt.Errorf("model %s: %w", path, err)
		}
		if header.Enabled != nil {
			enabled = *header.Enabled
		}
		tags = header.Tags
		description = header.Description
	}

	name := stem(file.RelativePath)
	node := &resource.Node{
		UniqueID:     resource.NodeID(kind, p.Project, name),
		Name:         name,
		Kind:         kind,
		PackageName:  p.Project,
		Path:         file.RelativePath,
		OriginalPath: path,
		RawSQL:       string(body),
		Description:  description,
		Tags:         tags,
		Enabled:      enabled,
	}

	if !enabled {
		reg.AddDisabled(file, node)
		return nil
	}
	return reg.AddNode(file, node)
}

// parseMacro records one macro per file, named by the file stem.
func (p *Parser) parseMacro(reg *registry.Registry, file *source.File, contents []byte) error {
	name := stem(file.RelativePath)
	macro := &resource.Macro{
		UniqueID:     resource.MacroID(p.Project, name),
		Name:         name,
		PackageName:  p.Project,
		Path:         file.RelativePath,
		OriginalPath: file.OriginalPath(),
		Body:         string(contents),
	}
	return reg.AddMacro(file, macro)
}

// parseDoc records one doc block per markdown file, named by the file
// stem.
func (p *Parser) parseDoc(reg *registry.Registry, file *source.File, contents []byte) error {
	name := stem(file.RelativePath)
	doc := &resource.Doc{
		UniqueID:     resource.DocID(p.Project, name),
		Name:         name,
		PackageName:  p.Project,
		Path:         file.RelativePath,
		OriginalPath: file.OriginalPath(),
		Contents:     string(contents),
	}
	return reg.AddDoc(file, doc)
}

// stem returns the file name without directory or extension:
// "staging/stg_orders.sql" becomes "stg_orders".
func stem(relativePath string) string {
	base := filepath.Base(relativePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
