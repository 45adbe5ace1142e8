// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/strata-build/strata/lib/registry"
	"github.com/strata-build/strata/lib/resource"
	"github.com/strata-build/strata/lib/source"
)

// schemaFile is the YAML shape of a schema file: source declarations
// and model property patches.
type schemaFile struct {
	Version int            `yaml:"version"`
	Sources []schemaSource `yaml:"sources"`
	Models  []schemaModel  `yaml:"models"`
}

type schemaSource struct {
	Name        string        `yaml:"name"`
	Database    string        `yaml:"database"`
	Schema      string        `yaml:"schema"`
	Loader      string        `yaml:"loader"`
	Description string        `yaml:"description"`
	Tables      []schemaTable `yaml:"tables"`
}

type schemaTable struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type schemaModel struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Columns     []schemaColumn `yaml:"columns"`
}

type schemaColumn struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// parseSchema records every source table and model patch declared in
// a schema YAML file. One file may declare many of each; they are
// recorded in declaration order.
func (p *Parser) parseSchema(reg *registry.Registry, file *source.File, contents []byte) error {
	path := file.OriginalPath()

	var parsed schemaFile
	if err := yaml.Unmarshal(contents, &parsed); err != nil {
		return fmt.Errorf("schema %s: %w", path, err)
	}

	for i, declared := range parsed.Sources {
		if declared.Name == "" {
			return fmt.Errorf("schema %s: source entry %d has no name", path, i)
		}
		for j, table := range declared.Tables {
			if table.Name == "" {
				return fmt.Errorf("schema %s: source %q table entry %d has no name", path, declared.Name, j)
			}
			record := &resource.SourceTable{
				UniqueID:     resource.SourceID(p.Project, declared.Name, table.Name),
				SourceName:   declared.Name,
				Name:         table.Name,
				PackageName:  p.Project,
				Path:         file.RelativePath,
				OriginalPath: path,
				Database:     declared.Database,
				Schema:       declared.Schema,
				Loader:       declared.Loader,
				Description:  table.Description,
			}
			if err := reg.AddSource(file, record); err != nil {
				return err
			}
		}
	}

	for i, declared := range parsed.Models {
		if declared.Name == "" {
			return fmt.Errorf("schema %s: model entry %d has no name", path, i)
		}
		patch := &resource.Patch{
			Name:         declared.Name,
			OriginalPath: path,
			Description:  declared.Description,
		}
		for _, column := range declared.Columns {
			patch.Columns = append(patch.Columns, resource.Column{
				Name:        column.Name,
				Description: column.Description,
			})
		}
		if err := reg.AddPatch(file, patch); err != nil {
			return err
		}
	}

	return nil
}
