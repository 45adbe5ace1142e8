// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import "fmt"

// SourceTable is a declared external table that models select from.
// Parsed from the sources: section of a schema file.
type SourceTable struct {
	UniqueID    string `json:"unique_id"`
	SourceName  string `json:"source_name"`
	Name        string `json:"name"`
	PackageName string `json:"package_name"`

	Path         string `json:"path"`
	OriginalPath string `json:"original_file_path"`

	Database    string `json:"database,omitempty"`
	Schema      string `json:"schema,omitempty"`
	Loader      string `json:"loader,omitempty"`
	Description string `json:"description,omitempty"`
}

// Macro is a reusable SQL fragment parsed from a macro file.
type Macro struct {
	UniqueID    string `json:"unique_id"`
	Name        string `json:"name"`
	PackageName string `json:"package_name"`

	Path         string `json:"path"`
	OriginalPath string `json:"original_file_path"`

	Body        string `json:"body"`
	Description string `json:"description,omitempty"`
}

// Doc is a named documentation block parsed from a markdown file.
// Contents is the raw markdown; rendering happens at display time.
type Doc struct {
	UniqueID    string `json:"unique_id"`
	Name        string `json:"name"`
	PackageName string `json:"package_name"`

	Path         string `json:"path"`
	OriginalPath string `json:"original_file_path"`

	Contents string `json:"contents"`
}

// Patch attaches schema-file metadata (description, column docs) to
// the model of the same name. Patches live in their own namespace
// keyed by name, not unique id: the patch for model "orders" is just
// "orders".
type Patch struct {
	Name         string `json:"name"`
	OriginalPath string `json:"original_file_path"`

	Description string   `json:"description,omitempty"`
	Columns     []Column `json:"columns,omitempty"`
}

// Column documents one column within a Patch.
type Column struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SourceID builds the unique identifier for a source table:
// "source.<project>.<source>.<table>".
func SourceID(project, sourceName, tableName string) string {
	return fmt.Sprintf("source.%s.%s.%s", project, sourceName, tableName)
}

// MacroID builds the unique identifier for a macro:
// "macro.<project>.<name>".
func MacroID(project, name string) string {
	return fmt.Sprintf("macro.%s.%s", project, name)
}

// DocID builds the unique identifier for a documentation block:
// "doc.<project>.<name>".
func DocID(project, name string) string {
	return fmt.Sprintf("doc.%s.%s", project, name)
}
