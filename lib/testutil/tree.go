// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree writes the given files under root, creating parent
// directories as needed. Keys are slash-separated paths relative to
// root, values are file contents.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, contents := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("creating %s: %v", filepath.Dir(full), err)
		}
		if err := os.WriteFile(full, []byte(contents), 0o644); err != nil {
			t.Fatalf("writing %s: %v", full, err)
		}
	}
}

// ProjectDir creates a temporary directory holding a strata.yaml with
// the given contents plus the listed source files, and returns its
// path. The file name is spelled out here rather than imported so
// that this package stays dependency-free.
func ProjectDir(t *testing.T, projectYAML string, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	WriteTree(t, root, files)
	if err := os.WriteFile(filepath.Join(root, "strata.yaml"), []byte(projectYAML), 0o644); err != nil {
		t.Fatalf("writing strata.yaml: %v", err)
	}
	return root
}
