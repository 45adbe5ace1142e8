// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/strata-build/strata/lib/testutil"
)

const testProjectYAML = `
name: jaffle
version: "1.0"
`

const testProfilesYAML = `
jaffle:
  target: dev
  outputs:
    dev:
      type: duckdb
      database: jaffle.db
    prod:
      type: postgres
      host: warehouse.internal
      database: analytics
`

func writeProfiles(t *testing.T) string {
	t.Helper()
	directory := t.TempDir()
	path := filepath.Join(directory, "profiles.yaml")
	if err := os.WriteFile(path, []byte(testProfilesYAML), 0o644); err != nil {
		t.Fatalf("writing profiles.yaml: %v", err)
	}
	return directory
}

func TestProjectConfig_AddFlags(t *testing.T) {
	type params struct {
		Project ProjectConfig
		Width   int `flag:"width" desc:"render width" default:"80"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	for _, name := range []string{"project-dir", "profiles-dir", "target", "vars", "width"} {
		if flagSet.Lookup(name) == nil {
			t.Errorf("expected --%s to be registered", name)
		}
	}

	if err := flagSet.Parse([]string{"--project-dir", "/srv/jaffle", "-t", "prod"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Project.ProjectDir != "/srv/jaffle" {
		t.Errorf("ProjectDir = %q, want %q", p.Project.ProjectDir, "/srv/jaffle")
	}
	if p.Project.Target != "prod" {
		t.Errorf("Target = %q, want %q", p.Project.Target, "prod")
	}
}

func TestProjectConfig_Load(t *testing.T) {
	config := ProjectConfig{
		ProjectDir:  testutil.ProjectDir(t, testProjectYAML, nil),
		ProfilesDir: writeProfiles(t),
		Vars:        "env: staging",
	}

	options, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if options.Project.Name != "jaffle" {
		t.Errorf("Project.Name = %q, want %q", options.Project.Name, "jaffle")
	}
	if options.Target == nil || options.Target.Type != "duckdb" {
		t.Errorf("Target = %+v, want the profile's default dev target", options.Target)
	}
	if options.Vars["env"] != "staging" {
		t.Errorf("Vars = %v, want env: staging", options.Vars)
	}
}

func TestProjectConfig_LoadExplicitTarget(t *testing.T) {
	config := ProjectConfig{
		ProjectDir:  testutil.ProjectDir(t, testProjectYAML, nil),
		ProfilesDir: writeProfiles(t),
		Target:      "prod",
	}

	options, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if options.Target == nil || options.Target.Type != "postgres" {
		t.Errorf("Target = %+v, want the prod postgres target", options.Target)
	}
}

func TestProjectConfig_MissingProfilesTolerated(t *testing.T) {
	config := ProjectConfig{
		ProjectDir:  testutil.ProjectDir(t, testProjectYAML, nil),
		ProfilesDir: t.TempDir(),
	}

	options, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if options.Target != nil {
		t.Errorf("Target = %+v, want nil when profiles.yaml is absent", options.Target)
	}
}

func TestProjectConfig_ExplicitTargetWithoutProfiles(t *testing.T) {
	config := ProjectConfig{
		ProjectDir:  testutil.ProjectDir(t, testProjectYAML, nil),
		ProfilesDir: t.TempDir(),
		Target:      "prod",
	}

	_, err := config.Load()
	if err == nil {
		t.Fatal("Load() = nil, want error for --target without profiles.yaml")
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != CategoryValidation {
		t.Errorf("error = %v, want a validation ToolError", err)
	}
}

func TestProjectConfig_UnknownTarget(t *testing.T) {
	config := ProjectConfig{
		ProjectDir:  testutil.ProjectDir(t, testProjectYAML, nil),
		ProfilesDir: writeProfiles(t),
		Target:      "nonexistent",
	}

	_, err := config.Load()
	if err == nil {
		t.Fatal("Load() = nil, want error for unknown target")
	}
}

func TestProjectConfig_BadVars(t *testing.T) {
	config := ProjectConfig{
		ProjectDir: testutil.ProjectDir(t, testProjectYAML, nil),
		Vars:       "{unbalanced",
	}

	_, err := config.Load()
	if err == nil {
		t.Fatal("Load() = nil, want error for malformed --vars")
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != CategoryValidation {
		t.Errorf("error = %v, want a validation ToolError", err)
	}
}

func TestProjectConfig_MissingProject(t *testing.T) {
	config := ProjectConfig{ProjectDir: t.TempDir()}

	_, err := config.Load()
	if err == nil {
		t.Fatal("Load() = nil, want error for directory without a project file")
	}
}
