// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/strata-build/strata/lib/cachefile"
	"github.com/strata-build/strata/lib/fingerprint"
	"github.com/strata-build/strata/lib/project"
	"github.com/strata-build/strata/lib/registry"
	"github.com/strata-build/strata/lib/source"
	"github.com/strata-build/strata/lib/testutil"
	"github.com/strata-build/strata/lib/version"
)

const projectYAML = `
name: jaffle
vars:
  start_date: "2026-01-01"
`

// projectTree is a small but complete project: two active models, one
// disabled model, a schema file declaring a source and a patch, a doc
// block, and a macro. Six files in all.
func projectTree() map[string]string {
	return map[string]string{
		"models/orders.sql": `---
tags: [mart, nightly]
description: Order rollup.
---
select order_id, status from {{ ref('stg_orders') }}
`,
		"models/staging/stg_orders.sql": "select * from raw.orders\n",
		"models/experiments/orders_v2.sql": `---
enabled: false
---
select 1
`,
		"models/schema.yml": `
version: 2
sources:
  - name: stripe
    schema: raw
    tables:
      - name: payments
models:
  - name: orders
    description: One row per order.
    columns:
      - name: order_id
        description: Primary key.
`,
		"models/overview.md":          "# Orders\n\nThe core mart.\n",
		"macros/cents_to_dollars.sql": "{% macro cents_to_dollars(n) %}{{ n }} / 100{% endmacro %}\n",
	}
}

func newLoader(t *testing.T, root string, mutate func(*Options)) *Loader {
	t.Helper()
	proj, err := project.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	opts := Options{Project: proj, Compression: cachefile.CompressionZstd}
	if mutate != nil {
		mutate(&opts)
	}
	l, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

func runPass(t *testing.T, root string, mutate func(*Options)) (*Loader, *Result) {
	t.Helper()
	l := newLoader(t, root, mutate)
	result, err := l.Parse(context.Background())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return l, result
}

// --- fresh pass tests ---

func TestParseFreshProject(t *testing.T) {
	root := testutil.ProjectDir(t, projectYAML, projectTree())
	_, result := runPass(t, root, nil)

	want := Stats{Files: 6, Parsed: 6, CacheNote: "no cache file"}
	if result.Stats != want {
		t.Errorf("Stats = %+v, want %+v", result.Stats, want)
	}

	reg := result.Registry
	for _, id := range []string{"model.jaffle.orders", "model.jaffle.stg_orders"} {
		if reg.Nodes[id] == nil {
			t.Errorf("node %s missing", id)
		}
	}
	if len(reg.Disabled["model.jaffle.orders_v2"]) != 1 {
		t.Error("disabled model missing")
	}
	if reg.Sources["source.jaffle.stripe.payments"] == nil {
		t.Error("source missing")
	}
	if reg.Docs["doc.jaffle.overview"] == nil {
		t.Error("doc missing")
	}
	if reg.Macros["macro.jaffle.cents_to_dollars"] == nil {
		t.Error("macro missing")
	}
	if reg.Patches["orders"] == nil {
		t.Error("patch missing")
	}

	if err := reg.Verify(); err != nil {
		t.Errorf("Verify after fresh pass: %v", err)
	}
}

func TestParseSkipsHiddenAndMissingPaths(t *testing.T) {
	tree := projectTree()
	tree["models/.scratch/tmp.sql"] = "select 2\n"
	tree["models/.orders.sql.swp"] = "vim droppings"
	root := testutil.ProjectDir(t, `
name: jaffle
model-paths: [models, marts]
`, tree)

	// The marts directory does not exist; the hidden files must not
	// be picked up.
	_, result := runPass(t, root, nil)
	if result.Stats.Files != 6 {
		t.Errorf("Files = %d, want 6", result.Stats.Files)
	}
	if result.Registry.Nodes["model.jaffle.tmp"] != nil {
		t.Error("model under a dot directory was parsed")
	}
}

func TestParseDuplicateModelAborts(t *testing.T) {
	tree := projectTree()
	tree["models/dupe/orders.sql"] = "select 3\n"
	root := testutil.ProjectDir(t, projectYAML, tree)

	l := newLoader(t, root, nil)
	_, err := l.Parse(context.Background())
	if err == nil {
		t.Fatal("Parse accepted two models named orders")
	}
	if !registry.IsDuplicate(err) {
		t.Errorf("error is not a duplicate error: %v", err)
	}
	if !strings.Contains(err.Error(), "model.jaffle.orders") {
		t.Errorf("error does not name the colliding id: %v", err)
	}
}

func TestParseCancelledContext(t *testing.T) {
	root := testutil.ProjectDir(t, projectYAML, projectTree())
	l := newLoader(t, root, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Parse(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Parse under cancelled context = %v, want context.Canceled", err)
	}
}

// --- reuse tests ---

func TestSecondPassReusesEverything(t *testing.T) {
	root := testutil.ProjectDir(t, projectYAML, projectTree())
	l, first := runPass(t, root, nil)
	if err := l.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, second := runPass(t, root, nil)
	want := Stats{Files: 6, Reused: 6, CacheUsed: true}
	if second.Stats != want {
		t.Errorf("Stats = %+v, want %+v", second.Stats, want)
	}

	// Replayed artifacts carry their full parsed shape.
	orders := second.Registry.Nodes["model.jaffle.orders"]
	if orders == nil {
		t.Fatal("reused pass lost model.jaffle.orders")
	}
	if len(orders.Tags) != 2 || orders.Tags[0] != "mart" {
		t.Errorf("Tags = %v", orders.Tags)
	}
	if len(second.Registry.Disabled["model.jaffle.orders_v2"]) != 1 {
		t.Error("reused pass lost the disabled model")
	}
	if err := second.Registry.Verify(); err != nil {
		t.Errorf("Verify after reused pass: %v", err)
	}
}

func TestChangedFileIsReparsed(t *testing.T) {
	root := testutil.ProjectDir(t, projectYAML, projectTree())
	l, first := runPass(t, root, nil)
	if err := l.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	testutil.WriteTree(t, root, map[string]string{
		"models/staging/stg_orders.sql": "select * from raw.orders where deleted_at is null\n",
	})

	_, second := runPass(t, root, nil)
	if second.Stats.Parsed != 1 || second.Stats.Reused != 5 {
		t.Errorf("Stats = %+v, want 1 parsed / 5 reused", second.Stats)
	}
	node := second.Registry.Nodes["model.jaffle.stg_orders"]
	if node == nil || !strings.Contains(node.RawSQL, "deleted_at") {
		t.Error("reparsed model does not carry the new SQL")
	}
}

func TestNewFileJoinsReusedPass(t *testing.T) {
	root := testutil.ProjectDir(t, projectYAML, projectTree())
	l, first := runPass(t, root, nil)
	if err := l.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	testutil.WriteTree(t, root, map[string]string{
		"models/customers.sql": "select * from raw.customers\n",
	})

	_, second := runPass(t, root, nil)
	want := Stats{Files: 7, Reused: 6, Parsed: 1, CacheUsed: true}
	if second.Stats != want {
		t.Errorf("Stats = %+v, want %+v", second.Stats, want)
	}
	if second.Registry.Nodes["model.jaffle.customers"] == nil {
		t.Error("new model missing from second pass")
	}
}

func TestDeletedFileDropsItsArtifacts(t *testing.T) {
	root := testutil.ProjectDir(t, projectYAML, projectTree())
	l, first := runPass(t, root, nil)
	if err := l.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := os.Remove(filepath.Join(root, "models", "overview.md")); err != nil {
		t.Fatalf("removing doc: %v", err)
	}

	_, second := runPass(t, root, nil)
	want := Stats{Files: 5, Reused: 5, CacheUsed: true}
	if second.Stats != want {
		t.Errorf("Stats = %+v, want %+v", second.Stats, want)
	}
	if second.Registry.Docs["doc.jaffle.overview"] != nil {
		t.Error("deleted doc still present after the second pass")
	}
}

// --- cache gate tests ---

func TestVarsChangeForcesFullParse(t *testing.T) {
	root := testutil.ProjectDir(t, projectYAML, projectTree())
	l, first := runPass(t, root, nil)
	if err := l.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, second := runPass(t, root, func(o *Options) {
		o.Vars = map[string]any{"start_date": "2026-02-01"}
	})
	if second.Stats.CacheUsed {
		t.Error("cache used despite changed vars")
	}
	if !strings.Contains(second.Stats.CacheNote, "vars changed") {
		t.Errorf("CacheNote = %q", second.Stats.CacheNote)
	}
	if second.Stats.Parsed != 6 {
		t.Errorf("Parsed = %d, want 6", second.Stats.Parsed)
	}
}

func TestVersionMismatchForcesFullParse(t *testing.T) {
	root := testutil.ProjectDir(t, projectYAML, projectTree())
	l, first := runPass(t, root, nil)

	// Stamp the cache as written by some other build.
	proj := l.project
	if _, err := cachefile.Write(proj.CachePath(), "0.0.9", first.Registry, cachefile.CompressionNone); err != nil {
		t.Fatalf("Write: %v", err)
	}

	_, second := runPass(t, root, nil)
	if second.Stats.CacheUsed {
		t.Error("cache used despite a version mismatch")
	}
	if !strings.Contains(second.Stats.CacheNote, "0.0.9") {
		t.Errorf("CacheNote = %q, want mention of the stamped version", second.Stats.CacheNote)
	}
}

func TestCorruptCacheFallsBackToFullParse(t *testing.T) {
	root := testutil.ProjectDir(t, projectYAML, projectTree())
	l := newLoader(t, root, nil)
	if err := os.MkdirAll(filepath.Dir(l.project.CachePath()), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(l.project.CachePath(), []byte("not a cache"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	result, err := l.Parse(context.Background())
	if err != nil {
		t.Fatalf("Parse with corrupt cache: %v", err)
	}
	if result.Stats.CacheUsed || result.Stats.Parsed != 6 {
		t.Errorf("Stats = %+v, want a full fresh parse", result.Stats)
	}
	if !strings.Contains(result.Stats.CacheNote, "unreadable") {
		t.Errorf("CacheNote = %q", result.Stats.CacheNote)
	}
}

func TestDisableCacheSkipsReuseAndSave(t *testing.T) {
	root := testutil.ProjectDir(t, projectYAML, projectTree())
	l, first := runPass(t, root, nil)
	if err := l.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	disabled, second := runPass(t, root, func(o *Options) { o.DisableCache = true })
	if second.Stats.CacheUsed {
		t.Error("cache used with DisableCache set")
	}
	if second.Stats.Parsed != 6 {
		t.Errorf("Parsed = %d, want 6", second.Stats.Parsed)
	}

	// Save must leave the existing cache alone.
	before, err := os.ReadFile(disabled.project.CachePath())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if err := disabled.Save(second); err != nil {
		t.Fatalf("Save: %v", err)
	}
	after, err := os.ReadFile(disabled.project.CachePath())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(before) != string(after) {
		t.Error("Save rewrote the cache despite DisableCache")
	}
}

func TestPartialParseFalseNeverWritesCache(t *testing.T) {
	root := testutil.ProjectDir(t, `
name: jaffle
partial-parse: false
`, projectTree())

	l, result := runPass(t, root, nil)
	if !strings.Contains(result.Stats.CacheNote, "disabled in project file") {
		t.Errorf("CacheNote = %q", result.Stats.CacheNote)
	}
	if err := l.Save(result); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(l.project.CachePath()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cache file written despite partial-parse: false (stat err %v)", err)
	}
}

func TestInconsistentCacheAbortsPass(t *testing.T) {
	root := testutil.ProjectDir(t, projectYAML, projectTree())
	l := newLoader(t, root, nil)

	// Hand-build a broken previous registry: the orders file record
	// claims a node that is in no table.
	contents, err := os.ReadFile(filepath.Join(root, "models", "orders.sql"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	broken := registry.New(l.pinned)
	f := broken.GetFile(source.NewFile(l.project.Root, "models", "orders.sql", fingerprint.HashFile(contents)))
	f.Nodes = append(f.Nodes, "model.jaffle.vanished")
	if _, err := cachefile.Write(l.project.CachePath(), version.Version, broken, cachefile.CompressionNone); err != nil {
		t.Fatalf("Write: %v", err)
	}

	_, err = l.Parse(context.Background())
	if err == nil {
		t.Fatal("Parse succeeded against an inconsistent cache")
	}
	if !registry.IsConsistency(err) {
		t.Errorf("error is not a consistency error: %v", err)
	}
}

// --- status tests ---

func TestCacheStatusLifecycle(t *testing.T) {
	root := testutil.ProjectDir(t, projectYAML, projectTree())
	l, result := runPass(t, root, nil)

	status := l.CacheStatus()
	if status.Exists || status.Usable {
		t.Errorf("status before save = %+v", status)
	}
	if status.Note != "no cache file" {
		t.Errorf("Note = %q", status.Note)
	}

	if err := l.Save(result); err != nil {
		t.Fatalf("Save: %v", err)
	}

	status = l.CacheStatus()
	if !status.Exists || !status.Usable {
		t.Errorf("status after save = %+v", status)
	}
	if status.Info == nil || status.Info.Version != version.Version {
		t.Errorf("Info = %+v", status.Info)
	}
	if status.Contents == nil || status.Contents.Nodes != 2 || status.Contents.Files != 6 {
		t.Errorf("Contents = %+v", status.Contents)
	}
	if status.Pinned == nil || !status.Pinned.Equal(l.pinned) {
		t.Error("status does not carry the cache's pinned inputs")
	}

	// A different vars set sees the same file as unusable.
	other := newLoader(t, root, func(o *Options) {
		o.Vars = map[string]any{"start_date": "2031-01-01"}
	})
	status = other.CacheStatus()
	if status.Usable {
		t.Error("status usable despite changed vars")
	}
	if !strings.Contains(status.Note, "vars changed") {
		t.Errorf("Note = %q", status.Note)
	}
}

func TestCacheStatusUnreadableFile(t *testing.T) {
	root := testutil.ProjectDir(t, projectYAML, projectTree())
	l := newLoader(t, root, nil)
	if err := os.MkdirAll(filepath.Dir(l.project.CachePath()), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(l.project.CachePath(), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	status := l.CacheStatus()
	if !status.Exists || status.Usable {
		t.Errorf("status = %+v", status)
	}
	if status.Error == "" {
		t.Error("status does not carry the read error")
	}
}
