// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"slices"
	"testing"

	"github.com/strata-build/strata/lib/fingerprint"
	"github.com/strata-build/strata/lib/source"
)

// buildOldPass constructs a completed registry holding one file with
// every artifact kind, and returns it with the stored file record.
// The file stands in for models/everything.sql from a previous pass.
func buildOldPass(t *testing.T) (*Registry, *source.File) {
	t.Helper()
	old := New(Pinned{})
	file := newTestFile("everything.sql", "select * from all_the_things")

	if err := old.AddDoc(file, newDoc("orders_status", file)); err != nil {
		t.Fatalf("AddDoc: %v", err)
	}
	if err := old.AddMacro(file, newMacro("cents_to_dollars", file)); err != nil {
		t.Fatalf("AddMacro: %v", err)
	}
	if err := old.AddSource(file, newSourceTable("stripe", "payments", file)); err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	if err := old.AddNode(file, newModel("orders", file)); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := old.AddPatch(file, newPatch("orders", file)); err != nil {
		t.Fatalf("AddPatch: %v", err)
	}
	return old, file
}

// candidateFor returns a fresh file record as the next pass would
// build it from disk: same identity and checksum, empty sequences.
func candidateFor(file *source.File) *source.File {
	return source.NewFile(file.ProjectRoot, file.SearchedPath, file.RelativePath, file.Checksum)
}

// --- reuse tests ---

func TestReuseFidelity(t *testing.T) {
	old, oldFile := buildOldPass(t)
	candidate := candidateFor(oldFile)

	if !old.HasFile(candidate) {
		t.Fatal("HasFile = false for an unchanged candidate")
	}

	fresh := New(Pinned{})
	reused, err := fresh.ReuseFileFrom(old, candidate)
	if err != nil {
		t.Fatalf("ReuseFileFrom: %v", err)
	}
	if !reused {
		t.Fatal("ReuseFileFrom = false for a cacheable unchanged file")
	}

	// Artifacts carry over by identity: the reused values are the old
	// registry's values, not copies.
	for id, node := range old.Nodes {
		if fresh.Nodes[id] != node {
			t.Errorf("node %s was not reused by identity", id)
		}
	}
	for id, table := range old.Sources {
		if fresh.Sources[id] != table {
			t.Errorf("source %s was not reused by identity", id)
		}
	}
	for id, doc := range old.Docs {
		if fresh.Docs[id] != doc {
			t.Errorf("doc %s was not reused by identity", id)
		}
	}
	for id, macro := range old.Macros {
		if fresh.Macros[id] != macro {
			t.Errorf("macro %s was not reused by identity", id)
		}
	}
	for name, patch := range old.Patches {
		if fresh.Patches[name] != patch {
			t.Errorf("patch %s was not reused by identity", name)
		}
	}

	// The new pass's file record replays the old sequences verbatim.
	newFile := fresh.Files[mustSearchKey(t, candidate)]
	if newFile == nil {
		t.Fatal("candidate file was not tracked in the new registry")
	}
	if !slices.Equal(newFile.Nodes, oldFile.Nodes) {
		t.Errorf("node sequence = %v, want %v", newFile.Nodes, oldFile.Nodes)
	}
	if !slices.Equal(newFile.Sources, oldFile.Sources) {
		t.Errorf("source sequence = %v, want %v", newFile.Sources, oldFile.Sources)
	}
	if !slices.Equal(newFile.Docs, oldFile.Docs) {
		t.Errorf("doc sequence = %v, want %v", newFile.Docs, oldFile.Docs)
	}
	if !slices.Equal(newFile.Macros, oldFile.Macros) {
		t.Errorf("macro sequence = %v, want %v", newFile.Macros, oldFile.Macros)
	}
	if !slices.Equal(newFile.Patches, oldFile.Patches) {
		t.Errorf("patch sequence = %v, want %v", newFile.Patches, oldFile.Patches)
	}
}

func mustSearchKey(t *testing.T, file *source.File) string {
	t.Helper()
	key, ok := file.SearchKey()
	if !ok {
		t.Fatal("file unexpectedly has no search key")
	}
	return key
}

func TestReusePreservesInterleavedNodeOrder(t *testing.T) {
	old := New(Pinned{})
	file := newTestFile("orders.sql", "contents")

	first := newModel("orders", file)
	gated := newDisabledModel("orders_experimental", file)
	last := newModel("orders_summary", file)
	if err := old.AddNode(file, first); err != nil {
		t.Fatalf("AddNode first: %v", err)
	}
	old.AddDisabled(file, gated)
	if err := old.AddNode(file, last); err != nil {
		t.Fatalf("AddNode last: %v", err)
	}

	fresh := New(Pinned{})
	candidate := candidateFor(file)
	if _, err := fresh.ReuseFileFrom(old, candidate); err != nil {
		t.Fatalf("ReuseFileFrom: %v", err)
	}

	want := []string{first.UniqueID, gated.UniqueID, last.UniqueID}
	newFile := fresh.Files[mustSearchKey(t, candidate)]
	if !slices.Equal(newFile.Nodes, want) {
		t.Errorf("node sequence = %v, want %v", newFile.Nodes, want)
	}

	// The disabled variant landed in the disabled table, not Nodes.
	if _, ok := fresh.Nodes[gated.UniqueID]; ok {
		t.Error("disabled variant reappeared in the active node table")
	}
	if variants := fresh.Disabled[gated.UniqueID]; len(variants) != 1 || variants[0] != gated {
		t.Errorf("disabled table = %v, want the original variant", variants)
	}
}

func TestReuseCopiesOnlyMatchingDisabledVariants(t *testing.T) {
	old := New(Pinned{})
	fileA := newTestFile("prod/orders.sql", "a")
	fileB := newTestFile("dev/orders.sql", "b")
	variantA := newDisabledModel("orders", fileA)
	variantB := newDisabledModel("orders", fileB)
	old.AddDisabled(fileA, variantA)
	old.AddDisabled(fileB, variantB)

	fresh := New(Pinned{})
	if _, err := fresh.ReuseFileFrom(old, candidateFor(fileA)); err != nil {
		t.Fatalf("ReuseFileFrom: %v", err)
	}

	variants := fresh.Disabled[variantA.UniqueID]
	if len(variants) != 1 || variants[0] != variantA {
		t.Errorf("reused variants = %v, want only fileA's", variants)
	}
}

func TestReuseRefusesRemoteFiles(t *testing.T) {
	old, _ := buildOldPass(t)
	fresh := New(Pinned{})

	reused, err := fresh.ReuseFileFrom(old, source.NewRemoteFile([]byte("select now()")))
	if err != nil {
		t.Fatalf("ReuseFileFrom: %v", err)
	}
	if reused {
		t.Error("ReuseFileFrom = true for a remote file")
	}
	if stats := fresh.Stats(); stats != (Stats{}) {
		t.Errorf("registry mutated by refused reuse: %+v", stats)
	}
}

func TestReuseMissingDocIsFatal(t *testing.T) {
	old, oldFile := buildOldPass(t)
	// Corrupt the cache: the sequence references a doc the table lost.
	oldFile.Docs = append(oldFile.Docs, "doc.jaffle.vanished")

	fresh := New(Pinned{})
	_, err := fresh.ReuseFileFrom(old, candidateFor(oldFile))
	if err == nil {
		t.Fatal("ReuseFileFrom succeeded with a dangling doc id")
	}
	if !IsConsistency(err) {
		t.Errorf("IsConsistency = false, error %v", err)
	}
}

func TestReuseUnresolvableNodeIsFatal(t *testing.T) {
	old, oldFile := buildOldPass(t)
	// An id recorded for the file but present in neither the active
	// nor the disabled table.
	oldFile.Nodes = append(oldFile.Nodes, "model.jaffle.vanished")

	fresh := New(Pinned{})
	_, err := fresh.ReuseFileFrom(old, candidateFor(oldFile))
	if err == nil {
		t.Fatal("ReuseFileFrom succeeded with an unresolvable node id")
	}
	if !IsConsistency(err) {
		t.Errorf("IsConsistency = false, error %v", err)
	}
}

func TestReuseDuplicatePropagates(t *testing.T) {
	old, oldFile := buildOldPass(t)

	// The new pass already parsed a model with the same unique id out
	// of a different file. Reuse must surface the duplicate, not skip.
	fresh := New(Pinned{})
	otherFile := newTestFile("conflicting.sql", "select 2")
	if err := fresh.AddNode(otherFile, newModel("orders", otherFile)); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	_, err := fresh.ReuseFileFrom(old, candidateFor(oldFile))
	if err == nil {
		t.Fatal("ReuseFileFrom succeeded despite a duplicate node id")
	}
	if !IsDuplicate(err) {
		t.Errorf("IsDuplicate = false, error %v", err)
	}
}

func TestReuseOldRegistryIsShareable(t *testing.T) {
	old, oldFile := buildOldPass(t)
	before := old.Stats()

	// Two independent new passes may consume the same old registry.
	for i := 0; i < 2; i++ {
		fresh := New(Pinned{})
		reused, err := fresh.ReuseFileFrom(old, candidateFor(oldFile))
		if err != nil {
			t.Fatalf("ReuseFileFrom pass %d: %v", i, err)
		}
		if !reused {
			t.Fatalf("ReuseFileFrom pass %d = false", i)
		}
	}

	if after := old.Stats(); after != before {
		t.Errorf("old registry mutated by reuse: %+v -> %+v", before, after)
	}
}

// --- end-to-end scenarios ---

func TestScenarioUnchangedFileIsReused(t *testing.T) {
	old := New(Pinned{})
	contents := "select 1 as id"
	file := source.NewFile("/work/jaffle", "models", "a.sql", fingerprint.HashFile([]byte(contents)))
	node := newModel("a", file)
	if err := old.AddNode(file, node); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	// Next pass: same path, same contents.
	candidate := source.NewFile("/work/jaffle", "models", "a.sql", fingerprint.HashFile([]byte(contents)))
	if !old.HasFile(candidate) {
		t.Fatal("HasFile = false for identical contents")
	}

	fresh := New(Pinned{})
	reused, err := fresh.ReuseFileFrom(old, candidate)
	if err != nil {
		t.Fatalf("ReuseFileFrom: %v", err)
	}
	if !reused {
		t.Fatal("ReuseFileFrom = false")
	}
	if fresh.Nodes[node.UniqueID] != node {
		t.Error("node was not carried into the new registry")
	}
	newFile := fresh.Files[mustSearchKey(t, candidate)]
	if !slices.Equal(newFile.Nodes, []string{node.UniqueID}) {
		t.Errorf("file sequence = %v, want [%s]", newFile.Nodes, node.UniqueID)
	}
}

func TestScenarioChangedFileIsNotReused(t *testing.T) {
	old := New(Pinned{})
	file := source.NewFile("/work/jaffle", "models", "a.sql", fingerprint.HashFile([]byte("select 1 as id")))
	if err := old.AddNode(file, newModel("a", file)); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	// Next pass: same path, edited contents. The caller must observe
	// HasFile false and re-parse instead of attempting reuse.
	candidate := source.NewFile("/work/jaffle", "models", "a.sql", fingerprint.HashFile([]byte("select 2 as id")))
	if old.HasFile(candidate) {
		t.Error("HasFile = true for changed contents")
	}
}
