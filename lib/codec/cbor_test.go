// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

// cachedFile stands in for the purely-internal record shapes that
// carry cbor struct tags.
type cachedFile struct {
	SearchKey string `cbor:"search_key"`
	Checksum  string `cbor:"checksum,omitempty"`
	Nodes     int    `cbor:"nodes"`
}

func TestRoundtrip(t *testing.T) {
	records := []cachedFile{
		{SearchKey: "models/orders.sql", Checksum: "b3:aa12", Nodes: 2},
		{SearchKey: "macros/cents_to_dollars.sql", Nodes: 1},
		{},
	}
	for _, original := range records {
		data, err := Marshal(original)
		if err != nil {
			t.Fatalf("Marshal(%+v): %v", original, err)
		}
		var decoded cachedFile
		if err := Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal(%+v): %v", original, err)
		}
		if decoded != original {
			t.Errorf("roundtrip changed %+v into %+v", original, decoded)
		}
	}
}

func TestMapKeyOrderIrrelevant(t *testing.T) {
	// Go randomizes map iteration, so encoding the same vars map
	// repeatedly exercises the sorted-key guarantee. Unequal images
	// here would make config fingerprints flap between runs.
	vars := map[string]any{
		"start_date": "2026-01-01",
		"region":     "eu-west",
		"limit":      int64(10),
		"backfill":   true,
	}
	baseline, err := Marshal(vars)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for i := range 8 {
		image, err := Marshal(vars)
		if err != nil {
			t.Fatalf("Marshal %d: %v", i, err)
		}
		if !bytes.Equal(image, baseline) {
			t.Fatalf("encoding %d differs from baseline:\n%x\n%x", i, image, baseline)
		}
	}
}

func TestJSONTagNamesUsed(t *testing.T) {
	// Types tagged only with `json` still get those names as CBOR map
	// keys through fxamacker's fallback. The cache envelope depends on
	// this: its fields carry json tags for --json output.
	type envelope struct {
		Version  string `json:"version"`
		Registry []byte `json:"registry"`
	}
	original := envelope{Version: "0.4.0", Registry: []byte{0x9f, 0x00, 0xff}}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	for _, key := range []string{`"version"`, `"registry"`} {
		if !strings.Contains(notation, key) {
			t.Errorf("notation %q missing key %s", notation, key)
		}
	}

	var decoded envelope
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Version != original.Version || !bytes.Equal(decoded.Registry, original.Registry) {
		t.Errorf("roundtrip changed %+v into %+v", original, decoded)
	}
}

func TestOmitemptyDropsZeroFields(t *testing.T) {
	data, err := Marshal(cachedFile{SearchKey: "models/orders.sql", Nodes: 2})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if strings.Contains(notation, "checksum") {
		t.Errorf("zero checksum field still encoded: %s", notation)
	}
}

func TestAnyTargetsDecodeToStringMaps(t *testing.T) {
	data, err := Marshal(map[string]any{
		"vars": map[string]any{"limit": int64(3)},
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	outer, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded as %T, want map[string]any", decoded)
	}
	if _, ok := outer["vars"].(map[string]any); !ok {
		t.Fatalf("nested value decoded as %T, want map[string]any", outer["vars"])
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	var target cachedFile
	if err := Unmarshal([]byte{0xff, 0x00, 0xc3}, &target); err == nil {
		t.Error("Unmarshal accepted invalid CBOR")
	}
}

func BenchmarkMarshalVarsImage(b *testing.B) {
	vars := map[string]any{
		"start_date": "2026-01-01",
		"end_date":   "2026-08-25",
		"region":     "eu-west",
		"limit":      int64(500),
	}
	b.ReportAllocs()
	for b.Loop() {
		Marshal(vars)
	}
}
