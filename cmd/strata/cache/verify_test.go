// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/strata-build/strata/cmd/strata/cli"
	"github.com/strata-build/strata/lib/cachefile"
	"github.com/strata-build/strata/lib/fingerprint"
	"github.com/strata-build/strata/lib/project"
	"github.com/strata-build/strata/lib/registry"
	"github.com/strata-build/strata/lib/source"
	"github.com/strata-build/strata/lib/testutil"
	"github.com/strata-build/strata/lib/version"
)

func TestRunVerify_ConsistentCache(t *testing.T) {
	root := seedProject(t)

	var out bytes.Buffer
	if err := runVerify(&verifyParams{Dir: root}, nil, &out); err != nil {
		t.Fatalf("runVerify: %v", err)
	}
	if !strings.Contains(out.String(), ": ok (7 artifacts across 6 files)") {
		t.Errorf("output = %q, want ok summary", out.String())
	}
}

func TestRunVerify_InconsistentCacheExitsOne(t *testing.T) {
	root := testutil.ProjectDir(t, projectYAML, projectFiles())
	proj, err := project.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// A file record claiming a node that is in no table.
	broken := registry.New(registry.Pinned{})
	f := broken.GetFile(source.NewFile(proj.Root, "models", "orders.sql", fingerprint.HashFile([]byte("select 1\n"))))
	f.Nodes = append(f.Nodes, "model.jaffle.vanished")
	if _, err := cachefile.Write(proj.CachePath(), version.Version, broken, cachefile.CompressionNone); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var out bytes.Buffer
	err = runVerify(&verifyParams{Dir: root}, nil, &out)
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("err = %v, want exit code 1", err)
	}
	if !strings.Contains(out.String(), "cache verify failed") {
		t.Errorf("output = %q, want failure report", out.String())
	}
	if !strings.Contains(out.String(), "model.jaffle.vanished") {
		t.Errorf("output = %q, should name the dangling id", out.String())
	}
}
