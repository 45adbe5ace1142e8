// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"fmt"

	"github.com/strata-build/strata/lib/registry"
	"github.com/strata-build/strata/lib/resource"
	"github.com/strata-build/strata/lib/source"
)

// ParseQuery records an ad-hoc query that arrived over the wire
// instead of from a project file. The backing file record is remote:
// it has no search key, so the registry never tracks it and the query
// can never be reused across passes. Returns the node for execution.
func (p *Parser) ParseQuery(reg *registry.Registry, name string, contents []byte) (*resource.Node, error) {
	if name == "" {
		return nil, fmt.Errorf("parsing query: empty name")
	}

	file := source.NewRemoteFile(contents)
	node := &resource.Node{
		UniqueID:    resource.NodeID(resource.KindQuery, p.Project, name),
		Name:        name,
		Kind:        resource.KindQuery,
		PackageName: p.Project,
		RawSQL:      string(contents),
		Enabled:     true,
	}
	if err := reg.AddNode(file, node); err != nil {
		return nil, err
	}
	return node, nil
}
