// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/strata-build/strata/lib/resource"
)

// modelHeader is the YAML frontmatter accepted at the top of a model
// file, between two "---" lines. Everything is optional; a model file
// with no frontmatter is a plain SQL file.
type modelHeader struct {
	Enabled     *bool    `yaml:"enabled"`
	Kind        string   `yaml:"kind"`
	Tags        []string `yaml:"tags"`
	Description string   `yaml:"description"`
}

var frontmatterFence = []byte("---")

// splitFrontmatter separates the optional YAML header from the SQL
// body. The header must start on the first line with "---" and end
// with a matching "---" line. An opening fence without a closing one
// is an error, not SQL.
func splitFrontmatter(contents []byte) (header *modelHeader, body []byte, err error) {
	trimmed := bytes.TrimLeft(contents, "\r\n")
	firstLine, rest, _ := bytes.Cut(trimmed, []byte("\n"))
	if !bytes.Equal(bytes.TrimRight(firstLine, "\r"), frontmatterFence) {
		return nil, contents, nil
	}

	var headerText []byte
	remaining := rest
	for {
		line, next, found := bytes.Cut(remaining, []byte("\n"))
		if bytes.Equal(bytes.TrimRight(line, "\r"), frontmatterFence) {
			body = next
			break
		}
		if !found {
			return nil, nil, fmt.Errorf("unterminated frontmatter: missing closing %q line", frontmatterFence)
		}
		headerText = append(headerText, line...)
		headerText = append(headerText, '\n')
		remaining = next
	}

	parsed := &modelHeader{}
	if err := yaml.Unmarshal(headerText, parsed); err != nil {
		return nil, nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	return parsed, body, nil
}

// kindFromHeader maps the frontmatter kind field to a node kind. An
// empty value means a regular model.
func kindFromHeader(value string) (resource.NodeKind, error) {
	switch value {
	case "", "model":
		return resource.KindModel, nil
	case "seed":
		return resource.KindSeed, nil
	case "snapshot":
		return resource.KindSnapshot, nil
	case "test":
		return resource.KindTest, nil
	case "analysis":
		return resource.KindAnalysis, nil
	case "operation":
		return resource.KindOperation, nil
	default:
		return "", fmt.Errorf("unknown kind %q (want model, seed, snapshot, test, analysis, or operation)", value)
	}
}
