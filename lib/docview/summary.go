// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package docview

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Summary returns the one-line plain form of a doc for listings: the
// text of its first heading, or of its first paragraph when there is
// no heading. Inline markup is dropped.
func Summary(source string) string {
	if source == "" {
		return ""
	}
	src := []byte(source)
	document := markdownParser().Parser().Parse(text.NewReader(src))

	for node := document.FirstChild(); node != nil; node = node.NextSibling() {
		if kind := node.Kind(); kind != ast.KindHeading && kind != ast.KindParagraph {
			continue
		}
		if line := plainText(node, src); line != "" {
			return line
		}
	}
	return ""
}

// plainText flattens a block's inline content, soft breaks included,
// into a single unstyled line.
func plainText(node ast.Node, source []byte) string {
	var buffer strings.Builder
	ast.Walk(node, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch typed := child.(type) {
		case *ast.Text:
			buffer.Write(typed.Segment.Value(source))
			if typed.SoftLineBreak() || typed.HardLineBreak() {
				buffer.WriteByte(' ')
			}
		case *ast.String:
			buffer.Write(typed.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buffer.String())
}
