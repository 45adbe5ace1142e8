// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package docview

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// DefaultWidth is the wrap width used when the caller passes none.
const DefaultWidth = 80

// wrapBreakpoints are the characters ansi.Wrap may break lines at.
const wrapBreakpoints = " ,.;-+|"

// The goldmark instance is initialized once and shared. Its
// configuration never changes and parsing keeps per-call state in the
// text.Reader, so sharing is safe. Strikethrough, linkify, and task
// lists are enabled individually; the table extension is not, so pipe
// tables fall through as plain paragraphs.
var (
	parserInstance goldmark.Markdown
	parserOnce     sync.Once
)

func markdownParser() goldmark.Markdown {
	parserOnce.Do(func() {
		parserInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.Strikethrough,
				extension.Linkify,
				extension.TaskList,
			),
		)
	})
	return parserInstance
}

// Renderer renders doc markdown for one output.
type Renderer struct {
	width int
	theme Theme
	lip   *lipgloss.Renderer
}

// New builds a Renderer for output at the given wrap width (zero or
// negative means DefaultWidth). The lipgloss renderer probes output
// through termenv, so a terminal gets its native color depth and a
// pipe gets plain text.
func New(output io.Writer, width int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Renderer{
		width: width,
		theme: DefaultTheme,
		lip:   lipgloss.NewRenderer(output, termenv.WithColorCache(true)),
	}
}

// Render renders markdown source as terminal text. Soft line breaks
// inside paragraphs become spaces, so hard-wrapped source reflows
// cleanly at the renderer's width.
func (r *Renderer) Render(source string) string {
	if source == "" {
		return ""
	}
	src := []byte(source)
	document := markdownParser().Parser().Parse(text.NewReader(src))

	state := &renderState{
		source: src,
		theme:  r.theme,
		width:  r.width,
		lip:    r.lip,
	}
	ast.Walk(document, state.walk)
	return strings.TrimRight(state.output.String(), "\n")
}

// renderState walks a goldmark AST and accumulates styled terminal
// text. A direct ast.Walk fits terminal rendering better than
// goldmark's renderer interface: inline content collects in a buffer
// and is word-wrapped as a unit when its block closes.
type renderState struct {
	source []byte
	theme  Theme
	width  int
	lip    *lipgloss.Renderer

	output strings.Builder

	// inline accumulates styled fragments inside the current
	// paragraph or heading; flushInline wraps and drains it.
	inline strings.Builder

	// Prefix stack for nested containers (blockquotes, list bodies).
	// pendingBullet replaces the whole prefix for the first line of a
	// list item, then clears.
	prefixStack   []prefixLevel
	linePrefix    string
	prefixWidth   int
	pendingBullet string

	// Style counters rather than booleans, so nested emphasis nests.
	bold   int
	italic int
	strike int

	listStack []listLevel

	// Trailing newlines already emitted, for blank line management.
	trailingNewlines int
}

type prefixLevel struct {
	text  string
	width int
}

type listLevel struct {
	ordered bool
	counter int
	tight   bool
}

func (state *renderState) style() lipgloss.Style {
	return state.lip.NewStyle()
}

// currentWidth is the content width left after nesting prefixes,
// clamped so degenerate terminal widths still wrap sanely.
func (state *renderState) currentWidth() int {
	width := state.width - state.prefixWidth
	if width < 10 {
		width = 10
	}
	return width
}

func (state *renderState) pushPrefix(prefix string, visibleWidth int) {
	state.prefixStack = append(state.prefixStack, prefixLevel{text: prefix, width: visibleWidth})
	state.linePrefix += prefix
	state.prefixWidth += visibleWidth
}

func (state *renderState) popPrefix() {
	if len(state.prefixStack) == 0 {
		return
	}
	top := state.prefixStack[len(state.prefixStack)-1]
	state.prefixStack = state.prefixStack[:len(state.prefixStack)-1]
	state.linePrefix = state.linePrefix[:len(state.linePrefix)-len(top.text)]
	state.prefixWidth -= top.width
}

func (state *renderState) inTightList() bool {
	if len(state.listStack) == 0 {
		return false
	}
	return state.listStack[len(state.listStack)-1].tight
}

// write appends text to the output, tracking trailing newlines.
func (state *renderState) write(s string) {
	if s == "" {
		return
	}
	state.output.WriteString(s)

	trailing := 0
	allNewlines := true
	for index := len(s) - 1; index >= 0; index-- {
		if s[index] != '\n' {
			allNewlines = false
			break
		}
		trailing++
	}
	if allNewlines {
		state.trailingNewlines += trailing
	} else {
		state.trailingNewlines = trailing
	}
}

func (state *renderState) ensureNewline() {
	if state.trailingNewlines < 1 {
		state.write("\n")
	}
}

func (state *renderState) ensureBlankLine() {
	for state.trailingNewlines < 2 {
		state.write("\n")
	}
}

// consumeLinePrefix returns the prefix for the next emitted line: the
// pending list bullet exactly once, the regular prefix otherwise.
func (state *renderState) consumeLinePrefix() string {
	if state.pendingBullet != "" {
		bullet := state.pendingBullet
		state.pendingBullet = ""
		return bullet
	}
	return state.linePrefix
}

// applyPrefixes prepends the line prefix to every line of content,
// with the pending bullet on the first.
func (state *renderState) applyPrefixes(content string) string {
	lines := strings.Split(content, "\n")
	var result strings.Builder
	for index, line := range lines {
		if index == 0 {
			result.WriteString(state.consumeLinePrefix())
		} else {
			result.WriteString(state.linePrefix)
		}
		result.WriteString(line)
		if index < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// flushInline wraps the accumulated inline content to the current
// width with prefixes applied, and resets the buffer.
func (state *renderState) flushInline() string {
	content := state.inline.String()
	state.inline.Reset()
	if content == "" {
		return ""
	}
	return state.applyPrefixes(ansi.Wrap(content, state.currentWidth(), wrapBreakpoints))
}

// styledText renders content under the current emphasis counters.
func (state *renderState) styledText(content string) string {
	style := state.style().Foreground(state.theme.NormalText)
	if state.bold > 0 {
		style = style.Bold(true)
	}
	if state.italic > 0 {
		style = style.Italic(true)
	}
	if state.strike > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

// inlineContent collects a node's children as styled inline text
// without disturbing the surrounding inline state.
func (state *renderState) inlineContent(node ast.Node) string {
	saved := state.inline.String()
	savedBold, savedItalic, savedStrike := state.bold, state.italic, state.strike

	state.inline.Reset()
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		ast.Walk(child, state.walk)
	}
	content := state.inline.String()

	state.inline.Reset()
	state.inline.WriteString(saved)
	state.bold, state.italic, state.strike = savedBold, savedItalic, savedStrike
	return content
}

// highlightCode runs chroma over a code block. Fences without a
// language default to SQL. Plain-text outputs skip chroma entirely,
// since its terminal formatters always emit escape codes.
func (state *renderState) highlightCode(code, language string) string {
	if language == "" {
		language = "sql"
	}
	if state.lip.ColorProfile() == termenv.Ascii {
		return code
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err != nil {
		return state.style().Foreground(state.theme.FaintText).Render(code)
	}
	return buffer.String()
}

// --- AST walk ---

func (state *renderState) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {

	// Block nodes.
	case ast.KindDocument:

	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			state.inline.Reset()
		} else if flushed := state.flushInline(); flushed != "" {
			state.write(flushed)
			state.ensureNewline()
			if !state.inTightList() {
				state.ensureBlankLine()
			}
		}

	case ast.KindHeading:
		if entering {
			state.inline.Reset()
		} else {
			state.leaveHeading(node.(*ast.Heading))
		}

	case ast.KindFencedCodeBlock:
		if entering {
			fence := node.(*ast.FencedCodeBlock)
			language := string(fence.Language(state.source))
			state.emitCode(state.highlightCode(blockText(fence, state.source), language))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			code := blockText(node, state.source)
			state.emitCode(state.style().Foreground(state.theme.FaintText).Render(code))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			state.pushPrefix("│ ", 2)
		} else {
			state.popPrefix()
			state.ensureBlankLine()
		}

	case ast.KindList:
		if entering {
			state.enterList(node.(*ast.List))
		} else {
			state.leaveList()
		}

	case ast.KindListItem:
		if entering {
			state.enterListItem()
		} else {
			state.leaveListItem()
		}

	case ast.KindThematicBreak:
		if entering {
			state.renderRule()
		}

	case ast.KindHTMLBlock:
		if entering {
			stripped := strings.TrimSpace(stripHTMLTags(blockText(node, state.source)))
			if stripped != "" {
				state.write(state.applyPrefixes(state.style().Foreground(state.theme.FaintText).Render(stripped)))
				state.ensureNewline()
				state.ensureBlankLine()
			}
			return ast.WalkSkipChildren, nil
		}

	// Inline nodes.
	case ast.KindText:
		if entering {
			state.handleText(node.(*ast.Text))
		}

	case ast.KindString:
		if entering {
			state.inline.WriteString(state.styledText(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		state.handleEmphasis(node.(*ast.Emphasis), entering)

	case ast.KindCodeSpan:
		if entering {
			state.renderCodeSpan(node)
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if entering {
			state.renderLink(node.(*ast.Link))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(state.source))
			state.inline.WriteString(state.style().Foreground(state.theme.Link).Render(url))
		}

	case ast.KindRawHTML:
		if entering {
			state.renderRawHTML(node.(*ast.RawHTML))
		}

	case extast.KindStrikethrough:
		if entering {
			state.strike++
		} else {
			state.strike--
		}

	case extast.KindTaskCheckBox:
		if entering {
			if node.(*extast.TaskCheckBox).IsChecked {
				state.inline.WriteString(state.styledText("[x] "))
			} else {
				state.inline.WriteString(state.styledText("[ ] "))
			}
		}
	}

	return ast.WalkContinue, nil
}

// --- block handlers ---

func (state *renderState) leaveHeading(heading *ast.Heading) {
	// Headings restyle their whole line, so drop the inline styling
	// already applied to the collected text.
	content := ansi.Strip(state.inline.String())
	state.inline.Reset()
	if content == "" {
		return
	}

	style := state.style().Bold(true)
	if heading.Level <= 2 {
		style = style.Foreground(state.theme.Heading)
	} else {
		style = style.Foreground(state.theme.NormalText)
	}

	wrapped := ansi.Wrap(style.Render(content), state.currentWidth(), wrapBreakpoints)
	state.ensureBlankLine()
	state.write(state.applyPrefixes(wrapped))
	state.ensureNewline()
	state.ensureBlankLine()
}

// emitCode writes an already-styled code block line by line under the
// current prefixes.
func (state *renderState) emitCode(rendered string) {
	state.ensureBlankLine()
	for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
		state.write(state.consumeLinePrefix() + line)
		state.ensureNewline()
	}
	state.ensureBlankLine()
}

func (state *renderState) enterList(list *ast.List) {
	start := 0
	if list.IsOrdered() {
		start = list.Start
	}
	state.listStack = append(state.listStack, listLevel{
		ordered: list.IsOrdered(),
		counter: start,
		tight:   list.IsTight,
	})
}

func (state *renderState) leaveList() {
	if len(state.listStack) > 0 {
		state.listStack = state.listStack[:len(state.listStack)-1]
	}
	if !state.inTightList() {
		state.ensureBlankLine()
	}
}

func (state *renderState) enterListItem() {
	if len(state.listStack) == 0 {
		return
	}
	top := &state.listStack[len(state.listStack)-1]

	var bullet string
	if top.ordered {
		bullet = fmt.Sprintf("%d. ", top.counter)
		top.counter++
	} else {
		bullet = "- "
	}

	// Bullets are ASCII, so byte length is visual width. The pending
	// bullet carries the current prefix so it replaces the whole
	// prefix on the item's first line.
	state.pendingBullet = state.linePrefix + bullet
	state.pushPrefix(strings.Repeat(" ", len(bullet)), len(bullet))
}

func (state *renderState) leaveListItem() {
	state.popPrefix()
	if state.inTightList() {
		state.ensureNewline()
	} else {
		state.ensureBlankLine()
	}
}

func (state *renderState) renderRule() {
	rule := state.style().Foreground(state.theme.Rule).Render(strings.Repeat("─", state.currentWidth()))
	state.ensureBlankLine()
	state.write(state.applyPrefixes(rule))
	state.ensureNewline()
	state.ensureBlankLine()
}

// --- inline handlers ---

func (state *renderState) handleText(node *ast.Text) {
	state.inline.WriteString(state.styledText(string(node.Segment.Value(state.source))))

	// Soft breaks become spaces: hard-wrapped source reflows at
	// whatever width the terminal has.
	if node.SoftLineBreak() {
		state.inline.WriteString(" ")
	}
	if node.HardLineBreak() {
		state.inline.WriteString("\n")
	}
}

func (state *renderState) handleEmphasis(node *ast.Emphasis, entering bool) {
	counter := &state.italic
	if node.Level >= 2 {
		counter = &state.bold
	}
	if entering {
		*counter++
	} else {
		*counter--
	}
}

func (state *renderState) renderCodeSpan(node ast.Node) {
	var code strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch typed := child.(type) {
		case *ast.Text:
			code.Write(typed.Segment.Value(state.source))
		case *ast.String:
			code.Write(typed.Value)
		}
	}
	state.inline.WriteString(state.style().Foreground(state.theme.FaintText).Render(code.String()))
}

func (state *renderState) renderLink(node *ast.Link) {
	// inlineContent already styles the link text; only the
	// destination needs decorating.
	state.inline.WriteString(state.inlineContent(node))
	if url := string(node.Destination); url != "" {
		state.inline.WriteString(" " + state.style().Foreground(state.theme.Link).Render("("+url+")"))
	}
}

func (state *renderState) renderRawHTML(node *ast.RawHTML) {
	var html strings.Builder
	for index := 0; index < node.Segments.Len(); index++ {
		segment := node.Segments.At(index)
		html.Write(segment.Value(state.source))
	}
	if stripped := stripHTMLTags(html.String()); stripped != "" {
		state.inline.WriteString(state.style().Foreground(state.theme.FaintText).Render(stripped))
	}
}

// --- utilities ---

// blockText concatenates the source lines of a block node.
func blockText(node ast.Node, source []byte) string {
	var buffer strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		buffer.Write(segment.Value(source))
	}
	return buffer.String()
}

// stripHTMLTags drops everything between < and >, keeping the text.
func stripHTMLTags(html string) string {
	var result strings.Builder
	inTag := false
	for _, character := range html {
		switch {
		case character == '<':
			inTag = true
		case character == '>':
			inTag = false
		case !inTag:
			result.WriteRune(character)
		}
	}
	return result.String()
}
