package fts

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// MarkdownStripper reduces a Markdown-formatted manifest field down to plain
// prose before it reaches the tokenizer. Adapted from the teacher's
// MarkdownFieldParser: instead of splitting a document into per-element BM25
// fields, the same AST walk is repurposed to concatenate every visible text
// node — headings, emphasis, code spans, body text — into a single string.
type MarkdownStripper struct {
	parser parser.Parser
}

// NewMarkdownStripper returns a stripper backed by goldmark's default parser.
func NewMarkdownStripper() *MarkdownStripper {
	return &MarkdownStripper{parser: goldmark.DefaultParser()}
}

// Strip walks content's Markdown AST and returns the concatenation of every
// visible text node, space-separated, in document order.
func (s *MarkdownStripper) Strip(content string) string {
	source := []byte(content)
	reader := text.NewReader(source)
	doc := s.parser.Parse(reader)

	var parts []string
	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			if t := s.extractText(n, source); t != "" {
				parts = append(parts, t)
			}
			return ast.WalkSkipChildren, nil

		case *ast.CodeSpan:
			if t := s.extractText(n, source); t != "" {
				parts = append(parts, t)
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			if t := s.extractCodeBlock(n, source); t != "" {
				parts = append(parts, t)
			}
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock:
			if t := s.extractCodeBlock(n, source); t != "" {
				parts = append(parts, t)
			}
			return ast.WalkSkipChildren, nil

		case *ast.Text:
			if !s.isInsideSpecialElement(node) {
				if t := strings.TrimSpace(string(n.Segment.Value(source))); t != "" {
					parts = append(parts, t)
				}
			}
		}

		return ast.WalkContinue, nil
	})

	if err != nil {
		return content
	}

	return strings.Join(parts, " ")
}

// extractText recursively extracts plain text from all of node's children.
func (s *MarkdownStripper) extractText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		s.extractTextRecursive(child, source, &buf)
	}
	return strings.TrimSpace(buf.String())
}

func (s *MarkdownStripper) extractTextRecursive(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
	case *ast.String:
		buf.WriteString(string(n.Value))
	default:
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			s.extractTextRecursive(child, source, buf)
		}
	}
	if node.NextSibling() != nil {
		buf.WriteString(" ")
	}
}

// extractCodeBlock extracts a fenced or indented code block's text. A fenced
// block's opening fence line, with its language identifier, is not part of
// the block's content lines, so it never appears in the result.
func (s *MarkdownStripper) extractCodeBlock(node ast.Node, source []byte) string {
	var buf bytes.Buffer

	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		buf.Write(lines.At(i).Value(source))
	}

	return strings.TrimSpace(buf.String())
}

// isInsideSpecialElement reports whether node is nested under a heading or
// code element, whose text is collected by that element's own case instead.
func (s *MarkdownStripper) isInsideSpecialElement(node ast.Node) bool {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		switch parent.(type) {
		case *ast.Heading, *ast.CodeSpan, *ast.FencedCodeBlock, *ast.CodeBlock:
			return true
		}
	}
	return false
}

// StripAll strips every content string in contents, in order.
func (s *MarkdownStripper) StripAll(contents []string) []string {
	out := make([]string, len(contents))
	for i, content := range contents {
		out[i] = s.Strip(content)
	}
	return out
}
