package source

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownFormat implements Format for Markdown files. Markup is dropped
// and code blocks are skipped.
type MarkdownFormat struct {
	md goldmark.Markdown
}

func init() {
	Register(&MarkdownFormat{md: goldmark.New()})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

func (f *MarkdownFormat) Extract(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return f.Text(data)
}

// Text returns the readable prose of a Markdown document.
func (f *MarkdownFormat) Text(src []byte) (string, error) {
	md := f.md
	if md == nil {
		md = goldmark.New()
	}
	doc := md.Parser().Parse(text.NewReader(src))

	var out strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n := n.(type) {
		case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock:
			if entering {
				return ast.WalkSkipChildren, nil
			}
		case *ast.Text:
			if entering {
				out.Write(n.Segment.Value(src))
				if n.SoftLineBreak() || n.HardLineBreak() {
					out.WriteByte(' ')
				}
			}
		case *ast.String:
			if entering {
				out.Write(n.Value)
			}
		case *ast.AutoLink:
			if entering {
				out.Write(n.Label(src))
			}
		}
		if !entering && n.Type() == ast.TypeBlock {
			out.WriteByte('\n')
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk markdown AST: %w", err)
	}
	return strings.TrimSpace(out.String()), nil
}
