package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/ligjet/internal/lawdoc"
	"github.com/dgallion1/ligjet/internal/segment"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Every heading opens
// a section; every other top-level block becomes a body-only section so
// paragraph boundaries survive normalization.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*lawdoc.RawDocument, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	out := &lawdoc.RawDocument{
		Title:    baseTitle(filename),
		Sections: []lawdoc.Section{},
	}

	titled := false
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := extractText(node, src)
			if title == "" {
				continue
			}
			// A lone top-level heading before anything else names the law,
			// unless it is itself an article heading.
			if node.Level == 1 && !titled && len(out.Sections) == 0 && !segment.IsArticleHeading(title) {
				out.Title = title
				titled = true
				continue
			}
			out.Sections = append(out.Sections, lawdoc.Section{Title: title})
		case *ast.List:
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				if t := extractText(item, src); t != "" {
					out.Sections = append(out.Sections, lawdoc.Section{Body: t})
				}
			}
		default:
			if t := extractText(n, src); t != "" {
				out.Sections = append(out.Sections, lawdoc.Section{Body: t})
			}
		}
	}

	return out, nil
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			if buf.Len() > 0 && c.Type() == ast.TypeBlock {
				buf.WriteByte('\n')
			}
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
