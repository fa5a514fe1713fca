package parser

import (
	"io"

	"github.com/dgallion1/ligjet/internal/lawdoc"
)

// TextParser handles plain text files. The whole file becomes the content
// shape; splitting on blank lines happens during normalization.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*lawdoc.RawDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	content := string(data)
	return &lawdoc.RawDocument{
		Title:   baseTitle(filename),
		Content: &content,
	}, nil
}
