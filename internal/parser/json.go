package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/ligjet/internal/lawdoc"
)

// JSONParser handles scraped law files stored as JSON in any of the four
// raw shapes.
type JSONParser struct{}

func (p *JSONParser) Parse(r io.Reader, filename string) (*lawdoc.RawDocument, error) {
	var doc lawdoc.RawDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if strings.TrimSpace(doc.Title) == "" {
		doc.Title = baseTitle(filename)
	}
	return &doc, nil
}
