package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/ligjet/internal/lawdoc"
)

// CSVParser handles tabular exports with one section per row. A header row
// naming "title"/"h" and "body"/"p" columns selects them; otherwise the
// first two columns are used and the first row is data.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*lawdoc.RawDocument, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	out := &lawdoc.RawDocument{
		Title:    baseTitle(filename),
		Sections: []lawdoc.Section{},
	}
	if len(records) == 0 {
		return out, nil
	}

	titleCol, bodyCol, hasHeader := csvColumns(records[0])
	rows := records
	if hasHeader {
		rows = records[1:]
	}

	for _, row := range rows {
		var sec lawdoc.Section
		if titleCol >= 0 && titleCol < len(row) {
			sec.Title = row[titleCol]
		}
		if bodyCol >= 0 && bodyCol < len(row) {
			sec.Body = row[bodyCol]
		}
		out.Sections = append(out.Sections, sec)
	}

	return out, nil
}

func csvColumns(header []string) (title, body int, ok bool) {
	title, body = -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "title", "h":
			if title < 0 {
				title = i
			}
		case "body", "p":
			if body < 0 {
				body = i
			}
		}
	}
	if title >= 0 || body >= 0 {
		return title, body, true
	}
	if len(header) == 1 {
		return -1, 0, false
	}
	return 0, 1, false
}
