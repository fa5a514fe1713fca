// Package normalize turns any of the raw law shapes into one ordered list of
// clean paragraphs. It never fails: missing or malformed fields just produce
// fewer paragraphs.
package normalize

import (
	"regexp"
	"strings"

	"github.com/dgallion1/ligjet/internal/lawdoc"
)

var blankLineRe = regexp.MustCompile(`\n{2,}`)

// Paragraphs normalizes doc. The first present shape wins: lines, then
// paragraphs, then content, then sections.
func Paragraphs(doc *lawdoc.RawDocument) []string {
	if doc == nil {
		return []string{}
	}
	switch {
	case doc.Lines != nil:
		return FromLines(doc.Lines)
	case doc.Paragraphs != nil:
		return FromParagraphs(doc.Paragraphs)
	case doc.Content != nil:
		return FromContent(*doc.Content)
	case doc.Sections != nil:
		return FromSections(doc.Sections)
	}
	return []string{}
}

// FromLines cleans scraped lines and merges running text into paragraphs.
// Headings and enumerated items each become a paragraph of their own.
func FromLines(lines []string) []string {
	paras := []string{}
	var buf []string

	flush := func() {
		if len(buf) == 0 {
			return
		}
		if joined := collapse(strings.Join(buf, " ")); joined != "" {
			paras = append(paras, joined)
		}
		buf = buf[:0]
	}

	for _, raw := range lines {
		line := CleanLine(raw)
		if line == "" {
			continue
		}

		switch {
		case IsHeading(line):
			flush()
			paras = append(paras, line)
		case IsEnumerated(line):
			flush()
			paras = append(paras, line)
		default:
			buf = append(buf, line)
		}
	}
	flush()

	return paras
}

// CleanLine strips page artifacts from a single scraped line. Boilerplate
// and bare page numbers come back empty.
func CleanLine(s string) string {
	t := strings.ReplaceAll(s, "\f", " ")
	t = strings.ReplaceAll(t, "\r", "")
	t = strings.TrimSpace(t)

	if MatchFirst(BoilerplatePatterns, t) != "" {
		return ""
	}
	return collapse(t)
}

// FromParagraphs trims already-split paragraphs and drops empty ones.
func FromParagraphs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if t := collapse(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// FromContent splits a single text blob on blank lines.
func FromContent(content string) []string {
	content = strings.ReplaceAll(content, "\r", "")
	out := []string{}
	for _, block := range blankLineRe.Split(content, -1) {
		if t := collapse(block); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// FromSections emits each section's title, then its body.
func FromSections(sections []lawdoc.Section) []string {
	out := []string{}
	for _, s := range sections {
		if t := collapse(s.Title); t != "" {
			out = append(out, t)
		}
		if b := collapse(s.Body); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// collapse trims s and squeezes every whitespace run to one space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
