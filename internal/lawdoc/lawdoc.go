// Package lawdoc holds the shapes a law passes through: the raw scraped
// document, its normalized paragraphs, and the articles cut from them.
package lawdoc

import "strings"

// RawDocument is a law as it was scraped, in one of four shapes. A nil slice
// (or nil Content) means the shape is absent; an empty non-nil slice is
// present but holds nothing.
type RawDocument struct {
	Title      string    `json:"title,omitempty"`
	Lines      []string  `json:"lines,omitempty"`
	Paragraphs []string  `json:"paragraphs,omitempty"`
	Content    *string   `json:"content,omitempty"`
	Sections   []Section `json:"sections,omitempty"`
}

// Section is one heading/body pair of the sections shape.
type Section struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

// Kind tells real articles apart from synthesized ones.
type Kind string

const (
	KindArticle  Kind = "article"
	KindPreamble Kind = "preamble"
	KindChunk    Kind = "chunk"
)

// PreambleID is the fixed id of the article holding text seen before the
// first heading.
const PreambleID = "preamble"

// Article is a titled, ordered group of paragraphs.
type Article struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Kind  Kind     `json:"kind"`
	Body  []string `json:"body"`
}

// Haystack is the text searched by the filter and the ranker.
func (a Article) Haystack() string {
	return a.Title + "\n" + strings.Join(a.Body, "\n")
}

// ArticleID derives an id from a heading: lower-cased, whitespace runs
// replaced by a single hyphen.
func ArticleID(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), "-")
}

// StringPtr is a convenience for building RawDocument.Content literals.
func StringPtr(s string) *string {
	return &s
}
