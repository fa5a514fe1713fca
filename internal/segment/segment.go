// Package segment groups normalized paragraphs into articles.
package segment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/ligjet/internal/lawdoc"
)

// DefaultChunkSize is the number of paragraphs per fallback chunk.
const DefaultChunkSize = 10

var articleHeadingRe = regexp.MustCompile(`(?i)^(Neni|Article)\s+\d+`)

// Config controls segmentation.
type Config struct {
	ChunkSize int // Paragraphs per chunk when no headings exist.

	PreambleTitle string // Title of the synthesized preamble article.
	ChunkTitle    string // fmt pattern for chunk titles, gets the 1-based chunk number.
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		ChunkSize:     DefaultChunkSize,
		PreambleTitle: "Preamble",
		ChunkTitle:    "Part %d",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ChunkSize <= 0 {
		c.ChunkSize = d.ChunkSize
	}
	if c.PreambleTitle == "" {
		c.PreambleTitle = d.PreambleTitle
	}
	if c.ChunkTitle == "" {
		c.ChunkTitle = d.ChunkTitle
	}
	return c
}

// IsArticleHeading reports whether a paragraph opens a new article.
func IsArticleHeading(p string) bool {
	return articleHeadingRe.MatchString(strings.TrimSpace(p))
}

// Articles segments paragraphs with the default configuration.
func Articles(paragraphs []string) []lawdoc.Article {
	return Segment(paragraphs, DefaultConfig())
}

// Segment groups paragraphs under the nearest preceding article heading.
// Text before the first heading becomes a preamble article placed ahead of
// it. When no heading appears at all, the paragraphs are cut into
// fixed-size chunks instead.
func Segment(paragraphs []string, cfg Config) []lawdoc.Article {
	cfg = cfg.withDefaults()

	var s scanner
	s.preambleTitle = cfg.PreambleTitle
	for _, p := range paragraphs {
		s.feed(p)
	}
	articles, sawHeading := s.finish()

	if !sawHeading {
		return Chunk(paragraphs, cfg)
	}
	return articles
}

// Chunk cuts non-empty paragraphs into windows of cfg.ChunkSize. Chunk ids
// carry the 0-based index of their first paragraph.
func Chunk(paragraphs []string, cfg Config) []lawdoc.Article {
	cfg = cfg.withDefaults()

	flat := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if t := strings.TrimSpace(p); t != "" {
			flat = append(flat, t)
		}
	}

	out := []lawdoc.Article{}
	for i := 0; i < len(flat); i += cfg.ChunkSize {
		end := min(i+cfg.ChunkSize, len(flat))
		body := make([]string, end-i)
		copy(body, flat[i:end])
		out = append(out, lawdoc.Article{
			ID:    fmt.Sprintf("chunk-%d", i),
			Title: fmt.Sprintf(cfg.ChunkTitle, i/cfg.ChunkSize+1),
			Kind:  lawdoc.KindChunk,
			Body:  body,
		})
	}
	return out
}
