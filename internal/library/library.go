// Package library keeps the laws the service can answer from.
package library

import (
	"crypto/sha256"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/ligjet/internal/lawdoc"
	"github.com/dgallion1/ligjet/internal/normalize"
	"github.com/dgallion1/ligjet/internal/segment"
)

// Law is a normalized, segmented law ready for filtering and ranking.
type Law struct {
	Slug        string
	Title       string
	Source      string
	Paragraphs  []string
	Articles    []lawdoc.Article
	ContentHash string
	LoadedAt    time.Time
}

// Summary is a JSON-safe overview of a Law.
type Summary struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Source      string    `json:"source,omitempty"`
	Paragraphs  int       `json:"paragraphs"`
	Articles    int       `json:"articles"`
	ContentHash string    `json:"content_hash"`
	LoadedAt    time.Time `json:"loaded_at"`
}

func (l *Law) Summary() Summary {
	return Summary{
		Slug:        l.Slug,
		Title:       l.Title,
		Source:      l.Source,
		Paragraphs:  len(l.Paragraphs),
		Articles:    len(l.Articles),
		ContentHash: l.ContentHash,
		LoadedAt:    l.LoadedAt,
	}
}

// Build normalizes and segments raw. The document title is used when it is
// not blank, otherwise the slug stands in for it.
func Build(slug string, raw *lawdoc.RawDocument, cfg segment.Config) *Law {
	title := ""
	if raw != nil {
		title = strings.TrimSpace(raw.Title)
	}
	if title == "" {
		title = slug
	}

	paras := normalize.Paragraphs(raw)
	return &Law{
		Slug:        slug,
		Title:       title,
		Paragraphs:  paras,
		Articles:    segment.Segment(paras, cfg),
		ContentHash: ContentHashHex([]byte(title + "\x00" + strings.Join(paras, "\n"))),
		LoadedAt:    time.Now(),
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

// Store is a thread-safe in-memory catalogue of laws keyed by slug.
type Store struct {
	mu   sync.RWMutex
	laws map[string]*Law
}

func NewStore() *Store {
	return &Store{laws: make(map[string]*Law)}
}

// Put stores law under its slug and reports whether anything changed.
// A law whose content hash matches the stored one is left alone.
func (s *Store) Put(law *Law) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.laws[law.Slug]; ok && cur.ContentHash == law.ContentHash {
		return false
	}
	s.laws[law.Slug] = law
	return true
}

func (s *Store) Get(slug string) *Law {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.laws[slug]
}

// Delete removes a law and reports whether it existed.
func (s *Store) Delete(slug string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.laws[slug]; !ok {
		return false
	}
	delete(s.laws, slug)
	return true
}

// List returns all laws ordered by slug.
func (s *Store) List() []*Law {
	s.mu.RLock()
	out := make([]*Law, 0, len(s.laws))
	for _, l := range s.laws {
		out = append(out, l)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Law) int { return strings.Compare(a.Slug, b.Slug) })
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.laws)
}
