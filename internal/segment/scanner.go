package segment

import (
	"strings"

	"github.com/dgallion1/ligjet/internal/lawdoc"
)

type scanState int

const (
	// noArticleOpen collects paragraphs into the preamble buffer.
	noArticleOpen scanState = iota
	// articleOpen appends paragraphs to the current article.
	articleOpen
)

// scanner is the left-to-right accumulator behind Segment. The zero value is
// ready to use.
type scanner struct {
	state         scanState
	preambleTitle string

	preamble   []string
	current    lawdoc.Article
	out        []lawdoc.Article
	sawHeading bool
}

func (s *scanner) feed(p string) {
	t := strings.TrimSpace(p)
	if t == "" {
		return
	}

	if IsArticleHeading(t) {
		s.sawHeading = true
		switch s.state {
		case noArticleOpen:
			s.flushPreamble()
		case articleOpen:
			s.out = append(s.out, s.current)
		}
		s.current = lawdoc.Article{
			ID:    lawdoc.ArticleID(t),
			Title: t,
			Kind:  lawdoc.KindArticle,
			Body:  []string{},
		}
		s.state = articleOpen
		return
	}

	switch s.state {
	case noArticleOpen:
		s.preamble = append(s.preamble, t)
	case articleOpen:
		s.current.Body = append(s.current.Body, t)
	}
}

// finish closes the open article, flushes any preamble left over and reports
// whether a heading was ever seen.
func (s *scanner) finish() ([]lawdoc.Article, bool) {
	if s.state == articleOpen {
		s.out = append(s.out, s.current)
		s.current = lawdoc.Article{}
		s.state = noArticleOpen
	}
	s.flushPreamble()

	if s.out == nil {
		s.out = []lawdoc.Article{}
	}
	return s.out, s.sawHeading
}

func (s *scanner) flushPreamble() {
	if len(s.preamble) == 0 {
		return
	}
	s.out = append(s.out, lawdoc.Article{
		ID:    lawdoc.PreambleID,
		Title: s.preambleTitle,
		Kind:  lawdoc.KindPreamble,
		Body:  s.preamble,
	})
	s.preamble = nil
}
