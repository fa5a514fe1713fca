// Package rank picks the articles most relevant to a free-text question and
// packs them into a bounded context blob for the generation call.
//
// Matching is literal and case-insensitive: accented and unaccented letters
// differ unless FoldDiacritics is set.
package rank

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/ligjet/internal/fold"
	"github.com/dgallion1/ligjet/internal/lawdoc"
	"github.com/dgallion1/ligjet/internal/locale"
)

const (
	DefaultTop    = 3
	DefaultBudget = 3500

	phraseBonus = 5
	tokenCap    = 5
	minTokenLen = 3
)

// Config controls ranking and context assembly.
type Config struct {
	Top            int  // Articles kept after sorting.
	Budget         int  // Maximum context length in characters.
	FoldDiacritics bool // Compare with diacritics stripped.

	Header  string // Opening line of a context blob.
	NoMatch string // Returned instead of a blob when nothing scores.
}

// DefaultConfig returns the stock settings with English labels.
func DefaultConfig() Config {
	return Config{
		Top:     DefaultTop,
		Budget:  DefaultBudget,
		Header:  locale.English.ContextHeader,
		NoMatch: locale.English.NoMatch,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Top <= 0 {
		c.Top = d.Top
	}
	if c.Budget <= 0 {
		c.Budget = d.Budget
	}
	if c.Header == "" {
		c.Header = d.Header
	}
	if c.NoMatch == "" {
		c.NoMatch = d.NoMatch
	}
	return c
}

// Query is a parsed question, reusable across many haystacks.
type Query struct {
	phrase string
	tokens []*regexp.Regexp
	fold   bool
}

// NewQuery lower-cases and tokenizes q. Tokens shorter than three
// characters are ignored.
func NewQuery(q string, foldDiacritics bool) Query {
	phrase := lower(strings.TrimSpace(q), foldDiacritics)
	query := Query{phrase: phrase, fold: foldDiacritics}
	for _, w := range strings.Fields(phrase) {
		if utf8.RuneCountInString(w) < minTokenLen {
			continue
		}
		query.tokens = append(query.tokens, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return query
}

// Empty reports whether the query was blank.
func (q Query) Empty() bool {
	return q.phrase == ""
}

// Score rates haystack against the query: 5 if the whole query appears
// verbatim, plus, per token, its whole-word occurrence count capped at 5.
func (q Query) Score(haystack string) int {
	if q.Empty() {
		return 0
	}
	h := lower(haystack, q.fold)

	score := 0
	if strings.Contains(h, q.phrase) {
		score += phraseBonus
	}
	for _, re := range q.tokens {
		if n := len(re.FindAllStringIndex(h, -1)); n > 0 {
			score += min(tokenCap, n)
		}
	}
	return score
}

func lower(s string, foldDiacritics bool) string {
	if foldDiacritics {
		return fold.Lower(s)
	}
	return strings.ToLower(s)
}

// Score rates haystack against query with literal matching.
func Score(haystack, query string) int {
	return NewQuery(query, false).Score(haystack)
}

// Scored is an article with its relevance score.
type Scored struct {
	Article lawdoc.Article `json:"article"`
	Score   int            `json:"score"`
}

// Select scores every article, drops the zero scores and returns the best
// cfg.Top in descending order. Ties keep document order.
func Select(articles []lawdoc.Article, query string, cfg Config) []Scored {
	cfg = cfg.withDefaults()
	q := NewQuery(query, cfg.FoldDiacritics)
	if q.Empty() {
		return nil
	}

	var ranked []Scored
	for _, a := range articles {
		if s := q.Score(a.Haystack()); s > 0 {
			ranked = append(ranked, Scored{Article: a, Score: s})
		}
	}
	slices.SortStableFunc(ranked, func(x, y Scored) int {
		return y.Score - x.Score
	})
	if len(ranked) > cfg.Top {
		ranked = ranked[:cfg.Top]
	}
	return ranked
}

// Rank returns the context blob for query: the selected articles under a
// header, or the no-match text when nothing scored.
func Rank(articles []lawdoc.Article, query string, cfg Config) string {
	return Context(Select(articles, query, cfg), cfg)
}

// Context packs already selected articles into a blob of at most cfg.Budget
// characters. Appending stops once the budget is passed and the result is
// then cut to size.
func Context(selected []Scored, cfg Config) string {
	cfg = cfg.withDefaults()
	if len(selected) == 0 {
		return truncate(cfg.NoMatch, cfg.Budget)
	}

	var sb strings.Builder
	sb.WriteString(cfg.Header)
	for _, s := range selected {
		sb.WriteString("\n=== ")
		sb.WriteString(s.Article.Title)
		sb.WriteString(" ===\n")
		sb.WriteString(strings.Join(s.Article.Body, "\n"))
		sb.WriteString("\n")
		if utf8.RuneCountInString(sb.String()) > cfg.Budget {
			break
		}
	}
	return truncate(sb.String(), cfg.Budget)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
