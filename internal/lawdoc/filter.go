package lawdoc

import "strings"

// Filter keeps the articles whose title or body contains query,
// case-insensitively. A blank query keeps everything.
func Filter(articles []Article, query string) []Article {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return articles
	}

	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Haystack()), q) {
			out = append(out, a)
		}
	}
	return out
}
