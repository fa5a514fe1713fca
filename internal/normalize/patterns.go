package normalize

import "regexp"

// Pattern is one named line classifier. Patterns are tried in order and the
// first match decides.
type Pattern struct {
	Name string
	re   *regexp.Regexp
}

// Match reports whether the trimmed line matches the pattern.
func (p Pattern) Match(line string) bool {
	return p.re.MatchString(line)
}

// HeadingPatterns recognise lines that stand alone as their own paragraph,
// in priority order.
var HeadingPatterns = []Pattern{
	{Name: "document-marker", re: regexp.MustCompile(`(?i)^(LIGJ|KAPITULLI|KREU|PJESA)\b`)},
	{Name: "chapter-marker", re: regexp.MustCompile(`(?i)^(CHAPTER|PART|TITLE)\s+([IVXLC]+|\d+)\b`)},
	{Name: "article", re: regexp.MustCompile(`(?i)^(Neni|Article)\s+\d+`)},
	{Name: "decimal-clause", re: regexp.MustCompile(`^\d+\.\d+\.`)},
	{Name: "caps-title", re: regexp.MustCompile(`^[A-ZÇËÜÖÄ][A-ZÇËÜÖÄ\s\-]{6,}$`)},
}

// EnumeratedPattern matches "1. ..." list items, which are kept apart from
// their neighbours.
var EnumeratedPattern = Pattern{Name: "enumerated", re: regexp.MustCompile(`^\d+\.\s+`)}

// BoilerplatePatterns match page artifacts dropped during line cleanup.
var BoilerplatePatterns = []Pattern{
	{Name: "gazette-header", re: regexp.MustCompile(`(?i)GAZETA ZYRTARE`)},
	{Name: "official-gazette", re: regexp.MustCompile(`(?i)OFFICIAL GAZETTE`)},
	{Name: "page-number", re: regexp.MustCompile(`^\d{1,3}$`)},
}

// MatchFirst returns the name of the first pattern matching line, or "".
func MatchFirst(patterns []Pattern, line string) string {
	for _, p := range patterns {
		if p.Match(line) {
			return p.Name
		}
	}
	return ""
}

// IsHeading reports whether a trimmed line is a heading of any family.
func IsHeading(line string) bool {
	return MatchFirst(HeadingPatterns, line) != ""
}

// IsEnumerated reports whether a trimmed line opens a numbered list item.
func IsEnumerated(line string) bool {
	return EnumeratedPattern.Match(line)
}
