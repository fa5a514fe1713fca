package library

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dgallion1/ligjet/internal/fold"
)

const maxSlugLen = 80

var (
	nonSlugRe = regexp.MustCompile(`[^a-z0-9-]`)
	dashRunRe = regexp.MustCompile(`-+`)
)

// Slugify turns a title or filename into a URL-safe identifier. Accented
// letters are reduced to their base letter first, so "për" becomes "per".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(fold.Diacritics(s)))
	s = nonSlugRe.ReplaceAllString(s, "-")
	s = dashRunRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	return s
}

// SlugForFile derives a slug from a file's base name.
func SlugForFile(filename string) string {
	base := filepath.Base(filename)
	return Slugify(strings.TrimSuffix(base, filepath.Ext(base)))
}
