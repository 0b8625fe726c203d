package forum

import (
	"regexp"
	"strings"
)

const maxSlugRunes = 50

var (
	slugStrip    = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}\v-]`)
	slugCollapse = regexp.MustCompile(`[-\s\p{Z}\v]+`)
)

// Slug derives the URL slug of a discussion title: lower-cased, stripped of
// everything but letters, digits, underscores, whitespace and hyphens, with
// runs of hyphens and whitespace collapsed to one hyphen, truncated to 50 runes.
func Slug(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(title), "")
	s = slugCollapse.ReplaceAllString(s, "-")
	if r := []rune(s); len(r) > maxSlugRunes {
		s = string(r[:maxSlugRunes])
	}
	return s
}
