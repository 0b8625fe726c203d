package forum

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// FixWindows1252 replaces C1 control runes (U+0080..U+009F) with the
// character the same byte denotes in Windows-1252. Positions Windows-1252
// leaves undefined are removed.
func FixWindows1252(s string) string {
	if !strings.ContainsFunc(s, isC1) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !isC1(r) {
			b.WriteRune(r)
			continue
		}
		decoded := charmap.Windows1252.DecodeByte(byte(r))
		if decoded == utf8.RuneError || isC1(decoded) {
			continue
		}
		b.WriteRune(decoded)
	}
	return b.String()
}

func isC1(r rune) bool { return r >= 0x80 && r <= 0x9f }
