package forum

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello, World!", "hello-world"},
		{"  Leading and trailing  ", "-leading-and-trailing-"},
		{"Multiple   spaces -- and---hyphens", "multiple-spaces-and-hyphens"},
		{"snake_case stays", "snake_case-stays"},
		{"Café Über", "café-über"},
		{"What?!?", "what"},
		{"Hello\u00a0World", "hello-world"},
		{"Em\u2003Space", "em-space"},
		{"Tab\vSep", "tab-sep"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.title))
		})
	}
}

func TestSlugTruncatesByRune(t *testing.T) {
	title := strings.Repeat("é", 80)
	got := Slug(title)
	assert.Equal(t, 50, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, got, Slug(title))
}
