package forum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixWindows1252(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "plain text", "plain text"},
		{"smart quotes", "\u0093quoted\u0094", "“quoted”"},
		{"apostrophe", "don\u0092t", "don’t"},
		{"euro and dash", "\u0080 5 \u0096 6", "€ 5 – 6"},
		{"undefined removed", "a\u0081b\u008dc\u008fd\u0090e\u009df", "abcdef"},
		{"non c1 untouched", "naïve ©", "naïve ©"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FixWindows1252(tt.in))
		})
	}
}
