package forum

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareTimestamps(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"both parse", "2021-01-02 10:00:00", "2021-01-02T09:00:00Z", 1},
		{"equal instants across layouts", "2021-01-02T10:00:00Z", "2021-01-02 10:00:00", 0},
		{"unparseable before parseable", "yesterday", "2021-01-02", -1},
		{"parseable after unparseable", "2021-01-02", "0000-00-00", 1},
		{"empty before parseable", "", "1999-12-31", -1},
		{"unparseable lexical", "abc", "abd", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareTimestamps(tt.a, tt.b))
		})
	}
}

func TestCompareTimestampsMixedIsTotal(t *testing.T) {
	values := []string{
		"2021-03-01 00:00:00",
		"zzz",
		"2020-12-31T23:59:59Z",
		"0000-00-00",
		"2021-01-15",
		"",
		"2021-01-15 08:30",
	}
	want := []string{
		"",
		"0000-00-00",
		"zzz",
		"2020-12-31T23:59:59Z",
		"2021-01-15",
		"2021-01-15 08:30",
		"2021-03-01 00:00:00",
	}

	for i := range values {
		rotated := append(slices.Clone(values[i:]), values[:i]...)
		slices.SortStableFunc(rotated, CompareTimestamps)
		assert.Equal(t, want, rotated)
	}

	for _, a := range values {
		for _, b := range values {
			assert.Equal(t, -CompareTimestamps(b, a), CompareTimestamps(a, b), "%q vs %q", a, b)
			for _, c := range values {
				if CompareTimestamps(a, b) <= 0 && CompareTimestamps(b, c) <= 0 {
					assert.LessOrEqual(t, CompareTimestamps(a, c), 0, "%q <= %q <= %q", a, b, c)
				}
			}
		}
	}
}
