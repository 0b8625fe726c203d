package logfields

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringHelpers(t *testing.T) {
	cases := []struct {
		attr slog.Attr
		key  string
		val  string
	}{
		{RunID("abc"), KeyRunID, "abc"},
		{Mode("html-only"), KeyMode, "html-only"},
		{Stage("render_discussions"), KeyStage, "render_discussions"},
		{Path("/tmp/x"), KeyPath, "/tmp/x"},
		{Backend("sqlite"), KeyBackend, "sqlite"},
	}
	for _, c := range cases {
		assert.Equal(t, c.key, c.attr.Key)
		assert.Equal(t, c.val, c.attr.Value.String())
	}
}

func TestIntHelpers(t *testing.T) {
	cases := []struct {
		attr slog.Attr
		key  string
		val  int64
	}{
		{Count(3), KeyCount, 3},
		{DiscussionID(10), KeyDiscussionID, 10},
		{CommentID(5), KeyCommentID, 5},
		{UserID(7), KeyUserID, 7},
		{CategoryID(21), KeyCategoryID, 21},
		{Chunk(2), KeyChunk, 2},
	}
	for _, c := range cases {
		assert.Equal(t, c.key, c.attr.Key)
		assert.Equal(t, c.val, c.attr.Value.Int64())
	}
}

func TestError(t *testing.T) {
	assert.Equal(t, "", Error(nil).Value.String())
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
	assert.Equal(t, 12.5, DurationMS(12.5).Value.Float64())
}
