package forum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLookupFallbacks(t *testing.T) {
	s := NewStore()
	s.AddMember(Member{UserID: 1, Name: "Alice"})
	s.AddCategory(Category{CategoryID: 3, Name: "General"})

	assert.Equal(t, "Alice", s.Username(1))
	assert.Equal(t, "User 99", s.Username(99))
	assert.Equal(t, "General", s.CategoryName(3))
	assert.Equal(t, "Uncategorized", s.CategoryName(42))
}

func TestStoreNameIndexes(t *testing.T) {
	s := NewStore()
	s.AddMember(Member{UserID: 1, Name: "Bob"})
	s.AddMember(Member{UserID: 2, Name: "Bob"})
	s.AddMember(Member{UserID: 3, Name: "Straße"})

	id, ok := s.MemberByName("Bob")
	require.True(t, ok)
	assert.Equal(t, 1, id)

	_, ok = s.MemberByName("bob")
	assert.False(t, ok)

	id, ok = s.MemberByFoldedName("BOB")
	require.True(t, ok)
	assert.Equal(t, 1, id)

	id, ok = s.MemberByFoldedName("STRASSE")
	require.True(t, ok)
	assert.Equal(t, 3, id)
}

func TestStoreDropsOrphanComments(t *testing.T) {
	s := NewStore()
	s.AddDiscussion(Discussion{DiscussionID: 10, Name: "Hello"})

	assert.True(t, s.AddComment(Comment{CommentID: 1, DiscussionID: 10}))
	assert.False(t, s.AddComment(Comment{CommentID: 2, DiscussionID: 11}))
	assert.Len(t, s.Comments(10), 1)
	assert.Empty(t, s.Comments(11))
	assert.Equal(t, 1, s.CommentCount())
}

func TestStoreSortCommentsStable(t *testing.T) {
	s := NewStore()
	s.AddDiscussion(Discussion{DiscussionID: 1})
	s.AddComment(Comment{CommentID: 3, DiscussionID: 1, DateInserted: "2020-01-02 10:00:00"})
	s.AddComment(Comment{CommentID: 1, DiscussionID: 1, DateInserted: "2020-01-01T10:00:00Z"})
	s.AddComment(Comment{CommentID: 2, DiscussionID: 1, DateInserted: "2020-01-02 10:00:00"})
	s.SortComments()

	var ids []int
	for _, c := range s.Comments(1) {
		ids = append(ids, c.CommentID)
	}
	assert.Equal(t, []int{1, 3, 2}, ids)
}

func TestStoreKeepsInsertionOrder(t *testing.T) {
	s := NewStore()
	for _, id := range []int{5, 2, 9} {
		s.AddDiscussion(Discussion{DiscussionID: id})
	}
	s.AddDiscussion(Discussion{DiscussionID: 2, Name: "replaced"})

	var ids []int
	for _, d := range s.Discussions() {
		ids = append(ids, d.DiscussionID)
	}
	assert.Equal(t, []int{5, 2, 9}, ids)
	d, ok := s.Discussion(2)
	require.True(t, ok)
	assert.Equal(t, "replaced", d.Name)
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "January 02, 2021 at 15:04", FormatTimestamp("2021-01-02 15:04:05", "January 02, 2006 at 15:04"))
	assert.Equal(t, "2021-01-02 15:04", FormatTimestamp("2021-01-02T15:04:05Z", "2006-01-02 15:04"))
	assert.Equal(t, "yesterday", FormatTimestamp("yesterday", "2006-01-02"))
}
