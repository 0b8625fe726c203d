package site

import (
	"slices"

	"git.home.luguber.info/inful/forumsite/internal/forum"
	"git.home.luguber.info/inful/forumsite/internal/markup"
)

// DiscussionMeta is the lightweight record every discussion contributes to
// the derived pages.
type DiscussionMeta struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Date         string `json:"date"`
	Slug         string `json:"slug"`
	URL          string `json:"url"`
	CommentCount int    `json:"comment_count"`
	AuthorID     int    `json:"author_id"`
	CategoryID   int    `json:"category_id"`
	CategoryName string `json:"category_name"`
}

// MetaFor builds the metadata record of a discussion from the store alone.
func MetaFor(store *forum.Store, d forum.Discussion) DiscussionMeta {
	slug := forum.Slug(d.Name)
	return DiscussionMeta{
		ID:           d.DiscussionID,
		Title:        d.Name,
		Date:         d.DateInserted,
		Slug:         slug,
		URL:          markup.DiscussionURL(d.DiscussionID, d.Name),
		CommentCount: len(store.Comments(d.DiscussionID)),
		AuthorID:     d.InsertUserID,
		CategoryID:   d.CategoryID,
		CategoryName: store.CategoryName(d.CategoryID),
	}
}

// newestFirst returns a copy of metas sorted by date descending; ties keep their order.
func newestFirst(metas []DiscussionMeta) []DiscussionMeta {
	out := slices.Clone(metas)
	slices.SortStableFunc(out, func(a, b DiscussionMeta) int {
		return forum.CompareTimestamps(b.Date, a.Date)
	})
	return out
}
