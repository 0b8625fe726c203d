package site

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/forumsite/internal/forum"
	"git.home.luguber.info/inful/forumsite/internal/logfields"
	"git.home.luguber.info/inful/forumsite/internal/markup"
)

const (
	contentPreviewDiscussion = 500
	contentPreviewComment    = 300
	excerptDiscussion        = 200
	excerptComment           = 150
	unknownDiscussionTitle   = "Unknown Discussion"
)

// UserPost is one discussion or comment as listed in the per-user data.
// Discussion entries leave DiscussionID and DiscussionTitle empty.
type UserPost struct {
	ID              int    `json:"id"`
	DiscussionID    int    `json:"discussion_id,omitempty"`
	DiscussionTitle string `json:"discussion_title,omitempty"`
	Title           string `json:"title,omitempty"`
	Date            string `json:"date"`
	URL             string `json:"url"`
	Content         string `json:"content,omitempty"`
	Excerpt         string `json:"excerpt,omitempty"`
	FullContent     string `json:"full_content"`
}

// UserPosts groups the posts of one user.
type UserPosts struct {
	Username    string     `json:"username,omitempty"`
	Discussions []UserPost `json:"discussions"`
	Comments    []UserPost `json:"comments"`
}

type userIndexEntry struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	DiscussionCount int    `json:"discussion_count"`
	CommentCount    int    `json:"comment_count"`
}

type userSearchIndex struct {
	Usernames  map[string]int `json:"usernames"`
	PostCounts map[int]int    `json:"post_counts"`
	TotalUsers int            `json:"total_users"`
}

// truncateRunes cuts s to limit runes and appends "..." when it was longer.
func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

// postsByUser collects every post per author. order lists the authors in
// first-seen order: discussions in metadata order, then comments.
type postsByUser struct {
	posts map[int]*UserPosts
	order []int
}

func (p *postsByUser) get(userID int) *UserPosts {
	up, ok := p.posts[userID]
	if !ok {
		up = &UserPosts{Discussions: []UserPost{}, Comments: []UserPost{}}
		p.posts[userID] = up
		p.order = append(p.order, userID)
	}
	return up
}

func collectPosts(store *forum.Store, metas []DiscussionMeta, discussionPreview, commentPreview int, excerpt bool) *postsByUser {
	p := &postsByUser{posts: make(map[int]*UserPosts)}
	for _, m := range metas {
		d, _ := store.Discussion(m.ID)
		post := UserPost{ID: m.ID, Title: m.Title, Date: m.Date, URL: m.URL, FullContent: d.Body}
		if excerpt {
			post.Excerpt = truncateRunes(d.Body, discussionPreview)
		} else {
			post.Content = truncateRunes(d.Body, discussionPreview)
		}
		up := p.get(m.AuthorID)
		up.Discussions = append(up.Discussions, post)
	}
	for _, discussionID := range store.CommentDiscussionIDs() {
		title := unknownDiscussionTitle
		if d, ok := store.Discussion(discussionID); ok {
			title = d.Name
		}
		url := markup.DiscussionURL(discussionID, title)
		for _, c := range store.Comments(discussionID) {
			post := UserPost{
				ID:              c.CommentID,
				DiscussionID:    discussionID,
				DiscussionTitle: title,
				Date:            c.DateInserted,
				URL:             fmt.Sprintf("%s#comment-%d", url, c.CommentID),
				FullContent:     c.Body,
			}
			if excerpt {
				post.Excerpt = truncateRunes(c.Body, commentPreview)
			} else {
				post.Content = truncateRunes(c.Body, commentPreview)
			}
			up := p.get(c.InsertUserID)
			up.Comments = append(up.Comments, post)
		}
	}
	return p
}

func sortNewestFirst(posts []UserPost) {
	slices.SortStableFunc(posts, func(a, b UserPost) int {
		return forum.CompareTimestamps(b.Date, a.Date)
	})
}

// stageUserData writes the per-user data files and the lookup scripts.
func stageUserData(_ context.Context, rc *RenderContext) error {
	store := rc.store
	posts := collectPosts(store, rc.metas, contentPreviewDiscussion, contentPreviewComment, false)

	lookup := make(map[string]int, len(posts.order))
	for _, userID := range posts.order {
		name := strings.ToLower(store.Username(userID))
		if _, seen := lookup[name]; !seen {
			lookup[name] = userID
		}
	}
	if err := rc.writeJS("script", "assets/js/user-lookup.js", "userLookup", lookup); err != nil {
		return err
	}

	for _, userID := range posts.order {
		up := posts.posts[userID]
		sortNewestFirst(up.Discussions)
		sortNewestFirst(up.Comments)
		data, err := marshalJSON(up)
		if err != nil {
			return err
		}
		if err := rc.writeFile("user-data", "assets/user-data/"+strconv.Itoa(userID)+".json", data); err != nil {
			return err
		}
	}

	index := make([]userIndexEntry, 0, len(store.Members()))
	search := userSearchIndex{Usernames: make(map[string]int), PostCounts: make(map[int]int)}
	for _, m := range store.Members() {
		entry := userIndexEntry{ID: m.UserID, Name: m.Name}
		if up, ok := posts.posts[m.UserID]; ok {
			entry.DiscussionCount = len(up.Discussions)
			entry.CommentCount = len(up.Comments)
		}
		index = append(index, entry)
		search.Usernames[strings.ToLower(m.Name)] = m.UserID
	}
	for userID, up := range posts.posts {
		search.PostCounts[userID] = len(up.Discussions) + len(up.Comments)
	}
	search.TotalUsers = len(search.Usernames)

	if err := rc.writeJS("script", "assets/js/user-index.js", "userIndex", index); err != nil {
		return err
	}
	if err := rc.writeJS("script", "assets/js/user-search-index.js", "userSearchIndex", search); err != nil {
		return err
	}
	rc.logger.Info("Wrote user data", logfields.Count(len(posts.order)))
	return nil
}

// ChunkCount returns the number of chunk files for members split by size.
func ChunkCount(members, size int) int {
	if size <= 0 || members == 0 {
		return 0
	}
	return (members + size - 1) / size
}

// stageUserChunks splits every member into fixed-size chunks so the
// browser loads only the chunk holding the user it looks up.
func stageUserChunks(_ context.Context, rc *RenderContext) error {
	store := rc.store
	size := rc.cfg.Users.ChunkSize
	posts := collectPosts(store, rc.metas, excerptDiscussion, excerptComment, true)
	members := store.Members()
	mapping := make(map[int]int, len(members))

	for chunk := 0; chunk < ChunkCount(len(members), size); chunk++ {
		end := min((chunk+1)*size, len(members))
		data := make(map[int]UserPosts, end-chunk*size)
		for _, m := range members[chunk*size : end] {
			entry := UserPosts{Username: store.Username(m.UserID), Discussions: []UserPost{}, Comments: []UserPost{}}
			if up, ok := posts.posts[m.UserID]; ok {
				entry.Discussions = up.Discussions
				entry.Comments = up.Comments
			}
			data[m.UserID] = entry
			mapping[m.UserID] = chunk
		}
		rel := fmt.Sprintf("assets/user-chunks/chunk-%d.js", chunk)
		if err := rc.writeJS("user-chunk", rel, fmt.Sprintf("userChunk%d", chunk), data); err != nil {
			return err
		}
		rc.logger.Debug("Wrote user chunk", logfields.Chunk(chunk), logfields.Count(end-chunk*size))
	}
	if err := rc.writeJS("script", "assets/js/user-chunk-mapping.js", "userChunkMapping", mapping); err != nil {
		return err
	}
	rc.logger.Info("Wrote user chunks",
		logfields.Count(len(mapping)),
		logfields.Chunk(ChunkCount(len(members), size)))
	return nil
}
