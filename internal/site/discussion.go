package site

import (
	"context"
	"fmt"
	"html"
	"strings"

	"git.home.luguber.info/inful/forumsite/internal/forum"
	"git.home.luguber.info/inful/forumsite/internal/logfields"
	"git.home.luguber.info/inful/forumsite/internal/templates"
)

// PageDateLayout formats dates on HTML pages.
const PageDateLayout = "January 02, 2006 at 15:04"

func formatPageDate(raw string) string { return forum.FormatTimestamp(raw, PageDateLayout) }

func stageRenderDiscussions(_ context.Context, rc *RenderContext) error {
	rc.metas = make([]DiscussionMeta, 0, len(rc.store.Discussions()))
	for _, d := range rc.store.Discussions() {
		meta, err := rc.RenderDiscussion(d)
		if err != nil {
			return err
		}
		rc.metas = append(rc.metas, meta)
	}
	rc.logger.Info("Rendered discussions", logfields.Count(len(rc.metas)))
	return nil
}

// RenderDiscussion renders and writes one discussion page and returns its metadata.
// The body and every comment are rendered with the discussion as owner.
func (rc *RenderContext) RenderDiscussion(d forum.Discussion) (DiscussionMeta, error) {
	meta := MetaFor(rc.store, d)
	comments := rc.store.Comments(d.DiscussionID)

	var b strings.Builder
	for _, c := range comments {
		writeComment(&b, c, rc.store.Username(c.InsertUserID), rc.engine.Render(c.Body, d.DiscussionID))
	}

	main, err := rc.renderer.Render(templates.Discussion, map[string]any{
		"discussion_title": html.EscapeString(d.Name),
		"author_name":      html.EscapeString(rc.store.Username(d.InsertUserID)),
		"discussion_date":  formatPageDate(d.DateInserted),
		"view_count":       d.CountViews,
		"comment_count":    len(comments),
		"discussion_body":  rc.engine.Render(d.Body, d.DiscussionID),
		"comments_html":    b.String(),
	})
	if err != nil {
		return DiscussionMeta{}, err
	}

	rel := strings.TrimPrefix(meta.URL, "/")
	if err := rc.writePage("discussion", rel, templates.PageData{Title: html.EscapeString(d.Name), Main: main}); err != nil {
		return DiscussionMeta{}, err
	}
	rc.rendered = append(rc.rendered, rel)
	return meta, nil
}

func writeComment(b *strings.Builder, c forum.Comment, author, body string) {
	fmt.Fprintf(b, `
<div class="comment" id="comment-%d">
    <div class="comment-meta">
        <span class="author">%s</span>
        <span class="date">%s</span>
        <span class="comment-id"><a href="#comment-%d">#%d</a></span>
        <span class="likes">%d likes</span>
    </div>
    <div class="comment-content">
        %s
    </div>
</div>`, c.CommentID, html.EscapeString(author), formatPageDate(c.DateInserted), c.CommentID, c.CommentID, c.Likes, body)
}
