package site

import (
	"context"
	"fmt"
	"html"
	"strings"

	"git.home.luguber.info/inful/forumsite/internal/logfields"
	"git.home.luguber.info/inful/forumsite/internal/templates"
)

// HomepageFile returns the file name of the 1-indexed homepage page n.
func HomepageFile(n int) string {
	if n <= 1 {
		return "index.html"
	}
	return fmt.Sprintf("page-%d.html", n)
}

// Pagination renders the navigation block for the 1-indexed page of total.
func Pagination(page, total int) string {
	var b strings.Builder
	b.WriteString(`<div class="pagination">`)
	if page > 1 {
		fmt.Fprintf(&b, `<a href="/%s" class="pagination-arrow">← Previous</a> `, HomepageFile(page-1))
	} else {
		b.WriteString(`<span class="pagination-arrow disabled">← Previous</span> `)
	}
	fmt.Fprintf(&b, `<span class="page-info">Page %d of %d</span>`, page, total)
	if page < total {
		fmt.Fprintf(&b, ` <a href="/%s" class="pagination-arrow">Next →</a>`, HomepageFile(page+1))
	} else {
		b.WriteString(` <span class="pagination-arrow disabled">Next →</span>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func stageHomepage(_ context.Context, rc *RenderContext) error {
	metas := newestFirst(rc.metas)
	size := rc.cfg.HomepagePageSize
	total := max((len(metas)+size-1)/size, 1)

	for page := 1; page <= total; page++ {
		start := (page - 1) * size
		end := min(start+size, len(metas))

		var list strings.Builder
		for _, m := range metas[start:end] {
			fmt.Fprintf(&list, `
<article class="discussion-summary">
    <h3><a href="%s">%s</a></h3>
    <div class="discussion-meta">
        <span class="author">by %s</span>
        <span class="date">%s</span>
        <span class="comments">%d comments</span>
        <span class="category">%s</span>
    </div>
</article>`, m.URL, html.EscapeString(m.Title), html.EscapeString(rc.store.Username(m.AuthorID)),
				formatPageDate(m.Date), m.CommentCount, html.EscapeString(m.CategoryName))
		}

		startIdx := start + 1
		if len(metas) == 0 {
			startIdx = 0
		}
		nav := Pagination(page, total)
		main, err := rc.renderer.Render(templates.Homepage, map[string]any{
			"total_discussions": len(metas),
			"top_pagination":    nav,
			"bottom_pagination": nav,
			"start_idx":         startIdx,
			"end_idx":           end,
			"discussions_list":  list.String(),
		})
		if err != nil {
			return err
		}
		title := fmt.Sprintf("Page %d", page)
		if err := rc.writePage("homepage", HomepageFile(page), templates.PageData{Title: title, Main: main}); err != nil {
			return err
		}
	}
	rc.logger.Info("Wrote homepage", logfields.Count(total))
	return nil
}
