package site

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/forumsite/internal/foundation/errors"
	"git.home.luguber.info/inful/forumsite/internal/logfields"
	"git.home.luguber.info/inful/forumsite/internal/markdown"
	"git.home.luguber.info/inful/forumsite/internal/templates"
)

func stageStaticPages(_ context.Context, rc *RenderContext) error {
	about, err := rc.renderer.Render(templates.About, nil)
	if err != nil {
		return err
	}
	if err := rc.writePage("page", "about.html", templates.PageData{Title: "About", Main: about}); err != nil {
		return err
	}

	posts, err := rc.renderer.Render(templates.YourPosts, nil)
	if err != nil {
		return err
	}
	return rc.writePage("page", "your-posts.html", templates.PageData{
		Title:     "Your Posts",
		Main:      posts,
		ExtraFoot: rc.scripts("user-search-index.js", "user-chunk-mapping.js", "your-posts-fast.js"),
	})
}

// reservedPages are written by other stages and cannot be replaced by a markdown page.
var reservedPages = map[string]bool{
	"index": true, "about": true, "search": true, "your-posts": true,
}

// stageInfoPages renders every markdown file in pages_dir into the layout.
func stageInfoPages(_ context.Context, rc *RenderContext) error {
	dir := rc.cfg.PagesDir
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		rc.warn(StageInfoPages, "pages directory not readable", logfields.Path(dir), logfields.Error(err))
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		base := strings.TrimSuffix(name, filepath.Ext(name))
		if reservedPages[base] || strings.HasPrefix(base, "page-") {
			rc.warn(StageInfoPages, "page name collides with a generated page", logfields.Path(name))
			continue
		}
		if err := rc.renderInfoPage(filepath.Join(dir, name), base); err != nil {
			return err
		}
	}
	return nil
}

func (rc *RenderContext) renderInfoPage(path, base string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.FileSystemError("cannot read page").WithCause(err).WithContext("path", path).Build()
	}
	doc, err := markdown.Parse(string(data))
	if err != nil {
		rc.warn(StageInfoPages, "invalid front matter", logfields.Path(path), logfields.Error(err))
		return nil
	}
	body, err := doc.RenderHTML()
	if err != nil {
		return errors.RenderError("cannot render page").WithCause(err).WithContext("path", path).Build()
	}
	title := html.EscapeString(doc.Title(base))
	main, err := rc.renderer.Render(templates.Page, map[string]any{
		"page_title": title,
		"page_body":  body,
	})
	if err != nil {
		return err
	}
	return rc.writePage("info", base+".html", templates.PageData{
		Title:     title,
		ExtraHead: fmt.Sprintf(`<meta name="content-fingerprint" content="%s">`, doc.Fingerprint()),
		Main:      main,
	})
}
