package site

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"git.home.luguber.info/inful/forumsite/internal/templates"
)

// SearchRecord is one entry of the client-side search data.
type SearchRecord struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	URL          string `json:"url"`
	Type         string `json:"type"`
	Date         string `json:"date"`
	CommentCount int    `json:"comment_count"`
	ID           string `json:"id"`
	CategoryID   int    `json:"category_id"`
	CategoryName string `json:"category_name"`
}

type searchCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (rc *RenderContext) searchCategories() ([]searchCategory, map[int]string) {
	hidden := rc.cfg.Search.HiddenCategories
	var list []searchCategory
	for _, c := range rc.store.Categories() {
		if slices.Contains(hidden, c.Name) {
			continue
		}
		list = append(list, searchCategory{ID: c.CategoryID, Name: c.Name})
	}
	slices.SortStableFunc(list, func(a, b searchCategory) int { return strings.Compare(a.Name, b.Name) })
	lookup := make(map[int]string, len(list))
	for _, c := range list {
		lookup[c.ID] = c.Name
	}
	if list == nil {
		list = []searchCategory{}
	}
	return list, lookup
}

// SearchRecords builds the search data in homepage order.
func (rc *RenderContext) SearchRecords() []SearchRecord {
	metas := newestFirst(rc.metas)
	records := make([]SearchRecord, 0, len(metas))
	for _, m := range metas {
		records = append(records, SearchRecord{
			Title:        m.Title,
			Author:       rc.store.Username(m.AuthorID),
			URL:          m.URL,
			Type:         "discussion",
			Date:         m.Date,
			CommentCount: m.CommentCount,
			ID:           fmt.Sprintf("discussion-%d", m.ID),
			CategoryID:   m.CategoryID,
			CategoryName: m.CategoryName,
		})
	}
	return records
}

func stageSearch(_ context.Context, rc *RenderContext) error {
	categories, lookup := rc.searchCategories()
	catJSON, err := marshalJSON(categories)
	if err != nil {
		return err
	}
	lookupJSON, err := marshalJSON(lookup)
	if err != nil {
		return err
	}
	script := fmt.Sprintf("window.searchCategories = %s;\nwindow.categoryLookup = %s;\n", catJSON, lookupJSON)
	if err := rc.writeFile("script", "assets/js/categories-data.js", []byte(script)); err != nil {
		return err
	}
	if err := rc.writeJS("script", "assets/js/search-data.js", "searchData", rc.SearchRecords()); err != nil {
		return err
	}

	main, err := rc.renderer.Render(templates.Search, nil)
	if err != nil {
		return err
	}
	return rc.writePage("page", "search.html", templates.PageData{
		Title:     "Search",
		Main:      main,
		ExtraFoot: rc.scripts("categories-data.js", "search-data.js", "search.js"),
	})
}

// scripts renders versioned script tags for files under /assets/js.
func (rc *RenderContext) scripts(names ...string) string {
	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "\n    <script src=\"%s\"></script>", rc.renderer.AssetURL("/assets/js/"+name))
	}
	return b.String()
}
