package site

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/forumsite/internal/forum"
)

func helloStore() *forum.Store {
	s := forum.NewStore()
	s.AddMember(forum.Member{UserID: 1, Name: "Alice"})
	s.AddMember(forum.Member{UserID: 2, Name: "Bob"})
	s.AddCategory(forum.Category{CategoryID: 1, Name: "General"})
	s.AddDiscussion(forum.Discussion{DiscussionID: 10, Name: "Hello, World!", Body: "first post", InsertUserID: 1, CategoryID: 1, DateInserted: "2021-01-02 10:00:00"})
	s.AddComment(forum.Comment{CommentID: 5, DiscussionID: 10, Body: "[reply=\"Alice;d10\"] agreed", InsertUserID: 2, DateInserted: "2021-01-02 11:00:00"})
	return s
}

func TestRenderDiscussion(t *testing.T) {
	cfg := testConfig(t, "")
	rc := newTestContext(t, cfg, helloStore())
	require.NoError(t, stagePrepareOutput(context.Background(), rc))
	require.NoError(t, stageRenderDiscussions(context.Background(), rc))

	metas := rc.Metas()
	require.Len(t, metas, 1)
	assert.Equal(t, DiscussionMeta{
		ID:           10,
		Title:        "Hello, World!",
		Date:         "2021-01-02 10:00:00",
		Slug:         "hello-world",
		URL:          "/discussions/10-hello-world.html",
		CommentCount: 1,
		AuthorID:     1,
		CategoryID:   1,
		CategoryName: "General",
	}, metas[0])

	page := readFile(t, cfg.OutputPath, "discussions/10-hello-world.html")
	assert.Contains(t, page, "#comment-5")
	assert.Contains(t, page, `id="discussion-top"`)
	// a reply to the enclosing discussion points at its top
	assert.Contains(t, page, `href="#discussion-top"`)
	assert.Contains(t, page, "<title>Hello, World!</title>")
	assert.Equal(t, []string{"discussions/10-hello-world.html"}, rc.rendered)
}

func TestRebuildMetadataMatchesRender(t *testing.T) {
	cfg := testConfig(t, "")
	rendered := newTestContext(t, cfg, helloStore())
	require.NoError(t, stageRenderDiscussions(context.Background(), rendered))

	rebuilt := newTestContext(t, cfg, helloStore())
	require.NoError(t, stageRebuildMetadata(context.Background(), rebuilt))
	assert.Equal(t, rendered.Metas(), rebuilt.Metas())
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name        string
		page, total int
		want        []string
		notWant     []string
	}{
		{
			name: "single page",
			page: 1, total: 1,
			want: []string{
				`<span class="pagination-arrow disabled">← Previous</span>`,
				`Page 1 of 1`,
				`<span class="pagination-arrow disabled">Next →</span>`,
			},
		},
		{
			name: "second page links back to index",
			page: 2, total: 3,
			want: []string{
				`<a href="/index.html" class="pagination-arrow">← Previous</a>`,
				`Page 2 of 3`,
				`<a href="/page-3.html" class="pagination-arrow">Next →</a>`,
			},
		},
		{
			name: "last page",
			page: 3, total: 3,
			want:    []string{`<a href="/page-2.html" class="pagination-arrow">← Previous</a>`, `disabled">Next →`},
			notWant: []string{`disabled">← Previous`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pagination(tt.page, tt.total)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, got, w)
			}
		})
	}
}

func TestHomepagePaging(t *testing.T) {
	cfg := testConfig(t, "homepage_page_size: 2\n")
	s := forum.NewStore()
	for i := 1; i <= 5; i++ {
		s.AddDiscussion(forum.Discussion{DiscussionID: i, Name: fmt.Sprintf("Topic %d", i), DateInserted: fmt.Sprintf("2021-01-0%d 10:00:00", i)})
	}
	rc := newTestContext(t, cfg, s)
	require.NoError(t, stageRebuildMetadata(context.Background(), rc))
	require.NoError(t, stageHomepage(context.Background(), rc))

	index := readFile(t, cfg.OutputPath, "index.html")
	assert.Contains(t, index, "Showing 1-2 of 5 discussions")
	assert.Contains(t, index, "<title>Page 1</title>")
	assert.Less(t, strings.Index(index, "Topic 5"), strings.Index(index, "Topic 4"), "newest first")
	assert.NotContains(t, index, "Topic 3")

	last := readFile(t, cfg.OutputPath, "page-3.html")
	assert.Contains(t, last, "Showing 5-5 of 5 discussions")
	assert.Contains(t, last, "Topic 1")
	assert.Contains(t, last, "Page 3 of 3")
	assert.NoFileExists(t, filepath.Join(cfg.OutputPath, "page-4.html"))
	assert.Equal(t, 3, rc.report.Pages["homepage"])
}

func TestHomepageWithoutDiscussions(t *testing.T) {
	cfg := testConfig(t, "")
	rc := newTestContext(t, cfg, forum.NewStore())
	require.NoError(t, stageHomepage(context.Background(), rc))

	index := readFile(t, cfg.OutputPath, "index.html")
	assert.Contains(t, index, "Showing 0-0 of 0 discussions")
	assert.Contains(t, index, "Page 1 of 1")
	assert.NoFileExists(t, filepath.Join(cfg.OutputPath, "page-2.html"))
}

func TestUserChunks(t *testing.T) {
	cfg := testConfig(t, "")
	s := forum.NewStore()
	for id := 1; id <= 120; id++ {
		s.AddMember(forum.Member{UserID: id, Name: fmt.Sprintf("user%d", id)})
	}
	s.AddDiscussion(forum.Discussion{DiscussionID: 1, Name: "Long", Body: strings.Repeat("é", 250), InsertUserID: 77})
	rc := newTestContext(t, cfg, s)
	require.NoError(t, stageRebuildMetadata(context.Background(), rc))
	require.NoError(t, stageUserChunks(context.Background(), rc))

	assert.Equal(t, 3, ChunkCount(120, 50))
	var mapping map[string]int
	require.NoError(t, json.Unmarshal([]byte(scriptJSON(t, readFile(t, cfg.OutputPath, "assets/js/user-chunk-mapping.js"), "userChunkMapping")), &mapping))
	require.Len(t, mapping, 120)

	seen := map[string]int{}
	for chunk := 0; chunk < 3; chunk++ {
		name := fmt.Sprintf("userChunk%d", chunk)
		raw := readFile(t, cfg.OutputPath, fmt.Sprintf("assets/user-chunks/chunk-%d.js", chunk))
		var data map[string]UserPosts
		require.NoError(t, json.Unmarshal([]byte(scriptJSON(t, raw, name)), &data))
		for id := range data {
			seen[id]++
			assert.Equal(t, chunk, mapping[id], "member %s", id)
		}
	}
	assert.Len(t, seen, 120)
	for id, n := range seen {
		assert.Equal(t, 1, n, "member %s in more than one chunk", id)
	}
	assert.NoFileExists(t, filepath.Join(cfg.OutputPath, "assets", "user-chunks", "chunk-3.js"))

	var chunk1 map[string]UserPosts
	require.NoError(t, json.Unmarshal([]byte(scriptJSON(t, readFile(t, cfg.OutputPath, "assets/user-chunks/chunk-1.js"), "userChunk1")), &chunk1))
	post := chunk1["77"].Discussions[0]
	assert.Equal(t, strings.Repeat("é", 200)+"...", post.Excerpt)
	assert.Len(t, []rune(post.FullContent), 250)
}

func TestUserData(t *testing.T) {
	cfg := testConfig(t, "")
	s := helloStore()
	s.AddMember(forum.Member{UserID: 3, Name: "alice"})
	s.AddComment(forum.Comment{CommentID: 6, DiscussionID: 10, Body: "later", InsertUserID: 2, DateInserted: "2021-02-01 09:00:00"})
	rc := newTestContext(t, cfg, s)
	require.NoError(t, stageRebuildMetadata(context.Background(), rc))
	require.NoError(t, stageUserData(context.Background(), rc))

	var bob UserPosts
	require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputPath, "assets/user-data/2.json")), &bob))
	require.Len(t, bob.Comments, 2)
	assert.Equal(t, 6, bob.Comments[0].ID, "newest first")
	assert.Equal(t, "/discussions/10-hello-world.html#comment-6", bob.Comments[0].URL)
	assert.Equal(t, "Hello, World!", bob.Comments[0].DiscussionTitle)
	assert.Empty(t, bob.Discussions)
	assert.NoFileExists(t, filepath.Join(cfg.OutputPath, "assets", "user-data", "3.json"))

	var lookup map[string]int
	require.NoError(t, json.Unmarshal([]byte(scriptJSON(t, readFile(t, cfg.OutputPath, "assets/js/user-lookup.js"), "userLookup")), &lookup))
	assert.Equal(t, map[string]int{"alice": 1, "bob": 2}, lookup)

	var search userSearchIndex
	require.NoError(t, json.Unmarshal([]byte(scriptJSON(t, readFile(t, cfg.OutputPath, "assets/js/user-search-index.js"), "userSearchIndex")), &search))
	assert.Equal(t, 2, search.TotalUsers)
	assert.Equal(t, 3, search.Usernames["alice"], "later members win")
	assert.Equal(t, map[int]int{1: 1, 2: 2}, search.PostCounts)

	var index []userIndexEntry
	require.NoError(t, json.Unmarshal([]byte(scriptJSON(t, readFile(t, cfg.OutputPath, "assets/js/user-index.js"), "userIndex")), &index))
	assert.Equal(t, []userIndexEntry{
		{ID: 1, Name: "Alice", DiscussionCount: 1},
		{ID: 2, Name: "Bob", CommentCount: 2},
		{ID: 3, Name: "alice"},
	}, index)
}

func TestSearchData(t *testing.T) {
	cfg := testConfig(t, "")
	s := helloStore()
	s.AddCategory(forum.Category{CategoryID: 2, Name: "Moderators"})
	s.AddCategory(forum.Category{CategoryID: 3, Name: "Announcements"})
	s.AddDiscussion(forum.Discussion{DiscussionID: 11, Name: "Orphan", InsertUserID: 9, CategoryID: 99, DateInserted: "2022-01-01 00:00:00"})
	rc := newTestContext(t, cfg, s)
	require.NoError(t, stageRebuildMetadata(context.Background(), rc))
	require.NoError(t, stageSearch(context.Background(), rc))

	records := rc.SearchRecords()
	require.Len(t, records, 2)
	assert.Equal(t, SearchRecord{
		Title: "Orphan", Author: "User 9", URL: "/discussions/11-orphan.html", Type: "discussion",
		Date: "2022-01-01 00:00:00", ID: "discussion-11", CategoryID: 99, CategoryName: "Uncategorized",
	}, records[0])
	assert.Equal(t, "discussion-10", records[1].ID)

	categories := readFile(t, cfg.OutputPath, "assets/js/categories-data.js")
	assert.Contains(t, categories, `window.searchCategories = [{"id":3,"name":"Announcements"},{"id":1,"name":"General"}];`)
	assert.Contains(t, categories, `window.categoryLookup = {"1":"General","3":"Announcements"};`)

	page := readFile(t, cfg.OutputPath, "search.html")
	assert.Contains(t, page, `<script src="/assets/js/search-data.js?v=1"></script>`)
	assert.Contains(t, page, `<title>Search</title>`)
}

func TestStaticPages(t *testing.T) {
	cfg := testConfig(t, "")
	rc := newTestContext(t, cfg, forum.NewStore())
	require.NoError(t, stageStaticPages(context.Background(), rc))

	assert.Contains(t, readFile(t, cfg.OutputPath, "about.html"), "<title>About</title>")
	posts := readFile(t, cfg.OutputPath, "your-posts.html")
	for _, script := range []string{"user-search-index.js", "user-chunk-mapping.js", "your-posts-fast.js"} {
		assert.Contains(t, posts, "/assets/js/"+script+"?v=1")
	}
}

func TestInfoPages(t *testing.T) {
	pages := t.TempDir()
	writeFile(t, pages, "faq.md", "---\ntitle: Frequently Asked\n---\n# Questions\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	writeFile(t, pages, "rules.md", "Be nice.\n")
	writeFile(t, pages, "about.md", "reserved\n")
	writeFile(t, pages, "notes.txt", "ignored\n")

	cfg := testConfig(t, "pages_dir: "+pages+"\n")
	rc := newTestContext(t, cfg, forum.NewStore())
	require.NoError(t, stageInfoPages(context.Background(), rc))

	faq := readFile(t, cfg.OutputPath, "faq.html")
	assert.Contains(t, faq, "<title>Frequently Asked</title>")
	assert.Contains(t, faq, "<table>")
	assert.Contains(t, faq, `<meta name="content-fingerprint" content="`)
	assert.Contains(t, readFile(t, cfg.OutputPath, "rules.html"), "<title>rules</title>")
	assert.NoFileExists(t, filepath.Join(cfg.OutputPath, "about.html"))
	assert.NoFileExists(t, filepath.Join(cfg.OutputPath, "notes.html"))
	assert.Equal(t, 2, rc.report.Pages["info"])
	require.Len(t, rc.report.Warnings, 1)
	assert.Contains(t, rc.report.Warnings[0], "collides")
}

func TestVerifyAnchorsReportsDangling(t *testing.T) {
	cfg := testConfig(t, "")
	s := forum.NewStore()
	s.AddDiscussion(forum.Discussion{DiscussionID: 1, Name: "Links", Body: `see <a href="#nowhere">here</a> and [reply="Bob;77"]`})
	rc := newTestContext(t, cfg, s)
	require.NoError(t, stageRenderDiscussions(context.Background(), rc))
	require.NoError(t, stageVerifyAnchors(context.Background(), rc))

	joined := strings.Join(rc.report.Warnings, "\n")
	assert.Contains(t, joined, "#nowhere")
	assert.Contains(t, joined, "#comment-77")
}

func TestCopyAssets(t *testing.T) {
	assets := t.TempDir()
	writeFile(t, assets, "css/style.css", "body{}")
	writeFile(t, assets, "js/search.js", "//")
	robots := filepath.Join(t.TempDir(), "robots.txt")
	writeFile(t, filepath.Dir(robots), "robots.txt", "User-agent: *")

	cfg := testConfig(t, fmt.Sprintf("assets_dir: %s\nrobots_file: %s\n", assets, robots))
	rc := newTestContext(t, cfg, forum.NewStore())
	require.NoError(t, stageCopyAssets(context.Background(), rc))

	assert.Equal(t, "body{}", readFile(t, cfg.OutputPath, "assets/css/style.css"))
	assert.Equal(t, "//", readFile(t, cfg.OutputPath, "assets/js/search.js"))
	assert.Equal(t, "User-agent: *", readFile(t, cfg.OutputPath, "robots.txt"))
	assert.Equal(t, 3, rc.report.Pages["asset"])
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 3))
	assert.Equal(t, "ab...", truncateRunes("abc", 2))
	assert.Equal(t, "żó...", truncateRunes("żółw", 2))
	assert.Empty(t, truncateRunes("", 5))
}
