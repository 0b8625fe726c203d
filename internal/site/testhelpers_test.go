package site

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/forumsite/internal/cache"
	"git.home.luguber.info/inful/forumsite/internal/config"
	"git.home.luguber.info/inful/forumsite/internal/forum"
	"git.home.luguber.info/inful/forumsite/internal/metrics"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// testConfig parses a configuration rooted in a fresh temp dir; extra is appended YAML.
func testConfig(t *testing.T, extra string) *config.Config {
	t.Helper()
	root := t.TempDir()
	yml := fmt.Sprintf("export_path: %s\noutput_path: %s\n%s",
		filepath.Join(root, "export"), filepath.Join(root, "site"), extra)
	cfg, err := config.Parse([]byte(yml))
	require.NoError(t, err)
	return cfg
}

// writeExport lays out a small forum export under cfg.ExportPath.
func writeExport(t *testing.T, cfg *config.Config) {
	t.Helper()
	root := cfg.ExportPath
	writeFile(t, root, "categories/all.json", `[{"CategoryID":1,"Name":"General"},{"CategoryID":2,"Name":"Moderators"},{"CategoryID":3,"Name":"Announcements"}]`)
	writeFile(t, root, "members/1.json", `{"UserID":1,"Name":"Alice"}`)
	writeFile(t, root, "members/2.json", `{"UserID":2,"Name":"Bob"}`)
	writeFile(t, root, "discussions/b1/10.json", `{"DiscussionID":10,"Name":"Hello, World!","Body":"Hi @\"Bob\" see [b]this[/b]","InsertUserID":1,"CategoryID":1,"CountViews":4,"DateInserted":"2021-01-02 10:00:00"}`)
	writeFile(t, root, "discussions/b1/12.json", `{"DiscussionID":12,"Name":"Newer <thread>","Body":"news","InsertUserID":2,"CategoryID":3,"DateInserted":"2021-03-01 09:30:00"}`)
	writeFile(t, root, "comments/b1/c.json", `[{"CommentID":5,"DiscussionID":10,"Body":"Thanks!","InsertUserID":2,"DateInserted":"2021-01-02 11:00:00","Likes":2}]`)
}

func newTestContext(t *testing.T, cfg *config.Config, store *forum.Store) *RenderContext {
	t.Helper()
	c, err := cache.New(string(cfg.Cache.Backend), cfg.CacheDir())
	require.NoError(t, err)
	rc := newRenderContext(cfg, c, discardLogger(), metrics.NoopRecorder{}, newBuildReport(string(config.RunModeFull)))
	require.NoError(t, os.MkdirAll(cfg.OutputPath, 0o755))
	if store != nil {
		rc.setStore(store)
	}
	return rc
}

// scriptJSON strips "window.name = " and the trailing ";" from a generated script.
func scriptJSON(t *testing.T, script, name string) string {
	t.Helper()
	prefix := "window." + name + " = "
	require.True(t, strings.HasPrefix(script, prefix), "script %q does not assign %s", script, name)
	return strings.TrimSuffix(strings.TrimPrefix(script, prefix), ";")
}
