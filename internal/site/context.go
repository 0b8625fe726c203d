package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/forumsite/internal/cache"
	"git.home.luguber.info/inful/forumsite/internal/config"
	"git.home.luguber.info/inful/forumsite/internal/forum"
	"git.home.luguber.info/inful/forumsite/internal/foundation/errors"
	"git.home.luguber.info/inful/forumsite/internal/logfields"
	"git.home.luguber.info/inful/forumsite/internal/markup"
	"git.home.luguber.info/inful/forumsite/internal/metrics"
	"git.home.luguber.info/inful/forumsite/internal/templates"
)

// RenderContext is the state shared by all stages of one run. It owns the
// template renderer and, once ingestion or cache loading has run, the
// read-only entity store and markup engine.
type RenderContext struct {
	cfg      *config.Config
	out      string
	logger   *slog.Logger
	recorder metrics.Recorder
	report   *BuildReport
	renderer *templates.Renderer
	cache    cache.Cache

	store  *forum.Store
	engine *markup.Engine

	metas    []DiscussionMeta
	rendered []string // discussion pages written this run, relative to out
}

func newRenderContext(cfg *config.Config, c cache.Cache, logger *slog.Logger, recorder metrics.Recorder, report *BuildReport) *RenderContext {
	return &RenderContext{
		cfg:      cfg,
		out:      cfg.OutputPath,
		logger:   logger,
		recorder: recorder,
		report:   report,
		renderer: templates.NewRenderer(cfg.TemplatesDir, cfg.AssetsDir),
		cache:    c,
	}
}

// setStore installs the entity store and builds the markup engine over it.
func (rc *RenderContext) setStore(store *forum.Store) {
	rc.store = store
	rc.engine = markup.NewEngine(store)
	rc.report.Discussions = len(store.Discussions())
	rc.report.Comments = store.CommentCount()
	rc.report.Members = len(store.Members())
	rc.report.Categories = len(store.Categories())
	rc.recorder.SetEntityCount("discussions", rc.report.Discussions)
	rc.recorder.SetEntityCount("comments", rc.report.Comments)
	rc.recorder.SetEntityCount("members", rc.report.Members)
	rc.recorder.SetEntityCount("categories", rc.report.Categories)
}

// Store returns the entity store, nil before ingestion.
func (rc *RenderContext) Store() *forum.Store { return rc.store }

// Metas returns the discussion metadata records in store order.
func (rc *RenderContext) Metas() []DiscussionMeta { return rc.metas }

func (rc *RenderContext) warn(stage StageName, msg string, attrs ...any) {
	rc.report.AddWarning(fmt.Sprintf("%s: %s", stage, msg))
	rc.logger.Warn(msg, append([]any{logfields.Stage(string(stage))}, attrs...)...)
}

// writeFile writes data to rel under the output root, creating parents.
func (rc *RenderContext) writeFile(kind, rel string, data []byte) error {
	path := filepath.Join(rc.out, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
			Fatal().WithContext("path", filepath.Dir(path)).Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write output file").
			Fatal().WithContext("path", path).Build()
	}
	rc.report.Pages[kind]++
	rc.recorder.AddPagesWritten(kind, 1)
	rc.logger.Debug("Wrote file", logfields.Path(rel))
	return nil
}

// writePage renders content into the layout and writes it.
func (rc *RenderContext) writePage(kind, rel string, page templates.PageData) error {
	html, err := rc.renderer.RenderPage(page)
	if err != nil {
		return err
	}
	return rc.writeFile(kind, rel, []byte(html))
}

// writeJS writes "window.{name} = {json};".
func (rc *RenderContext) writeJS(kind, rel, name string, v any) error {
	data, err := marshalJSON(v)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "encode script data").
			WithContext("path", rel).Build()
	}
	var buf bytes.Buffer
	buf.WriteString("window.")
	buf.WriteString(name)
	buf.WriteString(" = ")
	buf.Write(data)
	buf.WriteString(";")
	return rc.writeFile(kind, rel, buf.Bytes())
}

// marshalJSON encodes without escaping <, > and & so embedded markup stays readable.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
