package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"text/template"

	"git.home.luguber.info/inful/forumsite/internal/foundation/errors"
)

//go:embed defaults/*.html
var defaultFS embed.FS

// Template names.
const (
	Layout     = "layout.html"
	Header     = "header.html"
	Footer     = "footer.html"
	Discussion = "discussion.html"
	Homepage   = "homepage.html"
	About      = "about.html"
	Search     = "search.html"
	YourPosts  = "your-posts.html"
	Page       = "page.html"
)

// Names lists every template the site uses.
func Names() []string {
	return []string{Layout, Header, Footer, Discussion, Homepage, About, Search, YourPosts, Page}
}

// Renderer loads, caches and executes templates for one run.
type Renderer struct {
	overrideDir string
	cssFile     string
	cache       map[string]*template.Template
	version     int64
}

// NewRenderer creates a renderer. templatesDir may be empty to use the
// built-in templates only; the asset version is read from
// {assetsDir}/css/style.css.
func NewRenderer(templatesDir, assetsDir string) *Renderer {
	r := &Renderer{overrideDir: templatesDir, cache: make(map[string]*template.Template)}
	if assetsDir != "" {
		r.cssFile = filepath.Join(assetsDir, "css", "style.css")
	}
	return r
}

// AssetVersion returns the cache-busting token: the Unix modification time
// of the stylesheet, or 1 when there is none. Computed once per renderer.
func (r *Renderer) AssetVersion() int64 {
	if r.version != 0 {
		return r.version
	}
	r.version = 1
	if r.cssFile != "" {
		if info, err := os.Stat(r.cssFile); err == nil {
			r.version = info.ModTime().Unix()
		}
	}
	return r.version
}

// AssetURL appends the version query to a site path.
func (r *Renderer) AssetURL(path string) string {
	return path + "?v=" + strconv.FormatInt(r.AssetVersion(), 10)
}

// Render executes the named template. The cssversion key is always supplied.
func (r *Renderer) Render(name string, data map[string]any) (string, error) {
	tpl, err := r.load(name)
	if err != nil {
		return "", err
	}
	values := make(map[string]any, len(data)+1)
	for k, v := range data {
		values[k] = v
	}
	values["cssversion"] = r.AssetVersion()

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, values); err != nil {
		return "", errors.WrapError(err, errors.CategoryTemplate, "render template").
			Fatal().WithContext("template", name).Build()
	}
	return buf.String(), nil
}

// PageData is the content placed into the layout.
type PageData struct {
	Title     string // already escaped
	ExtraHead string
	ExtraFoot string
	Main      string
}

// RenderPage wraps rendered content in the layout with header and footer.
func (r *Renderer) RenderPage(p PageData) (string, error) {
	header, err := r.Render(Header, nil)
	if err != nil {
		return "", err
	}
	footer, err := r.Render(Footer, nil)
	if err != nil {
		return "", err
	}
	return r.Render(Layout, map[string]any{
		"title":     p.Title,
		"extrahead": p.ExtraHead,
		"extrafoot": p.ExtraFoot,
		"header":    header,
		"main":      p.Main,
		"footer":    footer,
	})
}

// Preload parses every known template so errors surface before generation.
func (r *Renderer) Preload() error {
	for _, name := range Names() {
		if _, err := r.load(name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) load(name string) (*template.Template, error) {
	if tpl, ok := r.cache[name]; ok {
		return tpl, nil
	}
	src, err := r.source(name)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryTemplate, "load template").
			Fatal().WithContext("template", name).Build()
	}
	tpl, err := template.New(name).Option("missingkey=error").Parse(string(src))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryTemplate, "parse template").
			Fatal().WithContext("template", name).Build()
	}
	r.cache[name] = tpl
	return tpl, nil
}

func (r *Renderer) source(name string) ([]byte, error) {
	if r.overrideDir != "" {
		data, err := os.ReadFile(filepath.Join(r.overrideDir, name))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	data, err := fs.ReadFile(defaultFS, "defaults/"+name)
	if err != nil {
		return nil, fmt.Errorf("no template named %s: %w", name, err)
	}
	return data, nil
}
