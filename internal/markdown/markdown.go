// Package markdown renders the site's informational pages.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/inful/mdfp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

// Document is a parsed markdown file.
type Document struct {
	FrontMatter    map[string]any
	RawFrontMatter string
	Body           string
	HadFrontMatter bool
}

// Title returns the front matter title, or fallback.
func (d *Document) Title(fallback string) string {
	if t, ok := d.FrontMatter["title"].(string); ok && strings.TrimSpace(t) != "" {
		return t
	}
	return fallback
}

// Parse splits YAML front matter (--- delimited) from the body.
// Content without a closing delimiter is treated as body only.
func Parse(content string) (*Document, error) {
	doc := &Document{FrontMatter: map[string]any{}, Body: content}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, "---\n") {
		doc.Body = content
		return doc, nil
	}
	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---\n")
	bodyStart := end + len("\n---\n")
	if strings.HasPrefix(rest, "---\n") {
		end, bodyStart = 0, len("---\n")
	}
	if end < 0 {
		doc.Body = content
		return doc, nil
	}

	doc.RawFrontMatter = rest[:end]
	doc.Body = rest[bodyStart:]
	if strings.TrimSpace(doc.RawFrontMatter) == "" {
		return doc, nil
	}
	if err := yaml.Unmarshal([]byte(doc.RawFrontMatter), &doc.FrontMatter); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	doc.HadFrontMatter = true
	return doc, nil
}

// Fingerprint is the content fingerprint of the document.
func (d *Document) Fingerprint() string {
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(d.RawFrontMatter, "\n"), d.Body)
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// RenderHTML converts the document body to HTML.
func (d *Document) RenderHTML() (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(d.Body), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
