// Package linkverify checks rendered pages for in-page links whose target
// element does not exist.
package linkverify

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/forumsite/internal/foundation/errors"
)

// Anchor is an in-page link (href="#...") found in a page.
type Anchor struct {
	Target string // fragment without '#'
	Text   string
	Class  string
}

// Page is the anchor-relevant content of one HTML document.
type Page struct {
	Anchors []Anchor
	IDs     map[string]bool
}

// Extract parses HTML and collects fragment links and element ids.
func Extract(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").WithSeverity(errors.SeverityError).Build()
	}

	page := &Page{IDs: make(map[string]bool)}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := getAttr(n, "id"); id != "" {
				page.IDs[id] = true
			}
			if n.Data == "a" {
				if name := getAttr(n, "name"); name != "" {
					page.IDs[name] = true
				}
				if href := getAttr(n, "href"); strings.HasPrefix(href, "#") && len(href) > 1 {
					page.Anchors = append(page.Anchors, Anchor{
						Target: href[1:],
						Text:   extractText(n),
						Class:  getAttr(n, "class"),
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return page, nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func extractText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
