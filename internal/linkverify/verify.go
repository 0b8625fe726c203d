package linkverify

import (
	"fmt"
	"io"
)

// Dangling is an in-page link without a matching element id.
type Dangling struct {
	Page   string
	Anchor Anchor
}

func (d Dangling) String() string {
	return fmt.Sprintf("%s: #%s (%s) has no target", d.Page, d.Anchor.Target, d.Anchor.Text)
}

// Dangling returns the page's anchors whose target id is absent.
func (p *Page) Dangling(name string) []Dangling {
	var out []Dangling
	for _, a := range p.Anchors {
		if !p.IDs[a.Target] {
			out = append(out, Dangling{Page: name, Anchor: a})
		}
	}
	return out
}

// VerifyAnchors parses a page and reports dangling in-page links.
func VerifyAnchors(name string, r io.Reader) ([]Dangling, error) {
	page, err := Extract(r)
	if err != nil {
		return nil, err
	}
	return page.Dangling(name), nil
}
