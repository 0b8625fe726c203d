package markup

import (
	"fmt"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/forumsite/internal/forum"
)

// DiscussionTopAnchor is the in-page target for references to the owning discussion.
const DiscussionTopAnchor = "#discussion-top"

// DiscussionURL is the site path of a rendered discussion page.
func DiscussionURL(id int, title string) string {
	return fmt.Sprintf("/discussions/%d-%s.html", id, forum.Slug(title))
}

func memberURL(id int) string {
	return fmt.Sprintf("/members/%d.html", id)
}

// resolveTarget maps a reply/quote reference id to a link target.
// "d<id>" refers to a discussion, anything else to a comment on the current page.
func (c *Context) resolveTarget(ref string) string {
	rest, isDiscussion := strings.CutPrefix(ref, "d")
	if !isDiscussion {
		return "#comment-" + ref
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return "/discussions/" + rest
	}
	if c.OwnerID != 0 && id == c.OwnerID {
		return DiscussionTopAnchor
	}
	if c.dir != nil {
		if d, ok := c.dir.Discussion(id); ok {
			return DiscussionURL(id, d.Name)
		}
	}
	return "/discussions/" + rest
}

func (c *Context) memberID(name string) (int, bool) {
	if c.dir == nil {
		return 0, false
	}
	return c.dir.MemberByName(name)
}
