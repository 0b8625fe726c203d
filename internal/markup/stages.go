package markup

import (
	"regexp"
	"strings"
)

// Stage names, in cascade order.
const (
	StageLineBreaks    = "line-breaks"
	StageReplies       = "replies"
	StageComplexQuotes = "complex-quotes"
	StageNamedQuotes   = "named-quotes"
	StageBareQuotes    = "bare-quotes"
	StageMentions      = "mentions"
	StageFormatting    = "formatting"
	StageLinksMedia    = "links-media"
	StageCode          = "code"
	StageLists         = "lists"
)

// DefaultStages returns the conversion cascade.
func DefaultStages() []Stage {
	return []Stage{
		{StageLineBreaks, convertLineBreaks},
		{StageReplies, convertReplies},
		{StageComplexQuotes, convertComplexQuotes},
		{StageNamedQuotes, replaceAll(namedQuotePattern, `<blockquote class="user-quote"><cite>$1:</cite>$2</blockquote>`)},
		{StageBareQuotes, replaceAll(bareQuotePattern, `<blockquote class="simple-quote">$1</blockquote>`)},
		{StageMentions, convertMentions},
		{StageFormatting, chain(
			replaceAll(boldPattern, `<strong>$1</strong>`),
			replaceAll(italicPattern, `<em>$1</em>`),
			replaceAll(underlinePattern, `<u>$1</u>`),
		)},
		{StageLinksMedia, chain(
			replaceAll(namedURLPattern, `<a href="$1" class="external-link">$2</a>`),
			replaceAll(bareURLPattern, `<a href="$1" class="external-link">$1</a>`),
			replaceAll(mediaPattern, `<div class="media-embed"><a href="$1" target="_blank">🔗 Media content</a></div>`),
			replaceAll(imagePattern, `<img src="$1" alt="User image" class="user-image" loading="lazy">`),
		)},
		{StageCode, replaceAll(codePattern, `<pre><code>$1</code></pre>`)},
		{StageLists, convertLists},
	}
}

var (
	replyPattern        = regexp.MustCompile(`\[reply="([^";]+);(d?\d+)"\]`)
	complexQuotePattern = regexp.MustCompile(`(?s)\[quote="([^";]+);([^"]+)"\](.*?)\[/quote\]`)
	namedQuotePattern   = regexp.MustCompile(`(?s)\[quote="([^"]+)"\](.*?)\[/quote\]`)
	bareQuotePattern    = regexp.MustCompile(`(?s)\[quote\](.*?)\[/quote\]`)
	mentionPattern      = regexp.MustCompile(`@"([^"]+)"`)
	boldPattern         = regexp.MustCompile(`\[b\](.*?)\[/b\]`)
	italicPattern       = regexp.MustCompile(`\[i\](.*?)\[/i\]`)
	underlinePattern    = regexp.MustCompile(`\[u\](.*?)\[/u\]`)
	namedURLPattern     = regexp.MustCompile(`\[url=(.*?)\](.*?)\[/url\]`)
	bareURLPattern      = regexp.MustCompile(`\[url\](.*?)\[/url\]`)
	mediaPattern        = regexp.MustCompile(`\[media\](.*?)\[/media\]`)
	imagePattern        = regexp.MustCompile(`\[img\](.*?)\[/img\]`)
	codePattern         = regexp.MustCompile(`(?s)\[code\](.*?)\[/code\]`)
	orderedListPattern  = regexp.MustCompile(`(?s)\[list=([^\]]+)\](.*?)\[/list\]`)
	plainListPattern    = regexp.MustCompile(`(?s)\[list\](.*?)\[/list\]`)
	listBreakPattern    = regexp.MustCompile(`<br>\s*`)
)

func replaceAll(re *regexp.Regexp, tmpl string) StageFunc {
	return func(text string, _ *Context) string {
		return re.ReplaceAllString(text, tmpl)
	}
}

func chain(fns ...StageFunc) StageFunc {
	return func(text string, ctx *Context) string {
		for _, fn := range fns {
			text = fn(text, ctx)
		}
		return text
	}
}

func convertLineBreaks(text string, _ *Context) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.ReplaceAll(text, "\n", "<br>\n")
}

func convertReplies(text string, ctx *Context) string {
	return replaceSubmatch(replyPattern, text, func(m []string) string {
		return `<a href="` + ctx.resolveTarget(m[2]) + `" class="reply-link">Reply to ` + m[1] + `</a>`
	})
}

func convertComplexQuotes(text string, ctx *Context) string {
	return replaceSubmatch(complexQuotePattern, text, func(m []string) string {
		return `<a href="` + ctx.resolveTarget(m[2]) + `" class="quote-link">Quoting ` + m[1] + `</a>` +
			`<blockquote class="user-quote">` + m[3] + `</blockquote>`
	})
}

func convertMentions(text string, ctx *Context) string {
	return replaceSubmatch(mentionPattern, text, func(m []string) string {
		name := m[1]
		if id, ok := ctx.memberID(name); ok {
			return `<a href="` + memberURL(id) + `" class="user-mention">@` + name + `</a>`
		}
		return `<span class="user-mention unknown">@` + name + `</span>`
	})
}

var orderedListTypes = map[string]bool{"1": true, "a": true, "A": true, "i": true, "I": true}

func convertLists(text string, _ *Context) string {
	text = replaceSubmatch(orderedListPattern, text, func(m []string) string {
		open := "<ol>"
		if orderedListTypes[m[1]] {
			open = `<ol type="` + m[1] + `">`
		}
		return open + listItems(m[2]) + "</ol>"
	})
	return replaceSubmatch(plainListPattern, text, func(m []string) string {
		return "<ul>" + listItems(m[1]) + "</ul>"
	})
}

func listItems(body string) string {
	var b strings.Builder
	for _, item := range strings.Split(body, "[*]") {
		item = strings.TrimSpace(listBreakPattern.ReplaceAllString(item, ""))
		if item == "" {
			continue
		}
		b.WriteString("<li>")
		b.WriteString(item)
		b.WriteString("</li>")
	}
	return b.String()
}

// replaceSubmatch is ReplaceAllStringFunc with access to capture groups.
func replaceSubmatch(re *regexp.Regexp, text string, fn func(groups []string) string) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}
	var b strings.Builder
	last := 0
	for _, loc := range matches {
		b.WriteString(text[last:loc[0]])
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = text[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(fn(groups))
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}
