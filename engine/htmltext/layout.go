package htmltext

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	emphStyle    = lipgloss.NewStyle().Italic(true)
	strongStyle  = lipgloss.NewStyle().Bold(true)
	linkStyle    = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("12"))
	imageStyle   = lipgloss.NewStyle().Faint(true)
	plainStyle   = lipgloss.NewStyle()
)

// segment is a run of same-styled text within a line.
type segment struct {
	text  string
	style lipgloss.Style
}

type renderedLine struct {
	segments []segment
}

func (l renderedLine) styled() string {
	var b strings.Builder
	for _, s := range l.segments {
		b.WriteString(s.style.Render(s.text))
	}
	return b.String()
}

func (l renderedLine) plain() string {
	var b strings.Builder
	for _, s := range l.segments {
		b.WriteString(s.text)
	}
	return b.String()
}

// linkSpan locates one hyperlink on the laid-out page, columns in runes.
type linkSpan struct {
	line  int
	start int
	end   int
	href  string
}

// layout parses the view's source and produces wrapped, styled lines
// plus anchor and link position tables.
func (e *Engine) layout(v *textView) {
	width := int(e.size.Width)
	if width < 8 {
		width = 8
	}

	doc, err := html.Parse(strings.NewReader(v.source))
	if err != nil {
		v.lines = []renderedLine{{segments: []segment{{text: v.source, style: plainStyle}}}}
		v.anchors = map[string]int{}
		v.links = nil
		return
	}

	b := &layoutBuilder{width: width, anchors: make(map[string]int), images: v.images}
	b.walk(doc, textContext{style: plainStyle})
	b.flushLine()

	v.title = b.title
	v.lines = b.lines
	v.anchors = b.anchors
	v.links = b.links
}

// textContext carries inherited styling down the element tree.
type textContext struct {
	style lipgloss.Style
	href  string
	pre   bool
}

type layoutBuilder struct {
	width   int
	title   string
	lines   []renderedLine
	anchors map[string]int
	links   []linkSpan
	images  map[string][]byte

	cur    []segment
	curLen int
	// curLinks tracks link spans open on the current line.
	curLinks []linkSpan
	blankRun bool
}

func (b *layoutBuilder) walk(n *html.Node, ctx textContext) {
	switch n.Type {
	case html.TextNode:
		b.text(n.Data, ctx)
		return
	case html.ElementNode:
		if id := attr(n, "id"); id != "" {
			b.anchors[id] = b.currentLine()
		}
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Template:
			return
		case atom.Title:
			b.title = strings.TrimSpace(textOf(n))
			return
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			b.paragraphBreak()
			ctx.style = headingStyle
			defer b.paragraphBreak()
		case atom.P, atom.Div, atom.Section, atom.Article, atom.Header,
			atom.Footer, atom.Main, atom.Blockquote, atom.Table, atom.Ul, atom.Ol:
			b.paragraphBreak()
			defer b.paragraphBreak()
		case atom.Li:
			b.lineBreak()
			b.text("• ", ctx)
		case atom.Tr:
			defer b.lineBreak()
		case atom.Br:
			b.lineBreak()
			return
		case atom.Hr:
			b.paragraphBreak()
			b.text(strings.Repeat("─", b.width), ctx)
			b.paragraphBreak()
			return
		case atom.Pre:
			ctx.pre = true
			b.paragraphBreak()
			defer b.paragraphBreak()
		case atom.A:
			if href := attr(n, "href"); href != "" {
				ctx.href = href
				ctx.style = linkStyle
			}
			if name := attr(n, "name"); name != "" {
				b.anchors[name] = b.currentLine()
			}
		case atom.B, atom.Strong:
			ctx.style = strongStyle
		case atom.I, atom.Em:
			ctx.style = emphStyle
		case atom.Img:
			b.image(n, ctx)
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c, ctx)
	}
}

// image emits a placeholder for an <img>. Fetched images show their
// byte count; unfetched ones just the reference.
func (b *layoutBuilder) image(n *html.Node, ctx textContext) {
	src := attr(n, "src")
	if src == "" {
		return
	}
	label := attr(n, "alt")
	if label == "" {
		label = src
	}
	placeholder := fmt.Sprintf("[image: %s]", label)
	if data, ok := b.images[src]; ok && data != nil {
		placeholder = fmt.Sprintf("[image: %s, %d bytes]", label, len(data))
	}
	ctx.style = imageStyle
	ctx.href = ""
	b.text(placeholder, ctx)
}

// text appends a text run, wrapping at word boundaries. Preformatted
// runs keep their line structure and internal spacing.
func (b *layoutBuilder) text(s string, ctx textContext) {
	if ctx.pre {
		for i, ln := range strings.Split(s, "\n") {
			if i > 0 {
				b.lineBreak()
			}
			b.append(ln, ctx)
		}
		return
	}

	// Inline whitespace collapses to a single separator between words.
	for _, word := range strings.Fields(s) {
		wl := utf8.RuneCountInString(word)
		if b.curLen > 0 && b.curLen+1+wl > b.width {
			b.flushLine()
		}
		if b.curLen > 0 {
			b.append(" ", textContext{style: ctx.style})
		}
		b.append(word, ctx)
	}
}

func (b *layoutBuilder) append(s string, ctx textContext) {
	if s == "" {
		return
	}
	start := b.curLen
	b.cur = append(b.cur, segment{text: s, style: ctx.style})
	b.curLen += utf8.RuneCountInString(s)
	b.blankRun = false
	if ctx.href != "" {
		b.curLinks = append(b.curLinks, linkSpan{
			line:  len(b.lines),
			start: start,
			end:   b.curLen,
			href:  ctx.href,
		})
	}
}

func (b *layoutBuilder) currentLine() int {
	return len(b.lines)
}

func (b *layoutBuilder) flushLine() {
	if len(b.cur) == 0 {
		return
	}
	b.lines = append(b.lines, renderedLine{segments: b.cur})
	b.links = append(b.links, mergeSpans(b.curLinks)...)
	b.cur = nil
	b.curLen = 0
	b.curLinks = nil
}

func (b *layoutBuilder) lineBreak() {
	if len(b.cur) > 0 {
		b.flushLine()
		return
	}
	if !b.blankRun {
		b.lines = append(b.lines, renderedLine{})
	}
}

// paragraphBreak inserts at most one blank line between blocks.
func (b *layoutBuilder) paragraphBreak() {
	b.flushLine()
	if len(b.lines) == 0 || b.blankRun {
		return
	}
	b.lines = append(b.lines, renderedLine{})
	b.blankRun = true
}

// mergeSpans joins adjacent spans of the same href so a wrapped link
// still hit-tests as one region per line.
func mergeSpans(spans []linkSpan) []linkSpan {
	var out []linkSpan
	for _, s := range spans {
		if n := len(out); n > 0 && out[n-1].href == s.href &&
			out[n-1].line == s.line && s.start <= out[n-1].end+1 {
			out[n-1].end = s.end
			continue
		}
		out = append(out, s)
	}
	return out
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return b.String()
}

// imageSources extracts <img> src attributes in document order.
func imageSources(source string) []string {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return nil
	}
	var srcs []string
	seen := make(map[string]bool)
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			if src := attr(n, "src"); src != "" && !seen[src] {
				seen[src] = true
				srcs = append(srcs, src)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(doc)
	return srcs
}
