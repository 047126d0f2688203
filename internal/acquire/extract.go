package acquire

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type selectorKind int

const (
	selectTag selectorKind = iota
	selectID
	selectClass
)

type selector struct {
	kind  selectorKind
	value string
}

func parseSelector(raw string) (selector, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return selector{kind: selectTag, value: "body"}, nil
	case strings.ContainsAny(raw, " >+~[:,"):
		return selector{}, fmt.Errorf("acquire: unsupported content selector %q", raw)
	case strings.HasPrefix(raw, "#") && len(raw) > 1:
		return selector{kind: selectID, value: raw[1:]}, nil
	case strings.HasPrefix(raw, ".") && len(raw) > 1:
		return selector{kind: selectClass, value: raw[1:]}, nil
	case strings.HasPrefix(raw, "#"), strings.HasPrefix(raw, "."):
		return selector{}, fmt.Errorf("acquire: empty content selector %q", raw)
	default:
		return selector{kind: selectTag, value: strings.ToLower(raw)}, nil
	}
}

func (s selector) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch s.kind {
	case selectID:
		return attr(n, "id") == s.value
	case selectClass:
		return slices.Contains(strings.Fields(attr(n, "class")), s.value)
	default:
		return n.Data == s.value
	}
}

var fallbackSelectors = []selector{
	{kind: selectTag, value: "main"},
	{kind: selectTag, value: "article"},
	{kind: selectTag, value: "body"},
}

type extracted struct {
	title string
	text  string
}

// extract returns the readable text of document. A non-empty label first
// anchors on the heading that names it; otherwise, or when no heading
// matches, sel and then the fallback selectors pick the container.
func extract(document string, sel selector, label string) (extracted, error) {
	root, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return extracted{}, fmt.Errorf("acquire: parse html: %w", err)
	}
	out := extracted{title: pageTitle(root)}

	if heading := findHeading(root, label); heading != nil {
		if text := sectionText(heading); text != "" {
			out.text = text
			return out, nil
		}
	}

	node := find(root, sel)
	for _, fb := range fallbackSelectors {
		if node != nil {
			break
		}
		node = find(root, fb)
	}
	if node == nil {
		return out, nil
	}
	var b strings.Builder
	renderText(&b, node)
	out.text = normalizeText(b.String())
	return out, nil
}

// sectionHeadings are tried in order; h1 is usually the page title and only
// anchors when no section heading names the chapter.
var sectionHeadings = []atom.Atom{atom.H2, atom.H3, atom.H1}

func headingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

// findHeading returns the first heading whose text contains label,
// ignoring case and spacing.
func findHeading(root *html.Node, label string) *html.Node {
	want := strings.ToLower(collapseSpaces(label))
	if want == "" {
		return nil
	}
	for _, level := range sectionHeadings {
		var match *html.Node
		walk(root, func(n *html.Node) bool {
			if n.Type != html.ElementNode || n.DataAtom != level {
				return true
			}
			var b strings.Builder
			renderText(&b, n)
			if strings.Contains(strings.ToLower(collapseSpaces(b.String())), want) {
				match = n
				return false
			}
			return true
		})
		if match != nil {
			return match
		}
	}
	return nil
}

// walk visits nodes depth first until visit returns false.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

// sectionText renders the siblings after heading up to the next heading of
// the same or a higher level. A wrapped heading anchors on its wrapper.
func sectionText(heading *html.Node) string {
	level := headingLevel(heading.DataAtom)
	anchor := heading
	if p := heading.Parent; p != nil && headingWrapper(p) == heading {
		anchor = p
	}

	var b strings.Builder
	for n := anchor.NextSibling; n != nil; n = n.NextSibling {
		if l := sectionLevel(n); l > 0 && l <= level {
			break
		}
		renderText(&b, n)
	}
	return normalizeText(b.String())
}

// sectionLevel reports the heading level n starts, looking through a
// single-heading wrapper div.
func sectionLevel(n *html.Node) int {
	if n.Type != html.ElementNode {
		return 0
	}
	if l := headingLevel(n.DataAtom); l > 0 {
		return l
	}
	if h := headingWrapper(n); h != nil {
		return headingLevel(h.DataAtom)
	}
	return 0
}

// headingWrapper returns the heading n wraps: a div holding nothing but the
// heading, or a MediaWiki "mw-heading" div with its edit links.
func headingWrapper(n *html.Node) *html.Node {
	if n.DataAtom != atom.Div {
		return nil
	}
	if slices.Contains(strings.Fields(attr(n, "class")), "mw-heading") {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if headingLevel(c.DataAtom) > 0 {
				return c
			}
		}
		return nil
	}
	if only := onlyElementChild(n); only != nil && headingLevel(only.DataAtom) > 0 {
		return only
	}
	return nil
}

func onlyElementChild(n *html.Node) *html.Node {
	var only *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if only != nil {
			return nil
		}
		only = c
	}
	return only
}

func find(n *html.Node, sel selector) *html.Node {
	if sel.matches(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, sel); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func skipped(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Nav:
		return true
	}
	classes := strings.Fields(attr(n, "class"))
	return slices.Contains(classes, "mw-editsection") || slices.Contains(classes, "noprint")
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Br, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Li, atom.Ul, atom.Ol, atom.Blockquote, atom.Pre, atom.Tr, atom.Table,
		atom.Section, atom.Article, atom.Header, atom.Footer, atom.Dd, atom.Dt, atom.Hr:
		return true
	}
	return false
}

func renderText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if inPre(n) {
			b.WriteString(n.Data)
		} else {
			b.WriteString(anySpace.ReplaceAllString(n.Data, " "))
		}
		return
	case html.ElementNode:
		if skipped(n) {
			return
		}
	}
	block := n.Type == html.ElementNode && isBlock(n.DataAtom)
	if block {
		b.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(b, c)
	}
	if block {
		b.WriteString("\n")
	}
}

func pageTitle(root *html.Node) string {
	if h := find(root, selector{kind: selectID, value: "firstHeading"}); h != nil {
		var b strings.Builder
		renderText(&b, h)
		if title := collapseSpaces(b.String()); title != "" {
			return title
		}
	}
	if t := find(root, selector{kind: selectTag, value: "title"}); t != nil && t.FirstChild != nil {
		return collapseSpaces(t.FirstChild.Data)
	}
	return ""
}

func inPre(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.DataAtom == atom.Pre {
			return true
		}
	}
	return false
}

var (
	anySpace   = regexp.MustCompile(`\s+`)
	spaceRun   = regexp.MustCompile(`[ \t\x{00a0}]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// normalizeText collapses horizontal whitespace, trims each line, and keeps
// at most one blank line between paragraphs.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = collapseSpaces(line)
	}
	joined := blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(joined)
}
