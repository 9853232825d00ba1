// ABOUTME: Pre-order walk over the document that feeds the listing accumulator
// ABOUTME: Headings open sections; card-like containers become items with main and sub links

package listing

import (
	"regexp"
	"strings"

	"pagereader-api/core/domain"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// itemSelector matches card-like containers that may hold a listing entry
const itemSelector = `article, [data-link-name], [data-testid*="card"], [class*="card"], ` +
	`[class*="story"], [class*="teaser"], [class*="item"], li`

var (
	itemContainer = cascadia.MustCompile(itemSelector)
	anchors       = cascadia.MustCompile(`a[href]`)
	headings      = cascadia.MustCompile(`h1, h2, h3, h4, h5, h6`)
)

var (
	boilerplateRoles = map[string]bool{
		"navigation":    true,
		"banner":        true,
		"contentinfo":   true,
		"complementary": true,
		"search":        true,
	}
	boilerplateClass = regexp.MustCompile(`(?i)(^|[\s_-])(ad|ads|advert|advertisement|sponsored|promo|cookie|newsletter|share|social)([\s_-]|$)`)
	subContainer     = regexp.MustCompile(`(?i)(^|[-_])(related|more|sub|sublinks|subs)([-_]|$)`)
)

// visitor walks the tree once, in document order
type visitor struct {
	ext       *Extractor
	links     *linkFactory
	acc       *accumulator
	processed map[*html.Node]bool
}

func (v *visitor) walk(root *html.Node) {
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type == html.ElementNode && !v.insideProcessed(n) {
			v.visit(n)
		}

		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
}

// visit handles one element. Boilerplate elements are skipped but their
// children are still walked.
func (v *visitor) visit(n *html.Node) {
	if isBoilerplate(n) {
		return
	}
	if level := headingLevel(n); level > 0 {
		v.heading(n, level)
		return
	}
	if itemContainer.Match(n) {
		v.container(n)
	}
}

// insideProcessed reports whether an ancestor already produced an item
func (v *visitor) insideProcessed(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if v.processed[p] {
			return true
		}
	}
	return false
}

func (v *visitor) heading(n *html.Node, level int) {
	h := v.ext.heuristics
	if level > h.MaxSectionHeadingLevel {
		return
	}

	title := nodeText(n)
	length := len([]rune(title))
	if length == 0 || length > h.SectionTitleMaxLength {
		return
	}

	var titleLink *domain.Link
	if a := headingAnchor(n); a != nil {
		if link, ok := v.links.check(attr(a, "href"), nodeText(a), 1); ok {
			titleLink = &link
		}
	}

	v.acc.openSection(title, level, titleLink)
}

func (v *visitor) container(n *html.Node) {
	all := containerLinks(n)
	if len(all) == 0 || v.isWrapper(n) {
		return
	}

	mainNode, main, ok := v.mainLink(n, all)
	if !ok {
		return
	}

	v.processed[n] = true
	v.acc.addItem(domain.Item{
		Main: main,
		Subs: v.subLinks(n, all, mainNode),
	})
}

// isWrapper reports whether n groups several entries rather than being one
func (v *visitor) isWrapper(n *html.Node) bool {
	nested := cascadia.QueryAll(n, itemContainer)
	var withLinks, withHeadline int
	inner := make(map[*html.Node]bool)
	for _, c := range nested {
		if len(cascadia.QueryAll(c, anchors)) == 0 {
			continue
		}
		withLinks++
		inner[c] = true
		if hasHeadline(c) {
			withHeadline++
		}
	}
	if withLinks < 2 {
		return false
	}
	if withHeadline >= 2 {
		return true
	}
	return !ownHeadline(n, inner)
}

// mainLink walks the candidates in priority order. The first candidate that
// survives validation wins.
func (v *visitor) mainLink(n *html.Node, all []*html.Node) (*html.Node, domain.Link, bool) {
	tried := make(map[*html.Node]bool)
	try := func(a *html.Node, text string) (domain.Link, bool) {
		if a == nil || tried[a] {
			return domain.Link{}, false
		}
		tried[a] = true
		return v.links.create(attr(a, "href"), text)
	}

	// labelled links
	for _, a := range all {
		label := strings.TrimSpace(attr(a, "aria-label"))
		if label == "" {
			continue
		}
		text := nodeText(a)
		if len([]rune(text)) < v.ext.heuristics.MinLinkTextLength {
			text = label
		}
		if link, ok := try(a, text); ok {
			return a, link, true
		}
	}

	// links wrapping a heading
	for _, a := range all {
		if len(cascadia.QueryAll(a, headings)) == 0 {
			continue
		}
		if link, ok := try(a, nodeText(a)); ok {
			return a, link, true
		}
	}

	// headings containing a link
	for _, h := range cascadia.QueryAll(n, headings) {
		a := cascadia.Query(h, anchors)
		if a == nil {
			continue
		}
		if link, ok := try(a, nodeText(a)); ok {
			return a, link, true
		}
	}

	// first long link
	for _, a := range all {
		text := nodeText(a)
		if len([]rune(text)) < v.ext.heuristics.MainLinkMinTextLength {
			continue
		}
		if link, ok := try(a, text); ok {
			return a, link, true
		}
		break
	}

	return nil, domain.Link{}, false
}

func (v *visitor) subLinks(n *html.Node, all []*html.Node, main *html.Node) []domain.Link {
	scope := all
	if sub := findSubContainer(n); sub != nil {
		scope = cascadia.QueryAll(sub, anchors)
	}

	var subs []domain.Link
	for _, a := range scope {
		if a == main || contains(a, main) || contains(main, a) {
			continue
		}
		if strings.TrimSpace(attr(a, "aria-label")) != "" {
			continue
		}
		if link, ok := v.links.create(attr(a, "href"), nodeText(a)); ok {
			subs = append(subs, link)
		}
	}
	return subs
}

// containerLinks returns the anchors of n, including n itself
func containerLinks(n *html.Node) []*html.Node {
	links := cascadia.QueryAll(n, anchors)
	if anchors.Match(n) {
		links = append([]*html.Node{n}, links...)
	}
	return links
}

func findSubContainer(n *html.Node) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil && found == nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			for _, token := range strings.Fields(attr(c, "class")) {
				if subContainer.MatchString(token) {
					found = c
					return
				}
			}
			walk(c)
		}
	}
	walk(n)
	return found
}

// hasHeadline reports whether n holds a link that would rank above the
// plain-link fallback
func hasHeadline(n *html.Node) bool {
	for _, a := range containerLinks(n) {
		if strings.TrimSpace(attr(a, "aria-label")) != "" || len(cascadia.QueryAll(a, headings)) > 0 {
			return true
		}
	}
	for _, h := range cascadia.QueryAll(n, headings) {
		if cascadia.Query(h, anchors) != nil || enclosingAnchor(h) != nil {
			return true
		}
	}
	return false
}

// ownHeadline reports whether n has a headline outside the inner containers
func ownHeadline(n *html.Node, inner map[*html.Node]bool) bool {
	var found bool
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil && !found; c = c.NextSibling {
			if c.Type != html.ElementNode || inner[c] {
				continue
			}
			if headingLevel(c) > 0 && cascadia.Query(c, anchors) != nil {
				found = true
				return
			}
			if anchors.Match(c) && (attr(c, "aria-label") != "" || cascadia.Query(c, headings) != nil) {
				found = true
				return
			}
			walk(c)
		}
	}
	walk(n)
	return found
}

func isBoilerplate(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Nav, atom.Footer, atom.Aside:
		return true
	}
	if boilerplateRoles[strings.ToLower(attr(n, "role"))] {
		return true
	}
	if hasAttr(n, "hidden") || strings.EqualFold(attr(n, "aria-hidden"), "true") {
		return true
	}
	style := strings.ReplaceAll(strings.ToLower(attr(n, "style")), " ", "")
	if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
		return true
	}
	return boilerplateClass.MatchString(attr(n, "class")) || boilerplateClass.MatchString(attr(n, "id"))
}

func headingLevel(n *html.Node) int {
	switch n.DataAtom {
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

// headingAnchor finds the link inside a heading or the one wrapping it
func headingAnchor(h *html.Node) *html.Node {
	if a := cascadia.Query(h, anchors); a != nil {
		return a
	}
	return enclosingAnchor(h)
}

func enclosingAnchor(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if anchors.Match(p) {
			return p
		}
	}
	return nil
}

// contains reports whether n is a proper ancestor of d
func contains(n, d *html.Node) bool {
	if n == nil || d == nil {
		return false
	}
	for p := d.Parent; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// nodeText concatenates the text beneath n, ignoring script and style
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		if p.Type == html.TextNode {
			b.WriteString(p.Data)
			return
		}
		if p.Type == html.ElementNode && (p.DataAtom == atom.Script || p.DataAtom == atom.Style) {
			return
		}
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}
