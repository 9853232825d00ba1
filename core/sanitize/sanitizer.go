// ABOUTME: Sanitizer strips executable and active content from extracted article markup
// ABOUTME: Runs before any fragment is attached to a live render tree; pure and idempotent

package sanitize

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// removedElements are dropped together with their content
const removedElements = "script, style, noscript, form, input, button, select, option, optgroup, " +
	"textarea, datalist, output, keygen, iframe, frame, frameset, object, embed, applet, base, link, meta, plaintext"

// animationElements can rewrite another attribute at runtime, for example
// animating an <a>'s href to a script URL. The parser keeps SVG camel case,
// so they are matched on the lower-cased tag name.
var animationElements = map[string]struct{}{
	"animate": {}, "set": {}, "animatemotion": {}, "animatetransform": {}, "animatecolor": {},
}

// animationValueAttributes carry the values an animation writes
var animationValueAttributes = map[string]struct{}{
	"values": {}, "to": {}, "from": {}, "by": {},
}

// eventHandlers covers mouse, keyboard, form, drag, clipboard, media and
// lifecycle events. Any other on* attribute is removed as well.
var eventHandlers = map[string]struct{}{
	"onclick": {}, "ondblclick": {}, "onmousedown": {}, "onmouseup": {}, "onmouseover": {},
	"onmousemove": {}, "onmouseout": {}, "onmouseenter": {}, "onmouseleave": {}, "oncontextmenu": {},
	"onwheel": {}, "onauxclick": {}, "onpointerdown": {}, "onpointerup": {}, "onpointermove": {},
	"onpointerover": {}, "onpointerout": {}, "onpointerenter": {}, "onpointerleave": {},
	"ontouchstart": {}, "ontouchend": {}, "ontouchmove": {}, "ontouchcancel": {},
	"onkeydown": {}, "onkeyup": {}, "onkeypress": {},
	"onfocus": {}, "onblur": {}, "onfocusin": {}, "onfocusout": {}, "onchange": {}, "oninput": {},
	"onsubmit": {}, "onreset": {}, "onselect": {}, "oninvalid": {}, "onformdata": {},
	"ondrag": {}, "ondragstart": {}, "ondragend": {}, "ondragenter": {}, "ondragleave": {},
	"ondragover": {}, "ondrop": {},
	"oncopy": {}, "oncut": {}, "onpaste": {},
	"onload": {}, "onunload": {}, "onbeforeunload": {}, "onerror": {}, "onabort": {},
	"onresize": {}, "onscroll": {}, "onpageshow": {}, "onpagehide": {}, "onhashchange": {},
	"onpopstate": {}, "onstorage": {}, "onmessage": {}, "ononline": {}, "onoffline": {},
	"onanimationstart": {}, "onanimationend": {}, "onanimationiteration": {}, "ontransitionend": {},
	"onplay": {}, "onpause": {}, "onended": {}, "oncanplay": {}, "onloadeddata": {},
	"onbeforeprint": {}, "onafterprint": {}, "ontoggle": {}, "onshow": {},
}

// urlAttributes may carry a navigable or loadable URL
var urlAttributes = map[string]struct{}{
	"href": {}, "src": {}, "action": {}, "formaction": {}, "xlink:href": {},
	"poster": {}, "background": {}, "lowsrc": {}, "dynsrc": {}, "data": {}, "cite": {}, "longdesc": {},
}

// scriptSchemes execute code when followed
var scriptSchemes = []string{"javascript:", "vbscript:", "livescript:", "mocha:"}

// Sanitizer removes active content from HTML fragments
type Sanitizer struct{}

// New creates a sanitizer
func New() *Sanitizer {
	return &Sanitizer{}
}

// Sanitize parses fragment into a detached tree, strips every executable
// element and attribute, and serializes the result.
// Sanitize(Sanitize(x)) == Sanitize(x).
func (s *Sanitizer) Sanitize(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), container)
	if err != nil {
		return ""
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	root := goquery.NewDocumentFromNode(container).Selection
	root.Find(removedElements).Remove()
	removeInactiveNodes(container)

	root.Find("*").Each(func(_ int, sel *goquery.Selection) {
		cleanAttributes(sel.Get(0))
	})

	var buf bytes.Buffer
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

func cleanAttributes(n *html.Node) {
	kept := n.Attr[:0]
	for _, attr := range n.Attr {
		name := attributeName(attr)
		if isEventHandler(name) {
			continue
		}
		if _, ok := urlAttributes[name]; ok && unsafeURL(n, name, attr.Val) {
			continue
		}
		if name == "srcdoc" || (name == "srcset" && containsScriptScheme(attr.Val)) {
			continue
		}
		if _, ok := animationValueAttributes[name]; ok && containsScriptScheme(attr.Val) {
			continue
		}
		if name == "style" && unsafeStyle(attr.Val) {
			continue
		}
		kept = append(kept, attr)
	}
	n.Attr = kept
}

func attributeName(attr html.Attribute) string {
	name := strings.ToLower(attr.Key)
	if attr.Namespace != "" {
		name = strings.ToLower(attr.Namespace) + ":" + name
	}
	return name
}

func isEventHandler(name string) bool {
	if _, ok := eventHandlers[name]; ok {
		return true
	}
	return strings.HasPrefix(name, "on")
}

// unsafeURL reports script schemes anywhere and data: URLs everywhere except
// an image's src, which keeps inline images working
func unsafeURL(n *html.Node, name, value string) bool {
	normalized := normalizeURL(value)
	if hasScriptScheme(normalized) {
		return true
	}
	if strings.HasPrefix(normalized, "data:") {
		return !(name == "src" && n.DataAtom == atom.Img)
	}
	return false
}

// normalizeURL drops every whitespace, control and zero-width character and
// lower-cases the result, so "JAVA\tSCRIPT:" compares as "javascript:"
func normalizeURL(value string) string {
	return strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, value))
}

func hasScriptScheme(normalized string) bool {
	for _, scheme := range scriptSchemes {
		if strings.HasPrefix(normalized, scheme) {
			return true
		}
	}
	return false
}

func containsScriptScheme(value string) bool {
	normalized := normalizeURL(value)
	for _, scheme := range scriptSchemes {
		if strings.Contains(normalized, scheme) {
			return true
		}
	}
	return false
}

func unsafeStyle(value string) bool {
	normalized := normalizeURL(value)
	return containsScriptScheme(normalized) ||
		strings.Contains(normalized, "expression(") ||
		strings.Contains(normalized, "-moz-binding")
}

// removeInactiveNodes drops comments and animation elements
func removeInactiveNodes(root *html.Node) {
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			if c.Type == html.CommentNode || isAnimationElement(c) {
				n.RemoveChild(c)
			} else {
				stack = append(stack, c)
			}
			c = next
		}
	}
}

func isAnimationElement(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	_, ok := animationElements[strings.ToLower(n.Data)]
	return ok
}

// IsScriptURL reports whether value uses a script-execution scheme after
// whitespace, control characters and case are normalized away
func IsScriptURL(value string) bool {
	return hasScriptScheme(normalizeURL(value))
}
