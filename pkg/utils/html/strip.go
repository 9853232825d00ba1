// ABOUTME: HTML utilities for stripping tags and normalising text
// ABOUTME: Used to turn link and heading markup into plain display text

package html

import (
	stdhtml "html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict drops every tag and attribute. Policies are safe for concurrent use
// once built.
var strict = bluemonday.StrictPolicy()

// StripHTML removes HTML tags, decodes entities and collapses whitespace
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, "<&") {
		s = stdhtml.UnescapeString(strict.Sanitize(s))
	}
	return CollapseWhitespace(s)
}

// CollapseWhitespace trims s and replaces every whitespace run with one space
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// RuneLength counts characters rather than bytes
func RuneLength(s string) int {
	return len([]rune(s))
}
