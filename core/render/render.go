// ABOUTME: Renders ArticleData and ListingData into the reader content block
// ABOUTME: Typography settings become CSS custom properties on the block

package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strconv"
	"strings"

	"pagereader-api/core/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

var (
	themes     = map[string]bool{"light": true, "dark": true, "sepia": true}
	fontFamily = regexp.MustCompile(`^[A-Za-z0-9 ,'"-]+$`)
)

type view struct {
	Theme   string
	Style   template.CSS
	Dir     string
	Lang    string
	Article *domain.ArticleData
	Body    template.HTML
	Listing *domain.ListingData
}

// Article renders an article. ContentHTML must already be sanitized.
func Article(article *domain.ArticleData, settings domain.Settings) (string, error) {
	if article == nil {
		return "", fmt.Errorf("render article: nil article")
	}
	v := newView(settings)
	v.Dir = article.Direction
	v.Lang = article.Language
	v.Article = article
	v.Body = template.HTML(article.ContentHTML)
	return execute("article", v)
}

// Listing renders a listing as nested lists of links
func Listing(listing *domain.ListingData, settings domain.Settings) (string, error) {
	if listing == nil {
		return "", fmt.Errorf("render listing: nil listing")
	}
	v := newView(settings)
	v.Listing = listing
	return execute("listing", v)
}

func execute(name string, v view) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, v); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func newView(settings domain.Settings) view {
	defaults := domain.DefaultSettings()

	theme := strings.ToLower(settings.Theme)
	if !themes[theme] {
		theme = defaults.Theme
	}

	return view{
		Theme: theme,
		Style: Style(settings),
	}
}

// Style returns the CSS custom properties for settings. Out-of-range values
// fall back to the defaults.
func Style(settings domain.Settings) template.CSS {
	defaults := domain.DefaultSettings()

	fontSize := settings.FontSize
	if fontSize < 8 || fontSize > 72 {
		fontSize = defaults.FontSize
	}
	lineHeight := settings.LineHeight
	if lineHeight < 1 || lineHeight > 3 {
		lineHeight = defaults.LineHeight
	}
	margin := settings.Margin
	if margin < 0 || margin > 200 {
		margin = defaults.Margin
	}
	family := strings.TrimSpace(settings.FontFamily)
	if !fontFamily.MatchString(family) {
		family = defaults.FontFamily
	}

	return template.CSS(fmt.Sprintf(
		"--reader-font-size:%dpx;--reader-line-height:%s;--reader-font-family:%s;--reader-margin:%dpx",
		fontSize, strconv.FormatFloat(lineHeight, 'f', -1, 64), family, margin,
	))
}
