package render

import (
	"strings"
	"testing"

	"pagereader-api/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticle(t *testing.T) {
	out, err := Article(&domain.ArticleData{
		Title:              "Floods <reach> the capital",
		Byline:             "A. Reporter",
		SiteName:           "Example News",
		ContentHTML:        "<p>First paragraph.</p>",
		ReadingTimeMinutes: 4,
		Direction:          "rtl",
		Language:           "ar",
	}, domain.DefaultSettings())
	require.NoError(t, err)

	assert.Contains(t, out, `class="reader reader-article theme-light"`)
	assert.Contains(t, out, `dir="rtl"`)
	assert.Contains(t, out, `lang="ar"`)
	assert.Contains(t, out, "Floods &lt;reach&gt; the capital")
	assert.Contains(t, out, "<p>First paragraph.</p>")
	assert.Contains(t, out, "A. Reporter")
	assert.Contains(t, out, "4 min read")
	assert.Contains(t, out, "--reader-font-size:18px")
}

func TestArticle_NoDirection(t *testing.T) {
	out, err := Article(&domain.ArticleData{Title: "T", ContentHTML: "<p>x</p>"}, domain.DefaultSettings())
	require.NoError(t, err)

	assert.NotContains(t, out, "dir=")
	assert.NotContains(t, out, "reader-byline")
}

func TestArticle_Nil(t *testing.T) {
	_, err := Article(nil, domain.DefaultSettings())
	assert.Error(t, err)
}

func TestListing(t *testing.T) {
	out, err := Listing(&domain.ListingData{
		SiteName:  "Example News",
		PageTitle: "Front page",
		Sections: []domain.Section{
			{
				Title:        "Sport",
				HeadingLevel: 2,
				TitleLink:    &domain.Link{Href: "https://news.example.com/sport", Text: "Sport"},
				Items: []domain.Item{{
					Main: domain.Link{Href: "https://news.example.com/a", Text: "Final ends in a shootout"},
					Subs: []domain.Link{{Href: "https://other.example.org/b", Text: "Partner report", IsExternal: true}},
				}},
			},
			{
				Items: []domain.Item{{Main: domain.Link{Href: "https://news.example.com/c", Text: "Untitled entry"}}},
			},
		},
	}, domain.DefaultSettings())
	require.NoError(t, err)

	assert.Contains(t, out, `<h1 class="reader-title">Front page</h1>`)
	assert.Contains(t, out, `data-level="2"`)
	assert.Contains(t, out, `<a href="https://news.example.com/sport">Sport</a>`)
	assert.Contains(t, out, `<a href="https://other.example.org/b" class="reader-external" rel="noopener noreferrer" target="_blank">Partner report</a>`)
	assert.Equal(t, 2, strings.Count(out, `<section class="reader-section">`))
	assert.Equal(t, 1, strings.Count(out, `reader-section-title`))
}

func TestListing_UnsafeHrefNeutralized(t *testing.T) {
	out, err := Listing(&domain.ListingData{
		Sections: []domain.Section{{Items: []domain.Item{{Main: domain.Link{Href: "javascript:alert(1)", Text: "bad"}}}}},
	}, domain.DefaultSettings())
	require.NoError(t, err)

	assert.NotContains(t, out, "javascript:")
}

func TestStyle(t *testing.T) {
	settings := domain.Settings{FontSize: 22, LineHeight: 1.8, FontFamily: "Georgia, serif", Margin: 12}
	assert.Equal(t,
		"--reader-font-size:22px;--reader-line-height:1.8;--reader-font-family:Georgia, serif;--reader-margin:12px",
		string(Style(settings)))
}

func TestStyle_FallsBackOnBadValues(t *testing.T) {
	settings := domain.Settings{FontSize: 500, LineHeight: 0, FontFamily: "x;}</style><script>", Margin: -5, Theme: "neon"}
	assert.Equal(t,
		"--reader-font-size:18px;--reader-line-height:1.5;--reader-font-family:serif;--reader-margin:24px",
		string(Style(settings)))

	out, err := Listing(&domain.ListingData{}, settings)
	require.NoError(t, err)
	assert.Contains(t, out, "theme-light")
}
