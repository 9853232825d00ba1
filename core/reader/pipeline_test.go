package reader

import (
	"context"
	"testing"

	"pagereader-api/core/config"
	"pagereader-api/core/document"
	"pagereader-api/core/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_PrepareLeavesSourceUntouched(t *testing.T) {
	markup := `<html><body>
		<div id="onetrust-banner-sdk">We use cookies</div>
		<p>Real content stays.</p>
	</body></html>`
	snap, err := document.New(articleURL, []byte(markup))
	require.NoError(t, err)

	p := NewPipeline(config.DefaultHeuristics(), interfaces.Dependencies{})
	prepared, err := p.Prepare(snap)
	require.NoError(t, err)

	assert.Contains(t, snap.HTML(), "onetrust-banner-sdk")
	assert.NotContains(t, prepared.HTML(), "onetrust-banner-sdk")
	assert.Contains(t, prepared.HTML(), "Real content stays.")
	assert.Equal(t, snap.URL().String(), prepared.URL().String())
}

func TestPipeline_ClassifyHomePage(t *testing.T) {
	snap, err := document.New(homeURL, []byte("<html><body>"+articleBody()+"</body></html>"))
	require.NoError(t, err)

	p := NewPipeline(config.DefaultHeuristics(), interfaces.Dependencies{Extractor: articleExtractor(500)})
	isArticle, signals := p.Classify(context.Background(), snap)

	assert.False(t, isArticle)
	assert.True(t, signals.HomePage)
}

func TestPipeline_Sanitize(t *testing.T) {
	p := NewPipeline(config.DefaultHeuristics(), interfaces.Dependencies{})
	out := p.Sanitize(`<a href="javascript:alert(1)">x</a>`)
	assert.NotContains(t, out, "javascript")
}
