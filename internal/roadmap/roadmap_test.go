package roadmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/docket/internal/composer"
	"github.com/jackzampolin/docket/internal/pdfcheck"
	"github.com/jackzampolin/docket/internal/testutil"
)

func TestDocument(t *testing.T) {
	doc := Document(false)
	assert.Equal(t, Title, doc.Title)
	require.Len(t, doc.Sections, 6)
	assert.Equal(t, "Phase 1: Foundation (Weeks 1–4)", doc.Sections[0].Title)
	assert.Equal(t, "Meta Advantage", doc.Sections[5].Title)
	for _, s := range doc.Sections {
		assert.True(t, s.HasBody(), s.Title)
	}

	assert.Equal(t, Icon+" "+Title, Document(true).Title)

	// Callers get their own copy.
	doc.Sections[0].Title = "changed"
	assert.NotEqual(t, "changed", Document(false).Sections[0].Title)
}

func TestDocument_RendersOverSeveralPages(t *testing.T) {
	style := composer.DefaultStyle()
	style.Fonts = composer.FontFiles{}

	out, err := composer.Render(Document(false), style)
	require.NoError(t, err)
	assert.Greater(t, out.Pages, 1)

	info, err := pdfcheck.Inspect(out.Bytes)
	require.NoError(t, err)
	assert.Equal(t, out.Pages, info.Pages)
}

func TestDocument_RendersWithTrueTypeFont(t *testing.T) {
	style := composer.DefaultStyle()
	style.Fonts.Regular = testutil.SystemFont(t)

	// The icon cannot be encoded, so callers leave it out.
	assert.False(t, composer.CanEncode(style, Icon))
	plain, err := composer.Render(Document(composer.CanEncode(style, Icon)), style)
	require.NoError(t, err)
	assert.Greater(t, plain.Pages, 1)

	// Even when it is passed, rendering drops the glyph instead of failing.
	withIcon, err := composer.Render(Document(true), style)
	require.NoError(t, err)
	_, err = pdfcheck.Inspect(withIcon.Bytes)
	require.NoError(t, err)
	assert.Equal(t, plain.Pages, withIcon.Pages)
}
