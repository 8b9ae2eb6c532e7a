package docfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/docket/internal/composer"
	"github.com/jackzampolin/docket/internal/sections"
)

const yamlDoc = `title: Clinic tools
subtitle: Shared calculators
sections:
  - title: NIHSS
    body: |
      Stroke scale.
      Eleven items.
    icon: "🧠"
    color: "#4CAF50"
  - title: MELD
`

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	f, err := Load(path)
	require.NoError(t, err)

	doc, err := f.Document()
	require.NoError(t, err)
	assert.Equal(t, "Clinic tools", doc.Title)
	assert.Equal(t, "Shared calculators", doc.Subtitle)
	require.Len(t, doc.Sections, 2)

	first := doc.Sections[0]
	assert.Equal(t, "NIHSS", first.Title)
	assert.Equal(t, "Stroke scale.\nEleven items.\n", first.Body)
	assert.Equal(t, "🧠", first.Icon)
	require.NotNil(t, first.Highlight)
	assert.Equal(t, composer.RGB(76, 175, 80), *first.Highlight)

	assert.False(t, doc.Sections[1].HasBody())
	assert.Nil(t, doc.Sections[1].Highlight)
}

func TestParse_JSON(t *testing.T) {
	f, err := Parse([]byte(`{"title": "T", "sections": [{"title": "A", "body": "b", "color": "FF0000"}]}`))
	require.NoError(t, err)

	doc, err := f.Document()
	require.NoError(t, err)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, composer.RGB(255, 0, 0), *doc.Sections[0].Highlight)
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, f.Sections)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("title: x\ncolour: red\n"))
	assert.Error(t, err)
}

func TestFile_BadEntries(t *testing.T) {
	f := &File{Sections: []SectionFile{{Title: "ok"}, {Title: "bad", Color: "#12"}}}
	_, err := f.Document()
	var colorErr *composer.InvalidColorError
	assert.True(t, errors.As(err, &colorErr))
	assert.Contains(t, err.Error(), "section 2")

	f = &File{Sections: []SectionFile{{Title: "  "}}}
	_, err = f.List()
	assert.ErrorIs(t, err, sections.ErrEmptyName)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
