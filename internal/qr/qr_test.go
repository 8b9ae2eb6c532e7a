package qr

import (
	"bytes"
	"fmt"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/docket/internal/composer"
	"github.com/jackzampolin/docket/internal/pdfcheck"
	"github.com/jackzampolin/docket/internal/predefined"
)

func coreStyle() composer.Style {
	s := composer.DefaultStyle()
	s.Fonts = composer.FontFiles{}
	return s
}

func TestPNG_Size(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 200

	data, err := PNG("https://example.org/calc", opts)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestPNG_Colors(t *testing.T) {
	opts := DefaultOptions()
	opts.Foreground = composer.MustParseHex("#1E3A8A")
	opts.Background = composer.MustParseHex("#FFFBEB")

	data, err := PNG("hello", opts)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	// The quiet zone in the corner is always background.
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xFF, 0xFB, 0xEB}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestPNG_Errors(t *testing.T) {
	_, err := PNG("  ", DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyContent)

	opts := DefaultOptions()
	opts.Size = 5
	_, err = PNG("x", opts)
	assert.Error(t, err)

	opts = DefaultOptions()
	opts.Level = "extreme"
	_, err = PNG("x", opts)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel(" High ")
	require.NoError(t, err)
	assert.Equal(t, LevelHigh, l)

	_, err = ParseLevel("max")
	assert.Error(t, err)
}

func TestSheet_Paginates(t *testing.T) {
	var entries predefined.List
	for i := 0; i < 20; i++ {
		entries = entries.Set(fmt.Sprintf("Tool %d", i), fmt.Sprintf("https://tool%d.example", i))
	}

	data, err := Sheet("Tools", entries, DefaultOptions(), coreStyle())
	require.NoError(t, err)

	info, err := pdfcheck.Inspect(data)
	require.NoError(t, err)
	assert.Greater(t, info.Pages, 1)
}

func TestSheet_Deterministic(t *testing.T) {
	entries := predefined.List{{Name: "NIHSS", URL: "https://nihss.example.app"}}

	a, err := Sheet("", entries, DefaultOptions(), coreStyle())
	require.NoError(t, err)
	b, err := Sheet("", entries, DefaultOptions(), coreStyle())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	info, err := pdfcheck.Inspect(a)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Pages)
}

func TestSheet_Empty(t *testing.T) {
	_, err := Sheet("x", nil, DefaultOptions(), coreStyle())
	assert.Error(t, err)
}
