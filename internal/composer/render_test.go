package composer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/docket/internal/pdfcheck"
	"github.com/jackzampolin/docket/internal/testutil"
)

func sampleDocument(n int) Document {
	doc := Document{Title: "Roadmap", Subtitle: "Three phases"}
	for i := 0; i < n; i++ {
		doc.Sections = append(doc.Sections, Section{
			Title: fmt.Sprintf("Phase %d", i+1),
			Body:  fmt.Sprintf("Goal %d.\n- first item\n- second item", i+1),
		})
	}
	return doc
}

func TestRender_ProducesValidPDF(t *testing.T) {
	out, err := Render(sampleDocument(3), DefaultStyle())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out.Bytes, []byte("%PDF-")))
	assert.Equal(t, 1, out.Pages)

	info, err := pdfcheck.Inspect(out.Bytes)
	require.NoError(t, err)
	assert.Equal(t, out.Pages, info.Pages)
}

func TestRender_PreservesSectionOrder(t *testing.T) {
	doc := sampleDocument(5)
	out, err := Render(doc, DefaultStyle())
	require.NoError(t, err)

	var order []int
	for _, b := range out.Blocks {
		if b.Kind == BlockHeading {
			order = append(order, b.Section)
		}
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)

	// Title and subtitle come first, then each heading precedes its body.
	require.GreaterOrEqual(t, len(out.Blocks), 2)
	assert.Equal(t, BlockTitle, out.Blocks[0].Kind)
	assert.Equal(t, BlockSubtitle, out.Blocks[1].Kind)
	for i := 2; i < len(out.Blocks); i += 2 {
		assert.Equal(t, BlockHeading, out.Blocks[i].Kind)
		assert.Equal(t, BlockBody, out.Blocks[i+1].Kind)
		assert.Equal(t, out.Blocks[i].Section, out.Blocks[i+1].Section)
	}
}

func TestRender_Deterministic(t *testing.T) {
	doc := sampleDocument(4)
	doc.Sections[1].Highlight = &Color{R: 76, G: 175, B: 80}

	first, err := Render(doc, DefaultStyle())
	require.NoError(t, err)
	second, err := Render(doc, DefaultStyle())
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first.Bytes, second.Bytes), "output differs between runs")
	assert.Equal(t, first.Blocks, second.Blocks)
}

func TestRender_EmptyBodyUsesLessSpace(t *testing.T) {
	withBody := Document{Title: "T", Sections: []Section{{Title: "Section", Body: "Some body text"}}}
	withoutBody := Document{Title: "T", Sections: []Section{{Title: "Section"}}}
	blankBody := Document{Title: "T", Sections: []Section{{Title: "Section", Body: "  \n "}}}

	a, err := Render(withBody, DefaultStyle())
	require.NoError(t, err)
	b, err := Render(withoutBody, DefaultStyle())
	require.NoError(t, err)
	c, err := Render(blankBody, DefaultStyle())
	require.NoError(t, err)

	assert.Less(t, b.SectionExtent(0), a.SectionExtent(0))
	assert.Len(t, b.SectionBlocks(0), 1)
	assert.Len(t, c.SectionBlocks(0), 1)
	assert.Equal(t, b.SectionExtent(0), c.SectionExtent(0))
}

func TestRender_HighlightFill(t *testing.T) {
	green, err := ParseHex("#4CAF50")
	require.NoError(t, err)

	doc := Document{Title: "T", Sections: []Section{
		{Title: "Plain", Body: "x"},
		{Title: "Highlighted", Body: "y", Icon: "*", Highlight: &green},
	}}
	out, err := Render(doc, DefaultStyle())
	require.NoError(t, err)

	plain := out.SectionBlocks(0)
	require.NotEmpty(t, plain)
	assert.Nil(t, plain[0].Fill)

	hl := out.SectionBlocks(1)
	require.NotEmpty(t, hl)
	require.NotNil(t, hl[0].Fill)
	assert.Equal(t, Color{R: 76, G: 175, B: 80}, *hl[0].Fill)
	// Body text never carries the fill.
	assert.Nil(t, hl[1].Fill)
}

func TestRender_MissingFont(t *testing.T) {
	style := DefaultStyle()
	style.Fonts.Regular = filepath.Join(t.TempDir(), "DejaVuSans.ttf")

	out, err := Render(sampleDocument(1), style)
	assert.Nil(t, out)

	var missing *MissingResourceError
	require.True(t, errors.As(err, &missing), "want MissingResourceError, got %v", err)
	assert.Equal(t, style.Fonts.Regular, missing.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRender_MissingBoldFont(t *testing.T) {
	dir := t.TempDir()
	regular := filepath.Join(dir, "regular.ttf")
	require.NoError(t, os.WriteFile(regular, []byte("not really a font"), 0o644))

	style := DefaultStyle()
	style.Fonts = FontFiles{Regular: regular, Bold: filepath.Join(dir, "bold.ttf")}

	_, err := Render(sampleDocument(1), style)
	var missing *MissingResourceError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, style.Fonts.Bold, missing.Path)
}

func TestRender_Paginates(t *testing.T) {
	doc := Document{Title: "Long"}
	for i := 0; i < 40; i++ {
		doc.Sections = append(doc.Sections, Section{
			Title: fmt.Sprintf("Section %d", i),
			Body:  strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit. ", 8),
		})
	}

	out, err := Render(doc, DefaultStyle())
	require.NoError(t, err)
	require.Greater(t, out.Pages, 1)

	info, err := pdfcheck.Inspect(out.Bytes)
	require.NoError(t, err)
	assert.Equal(t, out.Pages, info.Pages)

	// Every block stays inside the printable area and blocks never overlap.
	const eps = 1e-6
	for i, b := range out.Blocks {
		assert.GreaterOrEqual(t, b.Top, out.ContentTop-eps, "block %d starts above the top margin", i)
		assert.LessOrEqual(t, b.Bottom, out.BreakAt+eps, "block %d crosses the bottom margin", i)
		assert.LessOrEqual(t, b.StartPage, b.EndPage)
		if i == 0 {
			continue
		}
		prev := out.Blocks[i-1]
		if prev.EndPage == b.StartPage {
			assert.GreaterOrEqual(t, b.Top, prev.Bottom-eps, "block %d overlaps block %d", i, i-1)
		} else {
			assert.Greater(t, b.StartPage, prev.EndPage)
		}
	}

	// A heading always shares its page with the first line of its body.
	for i := range doc.Sections {
		blocks := out.SectionBlocks(i)
		require.Len(t, blocks, 2)
		assert.Equal(t, blocks[0].EndPage, blocks[1].StartPage)
	}

	last := out.Blocks[len(out.Blocks)-1]
	assert.Equal(t, out.Pages, last.EndPage)
}

func TestRender_LongBodyContinuesOnNextPage(t *testing.T) {
	doc := Document{Title: "T", Sections: []Section{{
		Title: "Huge",
		Body:  strings.Repeat("line\n", 120),
	}}}

	out, err := Render(doc, DefaultStyle())
	require.NoError(t, err)

	body := out.SectionBlocks(0)[1]
	assert.Greater(t, body.EndPage, body.StartPage)

	// 120 lines of 6mm each plus whatever was left unused at each page foot.
	assert.GreaterOrEqual(t, out.Extent(body), 120*DefaultStyle().Body.LineHeight)
	assert.GreaterOrEqual(t, out.Pages, 3)
}

func TestRender_EmptyDocument(t *testing.T) {
	doc := Document{Title: "Only a title", Subtitle: "and a subtitle"}

	out, err := Render(doc, DefaultStyle())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Pages)
	assert.Len(t, out.Blocks, 2)

	assert.ErrorIs(t, CheckNotEmpty(doc), ErrEmptyDocument)
	assert.NoError(t, CheckNotEmpty(sampleDocument(1)))
}

func TestRender_InvalidStyle(t *testing.T) {
	style := DefaultStyle()
	style.PageSize = "B7"
	_, err := Render(sampleDocument(1), style)
	assert.ErrorContains(t, err, "unsupported page size")

	style = DefaultStyle()
	style.Body.LineHeight = 0
	_, err = Render(sampleDocument(1), style)
	assert.ErrorContains(t, err, "body style")
}

func TestRendered_WriteFile(t *testing.T) {
	out, err := Render(sampleDocument(2), DefaultStyle())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.pdf")
	require.NoError(t, out.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out.Bytes, data)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestSection_Heading(t *testing.T) {
	assert.Equal(t, "Plan", Section{Title: "Plan"}.Heading())
	assert.Equal(t, "> Plan", Section{Title: "Plan", Icon: ">"}.Heading())
}

func TestRender_TrueTypeDropsRunesOutsideBMP(t *testing.T) {
	style := DefaultStyle()
	style.Fonts.Regular = testutil.SystemFont(t)

	doc := Document{
		Title: "🚀 Roadmap",
		Sections: []Section{
			{Title: "Diagnosis", Icon: "🧠", Body: "Ärzte – naïve café 🩺 notes"},
			{Title: "Follow-up", Icon: "★"},
		},
	}
	out, err := Render(doc, style)
	require.NoError(t, err)

	info, err := pdfcheck.Inspect(out.Bytes)
	require.NoError(t, err)
	assert.Equal(t, out.Pages, info.Pages)

	again, err := Render(doc, style)
	require.NoError(t, err)
	assert.Equal(t, out.Bytes, again.Bytes)
}

func TestDropUnencodable(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Plain title", "Plain title"},
		{"🚀 Roadmap", "Roadmap"},
		{"🧠", ""},
		{"Phase 1 – naïve ★", "Phase 1 – naïve ★"},
		{"a🩺b", "ab"},
		{"  indented", "  indented"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dropUnencodable(tt.in), tt.in)
	}
}

func TestCanEncode(t *testing.T) {
	core := DefaultStyle()
	assert.True(t, CanEncode(core, "Café"))
	assert.False(t, CanEncode(core, "★"))
	assert.False(t, CanEncode(core, "🚀"))

	ttf := DefaultStyle()
	ttf.Fonts.Regular = "DejaVuSans.ttf"
	assert.True(t, CanEncode(ttf, "★ Café"))
	assert.False(t, CanEncode(ttf, "🚀"))
}
