package sections

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/docket/internal/composer"
)

func names(l *List) []string {
	var out []string
	for _, e := range l.Entries() {
		out = append(out, e.Name)
	}
	return out
}

func filled(t *testing.T, n int) *List {
	t.Helper()
	l := New()
	for i := 0; i < n; i++ {
		_, err := l.Add(Entry{Name: fmt.Sprintf("e%d", i)})
		require.NoError(t, err)
	}
	return l
}

func TestList_Add(t *testing.T) {
	l := filled(t, 3)

	e, err := l.Add(Entry{Name: "  new  ", Description: "desc"})
	require.NoError(t, err)
	assert.Equal(t, "new", e.Name)
	assert.NotEmpty(t, e.ID)

	assert.Equal(t, 4, l.Len())
	assert.Equal(t, []string{"e0", "e1", "e2", "new"}, names(l))

	_, err = l.Add(Entry{Name: "   "})
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Equal(t, 4, l.Len())
}

func TestList_AddKeepsExistingID(t *testing.T) {
	l := New()
	e, err := l.Add(Entry{ID: "fixed", Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", e.ID)
}

func TestList_AddForm(t *testing.T) {
	l := New()

	e, err := l.AddForm("NIHSS", "Stroke scale", " * ", "#4CAF50")
	require.NoError(t, err)
	require.NotNil(t, e.Color)
	assert.Equal(t, composer.RGB(76, 175, 80), *e.Color)
	assert.Equal(t, "*", e.Icon)

	e, err = l.AddForm("MELD", "", "", "")
	require.NoError(t, err)
	assert.Nil(t, e.Color)

	_, err = l.AddForm("Bad", "", "", "#12")
	var colorErr *composer.InvalidColorError
	assert.True(t, errors.As(err, &colorErr))
	assert.Equal(t, 2, l.Len())
}

func TestList_Remove(t *testing.T) {
	l := filled(t, 5)

	removed, err := l.Remove(2)
	require.NoError(t, err)
	assert.Equal(t, "e2", removed.Name)
	assert.Equal(t, []string{"e0", "e1", "e3", "e4"}, names(l))

	_, err = l.Remove(0)
	require.NoError(t, err)
	_, err = l.Remove(l.Len() - 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e3"}, names(l))

	for _, i := range []int{-1, 2, 10} {
		_, err := l.Remove(i)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}
	assert.Equal(t, []string{"e1", "e3"}, names(l))
}

func TestList_Swap(t *testing.T) {
	l := filled(t, 4)

	require.NoError(t, l.Swap(1))
	assert.Equal(t, []string{"e0", "e2", "e1", "e3"}, names(l))

	require.NoError(t, l.Swap(0))
	assert.Equal(t, []string{"e2", "e0", "e1", "e3"}, names(l))

	// The last entry has nothing to swap with.
	assert.ErrorIs(t, l.Swap(3), ErrIndexOutOfRange)
	assert.ErrorIs(t, l.Swap(-1), ErrIndexOutOfRange)
	assert.Equal(t, []string{"e2", "e0", "e1", "e3"}, names(l))
}

func TestList_MoveUpDown(t *testing.T) {
	l := filled(t, 3)

	require.NoError(t, l.MoveUp(2))
	assert.Equal(t, []string{"e0", "e2", "e1"}, names(l))

	require.NoError(t, l.MoveDown(0))
	assert.Equal(t, []string{"e2", "e0", "e1"}, names(l))

	assert.ErrorIs(t, l.MoveUp(0), ErrIndexOutOfRange)
	assert.ErrorIs(t, l.MoveDown(2), ErrIndexOutOfRange)
}

func TestList_EntriesIsACopy(t *testing.T) {
	l := filled(t, 2)
	entries := l.Entries()
	entries[0].Name = "changed"
	assert.Equal(t, []string{"e0", "e1"}, names(l))
}

func TestList_Get(t *testing.T) {
	l := filled(t, 2)
	e, err := l.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "e1", e.Name)

	_, err = l.Get(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestList_Clear(t *testing.T) {
	l := filled(t, 3)
	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Entries())
}

func TestList_Document(t *testing.T) {
	l := New()
	_, err := l.AddForm("First", "body one", "#", "#FF0000")
	require.NoError(t, err)
	_, err = l.AddForm("Second", "", "", "")
	require.NoError(t, err)

	doc := l.Document("Title", "Sub")
	assert.Equal(t, "Title", doc.Title)
	assert.Equal(t, "Sub", doc.Subtitle)
	require.Len(t, doc.Sections, 2)

	assert.Equal(t, "First", doc.Sections[0].Title)
	assert.Equal(t, "body one", doc.Sections[0].Body)
	assert.Equal(t, "#", doc.Sections[0].Icon)
	require.NotNil(t, doc.Sections[0].Highlight)
	assert.Equal(t, composer.RGB(255, 0, 0), *doc.Sections[0].Highlight)

	assert.Equal(t, "Second", doc.Sections[1].Title)
	assert.Nil(t, doc.Sections[1].Highlight)
	assert.False(t, doc.Sections[1].HasBody())

	// The document does not alias list storage.
	doc.Sections[0].Highlight.R = 0
	e, _ := l.Get(0)
	assert.Equal(t, uint8(255), e.Color.R)
}

func TestList_RenderedOrderFollowsEdits(t *testing.T) {
	l := filled(t, 4)
	require.NoError(t, l.Swap(2))
	_, err := l.Remove(0)
	require.NoError(t, err)

	out, err := composer.Render(l.Document("T", ""), composer.DefaultStyle())
	require.NoError(t, err)

	var got []int
	for _, b := range out.Blocks {
		if b.Kind == composer.BlockHeading {
			got = append(got, b.Section)
		}
	}
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Equal(t, []string{"e1", "e3", "e2"}, names(l))
}
