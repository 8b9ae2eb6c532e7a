package composer

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
)

// BlockKind identifies what a laid-out block holds.
type BlockKind string

const (
	BlockTitle    BlockKind = "title"
	BlockSubtitle BlockKind = "subtitle"
	BlockHeading  BlockKind = "heading"
	BlockBody     BlockKind = "body"
)

// Block records where one block landed. Pages are 1-indexed.
type Block struct {
	Kind      BlockKind `json:"kind"`
	Section   int       `json:"section"` // -1 for title and subtitle
	StartPage int       `json:"start_page"`
	EndPage   int       `json:"end_page"`
	Top       float64   `json:"top"`
	Bottom    float64   `json:"bottom"`
	Fill      *Color    `json:"fill,omitempty"`
}

// Rendered is a finished document plus its layout trace.
type Rendered struct {
	Bytes  []byte
	Pages  int
	Blocks []Block

	// ContentTop is the first usable y on each page.
	ContentTop float64
	// BreakAt is the y beyond which no line is placed.
	BreakAt float64
}

// Render lays doc out with style and returns the finalized PDF.
// A declared but absent font file fails with *MissingResourceError
// and no bytes are produced.
func Render(doc Document, style Style) (*Rendered, error) {
	c, err := NewCanvas(style, doc.Title)
	if err != nil {
		return nil, err
	}
	pdf := c.PDF
	l := &layout{
		pdf:       pdf,
		family:    c.Family,
		translate: c.Translate,
		breakAt:   c.BreakAt,
	}

	pdf.AddPage()

	if doc.Title != "" {
		l.block(BlockTitle, -1, style.Title, doc.Title, nil, 0)
		pdf.Ln(style.TitleGap)
	}
	if doc.Subtitle != "" {
		l.block(BlockSubtitle, -1, style.Subtitle, doc.Subtitle, nil, 0)
		pdf.Ln(style.SubtitleGap)
	}

	for i, s := range doc.Sections {
		keep := 0.0
		if s.HasBody() {
			keep = style.Body.LineHeight
		}
		l.block(BlockHeading, i, style.Heading, s.Heading(), s.Highlight, keep)
		if s.HasBody() {
			l.block(BlockBody, i, style.Body, s.Body, nil, 0)
		}
		pdf.Ln(style.SectionGap)
	}

	data, err := c.Finish()
	if err != nil {
		return nil, err
	}

	return &Rendered{
		Bytes:      data,
		Pages:      pdf.PageCount(),
		Blocks:     l.blocks,
		ContentTop: style.Margins.Top,
		BreakAt:    c.BreakAt,
	}, nil
}

// Canvas is an fpdf writer configured from a Style: page geometry, fonts,
// metadata and fixed timestamps. No page has been added yet.
type Canvas struct {
	PDF       *fpdf.Fpdf
	Family    string
	Translate func(string) string
	// BreakAt is the y beyond which the writer breaks to a new page.
	BreakAt float64
}

// NewCanvas loads the style's fonts and prepares a writer.
// A declared but absent font file fails with *MissingResourceError.
func NewCanvas(style Style, title string) (*Canvas, error) {
	if err := style.Validate(); err != nil {
		return nil, fmt.Errorf("invalid style: %w", err)
	}

	fonts, err := loadFonts(style.Fonts)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New(style.Orientation, style.Unit, style.PageSize, "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(style.Timestamp)
	pdf.SetModificationDate(style.Timestamp)
	pdf.SetMargins(style.Margins.Left, style.Margins.Top, style.Margins.Right)
	pdf.SetAutoPageBreak(true, style.Margins.Bottom)
	if title != "" {
		pdf.SetTitle(title, true)
	}
	if style.Author != "" {
		pdf.SetAuthor(style.Author, true)
	}
	if style.Creator != "" {
		pdf.SetCreator(style.Creator, true)
	}

	family, translate := registerFonts(pdf, style, fonts)
	_, pageHeight := pdf.GetPageSize()

	return &Canvas{
		PDF:       pdf,
		Family:    family,
		Translate: translate,
		BreakAt:   pageHeight - style.Margins.Bottom,
	}, nil
}

// Finish serializes the document.
func (c *Canvas) Finish() ([]byte, error) {
	if c.PDF.Err() {
		return nil, fmt.Errorf("layout failed: %w", c.PDF.Error())
	}
	var buf bytes.Buffer
	if err := c.PDF.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// layout carries per-render writer state. It never outlives one Render call.
type layout struct {
	pdf       *fpdf.Fpdf
	family    string
	translate func(string) string
	breakAt   float64
	blocks    []Block
}

// block writes one wrapped text block. keepWith is extra height that must
// fit on the same page as the block's first line.
func (l *layout) block(kind BlockKind, section int, ts TextStyle, text string, fill *Color, keepWith float64) {
	l.pdf.SetFont(l.family, string(ts.Face), ts.Size)

	if l.pdf.GetY()+ts.LineHeight+keepWith > l.breakAt {
		l.pdf.AddPage()
	}

	b := Block{
		Kind:      kind,
		Section:   section,
		StartPage: l.pdf.PageNo(),
		Top:       l.pdf.GetY(),
	}

	border := ""
	if fill != nil {
		c := *fill
		b.Fill = &c
		l.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		border = "1"
	}

	l.pdf.MultiCell(0, ts.LineHeight, l.translate(text), border, string(ts.Align), fill != nil)

	b.EndPage = l.pdf.PageNo()
	b.Bottom = l.pdf.GetY()
	l.blocks = append(l.blocks, b)
}

type fontBytes struct {
	regular, bold, italic []byte
}

// loadFonts reads every declared font file up front so a missing one
// aborts before anything is laid out.
func loadFonts(files FontFiles) (*fontBytes, error) {
	if files.Regular == "" {
		if files.Bold != "" || files.Italic != "" {
			return nil, fmt.Errorf("bold or italic font declared without a regular font")
		}
		return nil, nil
	}

	read := func(path string) ([]byte, error) {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &MissingResourceError{Path: path, Err: err}
			}
			return nil, fmt.Errorf("failed to read font %s: %w", path, err)
		}
		return data, nil
	}

	fb := &fontBytes{}
	var err error
	if fb.regular, err = read(files.Regular); err != nil {
		return nil, err
	}
	fb.bold, fb.italic = fb.regular, fb.regular
	if files.Bold != "" {
		if fb.bold, err = read(files.Bold); err != nil {
			return nil, err
		}
	}
	if files.Italic != "" {
		if fb.italic, err = read(files.Italic); err != nil {
			return nil, err
		}
	}
	return fb, nil
}

// registerFonts installs the font family and returns its name together with
// the text translator matching its encoding.
func registerFonts(pdf *fpdf.Fpdf, style Style, fonts *fontBytes) (string, func(string) string) {
	if fonts == nil || style.usesCoreFont() {
		return "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
	}

	family := style.FontFamily
	if family == "" {
		family = "Custom"
	}
	pdf.AddUTF8FontFromBytes(family, string(Regular), fonts.regular)
	pdf.AddUTF8FontFromBytes(family, string(Bold), fonts.bold)
	pdf.AddUTF8FontFromBytes(family, string(Italic), fonts.italic)
	pdf.AddUTF8FontFromBytes(family, string(BoldItalic), fonts.bold)
	return family, dropUnencodable
}

// maxUTF8Rune is the last rune fpdf can embed from a TrueType font.
const maxUTF8Rune = 0xFFFF

// dropUnencodable removes runes above the Basic Multilingual Plane, which
// fpdf rejects for the whole document. A separator left at the start of the
// text by a dropped icon is trimmed too.
func dropUnencodable(s string) string {
	var b strings.Builder
	dropped, leading := false, true
	for _, r := range s {
		if r > maxUTF8Rune {
			dropped = true
			continue
		}
		if leading && dropped && r == ' ' {
			continue
		}
		leading = false
		b.WriteRune(r)
	}
	if !dropped {
		return s
	}
	return b.String()
}

// CanEncode reports whether every rune of text can be drawn with style's
// fonts: Latin-1 for the built-in Helvetica, the Basic Multilingual Plane
// for TrueType fonts.
func CanEncode(style Style, text string) bool {
	limit := rune(maxUTF8Rune)
	if style.usesCoreFont() {
		limit = 0xFF
	}
	for _, r := range text {
		if r > limit {
			return false
		}
	}
	return true
}

// SectionBlocks returns the blocks belonging to section i in layout order.
func (r *Rendered) SectionBlocks(i int) []Block {
	var out []Block
	for _, b := range r.Blocks {
		if b.Section == i {
			out = append(out, b)
		}
	}
	return out
}

// Extent returns the vertical space a block occupies, summed across pages.
func (r *Rendered) Extent(b Block) float64 {
	if b.StartPage == b.EndPage {
		return b.Bottom - b.Top
	}
	full := float64(b.EndPage-b.StartPage-1) * (r.BreakAt - r.ContentTop)
	return (r.BreakAt - b.Top) + full + (b.Bottom - r.ContentTop)
}

// SectionExtent returns the vertical space used by section i.
func (r *Rendered) SectionExtent(i int) float64 {
	var total float64
	for _, b := range r.SectionBlocks(i) {
		total += r.Extent(b)
	}
	return total
}

// WriteFile writes the PDF to path via a temporary file so a failed write
// never leaves a truncated document behind.
func (r *Rendered) WriteFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".docket-*.pdf")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(r.Bytes); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close PDF: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set PDF permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move PDF into place: %w", err)
	}
	return nil
}
