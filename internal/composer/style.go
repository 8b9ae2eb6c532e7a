package composer

import (
	"fmt"
	"time"
)

// Face is an fpdf font style string.
type Face string

const (
	Regular    Face = ""
	Bold       Face = "B"
	Italic     Face = "I"
	BoldItalic Face = "BI"
)

// Align is a horizontal text alignment.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// TextStyle describes how one kind of block is set.
type TextStyle struct {
	Face       Face
	Size       float64 // points
	LineHeight float64 // document units
	Align      Align
}

// Margins are page margins in document units.
// Bottom is also the automatic page-break threshold.
type Margins struct {
	Left, Top, Right, Bottom float64
}

// FontFiles lists TrueType files for a custom family.
// An empty Regular selects the built-in Helvetica family.
// Bold and Italic fall back to Regular when empty.
type FontFiles struct {
	Regular string
	Bold    string
	Italic  string
}

// Style holds every layout decision Render makes.
type Style struct {
	PageSize    string // A3, A4, A5, Letter, Legal
	Orientation string // P or L
	Unit        string // mm, pt, cm, in
	Margins     Margins

	FontFamily string
	Fonts      FontFiles

	Title    TextStyle
	Subtitle TextStyle
	Heading  TextStyle
	Body     TextStyle

	TitleGap    float64
	SubtitleGap float64
	SectionGap  float64

	// Timestamp is written as the creation and modification date.
	// A fixed value keeps output byte-identical across runs.
	Timestamp time.Time
	Author    string
	Creator   string
}

// epoch is the default document timestamp.
var epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// DefaultStyle returns the A4 portrait layout used by the roadmap document.
func DefaultStyle() Style {
	return Style{
		PageSize:    "A4",
		Orientation: "P",
		Unit:        "mm",
		Margins:     Margins{Left: 10, Top: 10, Right: 10, Bottom: 15},
		FontFamily:  "DejaVu",
		Title:       TextStyle{Face: Bold, Size: 18, LineHeight: 10, Align: AlignCenter},
		Subtitle:    TextStyle{Face: Italic, Size: 12, LineHeight: 8, Align: AlignCenter},
		Heading:     TextStyle{Face: Bold, Size: 14, LineHeight: 8, Align: AlignLeft},
		Body:        TextStyle{Face: Regular, Size: 12, LineHeight: 6, Align: AlignLeft},
		TitleGap:    5,
		SubtitleGap: 10,
		SectionGap:  5,
		Timestamp:   epoch,
		Creator:     "docket",
	}
}

var (
	pageSizes    = map[string]bool{"A3": true, "A4": true, "A5": true, "Letter": true, "Legal": true}
	orientations = map[string]bool{"P": true, "L": true}
	units        = map[string]bool{"mm": true, "pt": true, "cm": true, "in": true}
)

// Validate checks the geometry fields. Font files are checked at render time.
func (s Style) Validate() error {
	if !pageSizes[s.PageSize] {
		return fmt.Errorf("unsupported page size %q", s.PageSize)
	}
	if !orientations[s.Orientation] {
		return fmt.Errorf("unsupported orientation %q", s.Orientation)
	}
	if !units[s.Unit] {
		return fmt.Errorf("unsupported unit %q", s.Unit)
	}
	for name, ts := range map[string]TextStyle{
		"title": s.Title, "subtitle": s.Subtitle, "heading": s.Heading, "body": s.Body,
	} {
		if ts.Size <= 0 || ts.LineHeight <= 0 {
			return fmt.Errorf("%s style needs positive size and line height", name)
		}
	}
	if s.Margins.Bottom < 0 || s.Margins.Top < 0 || s.Margins.Left < 0 || s.Margins.Right < 0 {
		return fmt.Errorf("margins must not be negative")
	}
	return nil
}

// usesCoreFont reports whether rendering falls back to Helvetica.
func (s Style) usesCoreFont() bool {
	return s.Fonts.Regular == ""
}
