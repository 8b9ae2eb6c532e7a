package qr

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/jackzampolin/docket/internal/composer"
	"github.com/jackzampolin/docket/internal/predefined"
)

const (
	sheetColumns = 3
	cellPadding  = 5.0
	rowGap       = 4.0
)

// Sheet lays out one QR code per entry in a grid, each captioned with its
// name and linked to its URL. Entries are kept in list order.
func Sheet(title string, entries predefined.List, opts Options, style composer.Style) ([]byte, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no entries to print")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	images := make([][]byte, len(entries))
	for i, e := range entries {
		png, err := PNG(e.URL, opts)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Name, err)
		}
		images[i] = png
	}

	c, err := composer.NewCanvas(style, title)
	if err != nil {
		return nil, err
	}
	pdf := c.PDF
	pdf.AddPage()

	if title != "" {
		pdf.SetFont(c.Family, string(style.Title.Face), style.Title.Size)
		pdf.MultiCell(0, style.Title.LineHeight, c.Translate(title), "", string(style.Title.Align), false)
		pdf.Ln(style.TitleGap)
	}

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	cellWidth := (pageWidth - left - right) / sheetColumns
	side := cellWidth - 2*cellPadding
	caption := style.Body.LineHeight
	rowHeight := side + caption + rowGap

	imgOpts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.SetFont(c.Family, string(composer.Regular), style.Body.Size)

	y := pdf.GetY()
	for i, e := range entries {
		col := i % sheetColumns
		if col == 0 && i > 0 {
			y += rowHeight
		}
		if col == 0 && y+side+caption > c.BreakAt {
			pdf.AddPage()
			pdf.SetFont(c.Family, string(composer.Regular), style.Body.Size)
			y = pdf.GetY()
		}

		name := fmt.Sprintf("qr-%d", i)
		pdf.RegisterImageOptionsReader(name, imgOpts, bytes.NewReader(images[i]))

		x := left + float64(col)*cellWidth
		pdf.ImageOptions(name, x+cellPadding, y, side, side, false, imgOpts, 0, e.URL)

		pdf.SetXY(x, y+side)
		pdf.CellFormat(cellWidth, caption, c.Translate(e.Name), "", 0, "C", false, 0, e.URL)
	}

	return c.Finish()
}
