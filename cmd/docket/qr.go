package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docket/internal/predefined"
	"github.com/jackzampolin/docket/internal/qr"
)

var (
	qrOut   string
	qrSize  int
	qrLevel string
	qrSheet bool
	qrTitle string
)

var qrCmd = &cobra.Command{
	Use:   "qr [content]",
	Short: "Write a QR code PNG, or a PDF sheet of predefined links",
	Long: `Write a QR code for content as a PNG image.

With --sheet, every entry of the predefined link list is printed as a
captioned QR code on a PDF sheet instead.

Examples:
  docket qr https://example.com -f example.png
  docket qr --sheet -f tools.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, mgr, err := loadEnv()
		if err != nil {
			return err
		}
		cfg := mgr.Get()
		opts, err := cfg.QROptions()
		if err != nil {
			return err
		}
		if qrSize > 0 {
			opts.Size = qrSize
		}
		if qrLevel != "" {
			if opts.Level, err = qr.ParseLevel(qrLevel); err != nil {
				return err
			}
		}

		if qrSheet {
			if len(args) > 0 {
				return fmt.Errorf("--sheet takes no content argument")
			}
			links, err := predefined.Load(cfg.PredefinedPath(h))
			if err != nil {
				return err
			}
			style, err := cfg.Style(h.FontsDir())
			if err != nil {
				return err
			}
			title := qrTitle
			if title == "" {
				title = cfg.Predefined.SheetTitle
			}
			data, err := qr.Sheet(title, links, opts, style)
			if err != nil {
				return err
			}
			out := qrOut
			if out == "" {
				out = "qr-sheet.pdf"
			}
			return writeFile(out, data)
		}

		if len(args) != 1 {
			return fmt.Errorf("expected exactly one content argument")
		}
		png, err := qr.PNG(args[0], opts)
		if err != nil {
			return err
		}
		out := qrOut
		if out == "" {
			out = "qr.png"
		}
		return writeFile(out, png)
	},
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", path, len(data))
	return nil
}

func init() {
	qrCmd.Flags().StringVarP(&qrOut, "file", "f", "", "Output path (default: qr.png, or qr-sheet.pdf with --sheet)")
	qrCmd.Flags().IntVar(&qrSize, "size", 0, "Image size in pixels (default from config)")
	qrCmd.Flags().StringVar(&qrLevel, "level", "", "Error correction: low, medium, high, highest")
	qrCmd.Flags().BoolVar(&qrSheet, "sheet", false, "Print all predefined links on a PDF sheet")
	qrCmd.Flags().StringVar(&qrTitle, "title", "", "Sheet title (default: predefined.sheet_title)")

	rootCmd.AddCommand(qrCmd)
}
