package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docket/internal/api"
	"github.com/jackzampolin/docket/internal/composer"
	"github.com/jackzampolin/docket/internal/docfile"
	"github.com/jackzampolin/docket/internal/home"
	"github.com/jackzampolin/docket/internal/pdfcheck"
)

var (
	renderOut        string
	renderAllowEmpty bool
)

// RenderResult is printed after a local render.
type RenderResult struct {
	File  string `json:"file" yaml:"file"`
	Pages int    `json:"pages" yaml:"pages"`
	Size  int64  `json:"size" yaml:"size"`
}

var renderCmd = &cobra.Command{
	Use:   "render <docfile>",
	Short: "Render a YAML or JSON document file to PDF",
	Long: `Render a document file without a running server.

The file lists a title, an optional subtitle and the sections in order:

  title: My Document
  subtitle: Q3 plan
  sections:
    - title: Phase 1
      body: Foundation work
      icon: "★"
      color: "#4CAF50"

Output goes to the exports directory of the docket home unless -f is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, mgr, err := loadEnv()
		if err != nil {
			return err
		}

		f, err := docfile.Load(args[0])
		if err != nil {
			return err
		}
		doc, err := f.Document()
		if err != nil {
			return err
		}
		if !renderAllowEmpty {
			if err := composer.CheckNotEmpty(doc); err != nil {
				return fmt.Errorf("%s: %w (use --allow-empty to render anyway)", args[0], err)
			}
		}

		out := renderOut
		if out == "" {
			if err := h.EnsureExists(); err != nil {
				return err
			}
			base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			out = h.ExportPath(base + ".pdf")
		}
		return renderTo(mgr.Get().Style, h, doc, out)
	},
}

// renderTo renders doc with the configured style and writes a validated
// PDF to out.
func renderTo(style func(string) (composer.Style, error), h *home.Dir, doc composer.Document, out string) error {
	s, err := style(h.FontsDir())
	if err != nil {
		return err
	}
	rendered, err := composer.Render(doc, s)
	if err != nil {
		return err
	}
	info, err := pdfcheck.Inspect(rendered.Bytes)
	if err != nil {
		return fmt.Errorf("generated PDF failed validation: %w", err)
	}
	if err := rendered.WriteFile(out); err != nil {
		return err
	}
	return api.Output(RenderResult{File: out, Pages: info.Pages, Size: info.Size})
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "file", "f", "", "Output PDF path (default: {home}/exports/<name>.pdf)")
	renderCmd.Flags().BoolVar(&renderAllowEmpty, "allow-empty", false, "Render a document with no sections")

	rootCmd.AddCommand(renderCmd)
}
