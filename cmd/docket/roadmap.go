package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/docket/internal/composer"
	"github.com/jackzampolin/docket/internal/roadmap"
)

var roadmapOut string

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Render the built-in roadmap document",
	Long: `Render the fixed six-phase roadmap to ` + roadmap.Filename + `.

The rocket icon is prepended to the title only when the configured font
can encode it. Neither the built-in Helvetica nor a TrueType font (limited
to the Basic Multilingual Plane) can, so the title is normally plain.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, mgr, err := loadEnv()
		if err != nil {
			return err
		}
		cfg := mgr.Get()
		style, err := cfg.Style(h.FontsDir())
		if err != nil {
			return err
		}
		doc := roadmap.Document(composer.CanEncode(style, roadmap.Icon))
		return renderTo(cfg.Style, h, doc, roadmapOut)
	},
}

func init() {
	roadmapCmd.Flags().StringVarP(&roadmapOut, "file", "f", roadmap.Filename, "Output PDF path")

	rootCmd.AddCommand(roadmapCmd)
}
