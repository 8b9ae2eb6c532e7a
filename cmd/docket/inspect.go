package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/docket/internal/api"
	"github.com/jackzampolin/docket/internal/pdfcheck"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <pdf>",
	Short: "Validate a PDF and print its page count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := pdfcheck.InspectFile(args[0])
		if err != nil {
			return err
		}
		return api.Output(info)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
