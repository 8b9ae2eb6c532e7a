package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/docket/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running Docket server via HTTP.

These commands require a running server (docket serve).
Use --server to specify a custom server URL.

Examples:
  docket api health                                  # Check server health
  docket api sessions create                         # Start an editing session
  docket api sections add <session> "Phase 1" --body "Foundation"
  docket api sessions pdf <session> -f plan.pdf      # Download the PDF
  docket api predefined set NIHSS https://nihss.example.app`,
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Editing session commands",
}

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Section list commands",
}

var predefinedCmd = &cobra.Command{
	Use:   "predefined",
	Short: "Predefined link commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
// Without --server it points at the configured listen address.
func getServerURL() string {
	if apiCmd.PersistentFlags().Changed("server") {
		return serverURL
	}
	if _, mgr, err := loadEnv(); err == nil {
		return "http://" + mgr.Get().Addr()
	}
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL (default: from server.host and server.port)",
	)

	// Stateless endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.RoadmapPDFEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.QREndpoint{}).Command(getServerURL))

	for _, ep := range endpoints.SessionCommands() {
		sessionsCmd.AddCommand(ep.Command(getServerURL))
	}
	for _, ep := range endpoints.SectionCommands() {
		sectionsCmd.AddCommand(ep.Command(getServerURL))
	}
	for _, ep := range endpoints.PredefinedCommands() {
		predefinedCmd.AddCommand(ep.Command(getServerURL))
	}

	apiCmd.AddCommand(sessionsCmd)
	apiCmd.AddCommand(sectionsCmd)
	apiCmd.AddCommand(predefinedCmd)
	rootCmd.AddCommand(apiCmd)
}
