package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/docket/internal/api"
	"github.com/jackzampolin/docket/internal/config"
	"github.com/jackzampolin/docket/internal/home"
	"github.com/jackzampolin/docket/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "docket",
	Short: "Compose section lists into styled PDF documents",
	Long: `Docket turns an ordered list of titled sections into a paginated PDF.

It includes:
  - A form page and HTTP API for building section lists per session
  - A built-in roadmap document
  - QR code images and printable QR sheets for predefined links
  - Local rendering of YAML or JSON document files`,
	Version:      version.GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.docket/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "docket home directory (default: ~/.docket)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn, error",
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine
		_ = godotenv.Load()
		api.SetOutputFormat(outputFormat)
		return nil
	}

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the text logger used by every command.
func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(logLevel))); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", logLevel)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// loadEnv resolves the home directory and loads configuration.
func loadEnv() (*home.Dir, *config.Manager, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, err
	}
	mgr, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return h, mgr, nil
}
