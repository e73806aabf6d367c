// ABOUTME: Root command for the docmatch CLI
// ABOUTME: Handles global flags, env config, and shared client/session setup

package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/client"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/logger"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/session"
)

var (
	apiURL     string
	jsonOutput bool
)

const defaultAPIURL = "http://127.0.0.1:5000"

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "docmatch",
	Short: "CLI for the credit-based document matching service",
	Long: `docmatch is a command-line client for the credit-based document matching service.

It uploads documents for text extraction and similarity scanning, manages
credit balances and top-up requests, and exposes the admin approval and
analytics views.

Environment Variables:
  DOCMATCH_API_URL  Backend API URL (default: http://127.0.0.1:5000)
  LOG_LEVEL         debug, info, warn, error (default: warn)
  LOG_FORMAT        text, json (default: text)`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A .env beside the binary mirrors how the backend configures itself;
	// absence is not an error.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env")
	}
	logger.Init()

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides DOCMATCH_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("DOCMATCH_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadSession loads the persisted session cache, tolerating a missing file
func loadSession() *session.Cache {
	cache := session.New(session.DefaultConfigDir())
	if err := cache.Load(); err != nil {
		slog.Warn("failed to load session cache", "err", err)
	}
	return cache
}

// newClient builds an API client carrying the cached session cookie
func newClient(cache *session.Cache) *client.Client {
	c := client.New(GetAPIURL())
	if cache.Cookie != "" {
		c.SetSessionCookie(cache.Cookie)
	}
	return c
}
