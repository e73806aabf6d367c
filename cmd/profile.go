// ABOUTME: Profile command for the docmatch CLI
// ABOUTME: Fetches the server-side profile and refreshes the cached session

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/client"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the logged-in user's profile",
	Long: `Fetch the profile for the current session and refresh the local cache.

A rejected session means it has expired; log in again.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runProfile(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

// runProfile fetches the profile and returns exit code
func runProfile(ctx context.Context, w io.Writer) int {
	cache := loadSession()
	c := newClient(cache)

	profile, err := c.Profile(ctx)
	if errors.Is(err, client.ErrSessionExpired) {
		fmt.Fprintln(w, "Session expired. Please log in again with 'docmatch login'.")
		return 2
	}
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	cache.Username = profile.Username
	cache.Role = profile.Role
	cache.Credits = profile.Credits
	if err := cache.Save(); err != nil {
		slog.Warn("failed to persist refreshed session", "err", err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(profile, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Username: %s\nRole:     %s\nCredits:  %d\n",
			profile.Username, profile.Role, profile.Credits)
	}
	return 0
}
