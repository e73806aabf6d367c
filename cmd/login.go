// ABOUTME: Login and logout commands for the docmatch CLI
// ABOUTME: Login persists the session cache; logout clears it wholesale

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session",
	Long: `Log in to the document matching service.

On success the username, role, credit balance, and session cookie are cached
locally. The cached balance is a hint only; the server is authoritative.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the cached session",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogout(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password")
}

// runLogin executes login and returns exit code
func runLogin(ctx context.Context, w io.Writer) int {
	if loginUsername == "" || loginPassword == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Username").Value(&loginUsername),
				huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&loginPassword),
			),
		).WithTheme(huh.ThemeBase())
		if err := form.Run(); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	cache := loadSession()
	c := newClient(cache)

	result, err := c.Login(ctx, loginUsername, loginPassword)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	cache.Username = result.Username
	cache.Role = result.Role
	cache.Credits = result.Credits
	cache.Cookie = result.Cookie
	if err := cache.Save(); err != nil {
		fmt.Fprintf(w, "Error: failed to store session: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]interface{}{
			"username": result.Username,
			"role":     result.Role,
			"credits":  result.Credits,
		}, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Login successful. Logged in as %s (%s), %d credits.\n",
			result.Username, result.Role, result.Credits)
	}
	return 0
}

// runLogout executes logout and returns exit code
func runLogout(ctx context.Context, w io.Writer) int {
	cache := loadSession()
	c := newClient(cache)

	// Best effort: the local cache is cleared even if the server call fails
	if err := c.Logout(ctx); err != nil {
		slog.Warn("logout request failed", "err", err)
	}

	if err := cache.Clear(); err != nil {
		fmt.Fprintf(w, "Error: failed to clear session: %v\n", err)
		return 2
	}

	fmt.Fprintln(w, "Logged out.")
	return 0
}
