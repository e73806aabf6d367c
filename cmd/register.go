// ABOUTME: Register command for the docmatch CLI
// ABOUTME: Creates a new account, prompting for credentials when flags are absent

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	registerUsername string
	registerPassword string
	registerRole     string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	Long: `Register a new account with the document matching service.

Missing credentials are prompted for interactively. The server assigns the
starting credit balance based on the chosen role.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRegister(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "Username for the new account")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "Password for the new account")
	registerCmd.Flags().StringVar(&registerRole, "role", "user", "Account role: user or admin")
}

// runRegister executes registration and returns exit code
func runRegister(ctx context.Context, w io.Writer) int {
	if registerUsername == "" || registerPassword == "" {
		if err := promptCredentials(&registerUsername, &registerPassword, &registerRole); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}
	if registerRole != "user" && registerRole != "admin" {
		fmt.Fprintln(w, "Error: --role must be user or admin")
		return 2
	}

	cache := loadSession()
	c := newClient(cache)

	if err := c.Register(ctx, registerUsername, registerPassword, registerRole); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintln(w, "Registration successful. You can now log in.")
	return 0
}

// promptCredentials collects username, password, and role via a form
func promptCredentials(username, password, role *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password),
			huh.NewSelect[string]().
				Title("Role").
				Options(
					huh.NewOption("User", "user"),
					huh.NewOption("Admin", "admin"),
				).
				Value(role),
		),
	).WithTheme(huh.ThemeBase())

	return form.Run()
}
