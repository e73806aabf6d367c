// ABOUTME: Dashboard command for the docmatch CLI
// ABOUTME: Launches the interactive TUI

package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/logger"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/session"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive dashboard",
	Long: `Open the interactive terminal dashboard.

Users can scan documents, browse history, and request credits; admins can
review credit requests and usage analytics. Diagnostics are written to
debug.log in the config directory while the dashboard owns the terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDashboard(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

// runDashboard starts the TUI program
func runDashboard() error {
	closeLog := logger.InitFile(session.DefaultConfigDir())
	defer closeLog()

	cache := loadSession()
	app := tui.New(newClient(cache), cache)

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
