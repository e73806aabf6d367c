// ABOUTME: History command for the docmatch CLI
// ABOUTME: Renders past scans as a table and exports the plain-text report

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/client"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/report"
)

var historyOutput string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show scan history",
	Long: `Show the scan history for the logged-in user, one row per match,
in the order the server returns.

With --output, additionally write the plain-text report. An empty history
disables the export.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runHistory(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", "", "Write the report to this file (default <username>_scan_history.txt with empty value \"-\")")
}

// runHistory fetches and renders history, optionally exporting the report
func runHistory(ctx context.Context, w io.Writer) int {
	cache := loadSession()
	if !cache.LoggedIn() {
		fmt.Fprintln(w, "Error: not logged in. Run 'docmatch login' first.")
		return 2
	}

	c := newClient(cache)
	records, err := c.History(ctx, cache.Username)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]interface{}{"history": records}, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprint(w, formatHistoryHuman(records))
	}

	if historyOutput != "" {
		if !report.HasHistory(records) {
			fmt.Fprintln(w, "Nothing to export: no scan history.")
			return 1
		}
		path := historyOutput
		if path == "-" {
			path = report.DefaultFilename(cache.Username)
		}
		content := report.Build(cache.Username, records)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			fmt.Fprintf(w, "Error: failed to write report: %v\n", err)
			return 2
		}
		fmt.Fprintf(w, "Report written to %s\n", path)
	}
	return 0
}

// formatHistoryHuman renders history rows as a two-column table
func formatHistoryHuman(records []client.ScanRecord) string {
	rows := report.Rows(records)

	width := len("Document")
	for _, r := range rows {
		if len(r.Document) > width {
			width = len(r.Document)
		}
	}

	out := fmt.Sprintf("%-*s  %s\n", width, "Document", "Result")
	for _, r := range rows {
		out += fmt.Sprintf("%-*s  %s\n", width, r.Document, r.Details)
	}
	return out
}
