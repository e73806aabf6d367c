// ABOUTME: Scan command for the docmatch CLI
// ABOUTME: Runs the credit-gated upload and match workflow for a document

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/credits"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Scan a document for similarity matches",
	Long: `Upload a document, match its extracted text against the reference corpus,
and render the similarity results.

Each successful scan costs one credit. The scan is refused locally when the
cached balance is zero; the server enforces its own check regardless.

Exit codes:
  0 - Scan completed (matches or none)
  1 - Precondition failed (no file, not enough credits)
  2 - Error (connectivity, upload or match failure)`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		exitCode := runScan(ctx, os.Stdout, path)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

// runScan executes the scan workflow and returns exit code
func runScan(ctx context.Context, w io.Writer, path string) int {
	cache := loadSession()
	if !cache.LoggedIn() {
		fmt.Fprintln(w, "Error: not logged in. Run 'docmatch login' first.")
		return 2
	}

	c := newClient(cache)
	refresher := credits.NewRefresher(c, cache)
	view := &scan.WriterView{W: w}

	workflow := scan.NewWorkflow(c, view, cache.Username, func(ctx context.Context) {
		balance, err := refresher.Refresh(ctx, cache.Username)
		fmt.Fprintln(w, credits.Display(balance, err))
	})

	err := workflow.PerformScan(ctx, path, cache.Credits)
	if errors.Is(err, scan.ErrNoFile) || errors.Is(err, scan.ErrInsufficientCredits) {
		return 1
	}
	if err != nil {
		return 2
	}
	return 0
}
