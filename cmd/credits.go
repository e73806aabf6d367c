// ABOUTME: Credits commands for the docmatch CLI
// ABOUTME: Balance reconciliation and credit top-up requests

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/credits"
)

var creditsCmd = &cobra.Command{
	Use:   "credits",
	Short: "Manage the credit balance",
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the current credit balance",
	Long: `Fetch the authoritative balance from the server and update the local cache.

The cached value is only used as a pre-flight hint before scans; this command
is the reconciliation point.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runBalance(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var requestCmd = &cobra.Command{
	Use:   "request <amount>",
	Short: "Request additional credits",
	Long: `Submit a credit top-up request for admin approval.

Only one request may be pending per user; the server rejects duplicates.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRequest(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(creditsCmd)
	creditsCmd.AddCommand(balanceCmd)
	creditsCmd.AddCommand(requestCmd)
}

// runBalance refreshes and prints the balance, returning exit code
func runBalance(ctx context.Context, w io.Writer) int {
	cache := loadSession()
	c := newClient(cache)
	refresher := credits.NewRefresher(c, cache)

	balance, err := refresher.Refresh(ctx, cache.Username)
	if err == credits.ErrNoUser {
		fmt.Fprintln(w, credits.SentinelNA)
		return 2
	}
	if err != nil {
		fmt.Fprintln(w, credits.SentinelError)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]int{"credits": balance}, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, credits.Display(balance, nil))
	}
	return 0
}

// runRequest submits a credit request, returning exit code
func runRequest(ctx context.Context, w io.Writer, amountArg string) int {
	amount, err := strconv.Atoi(amountArg)
	if err != nil || amount <= 0 {
		fmt.Fprintln(w, "Enter a valid credit amount.")
		return 1
	}

	cache := loadSession()
	if !cache.LoggedIn() {
		fmt.Fprintln(w, "Error: not logged in. Run 'docmatch login' first.")
		return 2
	}

	c := newClient(cache)
	message, err := c.RequestCredits(ctx, cache.Username, amount)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintln(w, message)
	return 0
}
