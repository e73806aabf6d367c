// ABOUTME: Admin commands for the docmatch CLI
// ABOUTME: Pending credit request review, approve/deny decisions, and usage analytics

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/client"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin operations",
	Long:  `Review pending credit requests, decide on them, and view usage analytics.`,
}

var adminRequestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List pending credit requests",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAdminRequests(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var adminApproveCmd = &cobra.Command{
	Use:   "approve <username>",
	Short: "Approve a pending credit request",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAdminDecide(ctx, os.Stdout, args[0], true)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var adminDenyCmd = &cobra.Command{
	Use:   "deny <username>",
	Short: "Deny a pending credit request",
	Long: `Deny a pending credit request.

The backend models denial as approve=false on the approval endpoint; the CLI
keeps approve and deny as distinct commands so the action is explicit.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAdminDecide(ctx, os.Stdout, args[0], false)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var adminAnalyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show aggregate usage analytics",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAdminAnalytics(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminRequestsCmd)
	adminCmd.AddCommand(adminApproveCmd)
	adminCmd.AddCommand(adminDenyCmd)
	adminCmd.AddCommand(adminAnalyticsCmd)
}

// requireAdmin loads the session and refuses non-admin roles
func requireAdmin(w io.Writer) (*client.Client, string, bool) {
	cache := loadSession()
	if !cache.LoggedIn() {
		fmt.Fprintln(w, "Error: not logged in. Run 'docmatch login' first.")
		return nil, "", false
	}
	if !cache.IsAdmin() {
		fmt.Fprintln(w, "Error: admin role required.")
		return nil, "", false
	}
	return newClient(cache), cache.Username, true
}

// runAdminRequests lists pending credit requests, returning exit code
func runAdminRequests(ctx context.Context, w io.Writer) int {
	c, _, ok := requireAdmin(w)
	if !ok {
		return 2
	}

	requests, err := c.PendingRequests(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]interface{}{"requests": requests}, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprint(w, formatRequestsHuman(requests))
	return 0
}

// formatRequestsHuman renders pending requests as a table
func formatRequestsHuman(requests []client.CreditRequest) string {
	if len(requests) == 0 {
		return "No pending credit requests\n"
	}

	out := fmt.Sprintf("%-20s %s\n", "User", "Requested")
	for _, r := range requests {
		out += fmt.Sprintf("%-20s %d\n", r.Username, r.Credits)
	}
	return out
}

// runAdminDecide approves or denies a request, returning exit code
func runAdminDecide(ctx context.Context, w io.Writer, username string, approve bool) int {
	c, admin, ok := requireAdmin(w)
	if !ok {
		return 2
	}

	message, err := c.Decide(ctx, admin, username, approve)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	fmt.Fprintln(w, message)

	// Re-list so the caller sees the post-decision state
	return runAdminRequests(ctx, w)
}

// runAdminAnalytics renders aggregate usage, returning exit code
func runAdminAnalytics(ctx context.Context, w io.Writer) int {
	c, _, ok := requireAdmin(w)
	if !ok {
		return 2
	}

	analytics, err := c.Analytics(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(analytics, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprint(w, formatAnalyticsHuman(analytics))
	return 0
}

// formatAnalyticsHuman renders the four analytics sections
func formatAnalyticsHuman(a *client.Analytics) string {
	out := "Scans per user:\n"
	out += formatCountMap(a.ScansPerUser)

	out += "\nMost scanned documents:\n"
	out += formatCountMap(a.MostScannedDocuments)

	out += "\nTop scanned topics:\n"
	if len(a.MostScannedTopics) == 0 {
		out += "  (none)\n"
	}
	for _, topic := range a.MostScannedTopics {
		out += fmt.Sprintf("  %s\n", topic)
	}

	out += "\nCredit usage:\n"
	out += formatCountMap(a.CreditUsage)
	return out
}

// formatCountMap renders a name->count map with stable ordering
func formatCountMap(m map[string]int) string {
	if len(m) == 0 {
		return "  (none)\n"
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := ""
	for _, k := range keys {
		out += fmt.Sprintf("  %-20s %d\n", k, m[k])
	}
	return out
}
