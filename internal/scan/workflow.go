// ABOUTME: Credit-gated document scan workflow
// ABOUTME: Validates preconditions, runs upload then match, renders results, reconciles credits

package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/client"
)

// ExcerptLimit is the maximum rendered excerpt length before truncation
const ExcerptLimit = 100

// Status messages mirrored from the web frontend
const (
	MsgNoFile        = "Please select a file."
	MsgNoCredits     = "Not enough credits to scan."
	MsgUploading     = "Uploading document..."
	MsgMatching      = "Document uploaded. Matching now..."
	MsgNoMatches     = "No significant matches found."
	FallbackExcerpt  = "N/A"
	FallbackInsight  = "No additional insights available."
)

// Validation errors reported before any network call
var (
	ErrNoFile              = fmt.Errorf("no file selected")
	ErrInsufficientCredits = fmt.Errorf("not enough credits")
)

// View is the rendering capability the workflow drives. Implementations
// exist for plain writers and for the TUI.
type View interface {
	Status(msg string)
	RenderMatches(matches []client.Match)
	RenderEmpty()
}

// Workflow orchestrates the upload, match, deduct, refresh sequence for a
// single user. Calls are sequential; no request is retried or cancelled
// beyond the passed context.
type Workflow struct {
	api      *client.Client
	view     View
	username string

	// afterScan runs after a successful match so the displayed balance can
	// be reconciled with the server. May be nil.
	afterScan func(ctx context.Context)
}

// NewWorkflow creates a Workflow for username rendering into view
func NewWorkflow(api *client.Client, view View, username string, afterScan func(ctx context.Context)) *Workflow {
	return &Workflow{api: api, view: view, username: username, afterScan: afterScan}
}

// PerformScan runs the credit-gated scan for the file at path.
//
// Preconditions are checked against the locally cached balance before any
// network call. The server still enforces its own balance check; a server
// rejection surfaces as an upload or match failure and the cache is
// reconciled afterwards regardless.
func (w *Workflow) PerformScan(ctx context.Context, path string, cachedBalance int) error {
	if path == "" {
		w.view.Status(MsgNoFile)
		return ErrNoFile
	}
	if cachedBalance <= 0 {
		w.view.Status(MsgNoCredits)
		return ErrInsufficientCredits
	}

	file, err := os.Open(path)
	if err != nil {
		w.view.Status(fmt.Sprintf("Error: cannot open %s: %v", path, err))
		return err
	}
	defer file.Close()

	w.view.Status(MsgUploading)
	text, err := w.api.Upload(ctx, filepath.Base(path), file)
	if err != nil {
		w.view.Status("Error: " + err.Error())
		return err
	}

	w.view.Status(MsgMatching)
	matches, err := w.api.Match(ctx, text)
	if err != nil {
		w.view.Status("Error: " + err.Error())
		return err
	}

	if len(matches) == 0 {
		w.view.RenderEmpty()
	} else {
		w.view.RenderMatches(matches)
	}

	// One credit per scan, match count notwithstanding. A failed deduction
	// is logged and warned about but never rolls back rendered results.
	if err := w.api.Deduct(ctx, w.username); err != nil {
		slog.Warn("credit deduction failed", "user", w.username, "err", err)
		w.view.Status("Warning: credit deduction could not be confirmed.")
	}

	if w.afterScan != nil {
		w.afterScan(ctx)
	}
	return nil
}

// TruncateExcerpt shortens an excerpt to ExcerptLimit characters, appending
// an ellipsis marker when truncated
func TruncateExcerpt(excerpt string) string {
	runes := []rune(excerpt)
	if len(runes) <= ExcerptLimit {
		return excerpt
	}
	return string(runes[:ExcerptLimit]) + "..."
}

// DisplayExcerpt applies truncation and the documented fallback for a
// missing excerpt
func DisplayExcerpt(m client.Match) string {
	if m.DocumentExcerpt == "" {
		return FallbackExcerpt
	}
	return TruncateExcerpt(m.DocumentExcerpt)
}

// DisplayInsight applies the documented fallback for a missing insight
func DisplayInsight(m client.Match) string {
	if m.Insight == "" {
		return FallbackInsight
	}
	return m.Insight
}
