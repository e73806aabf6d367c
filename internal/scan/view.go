// ABOUTME: View implementations for the scan workflow
// ABOUTME: WriterView prints to an io.Writer; Recorder captures output for the TUI and tests

package scan

import (
	"fmt"
	"io"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/client"
)

// WriterView renders scan progress and results as plain text
type WriterView struct {
	W io.Writer
}

// Status prints a progress or error line
func (v *WriterView) Status(msg string) {
	fmt.Fprintln(v.W, msg)
}

// RenderMatches prints each match with truncated excerpt and fallbacks
func (v *WriterView) RenderMatches(matches []client.Match) {
	fmt.Fprintln(v.W, "Matched Documents:")
	for i, m := range matches {
		fmt.Fprintf(v.W, "\n%d. %s\n", i+1, m.DocumentName)
		fmt.Fprintf(v.W, "   Similarity: %s\n", m.SimilarityScore)
		fmt.Fprintf(v.W, "   Excerpt:    %s\n", DisplayExcerpt(m))
		fmt.Fprintf(v.W, "   Insight:    %s\n", DisplayInsight(m))
	}
}

// RenderEmpty prints the no-matches message; an empty result is not an error
func (v *WriterView) RenderEmpty() {
	fmt.Fprintln(v.W, MsgNoMatches)
}

// Recorder is a View that captures everything rendered. The TUI runs the
// workflow inside a command and replays the recording into its own frame.
type Recorder struct {
	StatusLines []string
	Matches     []client.Match
	Empty       bool
}

func (r *Recorder) Status(msg string) {
	r.StatusLines = append(r.StatusLines, msg)
}

func (r *Recorder) RenderMatches(matches []client.Match) {
	r.Matches = matches
}

func (r *Recorder) RenderEmpty() {
	r.Empty = true
}

// LastStatus returns the most recent status line, if any
func (r *Recorder) LastStatus() string {
	if len(r.StatusLines) == 0 {
		return ""
	}
	return r.StatusLines[len(r.StatusLines)-1]
}
