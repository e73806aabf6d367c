// ABOUTME: Scan history screen for the TUI
// ABOUTME: Flattens records into a scrollable two-column table

package historyview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/client"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/report"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/tui/styles"
)

// BackMsg is sent when the user leaves the history screen
type BackMsg struct{}

// ExportMsg is sent when the user asks for the report download
type ExportMsg struct{}

// HistoryView is the scan history screen model
type HistoryView struct {
	records []client.ScanRecord
	rows    []report.Row
	offset  int
	height  int
	note    string
}

// New creates the history screen over fetched records
func New(records []client.ScanRecord, height int) *HistoryView {
	if height <= 0 {
		height = 20
	}
	return &HistoryView{
		records: records,
		rows:    report.Rows(records),
		height:  height,
	}
}

// SetNote shows a one-line notice (e.g. export confirmation)
func (h *HistoryView) SetNote(note string) {
	h.note = note
}

// CanExport reports whether the report download is enabled
func (h *HistoryView) CanExport() bool {
	return report.HasHistory(h.records)
}

// Update implements the child-model update contract
func (h *HistoryView) Update(msg tea.Msg) (tea.Cmd, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}

	switch key.String() {
	case "esc":
		return func() tea.Msg { return BackMsg{} }, true
	case "up", "k":
		if h.offset > 0 {
			h.offset--
		}
		return nil, true
	case "down", "j":
		if h.offset < len(h.rows)-1 {
			h.offset++
		}
		return nil, true
	case "s":
		if h.CanExport() {
			return func() tea.Msg { return ExportMsg{} }, true
		}
		return nil, true
	}
	return nil, false
}

// View renders the history table
func (h *HistoryView) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Scan History"))
	sb.WriteString("\n")

	width := len("Document")
	for _, r := range h.rows {
		if len(r.Document) > width {
			width = len(r.Document)
		}
	}

	sb.WriteString(styles.TableHeader.Render(fmt.Sprintf("%-*s  %s", width, "Document", "Result")))
	sb.WriteString("\n")

	end := h.offset + h.height
	if end > len(h.rows) {
		end = len(h.rows)
	}
	for _, r := range h.rows[h.offset:end] {
		sb.WriteString(fmt.Sprintf("%-*s  %s\n", width, r.Document, r.Details))
	}

	if h.note != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusOK.Render(h.note))
		sb.WriteString("\n")
	}

	help := "↑/↓: scroll • esc: back"
	if h.CanExport() {
		help = "↑/↓: scroll • s: save report • esc: back"
	}
	sb.WriteString(styles.Help.Render(help))
	return sb.String()
}
