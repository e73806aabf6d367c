// ABOUTME: Scan screen for the TUI
// ABOUTME: File path input, workflow progress, and similarity match rendering

package scanview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/client"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/scan"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/tui/styles"
)

// ScanRequestedMsg is sent when the user submits a file path
type ScanRequestedMsg struct {
	Path string
}

// BackMsg is sent when the user leaves the scan screen
type BackMsg struct{}

// state tracks whether we are collecting input or showing results
type state int

const (
	stateInput state = iota
	stateRunning
	stateDone
)

// ScanView is the scan screen model
type ScanView struct {
	pathInput textinput.Model
	state     state

	statusLines []string
	matches     []client.Match
	empty       bool
}

// New creates the scan screen
func New() *ScanView {
	ti := textinput.New()
	ti.Placeholder = "/path/to/document.pdf"
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60

	return &ScanView{pathInput: ti}
}

// Running marks the workflow as in flight
func (s *ScanView) Running() {
	s.state = stateRunning
	s.statusLines = []string{scan.MsgUploading}
}

// ShowResult replays a workflow recording into the screen
func (s *ScanView) ShowResult(rec *scan.Recorder) {
	s.state = stateDone
	s.statusLines = rec.StatusLines
	s.matches = rec.Matches
	s.empty = rec.Empty
}

// Update implements the child-model update contract
func (s *ScanView) Update(msg tea.Msg) (tea.Cmd, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}

	switch key.String() {
	case "esc":
		return func() tea.Msg { return BackMsg{} }, true
	case "enter":
		if s.state == stateInput {
			path := strings.TrimSpace(s.pathInput.Value())
			return func() tea.Msg { return ScanRequestedMsg{Path: path} }, true
		}
		if s.state == stateDone {
			// Enter starts another scan
			s.state = stateInput
			s.matches = nil
			s.empty = false
			s.statusLines = nil
			s.pathInput.SetValue("")
			s.pathInput.Focus()
			return nil, true
		}
	}

	if s.state == stateInput {
		var cmd tea.Cmd
		s.pathInput, cmd = s.pathInput.Update(msg)
		return cmd, true
	}
	return nil, false
}

// View renders the scan screen
func (s *ScanView) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Scan Document"))
	sb.WriteString("\n")

	switch s.state {
	case stateInput:
		sb.WriteString("Document to scan:\n")
		sb.WriteString(s.pathInput.View())
		sb.WriteString("\n")
		sb.WriteString(styles.Help.Render("enter: scan • esc: back"))

	case stateRunning, stateDone:
		for _, line := range s.statusLines {
			style := styles.Subtitle
			if strings.HasPrefix(line, "Error:") {
				style = styles.StatusError
			} else if strings.HasPrefix(line, "Warning:") {
				style = styles.StatusWarning
			}
			sb.WriteString(style.Render(line))
			sb.WriteString("\n")
		}
		if s.empty {
			sb.WriteString("\n")
			sb.WriteString(scan.MsgNoMatches)
			sb.WriteString("\n")
		}
		for i, m := range s.matches {
			sb.WriteString("\n")
			sb.WriteString(styles.Selected.Render(fmt.Sprintf("%d. %s", i+1, m.DocumentName)))
			sb.WriteString("\n")
			sb.WriteString(fmt.Sprintf("   Similarity: %s\n", m.SimilarityScore))
			sb.WriteString(fmt.Sprintf("   Excerpt:    %s\n", scan.DisplayExcerpt(m)))
			sb.WriteString(fmt.Sprintf("   Insight:    %s\n", scan.DisplayInsight(m)))
		}
		if s.state == stateDone {
			sb.WriteString(styles.Help.Render("enter: scan another • esc: back"))
		}
	}

	return sb.String()
}
