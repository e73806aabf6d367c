// ABOUTME: Admin screens for the TUI
// ABOUTME: Pending credit request review with approve/deny keys, plus analytics tables

package adminview

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/client"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/tui/styles"
)

// BackMsg is sent when the user leaves an admin screen
type BackMsg struct{}

// DecideMsg is sent when the admin approves or denies a request
type DecideMsg struct {
	Username string
	Approve  bool
}

// Requests is the pending credit request review screen
type Requests struct {
	requests []client.CreditRequest
	cursor   int
	note     string
}

// NewRequests creates the request review screen
func NewRequests(requests []client.CreditRequest) *Requests {
	return &Requests{requests: requests}
}

// SetRequests replaces the list after a re-fetch and shows a notice
func (r *Requests) SetRequests(requests []client.CreditRequest, note string) {
	r.requests = requests
	r.note = note
	if r.cursor >= len(requests) {
		r.cursor = 0
	}
}

// Update implements the child-model update contract
func (r *Requests) Update(msg tea.Msg) (tea.Cmd, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}

	switch key.String() {
	case "esc":
		return func() tea.Msg { return BackMsg{} }, true
	case "up", "k":
		if r.cursor > 0 {
			r.cursor--
		}
		return nil, true
	case "down", "j":
		if r.cursor < len(r.requests)-1 {
			r.cursor++
		}
		return nil, true
	case "a", "enter":
		if len(r.requests) > 0 {
			username := r.requests[r.cursor].Username
			return func() tea.Msg { return DecideMsg{Username: username, Approve: true} }, true
		}
		return nil, true
	case "d":
		if len(r.requests) > 0 {
			username := r.requests[r.cursor].Username
			return func() tea.Msg { return DecideMsg{Username: username, Approve: false} }, true
		}
		return nil, true
	}
	return nil, false
}

// View renders the request table
func (r *Requests) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Pending Credit Requests"))
	sb.WriteString("\n")

	if len(r.requests) == 0 {
		sb.WriteString("No pending credit requests\n")
	} else {
		sb.WriteString(styles.TableHeader.Render(fmt.Sprintf("%-20s %s", "User", "Requested")))
		sb.WriteString("\n")
		for i, req := range r.requests {
			line := fmt.Sprintf("%-20s %d", req.Username, req.Credits)
			if i == r.cursor {
				line = styles.Selected.Render("> " + line)
			} else {
				line = styles.Normal.Render("  " + line)
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	if r.note != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusOK.Render(r.note))
		sb.WriteString("\n")
	}

	sb.WriteString(styles.Help.Render("a: approve • d: deny • ↑/↓: move • esc: back"))
	return sb.String()
}

// RenderAnalytics renders the four aggregate usage tables
func RenderAnalytics(a *client.Analytics) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Usage Analytics"))
	sb.WriteString("\n")

	sb.WriteString(styles.TableHeader.Render("Scans per user"))
	sb.WriteString("\n")
	sb.WriteString(renderCountMap(a.ScansPerUser))

	sb.WriteString("\n")
	sb.WriteString(styles.TableHeader.Render("Most scanned documents"))
	sb.WriteString("\n")
	sb.WriteString(renderCountMap(a.MostScannedDocuments))

	sb.WriteString("\n")
	sb.WriteString(styles.TableHeader.Render("Top scanned topics"))
	sb.WriteString("\n")
	if len(a.MostScannedTopics) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, topic := range a.MostScannedTopics {
		sb.WriteString(topic)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(styles.TableHeader.Render("Credit usage"))
	sb.WriteString("\n")
	sb.WriteString(renderCountMap(a.CreditUsage))

	sb.WriteString(styles.Help.Render("esc: back"))
	return sb.String()
}

// renderCountMap renders a name->count map with stable ordering
func renderCountMap(m map[string]int) string {
	if len(m) == 0 {
		return "(none)\n"
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := ""
	for _, k := range keys {
		out += fmt.Sprintf("%-20s %d\n", k, m[k])
	}
	return out
}
