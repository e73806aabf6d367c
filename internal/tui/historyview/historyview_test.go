// ABOUTME: Tests for the scan history screen
// ABOUTME: Verifies export gating and empty-state rendering

package historyview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/client"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/report"
)

func keyS() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}
}

func TestExport_DisabledWhenEmpty(t *testing.T) {
	h := New(nil, 20)
	if h.CanExport() {
		t.Error("empty history should not be exportable")
	}

	cmd, handled := h.Update(keyS())
	if !handled {
		t.Error("export key should still be consumed")
	}
	if cmd != nil {
		t.Error("export key on empty history should not emit ExportMsg")
	}
}

func TestExport_EnabledWithHistory(t *testing.T) {
	records := []client.ScanRecord{
		{Result: client.MatchResult{Matches: []client.Match{{DocumentName: "ref.pdf"}}}},
	}
	h := New(records, 20)
	if !h.CanExport() {
		t.Error("history should be exportable")
	}

	cmd, _ := h.Update(keyS())
	if cmd == nil {
		t.Fatal("expected export command")
	}
	if _, ok := cmd().(ExportMsg); !ok {
		t.Errorf("expected ExportMsg, got %T", cmd())
	}
}

func TestView_EmptyPlaceholder(t *testing.T) {
	h := New(nil, 20)
	if !strings.Contains(h.View(), report.NoHistoryRow) {
		t.Errorf("expected empty placeholder in view:\n%s", h.View())
	}
}

func TestView_ShowsNote(t *testing.T) {
	h := New(nil, 20)
	h.SetNote("Report written to alice_scan_history.txt")
	if !strings.Contains(h.View(), "alice_scan_history.txt") {
		t.Error("expected note rendered")
	}
}

func TestEsc_GoesBack(t *testing.T) {
	h := New(nil, 20)
	cmd, handled := h.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !handled || cmd == nil {
		t.Fatal("expected esc handled")
	}
	if _, ok := cmd().(BackMsg); !ok {
		t.Errorf("expected BackMsg, got %T", cmd())
	}
}
