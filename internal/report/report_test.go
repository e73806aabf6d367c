// ABOUTME: Tests for scan history rows and report generation
// ABOUTME: Covers flattening, placeholder rows, and the exported report text

package report

import (
	"strings"
	"testing"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/client"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/scan"
)

func TestRows_EmptyHistory(t *testing.T) {
	rows := Rows(nil)
	if len(rows) != 1 {
		t.Fatalf("expected single placeholder row, got %d", len(rows))
	}
	if rows[0].Document != NoHistoryRow {
		t.Errorf("expected %q, got %q", NoHistoryRow, rows[0].Document)
	}
}

func TestRows_Flattening(t *testing.T) {
	records := []client.ScanRecord{
		{Result: client.MatchResult{Matches: []client.Match{
			{DocumentName: "a.pdf", SimilarityScore: "90.00%", Insight: "high"},
			{DocumentName: "b.pdf", SimilarityScore: "40.00%"},
		}}},
		{Result: client.MatchResult{Matches: []client.Match{}}},
		{Result: client.MatchResult{Matches: []client.Match{
			{DocumentName: "", SimilarityScore: "10.00%"},
		}}},
	}

	rows := Rows(records)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].Document != "a.pdf" || rows[1].Document != "b.pdf" {
		t.Errorf("server order not preserved: %+v", rows[:2])
	}
	if rows[2].Document != NoMatchesRow {
		t.Errorf("expected placeholder for empty record, got %q", rows[2].Document)
	}
	if rows[3].Document != "Unknown Document" {
		t.Errorf("expected name placeholder, got %q", rows[3].Document)
	}
	if !strings.Contains(rows[1].Details, scan.FallbackInsight) {
		t.Errorf("expected insight fallback in details: %q", rows[1].Details)
	}
}

func TestRows_Idempotent(t *testing.T) {
	records := []client.ScanRecord{
		{Result: client.MatchResult{Matches: []client.Match{{DocumentName: "a.pdf"}}}},
	}
	first := Rows(records)
	second := Rows(records)
	if len(first) != len(second) || first[0] != second[0] {
		t.Error("repeated flattening should give identical rows")
	}
}

func TestHasHistory(t *testing.T) {
	if HasHistory(nil) {
		t.Error("nil records have no history")
	}
	if !HasHistory([]client.ScanRecord{{}}) {
		t.Error("a record counts as history even with zero matches")
	}
}

func TestBuild(t *testing.T) {
	longExcerpt := strings.Repeat("x", scan.ExcerptLimit+50)
	records := []client.ScanRecord{
		{Result: client.MatchResult{Matches: []client.Match{
			{DocumentName: "a.pdf", SimilarityScore: "90.00%", DocumentExcerpt: longExcerpt},
		}}},
	}

	out := Build("alice", records)
	if !strings.Contains(out, "Scan History Report for alice") {
		t.Errorf("expected report header: %q", out)
	}
	if !strings.Contains(out, "Document: a.pdf") {
		t.Errorf("expected document line: %q", out)
	}
	if strings.Contains(out, longExcerpt) {
		t.Error("expected excerpt truncated in report")
	}
	if !strings.Contains(out, "...") {
		t.Error("expected truncation marker in report")
	}
}

func TestDefaultFilename(t *testing.T) {
	if got := DefaultFilename("alice"); got != "alice_scan_history.txt" {
		t.Errorf("unexpected filename %q", got)
	}
}
