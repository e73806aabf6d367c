// ABOUTME: Scan history flattening and plain-text report generation
// ABOUTME: Turns stored scan records into display rows and a downloadable report

package report

import (
	"fmt"
	"strings"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/client"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/scan"
)

// Placeholder rows for empty states
const (
	NoMatchesRow = "No matches found."
	NoHistoryRow = "No scan history found."
)

// Row is one rendered line of the history table
type Row struct {
	Document string
	Details  string
}

// Rows flattens scan records into table rows, server order preserved.
// A record with zero matches still yields a placeholder row; an empty
// history yields a single NoHistoryRow.
func Rows(records []client.ScanRecord) []Row {
	if len(records) == 0 {
		return []Row{{Document: NoHistoryRow}}
	}

	var rows []Row
	for _, rec := range records {
		if len(rec.Result.Matches) == 0 {
			rows = append(rows, Row{Document: NoMatchesRow})
			continue
		}
		for _, m := range rec.Result.Matches {
			name := m.DocumentName
			if name == "" {
				name = "Unknown Document"
			}
			rows = append(rows, Row{
				Document: name,
				Details:  fmt.Sprintf("Similarity: %s | Insight: %s", m.SimilarityScore, scan.DisplayInsight(m)),
			})
		}
	}
	return rows
}

// HasHistory reports whether there is anything to export
func HasHistory(records []client.ScanRecord) bool {
	return len(records) > 0
}

// Build produces the plain-text scan history report for a user
func Build(username string, records []client.ScanRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Scan History Report for %s\n\n", username)

	for _, rec := range records {
		for _, m := range rec.Result.Matches {
			fmt.Fprintf(&sb, "Document: %s\n", m.DocumentName)
			fmt.Fprintf(&sb, "Similarity: %s\n", m.SimilarityScore)
			fmt.Fprintf(&sb, "Excerpt: %s\n", scan.DisplayExcerpt(m))
			fmt.Fprintf(&sb, "Insight: %s\n\n", scan.DisplayInsight(m))
		}
	}
	return sb.String()
}

// DefaultFilename is the report name offered when none is given
func DefaultFilename(username string) string {
	return fmt.Sprintf("%s_scan_history.txt", username)
}
