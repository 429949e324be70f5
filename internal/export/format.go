// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes assembled listings for operators: a terminal table,
// JSON, CSL-YAML for reference managers, and SQLite snapshots.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/opac-connector/pkg/types"
)

// Format names accepted by Write.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSL   = "csl"
)

// Formats lists the output formats in display order.
var Formats = []string{FormatTable, FormatJSON, FormatCSL}

// Write renders res to w in the named format.
func Write(format string, res types.ListingResult, w io.Writer) error {
	switch format {
	case FormatTable, "":
		WriteTable(res, w)
		return nil
	case FormatJSON:
		return WriteJSON(res, w)
	case FormatCSL:
		return WriteCSL(res.Items, w)
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// WriteTable writes a listing as a fixed-width table.
func WriteTable(res types.ListingResult, w io.Writer) {
	if len(res.Items) == 0 {
		fmt.Fprintln(w, "No records found.")
		writeOmitted(res, w)
		return
	}

	fmt.Fprintf(w, "%-8s  %-50s  %-24s  %-10s  %s\n",
		"Record", "Title", "Author", "Date", "Status")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, r := range res.Items {
		fmt.Fprintf(w, "%-8s  %-50s  %-24s  %-10s  %s\n",
			r.RecordID, truncate(r.Title, 50), truncate(r.Author, 24),
			truncate(r.DateCreated, 10), statusLabel(r.LendingStatus))
	}

	fmt.Fprintf(w, "\n%d records", len(res.Items))
	if res.TotalResults > 0 {
		fmt.Fprintf(w, " of %d (page %d)", res.TotalResults, res.Page)
	}
	fmt.Fprintln(w)
	writeOmitted(res, w)
}

func writeOmitted(res types.ListingResult, w io.Writer) {
	if res.Omitted == 0 {
		return
	}
	fmt.Fprintf(w, "%d omitted:\n", res.Omitted)
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "  %s\n", warn)
	}
}

// WriteJSON writes a listing as indented JSON.
func WriteJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func statusLabel(s types.LendingStatus) string {
	switch s.Kind {
	case types.StatusDueOn:
		return "due " + s.DueDate
	case types.StatusUnavailable:
		return string(s.Reason)
	default:
		return "available"
	}
}

// truncate shortens s to max runes, ending in "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
