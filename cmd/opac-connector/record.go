// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/opac-connector/internal/export"
	"github.com/pdiddy/opac-connector/pkg/types"
)

var recordCmd = &cobra.Command{
	Use:   "record <biblionumber>",
	Short: "Assemble and print one catalog record",
	Long: `Record fetches one biblionumber as MARCXML and prints the assembled
record, including its citation snippet and lending status.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecord,
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conn, err := newConnector(cfg, nil)
	if err != nil {
		return err
	}

	rec, err := conn.Record(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format == export.FormatTable {
		printRecord(rec)
		return nil
	}
	return export.Write(format, types.ListingResult{Items: []types.BibliographicRecord{rec}}, os.Stdout)
}

func printRecord(rec types.BibliographicRecord) {
	fmt.Printf("Record:   %s\n", rec.RecordID)
	fmt.Printf("Title:    %s\n", rec.Title)
	fmt.Printf("Author:   %s\n", rec.Author)
	fmt.Printf("Date:     %s\n", rec.DateCreated)
	fmt.Printf("Status:   %s\n", rec.LendingStatus)
	fmt.Printf("URL:      %s\n", rec.DetailURL)
	fmt.Printf("Citation:\n%s\n", rec.CitationHTML)
}

func init() {
	recordCmd.Flags().String("format", export.FormatTable, "output format: table, json, csl")
	rootCmd.AddCommand(recordCmd)
}
