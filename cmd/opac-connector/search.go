// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/opac-connector/internal/export"
)

var searchCmd = &cobra.Command{
	Use:   "search [terms...]",
	Short: "Search the catalog and print the assembled records",
	Long: `Search queries the catalog's RSS search feed for the given terms, fetches
each hit as MARCXML, and prints the assembled records. Terms are joined with
spaces and sent to the catalog as one query, so Koha index prefixes such as
"au:" or "ti:" work as they do in the OPAC.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conn, err := newConnector(cfg, nil)
	if err != nil {
		return err
	}

	page, _ := cmd.Flags().GetInt("page")
	res, err := conn.Search(cmd.Context(), strings.Join(args, " "), page)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return export.Write(format, res, os.Stdout)
}

// addListingFlags registers the flags shared by search and list.
func addListingFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 0, "result page, starting at 0")
	cmd.Flags().String("format", export.FormatTable, "output format: "+strings.Join(export.Formats, ", "))
}

func init() {
	addListingFlags(searchCmd)
	rootCmd.AddCommand(searchCmd)
}
