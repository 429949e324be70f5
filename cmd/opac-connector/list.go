// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/opac-connector/internal/export"
)

var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "Browse the catalog",
	Long: `List browses the catalog the way the host's file picker does. Category
paths are accepted but not yet supported: every path lists the whole
catalog in feed order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conn, err := newConnector(cfg, nil)
	if err != nil {
		return err
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	page, _ := cmd.Flags().GetInt("page")
	res, err := conn.GetListing(cmd.Context(), path, page)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return export.Write(format, res, os.Stdout)
}

func init() {
	addListingFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}
