// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/opac-connector/internal/export"
	"github.com/pdiddy/opac-connector/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export [terms...]",
	Short: "Write a search listing to a file or a SQLite snapshot",
	Long: `Export runs a search and writes the listing as CSL-YAML, JSON, or a
table. With --snapshot the listing is also stored in the SQLite file named
by export.db, and its snapshot id is printed. Snapshots are for operators;
the connector never reads them back.`,
	RunE: runExport,
}

var exportShowCmd = &cobra.Command{
	Use:   "show <snapshot-id>",
	Short: "Print a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportShow,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conn, err := newConnector(cfg, nil)
	if err != nil {
		return err
	}

	terms := strings.Join(args, " ")
	page, _ := cmd.Flags().GetInt("page")
	res, err := conn.Search(cmd.Context(), terms, page)
	if err != nil {
		return err
	}

	if snapshot, _ := cmd.Flags().GetBool("snapshot"); snapshot {
		store, err := export.OpenStore(cfg.Export.DB)
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.SaveListing(cmd.Context(), terms, res)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved snapshot %d to %s (%d records)\n", id, cfg.Export.DB, len(res.Items))
	}

	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		return export.Write(format, res, os.Stdout)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := export.Write(format, res, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runExportShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snapshot id %q", args[0])
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := export.OpenStore(cfg.Export.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := store.Snapshot(cmd.Context(), id)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Snapshot %d: %q page %d, taken %s\n",
		snap.ID, snap.Query, snap.Page, snap.TakenAt.Format("2006-01-02 15:04"))

	format, _ := cmd.Flags().GetString("format")
	return export.Write(format, types.ListingResult{
		Items:        snap.Records,
		TotalResults: snap.TotalResults,
		Page:         snap.Page,
		Omitted:      snap.Omitted,
		Warnings:     snap.Warnings,
	}, os.Stdout)
}

func init() {
	exportCmd.Flags().Int("page", 0, "result page, starting at 0")
	exportCmd.Flags().String("format", export.FormatCSL, "output format: "+strings.Join(export.Formats, ", "))
	exportCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")
	exportCmd.Flags().Bool("snapshot", false, "also store the listing in the SQLite snapshot file (export.db)")
	exportCmd.PersistentFlags().String("db", "", "SQLite snapshot file (export.db)")
	_ = viper.BindPFlag("export.db", exportCmd.PersistentFlags().Lookup("db"))

	exportShowCmd.Flags().String("format", export.FormatTable, "output format: "+strings.Join(export.Formats, ", "))

	exportCmd.AddCommand(exportShowCmd)
	rootCmd.AddCommand(exportCmd)
}
