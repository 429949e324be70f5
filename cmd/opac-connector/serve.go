// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/opac-connector/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the connector over HTTP",
	Long: `Serve exposes listing, search, record, and configuration endpoints as
JSON, plus Prometheus metrics on /metrics. It stops gracefully on SIGINT
or SIGTERM.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	conn, err := newConnector(cfg, reg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.New(conn, reg, logger).Run(ctx, cfg.Serve.Addr, cfg.Serve.ShutdownTimeout)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (serve.addr)")
	_ = viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
