// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the opac-connector CLI.
// See DESIGN.md § Layout.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/opac-connector/internal/connector"
	"github.com/pdiddy/opac-connector/internal/fetch"
	"github.com/pdiddy/opac-connector/internal/metrics"
	"github.com/pdiddy/opac-connector/internal/secrets"
	"github.com/pdiddy/opac-connector/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds catalog credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is configured from --log-level before any command runs.
var logger = slog.Default()

// rootCmd is the base command for the opac-connector CLI.
var rootCmd = &cobra.Command{
	Use:   "opac-connector",
	Short: "Browse and search a Koha library catalog as pickable records",
	Long: `opac-connector presents a Koha OPAC as a repository of bibliographic
records. It searches the catalog's RSS feed, fetches each hit as MARCXML,
and assembles records with a citation snippet and lending status.

Use search and list from the terminal, record to inspect one biblionumber,
export to write CSL-YAML, JSON, or SQLite snapshots, and serve to expose
the connector over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		l, err := newLogger(level)
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./opac-connector.yaml or ~/.config/opac-connector/config.yaml)")
	rootCmd.PersistentFlags().String("url", "", "Koha OPAC base URL (catalog.url)")
	rootCmd.PersistentFlags().Int("page-limit", 0, "records assembled per listing (catalog.page_limit)")
	rootCmd.PersistentFlags().String("failure-policy", "", `"fail" or "skip" when a record cannot be assembled (connector.failure_policy)`)
	rootCmd.PersistentFlags().Int("concurrency", 0, "records fetched in parallel (connector.concurrency)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("catalog.url", rootCmd.PersistentFlags().Lookup("url"))
	_ = viper.BindPFlag("catalog.page_limit", rootCmd.PersistentFlags().Lookup("page-limit"))
	_ = viper.BindPFlag("connector.failure_policy", rootCmd.PersistentFlags().Lookup("failure-policy"))
	_ = viper.BindPFlag("connector.concurrency", rootCmd.PersistentFlags().Lookup("concurrency"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("catalog.url", "")
	viper.SetDefault("catalog.page_limit", connector.DefaultPageLimit)
	viper.SetDefault("http.timeout", 30*time.Second)
	viper.SetDefault("http.user_agent", "opac-connector/"+version)
	viper.SetDefault("http.max_retries", 0)
	viper.SetDefault("http.requests_per_second", 0)
	viper.SetDefault("http.max_body_bytes", 0)
	viper.SetDefault("http.username", "")
	viper.SetDefault("http.password", "")
	viper.SetDefault("connector.failure_policy", string(types.FailListing))
	viper.SetDefault("connector.concurrency", 1)
	viper.SetDefault("connector.strip_links", true)
	viper.SetDefault("connector.asset_base_url", "")
	viper.SetDefault("serve.addr", ":8080")
	viper.SetDefault("serve.shutdown_timeout", 10*time.Second)
	viper.SetDefault("export.db", "opac-snapshots.db")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("opac-connector")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "opac-connector"))
		}
	}

	viper.SetEnvPrefix("OPAC_CONNECTOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged configuration and fills credentials from
// .secrets/.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	secrets.ApplyHTTP(loadedSecrets, &cfg.HTTP)
	return cfg, nil
}

// newConnector builds a Koha connector from the configuration. Metrics are
// registered on reg when it is non-nil.
func newConnector(cfg types.Config, reg prometheus.Registerer) (*connector.Koha, error) {
	opts := []connector.Option{
		connector.WithLogger(logger),
		connector.WithConnectorConfig(cfg.Connector),
	}
	if reg != nil {
		opts = append(opts, connector.WithMetrics(metrics.New(reg)))
	}
	return connector.New(cfg.Catalog, fetch.NewHTTPTransport(cfg.HTTP), opts...)
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
