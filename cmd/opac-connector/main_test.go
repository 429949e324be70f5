// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/opac-connector/pkg/types"
)

func TestLoadConfig_DefaultsAndEnv(t *testing.T) {
	t.Setenv("OPAC_CONNECTOR_CATALOG_URL", "http://lib.org/cgi-bin/koha/")
	t.Setenv("OPAC_CONNECTOR_CONNECTOR_FAILURE_POLICY", "skip")
	t.Setenv("OPAC_CONNECTOR_HTTP_TIMEOUT", "5s")
	initConfig()
	loadedSecrets = map[string]string{"opac-username": "reader"}
	t.Cleanup(func() { loadedSecrets = nil })

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://lib.org/cgi-bin/koha/", cfg.Catalog.BaseURL)
	assert.Equal(t, 10, cfg.Catalog.PageLimit)
	assert.Equal(t, types.SkipRecord, cfg.Connector.FailurePolicy)
	assert.Equal(t, 1, cfg.Connector.Concurrency)
	assert.True(t, cfg.Connector.StripLinks)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "reader", cfg.HTTP.Username)
	assert.Equal(t, ":8080", cfg.Serve.Addr)
	assert.Equal(t, "opac-snapshots.db", cfg.Export.DB)

	conn, err := newConnector(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://lib.org/cgi-bin/koha/", conn.Config().BaseURL)
}

func TestNewConnector_RequiresURL(t *testing.T) {
	viper.Reset()
	setDefaults()
	t.Cleanup(func() {
		viper.Reset()
		setDefaults()
	})

	cfg, err := loadConfig()
	require.NoError(t, err)
	_, err = newConnector(cfg, nil)
	assert.ErrorContains(t, err, "invalid catalog configuration: url")
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("debug")
	assert.NoError(t, err)
	_, err = newLogger("loud")
	assert.ErrorContains(t, err, `invalid log level "loud"`)
}
