// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveFetch(KindFeed, time.Now(), nil)
	c.ObserveFetch(KindRecord, time.Now(), nil)
	c.ObserveFetch(KindRecord, time.Now(), errors.New("boom"))
	c.ObserveListing("search", nil)
	c.AddOmitted(2)
	c.AddOmitted(0)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.fetches.WithLabelValues(KindFeed, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fetches.WithLabelValues(KindRecord, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fetches.WithLabelValues(KindRecord, "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.listings.WithLabelValues("search", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.omitted))

	n, err := testutil.GatherAndCount(reg, "opac_connector_fetch_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveFetch(KindFeed, time.Now(), nil)
		c.ObserveListing("listing", errors.New("x"))
		c.AddOmitted(3)
	})
}
