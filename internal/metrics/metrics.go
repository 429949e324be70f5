// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics defines the Prometheus collectors of the connector. A nil
// *Collector is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "opac_connector"

// Fetch kinds.
const (
	KindFeed   = "feed"
	KindRecord = "record"
)

// Collector groups the connector's metrics.
type Collector struct {
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	listings      *prometheus.CounterVec
	omitted       prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Catalog documents fetched, by kind and outcome",
		}, []string{"kind", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time to fetch and parse a catalog document, by kind",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"kind"}),
		listings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_total",
			Help:      "Listing and search calls, by entry point and outcome",
		}, []string{"entry", "outcome"}),
		omitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "omitted_records_total",
			Help:      "Feed items left out of a listing",
		}),
	}
	reg.MustRegister(c.fetches, c.fetchDuration, c.listings, c.omitted)
	return c
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveFetch records one fetch of kind that started at start.
func (c *Collector) ObserveFetch(kind string, start time.Time, err error) {
	if c == nil {
		return
	}
	c.fetches.WithLabelValues(kind, outcome(err)).Inc()
	c.fetchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// ObserveListing records one call of entry ("search" or "listing").
func (c *Collector) ObserveListing(entry string, err error) {
	if c == nil {
		return
	}
	c.listings.WithLabelValues(entry, outcome(err)).Inc()
}

// AddOmitted records n feed items left out of a listing.
func (c *Collector) AddOmitted(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.omitted.Add(float64(n))
}
