// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/opac-connector/internal/connector"
	"github.com/pdiddy/opac-connector/internal/connector/connectortest"
	"github.com/pdiddy/opac-connector/internal/feed"
	"github.com/pdiddy/opac-connector/internal/fetch"
	"github.com/pdiddy/opac-connector/internal/marc"
	"github.com/pdiddy/opac-connector/internal/metrics"
	"github.com/pdiddy/opac-connector/pkg/types"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testServer(t *testing.T, cat *connectortest.Catalog) *Server {
	t.Helper()
	srv := connectortest.NewServer(cat)
	t.Cleanup(srv.Close)

	reg := prometheus.NewRegistry()
	k, err := connector.New(types.CatalogConfig{BaseURL: srv.URL, PageLimit: 10},
		fetch.NewHTTPTransport(types.HTTPConfig{MaxRetries: -1}),
		connector.WithLogger(quietLogger),
		connector.WithMetrics(metrics.New(reg)))
	require.NoError(t, err)
	return New(k, reg, quietLogger)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sampleCatalog() *connectortest.Catalog {
	return &connectortest.Catalog{
		Records: map[string]connectortest.Record{
			"7": {ID: "7", Author: "Woolf, Virginia", Title: "Orlando", Date: "1928"},
			"8": {ID: "8", Author: "Woolf, Virginia", Title: "The waves", Lost: "1"},
		},
		Feed:         []string{connectortest.Link("7"), connectortest.Link("8")},
		TotalResults: 2,
		ItemsPerPage: 20,
	}
}

func TestHealth(t *testing.T) {
	rec := get(t, testServer(t, sampleCatalog()), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestSearch(t *testing.T) {
	cat := sampleCatalog()
	rec := get(t, testServer(t, cat), "/search?q=woolf&page=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var res types.ListingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Orlando", res.Items[0].Title)
	assert.Equal(t, types.Unavailable(types.ReasonLost), res.Items[1].LendingStatus)
	assert.Equal(t, 1, res.Page)
	assert.True(t, res.AllowAnonymous)
	assert.Equal(t, "/opac-search.pl?q=woolf&format=rss2&pw=1", cat.Requests()[0])
}

func TestListing(t *testing.T) {
	cat := sampleCatalog()
	rec := get(t, testServer(t, cat), "/listing?path=fiction")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/opac-search.pl?q=&format=rss2&pw=0", cat.Requests()[0])
}

func TestInvalidPage(t *testing.T) {
	rec := get(t, testServer(t, sampleCatalog()), "/search?q=x&page=two")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecord(t *testing.T) {
	h := testServer(t, sampleCatalog())

	rec := get(t, h, "/records/7")
	require.Equal(t, http.StatusOK, rec.Code)
	var got types.BibliographicRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Orlando", got.Title)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/records/404").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/records/abc").Code)
}

func TestSearch_CatalogDown(t *testing.T) {
	rec := get(t, testServer(t, &connectortest.Catalog{FeedStatus: http.StatusInternalServerError}), "/search?q=x")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestConfigEndpoints(t *testing.T) {
	h := testServer(t, sampleCatalog())

	rec := get(t, h, "/config/options")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"options": ["url","page_limit","pluginname"],
		"return_types": ["external"],
		"file_types": ["*"]
	}`, rec.Body.String())

	rec = get(t, h, "/config/form?url=http://lib.org/&page_limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	var form connector.ConfigForm
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &form))
	assert.Equal(t, "Koha ILS configuration", form.Title)
	assert.Equal(t, "http://lib.org/", form.Fields[1].Value)
	assert.Equal(t, "5", form.Fields[2].Value)
}

func TestConfigValidate(t *testing.T) {
	h := testServer(t, sampleCatalog())

	post := func(values url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/config/validate", strings.NewReader(values.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := post(url.Values{"url": {" http://lib.org "}, "page_limit": {" 25 "}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":true,"config":{"url":"http://lib.org/","page_limit":25}}`, rec.Body.String())

	rec = post(url.Values{"url": {""}, "page_limit": {"0"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body struct {
		Valid    bool              `json:"valid"`
		Problems map[string]string `json:"problems"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Valid)
	assert.Contains(t, body.Problems, "url")
	assert.Contains(t, body.Problems, "page_limit")
}

func TestMetricsEndpoint(t *testing.T) {
	h := testServer(t, sampleCatalog())
	require.Equal(t, http.StatusOK, get(t, h, "/search?q=woolf").Code)

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `opac_connector_listings_total{entry="search",outcome="ok"} 1`)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid id", fmt.Errorf("%w: %q", connector.ErrInvalidRecordID, "x"), http.StatusBadRequest},
		{"timeout", fmt.Errorf("searching catalog: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"configuration", &connector.ConfigurationError{Field: "url", Err: errors.New("empty")}, http.StatusInternalServerError},
		{"malformed feed", &feed.MalformedFeedError{Err: errors.New("eof")}, http.StatusBadGateway},
		{"malformed record", &connector.RecordError{RecordID: "1", Err: &marc.MalformedRecordError{Err: errors.New("eof")}}, http.StatusBadGateway},
		{"transport", &fetch.TransportError{URL: "http://lib.org", StatusCode: 500}, http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapError(tt.err).Code)
		})
	}
}
