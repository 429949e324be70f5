// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes a connector over HTTP so hosts that cannot embed
// Go can call it. Listings and records are served as JSON.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/opac-connector/internal/connector"
	"github.com/pdiddy/opac-connector/pkg/types"
)

// Catalog is the connector surface served over HTTP.
type Catalog interface {
	connector.CatalogConnector
	Record(ctx context.Context, recordID string) (types.BibliographicRecord, error)
}

// Server routes HTTP requests to a Catalog.
type Server struct {
	echo    *echo.Echo
	catalog Catalog
	logger  *slog.Logger
}

// New builds the routes for c. Metrics are served from gatherer when it is
// non-nil.
func New(c Catalog, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{echo: echo.New(), catalog: c, logger: logger}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				logger.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				logger.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.GET("/health", s.handleHealth)
	e.GET("/listing", s.handleListing)
	e.GET("/search", s.handleSearch)
	e.GET("/records/:id", s.handleRecord)
	e.GET("/config/options", s.handleConfigOptions)
	e.GET("/config/form", s.handleConfigForm)
	e.POST("/config/validate", s.handleConfigValidate)
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down within
// shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	s.logger.InfoContext(ctx, "starting server", "address", addr)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
