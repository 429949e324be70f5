// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pdiddy/opac-connector/internal/connector"
	"github.com/pdiddy/opac-connector/internal/feed"
	"github.com/pdiddy/opac-connector/internal/fetch"
	"github.com/pdiddy/opac-connector/internal/marc"
)

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (s *Server) handleListing(c echo.Context) error {
	page, err := pageParam(c)
	if err != nil {
		return err
	}
	res, err := s.catalog.GetListing(c.Request().Context(), c.QueryParam("path"), page)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleSearch(c echo.Context) error {
	page, err := pageParam(c)
	if err != nil {
		return err
	}
	res, err := s.catalog.Search(c.Request().Context(), c.QueryParam("q"), page)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleRecord(c echo.Context) error {
	rec, err := s.catalog.Record(c.Request().Context(), c.Param("id"))
	if err != nil {
		var te *fetch.TransportError
		if errors.As(err, &te) && te.StatusCode == http.StatusNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		}
		return mapError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (s *Server) handleConfigOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{
		"options":      s.catalog.DescribeConfigOptions(),
		"return_types": s.catalog.SupportedReturnTypes(),
		"file_types":   s.catalog.SupportedFileTypes(),
	})
}

func (s *Server) handleConfigForm(c echo.Context) error {
	return c.JSON(http.StatusOK, s.catalog.RenderConfigForm(formValues(c.QueryParams())))
}

func (s *Server) handleConfigValidate(c echo.Context) error {
	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable form")
	}
	values := formValues(params)
	if problems := connector.ValidateConfigForm(values); len(problems) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"valid":    false,
			"problems": problems,
		})
	}
	cfg, err := connector.CatalogConfigFromForm(values)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"valid": true, "config": cfg})
}

func pageParam(c echo.Context) (int, error) {
	raw := c.QueryParam("page")
	if raw == "" {
		return 0, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid page %q", raw))
	}
	return page, nil
}

func formValues(params map[string][]string) map[string]string {
	values := make(map[string]string, len(params))
	for _, name := range connector.ConfigOptionNames() {
		if v, ok := params[name]; ok && len(v) > 0 {
			values[name] = v[0]
		}
	}
	return values
}

// mapError converts a connector error into an echo.HTTPError.
func mapError(err error) *echo.HTTPError {
	var (
		configErr    *connector.ConfigurationError
		transportErr *fetch.TransportError
		feedErr      *feed.MalformedFeedError
		recordErr    *marc.MalformedRecordError
	)
	switch {
	case errors.Is(err, connector.ErrInvalidRecordID):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")

	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "catalog timed out")

	case errors.As(err, &configErr):
		return echo.NewHTTPError(http.StatusInternalServerError, "catalog misconfigured")

	case errors.As(err, &feedErr), errors.As(err, &recordErr):
		return echo.NewHTTPError(http.StatusBadGateway, "catalog returned malformed data")

	case errors.As(err, &transportErr):
		return echo.NewHTTPError(http.StatusBadGateway, "catalog unavailable")

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
