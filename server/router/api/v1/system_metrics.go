package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/peakform/peakform/server/internal/observability"
)

// GetMetrics returns a snapshot of engine operation counters. Intended for
// internal dashboards, not public consumption; the gateway keeps this route
// off the public surface.
func (s *APIV1Service) GetMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, observability.GlobalMetrics().Snapshot())
}

// GetStats returns the periodically collected engine usage statistics.
func (s *APIV1Service) GetStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Stats.GetStats())
}
