package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/peakform/peakform/server/internal/observability"
)

type cleanupResponse struct {
	Removed int `json:"removed"`
}

// RunCleanup triggers one cleanup pass for the caller: expired memories and
// historical memories past the retention window are removed. The background
// sweeper does the same on a schedule; this endpoint exists for immediate
// effect after bulk changes. Idempotent.
func (s *APIV1Service) RunCleanup(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	metrics := observability.GlobalMetrics()
	metrics.RecordRequest(observability.OperationCleanup)

	removed, err := s.Sweeper.SweepUser(ctx, user.ID)
	if err != nil {
		metrics.RecordFailure(observability.OperationCleanup)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, &cleanupResponse{Removed: removed})
}
