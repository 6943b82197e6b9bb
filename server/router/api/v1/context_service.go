package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/peakform/peakform/server/internal/observability"
	"github.com/peakform/peakform/store"
)

// GetContext builds and returns the caller's context object. The object is
// recomputed on every call and never persisted. A build that lost one or
// more source categories still succeeds; the response lists them in
// "omitted" so the consumer knows it is working with a partial view.
func (s *APIV1Service) GetContext(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	reqCtx := observability.NewRequestContext(slog.Default(), observability.OperationContextBuild, user.ID)
	metrics := observability.GlobalMetrics()
	metrics.RecordRequest(observability.OperationContextBuild)

	if err := s.buildSemaphore.Acquire(ctx, 1); err != nil {
		metrics.RecordFailure(observability.OperationContextBuild)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "server busy")
	}
	defer s.buildSemaphore.Release(1)

	engine := s.Engine
	if user.Plan == store.PlanPro {
		engine = s.proEngine
	}
	object, err := engine.Build(ctx, user.ID)
	metrics.RecordDuration(observability.OperationContextBuild, reqCtx.Duration())
	if err != nil {
		metrics.RecordFailure(observability.OperationContextBuild)
		reqCtx.Error("context build failed", err)
		return toHTTPError(err)
	}

	if len(object.Omitted) > 0 {
		metrics.RecordPartialBuild()
		reqCtx.Warn("context build returned partial result",
			slog.Any("omitted", object.Omitted),
			slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	}
	return c.JSON(http.StatusOK, object)
}
