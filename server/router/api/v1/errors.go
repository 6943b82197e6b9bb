package v1

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	aicontext "github.com/peakform/peakform/plugin/ai/context"
	"github.com/peakform/peakform/server/internal/errors"
	"github.com/peakform/peakform/store"
)

// toHTTPError maps engine and store errors to HTTP responses. Forbidden maps
// to 404 with the same body as a plain not-found, so resource existence is
// never leaked across users.
func toHTTPError(err error) *echo.HTTPError {
	if err == nil {
		return nil
	}

	switch {
	case errors.IsCode(err, errors.ErrCodeUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, errorMessage(err))
	case errors.IsCode(err, errors.ErrCodeForbidden),
		errors.IsCode(err, errors.ErrCodeNotFound):
		return echo.NewHTTPError(http.StatusNotFound, errorMessage(err))
	case errors.IsCode(err, errors.ErrCodeInvalidArgument):
		return echo.NewHTTPError(http.StatusBadRequest, errorMessage(err))
	case errors.IsCode(err, errors.ErrCodeSourceUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, errorMessage(err))
	case errors.IsCode(err, errors.ErrCodeStorageError):
		return echo.NewHTTPError(http.StatusConflict, errorMessage(err))
	}

	if stderrors.Is(err, aicontext.ErrMemoryNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "memory not found")
	}
	if stderrors.Is(err, store.ErrMemoryAlreadySuperseded) {
		return echo.NewHTTPError(http.StatusConflict, "memory already superseded")
	}

	slog.Error("unhandled request error", slog.Any("err", err))
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func errorMessage(err error) string {
	if engineErr, ok := err.(*errors.EngineError); ok {
		return engineErr.Message
	}
	return err.Error()
}
