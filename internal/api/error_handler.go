package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clubhub/clubhub-api/internal/api/handler"
	"github.com/clubhub/clubhub-api/internal/api/metrics"
	"github.com/clubhub/clubhub-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders typed domain errors with their kind's status and name.
//   - Maps echo's own errors (router 404/405, bind failures) to the same envelope.
//   - Logs unexpected errors and answers 500 without leaking details.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := resolveError(err, log, c)
		metrics.ErrorsTotal.WithLabelValues(resp.ErrorName, strconv.Itoa(resp.ErrorID)).Inc()

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(resp.ErrorID)
			return
		}
		_ = c.JSON(resp.ErrorID, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) handler.ErrorResponse {
	if de, ok := domain.AsError(err); ok {
		if de.Kind == domain.KindGeneral {
			logUnexpected(log, c, err)
		}
		return envelope(de.Kind.Status(), de.Name, de.Description)
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnexpected(log, c, err)
		}
		return envelope(he.Code, statusName(he.Code), fmt.Sprintf("%v", he.Message))
	}

	logUnexpected(log, c, err)
	return envelope(http.StatusInternalServerError, "internal_server_error", "Something went wrong")
}

func envelope(status int, name, description string) handler.ErrorResponse {
	return handler.ErrorResponse{OK: false, ErrorID: status, ErrorName: name, Description: description}
}

// statusName turns "Method Not Allowed" into "method_not_allowed".
func statusName(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return "error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}

func logUnexpected(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
