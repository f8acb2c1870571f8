package apperr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Title string `json:"title,omitempty"`
}

// GlobalErrorHandler renders err as an ErrorBody. Anything that is not a
// validation, echo or deadline error is logged and returned as a 500.
func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := classify(err)
		if status >= http.StatusInternalServerError {
			slog.Error("Request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", status,
				"error", err,
			)
		}
		_ = c.JSON(status, body)
	}
}

func classify(err error) (int, ErrorBody) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ErrorBody{Error: ve.Message, Title: "validation error"}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, ErrorBody{Error: fmt.Sprintf("%v", he.Message)}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, ErrorBody{Error: "request timed out"}
	}

	var pe *PersistError
	if errors.As(err, &pe) {
		return http.StatusInternalServerError, ErrorBody{Error: "failed to store article", Title: "persistence error"}
	}

	return http.StatusInternalServerError, ErrorBody{Error: "internal server error"}
}
