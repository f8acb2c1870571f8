package apperr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "validation", err: fmt.Errorf("bind: %w", NewValidation("bad page")), wantStatus: http.StatusBadRequest, wantError: "bad page"},
		{name: "echo http error", err: echo.NewHTTPError(http.StatusUnauthorized, "missing key"), wantStatus: http.StatusUnauthorized, wantError: "missing key"},
		{name: "deadline", err: fmt.Errorf("list: %w", context.DeadlineExceeded), wantStatus: http.StatusGatewayTimeout, wantError: "request timed out"},
		{name: "persist", err: NewPersist("guardian", "https://x.test/a", errors.New("boom")), wantStatus: http.StatusInternalServerError, wantError: "failed to store article"},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantError: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			// Act
			GlobalErrorHandler()(tt.err, c)

			// Assert
			assert.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}
