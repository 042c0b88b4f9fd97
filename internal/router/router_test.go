package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	apperrors "shopgate/internal/errors"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "stale token maps to 401",
			err:        apperrors.ErrTokenStale,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"detail":"token expired, password changed","code":"TOKEN_STALE"}`,
		},
		{
			name:       "permission denial maps to 403",
			err:        apperrors.NewPermissionError("can_post_products"),
			wantStatus: http.StatusForbidden,
			wantBody:   `{"detail":"permission \"can_post_products\" denied","code":"PERMISSION_DENIED"}`,
		},
		{
			name:       "login throttle maps to 429",
			err:        apperrors.ErrLoginThrottled,
			wantStatus: http.StatusTooManyRequests,
			wantBody:   `{"detail":"wait 5 seconds before retrying","code":"LOGIN_THROTTLED"}`,
		},
		{
			name:       "missing webhook signature maps to 400",
			err:        apperrors.ErrSignatureMissing,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"detail":"webhook signature missing","code":"SIGNATURE_MISSING"}`,
		},
		{
			name:       "store outage maps to 503, not 401",
			err:        apperrors.ErrStoreUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"detail":"credential store unavailable","code":"STORE_UNAVAILABLE"}`,
		},
		{
			name:       "echo errors keep their own status",
			err:        echo.NewHTTPError(http.StatusConflict, "already exists"),
			wantStatus: http.StatusConflict,
			wantBody:   `{"detail":"already exists"}`,
		},
		{
			name:       "unknown errors are internal, never 401",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"detail":"internal server error","code":"INTERNAL_ERROR"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			HTTPErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
