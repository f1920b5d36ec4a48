package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	apperrors "calorista/internal/errors"
)

// APIKeyHeader is the header carrying the shared secret.
const APIKeyHeader = "X-API-Key"

// APIKey gates every route behind a single process-wide shared secret,
// except the health check and the docs pages. A missing and a mismatched key
// are both a plain 401.
func APIKey(secret string) echo.MiddlewareFunc {
	return echomw.KeyAuthWithConfig(echomw.KeyAuthConfig{
		KeyLookup: "header:" + APIKeyHeader,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || strings.HasPrefix(path, "/swagger")
		},
		Validator: func(key string, c echo.Context) (bool, error) {
			return key == secret, nil
		},
		ErrorHandler: func(err error, c echo.Context) error {
			c.Logger().Warnf("api key rejected: %v", err)
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: "invalid or missing API key",
				Code:  "INVALID_API_KEY",
			})
		},
	})
}
