package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"calorista/internal/auth"
	apperrors "calorista/internal/errors"
	"calorista/internal/model"
)

const (
	subjectContextKey = "authSubject"
	userContextKey    = "currentUser"
)

// UserFinder resolves a token subject to a stored identity.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// JWT extracts and verifies the bearer token, storing the subject id in the
// request context. Missing header, malformed token, bad signature and expiry
// all produce the same 401; the distinguishing cause is only logged.
func JWT(tokens *auth.TokenAuthority) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: subjectContextKey,
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return tokens.Verify(tokenString)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			c.Logger().Warnf("bearer token rejected: %v", err)
			return unauthorized()
		},
	})
}

// ResolveUser loads the identity behind the verified subject and attaches it
// to the request context. A subject that no longer exists in storage is a
// 401, not a 404, to avoid identity enumeration.
func ResolveUser(users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subjectID, ok := c.Get(subjectContextKey).(uuid.UUID)
			if !ok {
				c.Logger().Warn("auth subject missing from context")
				return unauthorized()
			}

			user, err := users.FindByID(c.Request().Context(), subjectID)
			if err != nil {
				c.Logger().Warnf("token subject %s not resolvable: %v", subjectID, err)
				return unauthorized()
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the identity attached by ResolveUser.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(userContextKey).(*model.User)
	return user, ok
}

func unauthorized() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: "unauthorized",
		Code:  "UNAUTHORIZED",
	})
}
