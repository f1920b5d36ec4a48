package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"calorista/internal/auth"
	"calorista/internal/model"
)

type stubUserFinder struct {
	users map[uuid.UUID]*model.User
}

func (f *stubUserFinder) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newAuthTestServer(tokens *auth.TokenAuthority, finder UserFinder) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.String(http.StatusInternalServerError, "no user in context")
		}
		return c.String(http.StatusOK, user.Email)
	}, JWT(tokens), ResolveUser(finder))
	return e
}

func expiredToken(t *testing.T, secret string, subject uuid.UUID) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthGate(t *testing.T) {
	const secret = "test-secret"
	tokens := auth.NewTokenAuthority(secret)

	knownID := uuid.New()
	finder := &stubUserFinder{users: map[uuid.UUID]*model.User{
		knownID: {ID: knownID, Email: "a@x.com", Name: "A"},
	}}

	validToken, err := tokens.Issue(knownID)
	require.NoError(t, err)
	vanishedToken, err := tokens.Issue(uuid.New())
	require.NoError(t, err)
	foreignToken, err := auth.NewTokenAuthority("other-secret").Issue(knownID)
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantBody   string
	}{
		{name: "valid token resolves user", authHeader: "Bearer " + validToken, wantStatus: http.StatusOK, wantBody: "a@x.com"},
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "not bearer scheme", authHeader: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "malformed token", authHeader: "Bearer not.a.token", wantStatus: http.StatusUnauthorized},
		{name: "expired token", authHeader: "Bearer " + expiredToken(t, secret, knownID), wantStatus: http.StatusUnauthorized},
		{name: "signature mismatch", authHeader: "Bearer " + foreignToken, wantStatus: http.StatusUnauthorized},
		{name: "subject no longer exists", authHeader: "Bearer " + vanishedToken, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newAuthTestServer(tokens, finder)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.authHeader)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

// All rejection causes must be externally indistinguishable.
func TestAuthGate_UniformRejectionBody(t *testing.T) {
	tokens := auth.NewTokenAuthority("test-secret")
	finder := &stubUserFinder{users: map[uuid.UUID]*model.User{}}

	vanished, err := tokens.Issue(uuid.New())
	require.NoError(t, err)

	bodies := map[string]string{}
	for name, header := range map[string]string{
		"missing":  "",
		"garbage":  "Bearer zzz",
		"vanished": "Bearer " + vanished,
	} {
		e := newAuthTestServer(tokens, finder)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		bodies[name] = rec.Body.String()
	}

	assert.Equal(t, bodies["missing"], bodies["garbage"])
	assert.Equal(t, bodies["garbage"], bodies["vanished"])
}
