package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func protected(t *testing.T) (http.Handler, *string) {
	t.Helper()
	var seenOwner string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenOwner = Owner(r)
		w.WriteHeader(http.StatusOK)
	})
	return AuthMiddleware(next), &seenOwner
}

func TestAuthMiddlewareValidBearerToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	handler, seenOwner := protected(t)

	req := httptest.NewRequest(http.MethodGet, "/bookmarks", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, "test-secret", jwt.MapClaims{"sub": "owner-a"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner-a", *seenOwner)
}

func TestAuthMiddlewareTokenInQueryString(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	handler, seenOwner := protected(t)

	token := sign(t, "test-secret", jwt.MapClaims{"sub": "owner-a"})
	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner-a", *seenOwner)
}

func TestAuthMiddlewareRejections(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{
			name:  "no token",
			setup: func(r *http.Request) {},
		},
		{
			name: "wrong secret",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+sign(t, "other-secret", jwt.MapClaims{"sub": "owner-a"}))
			},
		},
		{
			name: "missing sub claim",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+sign(t, "test-secret", jwt.MapClaims{"email": "a@x.com"}))
			},
		},
		{
			name: "garbage token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer not.a.token")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := protected(t)
			req := httptest.NewRequest(http.MethodGet, "/bookmarks", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
