package middleware

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"marque/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

// OwnerKey holds the authenticated owner identity in the request context.
const OwnerKey contextKey = "owner"

// Owner returns the authenticated owner identity from the request context.
// It is only valid inside handlers wrapped by AuthMiddleware.
func Owner(r *http.Request) string {
	owner, _ := r.Context().Value(OwnerKey).(string)
	return owner
}

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// For WebSockets, tokens are passed in the query string because
		// the browser's WebSocket API doesn't support custom headers.
		tokenString := r.URL.Query().Get("token")

		// Fallback to Header for plain REST calls.
		if tokenString == "" {
			authHeader := r.Header.Get("Authorization")
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			http.Error(w, "Unauthorized: No token provided", http.StatusUnauthorized)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			jwtSecret := os.Getenv("JWT_SECRET")
			if jwtSecret == "" {
				logger.Sugar.Error("JWT_SECRET environment variable not set")
				return nil, fmt.Errorf("server is not configured to validate JWTs")
			}
			return []byte(jwtSecret), nil
		})

		if err != nil || !token.Valid {
			logger.Sugar.Infof("Invalid token: %v", err)
			http.Error(w, "Unauthorized: Invalid or expired token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "Unauthorized: Could not parse token claims", http.StatusUnauthorized)
			return
		}
		// The owner identity is the 'sub' claim of the identity provider's token.
		owner, ok := claims["sub"].(string)
		if !ok || owner == "" {
			http.Error(w, "Unauthorized: Subject claim is missing or invalid", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), OwnerKey, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
