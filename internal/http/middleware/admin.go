// Package middleware holds the HTTP middleware shared by the API routes.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const adminRole = "admin"

var errNoToken = errors.New("missing bearer token")

// Admin only lets requests through that carry an HS256 bearer token signed
// with secret and a "role" claim of "admin". With an empty secret every
// request is refused.
func Admin(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(key) == 0 {
				http.Error(w, "admin access not configured", http.StatusForbidden)
				return
			}

			if err := verifyAdmin(r, key); err != nil {
				slog.Warn("admin request rejected", "path", r.URL.Path, "error", err)
				http.Error(w, "unauthorized", http.StatusUnauthorized)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func verifyAdmin(r *http.Request, key []byte) error {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return errNoToken
	}

	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return err
	}

	if role, _ := claims["role"].(string); role != adminRole {
		return errors.New("token lacks admin role")
	}

	return nil
}
