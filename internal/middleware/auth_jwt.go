package middleware

import (
	"net/http"
	"strings"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/auth"
)

// AuthJWT requires a valid HS256 bearer token and stores its subject as
// the user id.
func AuthJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeError(w, r, http.StatusUnauthorized, "Authentication credentials were not provided.")
				return
			}

			userID, err := auth.Verify(secret, strings.TrimSpace(token))
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "Invalid or expired token.")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
