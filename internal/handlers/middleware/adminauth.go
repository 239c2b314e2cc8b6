package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/ollyware/tokend/internal/handlers/render"
)

// AdminKeyHeader carries the shared admin secret
const AdminKeyHeader = "X-Admin-Key"

// AdminAuthMiddleware rejects requests that do not present the configured
// admin key. The comparison is constant time.
func AdminAuthMiddleware(adminKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get(AdminKeyHeader)

			if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(adminKey)) != 1 {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
