package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"tally-server/src/models"
)

// DemoModeMiddleware makes a demo deployment read-only. Logging in is the one
// write that stays open.
func DemoModeMiddleware(isDemo bool) func(http.Handler) http.Handler {
	allowedPosts := map[string]bool{
		"/api/v1/auth/login": true,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isDemo || r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if r.Method == http.MethodPost && allowedPosts[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(models.ErrorResponse{
				Status:    http.StatusForbidden,
				Error:     "Forbidden",
				Message:   "Demo mode: only GET requests are allowed",
				Path:      r.URL.Path,
				Timestamp: time.Now().UTC(),
			})
		})
	}
}
