package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/api/problem"
	"github.com/go-chi/httprate"
)

func limitExceeded(rps int, scope string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		problem.Write(w, r, http.StatusTooManyRequests, problem.Type("rate-limit-exceeded"), "",
			fmt.Sprintf("Rate limit of %d req/s exceeded for this %s", rps, scope))
	}
}

// PublicRateLimiter limits requests per IP for unauthenticated routes.
func PublicRateLimiter(rps int) func(http.Handler) http.Handler {
	return httprate.Limit(rps, time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(limitExceeded(rps, "IP")),
	)
}

// AdminRateLimiter limits authenticated admins by admin id, falling back to
// the client IP.
func AdminRateLimiter(rps int) func(http.Handler) http.Handler {
	return httprate.Limit(rps, time.Second,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if adminID := AdminIDFromContext(r.Context()); adminID != "" {
				return adminID, nil
			}
			return httprate.KeyByIP(r)
		}),
		httprate.WithLimitHandler(limitExceeded(rps, "admin")),
	)
}
