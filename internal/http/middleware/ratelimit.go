package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/tuanvumaihuynh/stock-ledger/internal/http/apierr"
)

// RateLimit allows requestsPerMinute requests per client IP. A non-positive
// limit disables it.
func RateLimit(requestsPerMinute int) func(http.Handler) http.Handler {
	if requestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	body, err := json.Marshal(apierr.ErrorResponse{
		Code:    "tooManyRequests",
		Message: "rate limit exceeded",
	})
	if err != nil {
		panic(err)
	}

	return httprate.Limit(requestsPerMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			//nolint:errcheck
			w.Write(body)
		}),
	)
}
