package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// Secure sets the standard hardening headers for a JSON API.
func Secure(isDevelopment bool) func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "no-referrer",
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      isDevelopment,
	}).Handler
}
