package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/stock-ledger/pkg/correlationid"
)

// CorrelationID propagates the caller's correlation ID or assigns a new one.
// The ID is echoed in the response header and stored in the request context,
// from where it reaches logs and outbox message headers.
func CorrelationID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(correlationid.Header)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}

			w.Header().Set(correlationid.Header, id)
			trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("correlation_id", id))
			next.ServeHTTP(w, r.WithContext(correlationid.NewContext(r.Context(), id)))
		})
	}
}
