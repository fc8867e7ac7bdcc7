package log

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/stock-ledger/pkg/correlationid"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/zerror"
)

var _ slog.Handler = (*enrichedHandler)(nil)

// enrichedHandler adds the request correlation ID, the active span and, for
// records carrying an application error, its error code.
type enrichedHandler struct {
	h slog.Handler
}

func newEnrichedHandler(h slog.Handler) enrichedHandler {
	return enrichedHandler{h: h}
}

func (eh enrichedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return eh.h.Enabled(ctx, level)
}

func (eh enrichedHandler) Handle(ctx context.Context, r slog.Record) error {
	if correlationID, ok := correlationid.FromContext(ctx); ok {
		r.Add("correlation_id", slog.StringValue(correlationID))
	}

	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if spanCtx.IsValid() {
		r.Add("trace_id", slog.StringValue(spanCtx.TraceID().String()))
		r.Add("span_id", slog.StringValue(spanCtx.SpanID().String()))
	}

	if code, ok := errorCode(r); ok {
		r.Add("error_code", slog.StringValue(code))
	}

	return eh.h.Handle(ctx, r)
}

func (eh enrichedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newEnrichedHandler(eh.h.WithAttrs(attrs))
}

func (eh enrichedHandler) WithGroup(name string) slog.Handler {
	return newEnrichedHandler(eh.h.WithGroup(name))
}

// errorCode finds the first zerror in the record's "error" attribute.
func errorCode(r slog.Record) (string, bool) {
	var code string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != "error" || a.Value.Kind() != slog.KindAny {
			return true
		}
		err, ok := a.Value.Any().(error)
		if !ok {
			return true
		}
		var zErr zerror.ZError
		if errors.As(err, &zErr) {
			code = zErr.Code()
			return false
		}
		return true
	})
	return code, code != ""
}
