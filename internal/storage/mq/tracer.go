package mq

import (
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("internal/storage/mq")

// newKafkaTracer returns kotel hooks bound to the global provider and
// propagator. It is called per client, after telemetry.InitTracer has run.
func newKafkaTracer() *kotel.Tracer {
	return kotel.NewTracer(
		kotel.TracerProvider(otel.GetTracerProvider()),
		kotel.TracerPropagator(otel.GetTextMapPropagator()),
	)
}
