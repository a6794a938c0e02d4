// Package tracecontext propagates the active OpenTelemetry trace context
// through an envelope's string header map, so internal/wire never needs to
// know about any particular tracing library.
package tracecontext

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	headerTraceParent = "traceparent"
	headerTraceState  = "tracestate"
	headerBaggage     = "baggage"
)

// Inject encodes the trace context carried by ctx as envelope headers. The
// returned map is nil if ctx carries no trace context.
func Inject(ctx context.Context) map[string]string {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	if len(carrier) == 0 {
		return nil
	}
	headers := make(map[string]string, len(carrier))
	for k, v := range carrier {
		headers[k] = v
	}
	return headers
}

// Extract returns a context carrying the trace context represented by
// headers. Headers with no trace-context keys leave ctx unchanged.
func Extract(ctx context.Context, headers map[string]string) context.Context {
	carrier := propagation.MapCarrier{}
	for _, key := range []string{headerTraceParent, headerTraceState, headerBaggage} {
		if v, ok := headers[key]; ok && v != "" {
			carrier[key] = v
		}
	}
	if len(carrier) == 0 {
		return ctx
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}
