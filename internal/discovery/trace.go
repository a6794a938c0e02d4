package discovery

import (
	"context"

	"github.com/ede1998/home-automation/internal/tracecontext"
	"github.com/ede1998/home-automation/internal/wire"
)

// extractTrace recovers the caller's trace context from env's headers, if
// any, so the span started for this request joins the caller's trace rather
// than starting a new one.
func extractTrace(ctx context.Context, env *wire.Envelope) context.Context {
	if env == nil {
		return ctx
	}
	return tracecontext.Extract(ctx, env.Headers)
}
