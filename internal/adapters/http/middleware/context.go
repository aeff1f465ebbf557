// Package middleware holds the gin middleware shared by the API, the live
// view websocket and the preview page.
package middleware

import "context"

// TraceIDs are the caller-facing identifiers of one request. Outbound logo
// fetches forward them as headers.
type TraceIDs struct {
	Request     string
	Correlation string
}

type traceIDsKey struct{}

// TraceIDsFromContext returns the IDs stored by RequestID and CorrelationID.
// Missing IDs are empty.
func TraceIDsFromContext(ctx context.Context) TraceIDs {
	if ctx == nil {
		return TraceIDs{}
	}

	ids, _ := ctx.Value(traceIDsKey{}).(TraceIDs)

	return ids
}

// ContextWithTraceIDs returns ctx carrying ids.
func ContextWithTraceIDs(ctx context.Context, ids TraceIDs) context.Context {
	return context.WithValue(ctx, traceIDsKey{}, ids)
}

func withRequestID(ctx context.Context, id string) context.Context {
	ids := TraceIDsFromContext(ctx)
	ids.Request = id

	return ContextWithTraceIDs(ctx, ids)
}

func withCorrelationID(ctx context.Context, id string) context.Context {
	ids := TraceIDsFromContext(ctx)
	ids.Correlation = id

	return ContextWithTraceIDs(ctx, ids)
}
