package core

import "context"

type contextKey string

const ctxKeyRequestMeta contextKey = "request_meta"

// RequestMeta describes the client behind a request. It is attached to log
// entries for writes so a submission can be traced to its origin.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// ContextWithRequestMeta attaches client metadata to ctx.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, ctxKeyRequestMeta, meta)
}

// RequestMetaFromContext returns the metadata stored in ctx, if any.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(ctxKeyRequestMeta).(RequestMeta); ok {
		return v
	}
	return RequestMeta{}
}
