package middleware

import "context"

type contextKey string

const (
	ctxActor    contextKey = "actor"
	ctxDriverID contextKey = "driver_id"
)

func ActorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxActor).(string); ok {
		return v
	}
	return ""
}

func DriverIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxDriverID).(string); ok {
		return v
	}
	return ""
}

// WithActor injects the acting back-office user into the context.
func WithActor(ctx context.Context, actor string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

// WithDriverID injects the authenticated driver identifier into the context.
func WithDriverID(ctx context.Context, driverID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxDriverID, driverID)
}
