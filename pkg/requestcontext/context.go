// Package requestcontext carries request-scoped values from middleware to
// services without importing net/http.
//
//	actor := requestcontext.ActorID(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests inject values directly:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithActor(ctx, "engineer-1", "engineer")
package requestcontext

import (
	"context"
	"slices"
	"time"
)

type key int

const (
	actorKey key = iota
	rolesKey
	clientIPKey
	userAgentKey
	deviceKey
	requestIDKey
	requestTimeKey
)

func value[T any](ctx context.Context, k key) (T, bool) {
	v, ok := ctx.Value(k).(T)
	return v, ok
}

func str(ctx context.Context, k key) string {
	v, _ := value[string](ctx, k)
	return v
}

// ActorID is the authenticated staff member, or "" outside a request.
func ActorID(ctx context.Context) string { return str(ctx, actorKey) }

func Roles(ctx context.Context) []string {
	roles, _ := value[[]string](ctx, rolesKey)
	return roles
}

func HasRole(ctx context.Context, role string) bool {
	return slices.Contains(Roles(ctx), role)
}

func WithActor(ctx context.Context, actorID string, roles ...string) context.Context {
	ctx = context.WithValue(ctx, actorKey, actorID)
	return context.WithValue(ctx, rolesKey, roles)
}

func ClientIP(ctx context.Context) string { return str(ctx, clientIPKey) }

func UserAgent(ctx context.Context) string { return str(ctx, userAgentKey) }

// Device is the parsed User-Agent summary, e.g. "Safari 17 on iOS".
func Device(ctx context.Context) string { return str(ctx, deviceKey) }

func WithClientMetadata(ctx context.Context, clientIP, userAgent, device string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey, clientIP)
	ctx = context.WithValue(ctx, userAgentKey, userAgent)
	return context.WithValue(ctx, deviceKey, device)
}

func RequestID(ctx context.Context) string { return str(ctx, requestIDKey) }

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// Now is the time the request was accepted. Outside a request (workers, CLI)
// it falls back to the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := value[time.Time](ctx, requestTimeKey); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}
