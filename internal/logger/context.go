package logger

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
	tenantIDKey  contextKey = "tenant_id"
)

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithUserID stores the authenticated user ID in the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// WithTenantID stores the business (tenant) ID in the context.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func GetUserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// FromContext returns a logger pre-populated with request_id, user_id and
// tenant_id when present in the context.
func FromContext(ctx context.Context) *slog.Logger {
	l := GetLogger()
	if v := GetRequestID(ctx); v != "" {
		l = l.With("request_id", v)
	}
	if v := GetUserID(ctx); v != "" {
		l = l.With("user_id", v)
	}
	if v, ok := ctx.Value(tenantIDKey).(string); ok && v != "" {
		l = l.With("tenant_id", v)
	}
	return l
}

// CtxInfo logs at info level with context fields attached.
func CtxInfo(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

// CtxWarn logs at warn level with context fields attached.
func CtxWarn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

// CtxError logs at error level with context fields attached.
func CtxError(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Error(msg, args...)
}

// CtxWithError logs an error value with context fields attached.
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	all := append([]any{"error", err}, args...)
	FromContext(ctx).Error(msg, all...)
}
