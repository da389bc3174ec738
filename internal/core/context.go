package core

import "context"

type contextKey string

const ctxKeyIPAddress contextKey = "client_ip"

// ContextWithIPAddress attaches the client IP recorded in the import history.
func ContextWithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyIPAddress, ip)
}

// GetIPAddressFromContext extracts the client IP, or "".
func GetIPAddressFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyIPAddress).(string); ok {
		return v
	}
	return ""
}
