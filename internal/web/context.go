package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/registros/internal/core"
)

// WithRequestMetadata adds the client IP to ctx for the import history.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithIPAddress(ctx, clientIP(r))
}
