package middlewares

import (
	"context"
	"net/http"

	"github.com/btcpeg/custody-api-service/internal/config"
	"github.com/btcpeg/custody-api-service/internal/types"
)

type callerContextKey string

const CallerKey = callerContextKey("requestCaller")

const apiKeyHeader = "X-Api-Key"

// AuthMiddleware resolves the X-Api-Key header into a caller identity and
// attaches it to the request context. Requests without a key, or with an
// unknown key, proceed with no caller; role checks in the service layer
// reject them on mutating operations.
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(apiKeyHeader)
			if key != "" {
				if caller := cfg.Auth.CallerForKey(key); caller != nil {
					ctx := context.WithValue(r.Context(), CallerKey, caller)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CallerFromContext returns the authenticated caller, or nil for anonymous
// requests.
func CallerFromContext(ctx context.Context) *types.Caller {
	caller, ok := ctx.Value(CallerKey).(*types.Caller)
	if !ok {
		return nil
	}
	return caller
}
