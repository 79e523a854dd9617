// Package middleware holds HTTP middleware shared by every route.
package middleware

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/storefront-labs/storefront-api/internal/api/shared"
	"github.com/storefront-labs/storefront-api/internal/platform/logger"
)

// Incoming trace IDs are reused only when they look like ours.
var validTraceID = regexp.MustCompile(`^[A-Za-z0-9-]{8,64}$`)

// Trace adds a trace ID to the request context, echoes it in the
// X-Trace-ID response header, and puts a logger carrying it in the
// context. An acceptable X-Trace-ID request header is reused.
func Trace(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(shared.TraceIDHeader)
			if !validTraceID.MatchString(traceID) {
				traceID = shared.NewTraceID()
			}

			log := base.With(slog.String("trace_id", traceID))
			ctx := shared.WithTraceID(r.Context(), traceID)
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			w.Header().Set(shared.TraceIDHeader, traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
