package middleware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"

	"github.com/frahmantamala/garments-tracker/pkg/logger"
)

const TraceIDHeader = "X-Trace-ID"

// RequestID seeds the request context with lg tagged by a trace id. A client supplied
// X-Trace-ID wins, then chi's request id, then a fresh uuid.
func RequestID(lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(TraceIDHeader)
			if traceID == "" {
				traceID = middleware.GetReqID(r.Context())
			}
			if traceID == "" {
				traceID = uuid.NewString()
			}

			ctx := logger.NewContext(r.Context(), logger.FromOr(r.Context(), lg).With("traceID", traceID))
			w.Header().Set(TraceIDHeader, traceID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
