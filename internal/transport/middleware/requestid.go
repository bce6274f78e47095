package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/frahmantamala/leave-approval/pkg/logger"
)

const TraceIDHeader = "X-Trace-ID"

// RequestID propagates the caller's trace id or mints one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if traceID == "" || len(traceID) > 128 {
			traceID = uuid.NewString()
		}

		ctx := logger.WithTraceID(r.Context(), traceID)
		w.Header().Set(TraceIDHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
