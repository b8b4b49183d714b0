package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"coursecloud/pkg/requestcontext"
)

// RequestID assigns each request a UUID (or honors an inbound X-Request-Id)
// and records the arrival time so every layer observes one timestamp.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		ctx = requestcontext.WithTime(ctx, time.Now())
		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
