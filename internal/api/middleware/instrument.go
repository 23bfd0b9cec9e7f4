package middleware

import (
	"net/http"
	"time"
)

// Instrument reports every request to the given hooks: onStart before the
// handler runs, onDone with the final status and latency afterwards.
// Either hook may be nil.
func Instrument(onStart func(), onDone func(status int, latency time.Duration)) func(http.Handler) http.Handler {
	if onStart == nil {
		onStart = func() {}
	}
	if onDone == nil {
		onDone = func(int, time.Duration) {}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			onStart()
			defer func() { onDone(wrapped.status, time.Since(start)) }()

			next.ServeHTTP(wrapped, r)
		})
	}
}
