package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			entry := log.WithField("method", r.Method)
			// otelmux runs first, so the request span is already in the context
			if spanCtx := trace.SpanContextFromContext(r.Context()); spanCtx.HasTraceID() {
				entry = entry.WithField("trace_id", spanCtx.TraceID().String())
			}
			entry.Tracef(" ====> request path: [%s] [UA: %s]", r.URL.Path, r.Header.Get("User-Agent"))
			next.ServeHTTP(w, r)
		})
	}
}
