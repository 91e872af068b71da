package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// requestLogger attaches a request-scoped logger to the context and logs
// each request once it has been handled.
func requestLogger(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			l := base.With().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote", r.RemoteAddr).
				Logger()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(l.WithContext(r.Context())))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			// skip logging healthy checks and static assets
			if status < 400 && (r.URL.Path == HealthCheckRoute || isStatic(r.URL.Path)) {
				return
			}

			l.Info().
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request.handled")
		})
	}
}

func isStatic(path string) bool {
	return strings.HasPrefix(path, staticPrefix)
}
