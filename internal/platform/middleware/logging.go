package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/mssola/useragent"

	"flowmint/pkg/requestcontext"
)

// Logger logs one line per request after it completes.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			ctx := r.Context()
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(ctx, level, "http request",
				"request_id", requestcontext.RequestID(ctx),
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"client_ip", requestcontext.ClientIP(ctx),
				"browser", browserName(r.UserAgent()),
			)
		})
	}
}

func browserName(ua string) string {
	if ua == "" {
		return ""
	}
	parsed := useragent.New(ua)
	if parsed.Bot() {
		return "bot"
	}
	name, _ := parsed.Browser()
	return name
}

// Recovery turns handler panics into 500 responses.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					ctx := r.Context()
					logger.ErrorContext(ctx, "panic recovered",
						"request_id", requestcontext.RequestID(ctx),
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":"internal_error"}`))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
