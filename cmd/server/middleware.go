package main

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/foreteller/foreteller/internal/logger"
)

const slowRequestThreshold = 10 * time.Second

// requestLogger logs every request and feeds the HTTP counters.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed.String(),
			"requestId", middleware.GetReqID(r.Context()),
		}

		switch {
		case status >= 500:
			logger.ErrorHttp5xx()
			logger.Error("request", args...)
		case status >= 400:
			logger.WarnHttp4xx(status)
			logger.Warn("request", args...)
		default:
			logger.Info("request", args...)
		}

		if elapsed > slowRequestThreshold {
			logger.WarnSlowRequest()
			logger.Warn("slow request", "path", r.URL.Path, "duration", elapsed.String())
		}
	})
}

// recoverer turns a panic into a JSON 500.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic recovered", "panic", rec, "stack", string(debug.Stack()))
				respondError(w, http.StatusInternalServerError, "Internal Server Error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
