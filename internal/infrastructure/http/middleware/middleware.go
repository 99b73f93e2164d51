// Package middleware provides HTTP middleware components
// following the Chain of Responsibility pattern
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/alchemorsel/flavorgraph/pkg/errors"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds a client supplied request id
const maxRequestIDLength = 128

// RequestID assigns a request id with chi's RequestID middleware, reusing
// a client supplied X-Request-ID when it is short enough, and echoes it on
// the response.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(RequestIDHeader, chimiddleware.GetReqID(r.Context()))
			next.ServeHTTP(w, r)
		})
		withID := chimiddleware.RequestID(echo)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.Header.Get(RequestIDHeader)) > maxRequestIDLength {
				r = r.Clone(r.Context())
				r.Header.Del(RequestIDHeader)
			}
			withID.ServeHTTP(w, r)
		})
	}
}

// GetRequestID returns the request id stored by RequestID, or ""
func GetRequestID(ctx context.Context) string {
	return chimiddleware.GetReqID(ctx)
}

// Logger provides structured logging for requests. Paths in skip are not
// logged.
func Logger(logger *zap.Logger, skip ...string) func(http.Handler) http.Handler {
	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipped[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w}

			next.ServeHTTP(ww, r)

			if skipped[r.URL.Path] {
				return
			}

			status := ww.Status()
			fields := []zap.Field{
				zap.String("request_id", GetRequestID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status", status),
				zap.Int("bytes", ww.bytes),
				zap.Duration("duration", time.Since(start)),
				zap.String("user_agent", r.UserAgent()),
			}

			switch {
			case status >= 500:
				logger.Error("Server error", fields...)
			case status >= 400:
				logger.Warn("Client error", fields...)
			default:
				logger.Info("Request completed", fields...)
			}
		})
	}
}

// Recovery recovers from panics, logs the stack through zap and answers with
// the JSON error body. chi's Recoverer is not used because it writes a bare
// 500 and prints the stack to stderr.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("Panic recovered",
						zap.String("request_id", GetRequestID(r.Context())),
						zap.Any("error", rec),
						zap.String("stack", string(debug.Stack())),
					)
					WriteError(w, r, errors.NewInternalError("Internal server error"))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// WriteError writes an AppError as the standard JSON error body
func WriteError(w http.ResponseWriter, r *http.Request, appErr *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	_ = json.NewEncoder(w).Encode(errors.ToErrorResponse(appErr, GetRequestID(r.Context())))
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

func (rw *responseWriter) Status() int {
	if rw.status == 0 {
		return http.StatusOK
	}
	return rw.status
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
