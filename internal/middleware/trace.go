// Package middleware holds the HTTP middleware chain for the upload
// service: request tracing, security headers and upload rate limiting.
package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"dividas/internal/log"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// Trace assigns each request an ID, logs start and completion and
// records the response status. 4xx responses log at Warn, 5xx at Error.
func Trace(logger *log.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default(log.ComponentHTTP)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := generateRequestID()
			ctx := context.WithValue(r.Context(), requestIDKey, requestID)
			r = r.WithContext(ctx)

			logger.DebugContext(ctx, "Requisição recebida",
				log.FieldRequestID, requestID,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldClientIP, ClientIP(r))

			rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			level := slog.LevelInfo
			if rw.status >= 500 {
				level = slog.LevelError
			} else if rw.status >= 400 {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "Requisição atendida",
				log.FieldComponent, logger.Component(),
				log.FieldRequestID, requestID,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldStatusCode, rw.status,
				log.FieldDuration, time.Since(start).Milliseconds())
		})
	}
}

// statusWriter captures the response status code for logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(buf)
}

// RequestID extracts the request ID placed in the context by Trace.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ClientIP resolves the client address, honouring the first entry of
// X-Forwarded-For when the service runs behind a proxy.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
