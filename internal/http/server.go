// Package http serves the upload form, the on-screen summary and the
// Excel download for the CDP debt export.
package http

import (
	"context"
	"html/template"
	"net/http"

	"dividas/internal/log"
	"dividas/internal/middleware"
	"dividas/internal/services"
	appweb "dividas/web"
)

type Server struct {
	http.Server
	templates      *template.Template
	summary        *services.SummaryService
	maxUploadBytes int64
	limiter        *middleware.Limiter
	logger         *log.Logger
}

// NewServer wires the handlers. maxUploadMB bounds the accepted upload
// size; larger files are rejected without partial processing.
func NewServer(addr string, summary *services.SummaryService, maxUploadMB int) *Server {
	s := &Server{
		templates:      template.Must(template.ParseFS(appweb.TemplatesFS, "templates/*.html")),
		summary:        summary,
		maxUploadBytes: int64(maxUploadMB) << 20,
		limiter:        middleware.NewLimiter(middleware.DefaultLimiterConfig()),
		logger:         log.Default(log.ComponentHTTP),
	}

	// Only the upload endpoint is rate limited; it fans out into PTAX
	// lookups.
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.Handle("/resumo", s.limiter.Middleware(nil)(http.HandlerFunc(s.handleSummary)))
	mux.HandleFunc("/health", s.handleHealth)

	var handler http.Handler = mux
	handler = middleware.SecurityHeaders(middleware.DefaultHeadersConfig())(handler)
	handler = middleware.Trace(s.logger)(handler)
	handler = s.withRecovery(handler)

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}
	return s
}

// MaxUploadMB reports the configured upload cap in megabytes.
func (s *Server) MaxUploadMB() int64 {
	return s.maxUploadBytes >> 20
}

// withRecovery catches anything unclassified that escapes a handler and
// turns it into the generic processing failure page.
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.ErrorContext(r.Context(), "Falha inesperada no processamento",
					log.FieldMethod, r.Method,
					log.FieldPath, r.URL.Path,
					log.FieldError, rec)
				s.renderIndex(w, http.StatusInternalServerError, indexData{
					MaxUploadMB: s.MaxUploadMB(),
					Error:       "Erro ao processar o arquivo. Verifique se está no formato correto exportado do CDP.",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the HTTP server gracefully and releases the rate
// limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}
