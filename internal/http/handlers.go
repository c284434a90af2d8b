package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dividas/internal/core"
	"dividas/internal/ingest"
	"dividas/internal/log"
	"dividas/internal/report"
)

type indexData struct {
	MaxUploadMB int64
	Error       string
	Warning     string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.renderIndex(w, http.StatusOK, indexData{MaxUploadMB: s.MaxUploadMB()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Headroom over the file cap for the multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.renderIndex(w, http.StatusRequestEntityTooLarge, indexData{
				MaxUploadMB: s.MaxUploadMB(),
				Error:       fmt.Sprintf("Arquivo muito grande. Tamanho máximo: %dMB", s.MaxUploadMB()),
			})
			return
		}
		s.renderIndex(w, http.StatusBadRequest, indexData{
			MaxUploadMB: s.MaxUploadMB(),
			Error:       "Requisição inválida: envie o arquivo CSV exportado do CDP.",
		})
		return
	}

	file, header, err := r.FormFile("arquivo")
	if err != nil {
		s.renderIndex(w, http.StatusBadRequest, indexData{
			MaxUploadMB: s.MaxUploadMB(),
			Error:       "Nenhum arquivo enviado. Selecione o arquivo CSV exportado do CDP.",
		})
		return
	}
	defer file.Close()

	if header.Size > s.maxUploadBytes {
		s.renderIndex(w, http.StatusRequestEntityTooLarge, indexData{
			MaxUploadMB: s.MaxUploadMB(),
			Error: fmt.Sprintf("Arquivo muito grande (%.1fMB). Tamanho máximo: %dMB",
				float64(header.Size)/(1<<20), s.MaxUploadMB()),
		})
		return
	}

	s.logger.InfoContext(r.Context(), "Processando arquivo",
		log.FieldFileName, header.Filename,
		log.FieldFileSizeMB, fmt.Sprintf("%.2f", float64(header.Size)/(1<<20)))

	ds, err := ingest.Parse(file)
	if err != nil {
		var verr *ingest.ValidationError
		if errors.As(err, &verr) {
			s.renderIndex(w, http.StatusUnprocessableEntity, indexData{
				MaxUploadMB: s.MaxUploadMB(),
				Error:       "Erro de validação: " + verr.Error(),
			})
			return
		}
		s.logger.ErrorContext(r.Context(), "Erro ao ler arquivo",
			log.FieldFileName, header.Filename,
			log.FieldError, err)
		s.renderIndex(w, http.StatusInternalServerError, indexData{
			MaxUploadMB: s.MaxUploadMB(),
			Error:       "Erro ao processar o arquivo. Verifique se está no formato correto exportado do CDP.",
		})
		return
	}

	sum, err := s.summary.BuildSummary(r.Context(), ds.Records)
	if err != nil {
		if errors.Is(err, core.ErrNoRecords) {
			s.renderIndex(w, http.StatusOK, indexData{
				MaxUploadMB: s.MaxUploadMB(),
				Warning:     "Nenhum registro encontrado que atenda aos critérios.",
			})
			return
		}
		s.logger.ErrorContext(r.Context(), "Erro no processamento",
			log.FieldFileName, header.Filename,
			log.FieldError, err)
		s.renderIndex(w, http.StatusInternalServerError, indexData{
			MaxUploadMB: s.MaxUploadMB(),
			Error:       "Erro ao processar o arquivo. Verifique se está no formato correto exportado do CDP.",
		})
		return
	}

	if r.FormValue("formato") == "xlsx" {
		s.serveWorkbook(w, r, ds, sum)
		return
	}
	s.renderSummary(w, sum)
}

func (s *Server) serveWorkbook(w http.ResponseWriter, r *http.Request, ds *ingest.Dataset, sum *core.Summary) {
	wb, err := report.Workbook(ds, sum)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Erro ao gerar planilha", log.FieldError, err)
		s.renderIndex(w, http.StatusInternalServerError, indexData{
			MaxUploadMB: s.MaxUploadMB(),
			Error:       "Erro ao gerar a planilha Excel.",
		})
		return
	}
	defer wb.Close()

	filename := report.Filename(s.summary.Now())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := wb.Write(w); err != nil {
		s.logger.ErrorContext(r.Context(), "Erro ao enviar planilha", log.FieldError, err)
	}
}

func (s *Server) renderIndex(w http.ResponseWriter, status int, data indexData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("Erro ao renderizar página", log.FieldError, err)
	}
}

func (s *Server) renderSummary(w http.ResponseWriter, sum *core.Summary) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := s.templates.ExecuteTemplate(w, "resumo.html", buildSummaryView(sum, s.summary.Now())); err != nil {
		s.logger.Error("Erro ao renderizar resumo", log.FieldError, err)
	}
}
