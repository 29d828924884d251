package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/foreteller/foreteller/internal/logger"
	"github.com/foreteller/foreteller/reading"
	"github.com/foreteller/foreteller/reportlog"
)

const (
	defaultReportsLimit = 50
	maxReportsLimit     = 500
	maxBodyBytes        = 1 << 20
)

type Server struct {
	service       *reading.Service
	reports       reportlog.Store
	reportBackend string
	router        *chi.Mux
}

// NewServer builds the router. reports may be nil, in which case
// GET /api/reports always returns an empty list.
func NewServer(service *reading.Service, reports reportlog.Store, reportBackend string, requestTimeout time.Duration) *Server {
	s := &Server{
		service:       service,
		reports:       reports,
		reportBackend: reportBackend,
	}
	s.setupRoutes(requestTimeout)
	return s
}

func (s *Server) setupRoutes(requestTimeout time.Duration) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/reports", s.handleReports)

		r.Post("/analyze", s.handleAnalyze)
		r.Post("/compatibility", s.handleCompatibility)
		r.Post("/translate", s.handleTranslate)
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:               "ok",
		CompletionConfigured: s.service.CompletionConfigured(),
		ReportLog:            s.reportBackend,
		Counters:             logger.Snapshot(),
	})
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	limit := defaultReportsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer", nil)
			return
		}
		limit = min(n, maxReportsLimit)
	}

	entries := []*reportlog.Entry{}
	if s.reports != nil {
		recent, err := s.reports.Recent(r.Context(), limit)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to list reports", err)
			return
		}
		if recent != nil {
			entries = recent
		}
	}

	respondJSON(w, http.StatusOK, ReportsResponse{Reports: entries})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.service.Analyze(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompatibility(w http.ResponseWriter, r *http.Request) {
	var req CompatibilityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.service.Compatibility(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.service.Translate(r.Context(), req.Text, req.TargetLang)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

// respondServiceError maps reading errors onto status codes.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reading.ErrDateRequired):
		respondError(w, http.StatusBadRequest, "Date is required", nil)
	case errors.Is(err, reading.ErrPartnerDateRequired):
		respondError(w, http.StatusBadRequest, "Both partners need a date", nil)
	case errors.Is(err, reading.ErrTextRequired):
		respondError(w, http.StatusBadRequest, "Text is required", nil)
	case errors.Is(err, reading.ErrCompletionUnavailable):
		respondError(w, http.StatusServiceUnavailable, "Translation service is not configured", nil)
	case errors.Is(err, reading.ErrCompletionFailed):
		respondError(w, http.StatusBadGateway, "Translation failed", nil)
	default:
		logger.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error", nil)
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to write response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := ErrorResponse{Error: message}
	if err != nil {
		response.Details = err.Error()
	}
	respondJSON(w, status, response)
}
