package main

import (
	"github.com/foreteller/foreteller/internal/logger"
	"github.com/foreteller/foreteller/reading"
	"github.com/foreteller/foreteller/reportlog"
)

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest = reading.BirthInput

// CompatibilityRequest is the body of POST /api/compatibility.
type CompatibilityRequest = reading.CompatibilityInput

// TranslateRequest is the body of POST /api/translate.
type TranslateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"targetLang"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status               string          `json:"status"`
	CompletionConfigured bool            `json:"completionConfigured"`
	ReportLog            string          `json:"reportLog"`
	Counters             logger.Counters `json:"counters"`
}

// ReportsResponse is returned by GET /api/reports.
type ReportsResponse struct {
	Reports []*reportlog.Entry `json:"reports"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
