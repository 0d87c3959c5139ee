package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/medipulse/medipulse-api/ai"
	"github.com/medipulse/medipulse-api/config"
)

// AI exported for testing purposes
type AI struct {
	Assistant ai.Assistant
}

// available rejects requests when no assistant is configured
func (a AI) available(w http.ResponseWriter) bool {
	if a.Assistant == nil {
		config.ErrorStatus("AI assistant is not configured", http.StatusServiceUnavailable, w,
			fmt.Errorf("AI_API_KEY is unset"))
		return false
	}
	return true
}

// SummarizeReportHandler produces a patient-friendly summary of a medical report
func (a AI) SummarizeReportHandler(w http.ResponseWriter, r *http.Request) {
	if !a.available(w) {
		return
	}

	var req struct {
		ReportText string `json:"reportText"`
		ReportType string `json:"reportType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.ReportText == "" {
		config.ErrorStatus("reportText is required", http.StatusBadRequest, w,
			fmt.Errorf("missing required field"))
		return
	}

	summary, err := a.Assistant.SummarizeReport(r.Context(), req.ReportText, req.ReportType)
	if err != nil {
		config.ErrorStatus("failed to summarize report", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(map[string]string{
		"summary":        summary,
		"originalReport": req.ReportText,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ChatHandler answers general health questions
func (a AI) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if !a.available(w) {
		return
	}

	var req struct {
		Message string `json:"message"`
		Context string `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Message == "" {
		config.ErrorStatus("message is required", http.StatusBadRequest, w,
			fmt.Errorf("missing required field"))
		return
	}

	zap.S().Debugf("ai chat message length: %d", len(req.Message))

	resp, err := a.Assistant.Chat(r.Context(), req.Message, req.Context)
	if err != nil {
		config.ErrorStatus("failed to get chat response", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(map[string]string{
		"response":  resp,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ExplainTermsHandler explains medical terminology in plain language
func (a AI) ExplainTermsHandler(w http.ResponseWriter, r *http.Request) {
	if !a.available(w) {
		return
	}

	var req struct {
		Terms []string `json:"terms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if len(req.Terms) == 0 {
		config.ErrorStatus("terms is required", http.StatusBadRequest, w,
			fmt.Errorf("missing required field"))
		return
	}

	explanations, err := a.Assistant.ExplainTerms(r.Context(), req.Terms)
	if err != nil {
		config.ErrorStatus("failed to explain terms", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(map[string]interface{}{
		"explanations": explanations,
		"terms":        req.Terms,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
