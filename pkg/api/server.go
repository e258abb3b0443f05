package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/clauseguard/clauseguard/pkg/classification"
	"github.com/clauseguard/clauseguard/pkg/observability"
	"github.com/clauseguard/clauseguard/pkg/services"
	"github.com/clauseguard/clauseguard/pkg/templates"
)

// ClassificationAPIServer exposes the engine over HTTP. Upstream systems
// submit extracted clauses here; persistence and review UIs consume the
// JSON results downstream.
type ClassificationAPIServer struct {
	classificationSvc *services.ClassificationService
}

// NewServer creates the API server around a classification service.
func NewServer(svc *services.ClassificationService) *ClassificationAPIServer {
	return &ClassificationAPIServer{classificationSvc: svc}
}

// ClassifyRequest is a single-clause classification request.
type ClassifyRequest struct {
	ClauseText   string `json:"clause_text"`
	Attribute    string `json:"attribute"`
	Jurisdiction string `json:"jurisdiction"`
	Sequence     int    `json:"sequence,omitempty"`
}

// BatchClassifyRequest carries an ordered clause list. The response entries
// correspond to the request clauses by index.
type BatchClassifyRequest struct {
	Clauses []ClassifyRequest `json:"clauses"`
}

// FeedbackRequest records a reviewer's corrected label for one clause.
type FeedbackRequest struct {
	ClauseID       string `json:"clause_id"`
	Jurisdiction   string `json:"jurisdiction"`
	Attribute      string `json:"attribute"`
	CorrectedLabel string `json:"corrected_label"`
	ReviewerNote   string `json:"reviewer_note,omitempty"`
}

// HealthResponse reports process liveness and loaded template count.
type HealthResponse struct {
	Status    string `json:"status"`
	Templates int    `json:"templates"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler builds the HTTP mux with all API routes.
func (s *ClassificationAPIServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/classify", s.handleClassify)
	mux.HandleFunc("/api/v1/classify/batch", s.handleClassifyBatch)
	mux.HandleFunc("/api/v1/feedback", s.handleFeedback)
	return mux
}

// Start runs the API server on the given port, blocking until it exits.
func (s *ClassificationAPIServer) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	observability.Infof("Classification API listening on %s", addr)
	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	return server.ListenAndServe()
}

func (s *ClassificationAPIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Templates: s.classificationSvc.TemplateCount(),
	})
}

func (s *ClassificationAPIServer) handleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	result, err := s.classificationSvc.Classify(r.Context(), clauseFromRequest(req))
	if err != nil {
		writeClassificationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *ClassificationAPIServer) handleClassifyBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req BatchClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(req.Clauses) == 0 {
		writeJSONError(w, http.StatusBadRequest, "clauses cannot be empty")
		return
	}

	clauses := make([]classification.Clause, len(req.Clauses))
	for i, c := range req.Clauses {
		clauses[i] = clauseFromRequest(c)
	}

	batch := s.classificationSvc.ClassifyBatch(r.Context(), clauses)
	writeJSON(w, http.StatusOK, batch)
}

func (s *ClassificationAPIServer) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.ClauseID == "" {
		writeJSONError(w, http.StatusBadRequest, "clause_id is required")
		return
	}
	switch classification.Verdict(req.CorrectedLabel) {
	case classification.VerdictStandard, classification.VerdictNonStandard, classification.VerdictAmbiguous:
	default:
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown corrected_label %q", req.CorrectedLabel))
		return
	}

	err := s.classificationSvc.RecordFeedback(r.Context(), services.Feedback{
		ClauseID:       req.ClauseID,
		Jurisdiction:   req.Jurisdiction,
		Attribute:      req.Attribute,
		CorrectedLabel: classification.Verdict(req.CorrectedLabel),
		ReviewerNote:   req.ReviewerNote,
		ReceivedAt:     time.Now().UTC(),
	})
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to record feedback: %v", err))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func clauseFromRequest(req ClassifyRequest) classification.Clause {
	return classification.Clause{
		Text:         req.ClauseText,
		Attribute:    req.Attribute,
		Jurisdiction: req.Jurisdiction,
		Sequence:     req.Sequence,
	}
}

func writeClassificationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, templates.ErrMissingTemplate):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, classification.ErrEmptyClause):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		observability.Errorf("Classification failed: %v", err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		observability.Errorf("Failed to encode response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
