package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"triage-assistant/internal/fhir"
	"triage-assistant/internal/store"
	"triage-assistant/internal/summary"
	"triage-assistant/pkg"
)

const maxBundleBytes = 32 << 20 // Synthea exports run large

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIngestRecords accepts one FHIR Bundle, summarizes it and stores the
// patient's full document set in a single upsert.
func (s *Server) handleIngestRecords(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBundleBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	bundle, err := fhir.ParseBundle(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.summarizer.Summarize(bundle)
	if err != nil {
		if errors.Is(err, fhir.ErrNoPatient) {
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error("summarize failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to summarize records")
		return
	}

	if err := s.docs.PutAll(r.Context(), result.ScopeKey, result.Documents); err != nil {
		s.logger.Error("store write failed", zap.String("scope", result.ScopeKey), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to store summaries")
		return
	}

	s.writeJSON(w, http.StatusCreated, pkg.IngestResult{
		ScopeKey:       result.ScopeKey,
		PatientID:      result.PatientID,
		PatientName:    result.PatientName,
		TotalDocuments: len(result.Documents),
		DocumentTypes:  result.Keys(),
	})
}

func (s *Server) handleListPatients(w http.ResponseWriter, r *http.Request) {
	previews, err := s.docs.ListScopes(r.Context())
	if err != nil {
		s.logger.Error("list patients failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to list patients")
		return
	}
	if previews == nil {
		previews = []pkg.PatientPreview{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"patients": previews,
		"total":    len(previews),
	})
}

// handlePatientHistory returns the joined summary text the scorer would see
// for this patient, for dashboard display.
func (s *Server) handlePatientHistory(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	scope := summary.ScopeKey(patientID)

	if _, err := s.docs.Get(r.Context(), scope, pkg.DocPatientInformation); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "patient not found")
			return
		}
		s.logger.Error("history lookup failed", zap.String("scope", scope), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	history := s.triage.AssembleHistory(r.Context(), scope)
	s.writeJSON(w, http.StatusOK, map[string]string{
		"patient_id": patientID,
		"history":    history,
	})
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	scope := summary.ScopeKey(chi.URLParam(r, "patientID"))
	key := chi.URLParam(r, "summaryKey")

	doc, err := s.docs.Get(r.Context(), scope, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "summary not found")
			return
		}
		s.logger.Error("summary lookup failed", zap.String("scope", scope), zap.String("key", key), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load summary")
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

type updateWeightRequest struct {
	WeightKg float64 `json:"weight_kg" validate:"required,gt=0"`
}

// handleUpdateWeight rewrites the weight line of the stored vitals summary
// and recomputes the BMI when a height is present.
func (s *Server) handleUpdateWeight(w http.ResponseWriter, r *http.Request) {
	var req updateWeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, http.StatusBadRequest, "weight_kg must be a positive number")
		return
	}

	scope := summary.ScopeKey(chi.URLParam(r, "patientID"))
	doc, err := s.docs.Get(r.Context(), scope, pkg.DocRecentVitals)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "vitals summary not found")
			return
		}
		s.logger.Error("vitals lookup failed", zap.String("scope", scope), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load vitals")
		return
	}

	text, meta := summary.UpdateWeight(doc.Text, doc.Metadata, req.WeightKg)
	if err := s.docs.Update(r.Context(), scope, pkg.DocRecentVitals, text, meta); err != nil {
		s.logger.Error("vitals update failed", zap.String("scope", scope), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to update vitals")
		return
	}

	s.writeJSON(w, http.StatusOK, pkg.Summary{Key: pkg.DocRecentVitals, Text: text, Metadata: meta})
}

// handleTriage scores one presentation.  Model failures still return a
// usable default assessment, so this handler only rejects bad input.
func (s *Server) handleTriage(w http.ResponseWriter, r *http.Request) {
	var req pkg.TriageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, http.StatusBadRequest, "current_symptoms is required")
		return
	}

	assessment := s.triage.Assess(r.Context(), req)
	s.writeJSON(w, http.StatusOK, pkg.TriageResponse{Success: true, Assessment: &assessment})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("response encode failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{"success": false, "error": message})
}
