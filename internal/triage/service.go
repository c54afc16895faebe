// Package triage turns a patient presentation into a 1-5 ESI score with a
// structured rationale.  The score comes from a language model; everything
// around it (history assembly, output repair, validation, fallback) keeps
// the endpoint deterministic when the model misbehaves.
package triage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"triage-assistant/internal/llm"
	"triage-assistant/internal/recall"
	"triage-assistant/internal/store"
	"triage-assistant/internal/summary"
	"triage-assistant/pkg"
)

// historyKeys is the fixed fetch order for building the patient context
// block. Missing documents are skipped.
var historyKeys = []string{
	pkg.DocPatientInformation,
	pkg.DocActiveConditions,
	pkg.DocCurrentMedications,
	pkg.DocPastConditions,
	pkg.DocPastMedications,
	pkg.DocRecentVitals,
	pkg.DocRecentLabs,
	pkg.DocProcedures,
}

// Service scores presentations and records the outcome for later recall.
type Service struct {
	llm    llm.Client
	docs   store.DocumentStore
	memory *recall.Memory
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires the scorer. The document store may be nil when callers
// always supply history inline.
func NewService(client llm.Client, docs store.DocumentStore, memory *recall.Memory, logger *zap.Logger) *Service {
	return &Service{llm: client, docs: docs, memory: memory, logger: logger, now: time.Now}
}

// Assess runs one scoring pass. It never returns an error for model
// failures; those produce a safe default assessment instead, so dashboards
// always receive a usable verdict.
func (s *Service) Assess(ctx context.Context, req pkg.TriageRequest) pkg.Assessment {
	// Documents and recall entries are stored under the sanitized scope
	// key, so the raw wire id must go through the same sanitizer here.
	scope := summary.ScopeKey(req.PatientID)

	history := req.History
	if history == "" && scope != "" {
		history = s.AssembleHistory(ctx, scope)
	}
	recallText := ""
	if s.memory != nil {
		recallText = s.memory.Text(ctx, scope)
	}

	userMsg := buildUserMessage(req.Symptoms, history, formatVitals(req.Vitals), recallText)

	raw, err := s.llm.Complete(ctx, SystemPrompt, userMsg)
	if err != nil {
		s.logger.Error("triage completion failed", zap.Error(err))
		return s.finish(ctx, scope, req.Symptoms, defaultAssessment(req.Symptoms, err.Error()))
	}

	assessment, err := parseAssessment(raw)
	if err != nil {
		s.logger.Warn("triage output unusable, using default",
			zap.Error(err), zap.Int("raw_len", len(raw)))
		return s.finish(ctx, scope, req.Symptoms, defaultAssessment(req.Symptoms, err.Error()))
	}
	return s.finish(ctx, scope, req.Symptoms, assessment)
}

// AssembleHistory joins the patient's stored summaries in the fixed order,
// skipping any document that was never generated.  The key is sanitized
// before lookup, so callers may pass either a raw patient id or a scope key.
func (s *Service) AssembleHistory(ctx context.Context, patientID string) string {
	if s.docs == nil {
		return ""
	}
	scope := summary.ScopeKey(patientID)
	var parts []string
	for _, key := range historyKeys {
		doc, err := s.docs.Get(ctx, scope, key)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				s.logger.Warn("history fetch failed",
					zap.String("scope", scope), zap.String("key", key), zap.Error(err))
			}
			continue
		}
		if doc.Text != "" {
			parts = append(parts, doc.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (s *Service) finish(ctx context.Context, scope, symptoms string, a pkg.Assessment) pkg.Assessment {
	a.ID = uuid.New().String()
	if s.memory != nil && scope != "" {
		s.memory.Remember(ctx, scope, pkg.RecallEntry{
			Timestamp:   s.now().UTC(),
			Symptoms:    symptoms,
			TriageScore: a.TriageScore,
		})
	}
	return a
}

func buildUserMessage(symptoms, history, vitals, recallText string) string {
	if history == "" {
		history = "No history provided"
	}
	if vitals == "" {
		vitals = "No vitals provided"
	}
	if recallText == "" {
		recallText = "No previous assessments"
	}
	return fmt.Sprintf(`Current Symptoms:
%s

Patient History:
%s

Current Vitals:
%s

Previous Assessments:
%s

Provide the triage assessment as a single JSON object.`, symptoms, history, vitals, recallText)
}

func formatVitals(vitals map[string]any) string {
	if len(vitals) == 0 {
		return ""
	}
	names := make([]string, 0, len(vitals))
	for name := range vitals {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s: %v", name, vitals[name]))
	}
	return strings.Join(lines, "\n")
}

func parseAssessment(raw string) (pkg.Assessment, error) {
	var a pkg.Assessment
	cleaned := RepairJSON(raw)
	if cleaned == "" {
		return a, errors.New("empty model response")
	}
	if err := json.Unmarshal([]byte(cleaned), &a); err != nil {
		return a, fmt.Errorf("decode assessment: %w", err)
	}
	if a.TriageScore < 1 || a.TriageScore > 5 {
		return a, fmt.Errorf("triage score %d outside 1-5", a.TriageScore)
	}
	return a, nil
}

// defaultAssessment is the mid-scale verdict returned when the model cannot
// be reached or its output cannot be salvaged. It escalates rather than
// reassures: immediate action is flagged so a failed automated pass never
// downgrades a patient. The triggering error is surfaced, truncated, in the
// concern and nursing notes; the raw symptoms carry through so the manual
// triager sees the presentation.
func defaultAssessment(symptoms, reason string) pkg.Assessment {
	return pkg.Assessment{
		TriageScore: 3,
		TriageLevel: "URGENT",
		Acuity:      "MODERATE",
		Summary: pkg.AssessmentSummary{
			PrimaryConcern:    fmt.Sprintf("System error: %s. Clinical evaluation required.", truncate(reason, 50)),
			ImmediateAction:   true,
			EstimatedWaitTime: "immediate",
		},
		ClinicalFindings: pkg.ClinicalFindings{
			PresentingSymptoms: []string{symptoms},
			VitalSigns: []string{
				"Unable to assess - system error",
				"Overall Status: Unknown - immediate evaluation needed",
			},
			RedFlags: []string{"System error - manual triage required"},
		},
		HistoryRelevance: pkg.HistoryRelevance{
			PertinentHistory: []string{"Unable to analyze - system error"},
			RiskFactors:      []string{"Unknown - requires clinical evaluation"},
		},
		ESIRationale: pkg.ESIRationale{
			DecisionPath: []string{
				"Step 1: Unable to assess",
				"Step 2: Defaulting to moderate urgency",
				"Step 3: Full evaluation required",
			},
			KeyFactors: []string{"System error requires clinical override"},
		},
		Resources: []string{
			"Immediate clinical evaluation",
			"Full vital signs assessment",
			"Manual triage required",
		},
		Recommendations: []string{
			"IMMEDIATE clinical evaluation required",
			"Do not rely on automated triage",
			"Escalate to charge nurse immediately",
		},
		SymptomProgression: pkg.SymptomProgression{
			Status:            "unknown",
			Comparison:        "Unable to assess due to system error",
			ConcerningChanges: []string{},
		},
		NursingNotes: []string{
			"CRITICAL: Automated triage error",
			"Manual triage required immediately",
			fmt.Sprintf("Error: %s", truncate(reason, 100)),
		},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
