package pkg

import "time"

// Metadata is the flat scalar map attached to every stored summary.  Values
// are limited to strings, numbers and booleans so the document store can
// filter on them directly.
type Metadata map[string]any

// Summary is one stored document for a patient: free text plus filterable
// metadata, addressed by a well-known key such as "active_conditions".
type Summary struct {
	Key      string   `json:"key"`
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}

// Well-known summary keys in the order documents are generated.  Consumers
// (the triage history assembly, dashboards) rely on these exact values.
const (
	DocPatientInformation = "patient_information"
	DocActiveConditions   = "active_conditions"
	DocPastConditions     = "past_conditions"
	DocCurrentMedications = "current_medications"
	DocPastMedications    = "past_medications"
	DocRecentVitals       = "recent_vitals"
	DocRecentLabs         = "recent_labs"
	DocImmunizations      = "immunizations"
	DocProcedures         = "procedures"
	DocAllergies          = "allergies"
	DocFamilyHistory      = "family_history"
	DocSocialHistory      = "social_history"
)

// IngestResult describes one processed record bundle.
type IngestResult struct {
	ScopeKey       string   `json:"scope_key"`
	PatientID      string   `json:"patient_id"`
	PatientName    string   `json:"patient_name"`
	TotalDocuments int      `json:"total_documents"`
	DocumentTypes  []string `json:"document_types"`
}

// PatientPreview is one row of the stored-patient listing consumed by the
// dashboard.
type PatientPreview struct {
	ScopeKey    string `json:"scope_key"`
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Gender      string `json:"gender"`
	LastUpdated string `json:"last_updated"`
}

// TriageRequest carries the inputs for one scoring run.  Symptoms are
// required; vitals are free-form scalar readings keyed by measurement name.
type TriageRequest struct {
	PatientID string         `json:"patient_id"`
	Symptoms  string         `json:"current_symptoms" validate:"required"`
	Vitals    map[string]any `json:"current_vitals"`
	History   string         `json:"history"`
}

// Assessment is the structured triage verdict parsed from the model output.
// The shape mirrors the JSON schema enforced by the instruction prompt.
type Assessment struct {
	ID                 string             `json:"assessment_id,omitempty"`
	TriageScore        int                `json:"triage_score"`
	TriageLevel        string             `json:"triage_level"`
	Acuity             string             `json:"acuity"`
	Summary            AssessmentSummary  `json:"assessment_summary"`
	ClinicalFindings   ClinicalFindings   `json:"clinical_findings"`
	HistoryRelevance   HistoryRelevance   `json:"patient_history_relevance"`
	ESIRationale       ESIRationale       `json:"esi_rationale"`
	Resources          []string           `json:"recommended_resources"`
	Recommendations    []string           `json:"clinical_recommendations"`
	SymptomProgression SymptomProgression `json:"symptom_progression"`
	NursingNotes       []string           `json:"nursing_notes"`
}

type AssessmentSummary struct {
	PrimaryConcern    string `json:"primary_concern"`
	ImmediateAction   bool   `json:"immediate_action_required"`
	EstimatedWaitTime string `json:"estimated_wait_time"`
}

type ClinicalFindings struct {
	PresentingSymptoms []string `json:"presenting_symptoms"`
	VitalSigns         []string `json:"vital_signs_assessment"`
	RedFlags           []string `json:"red_flags"`
}

type HistoryRelevance struct {
	PertinentHistory []string `json:"pertinent_history"`
	RiskFactors      []string `json:"risk_factors"`
}

type ESIRationale struct {
	DecisionPath []string `json:"decision_path"`
	KeyFactors   []string `json:"key_factors"`
}

type SymptomProgression struct {
	Status            string   `json:"status"`
	Comparison        string   `json:"comparison"`
	ConcerningChanges []string `json:"concerning_changes"`
}

// TriageResponse is the envelope relayed to dashboards.
type TriageResponse struct {
	Success    bool        `json:"success"`
	Assessment *Assessment `json:"assessment,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// RecallEntry is one remembered assessment used to judge symptom
// progression on the next visit.
type RecallEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Symptoms    string    `json:"symptoms"`
	TriageScore int       `json:"triage_score"`
}
