package triage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"triage-assistant/internal/store"
	"triage-assistant/pkg"
)

type fakeLLM struct {
	response string
	err      error
	system   string
	user     string
}

func (f *fakeLLM) Complete(_ context.Context, system, user string) (string, error) {
	f.system = system
	f.user = user
	return f.response, f.err
}

type fakeStore struct {
	docs map[string]map[string]pkg.Summary
}

func (f *fakeStore) PutAll(_ context.Context, scopeKey string, documents []pkg.Summary) error {
	if f.docs == nil {
		f.docs = map[string]map[string]pkg.Summary{}
	}
	set := map[string]pkg.Summary{}
	for _, d := range documents {
		set[d.Key] = d
	}
	f.docs[scopeKey] = set
	return nil
}

func (f *fakeStore) Get(_ context.Context, scopeKey, summaryKey string) (pkg.Summary, error) {
	if set, ok := f.docs[scopeKey]; ok {
		if doc, ok := set[summaryKey]; ok {
			return doc, nil
		}
	}
	return pkg.Summary{}, store.ErrNotFound
}

func (f *fakeStore) Update(_ context.Context, scopeKey, summaryKey, text string, metadata pkg.Metadata) error {
	doc, err := f.Get(context.Background(), scopeKey, summaryKey)
	if err != nil {
		return err
	}
	doc.Text = text
	doc.Metadata = metadata
	f.docs[scopeKey][summaryKey] = doc
	return nil
}

func (f *fakeStore) ListScopes(_ context.Context) ([]pkg.PatientPreview, error) {
	return nil, nil
}

const validResponse = "```json\n" + `{
	"triage_score": 2,
	"triage_level": "EMERGENT",
	"acuity": "HIGH",
	"assessment_summary": {
		"primary_concern": "Chest pain with radiation",
		"immediate_action_required": true,
		"estimated_wait_time": "immediate"
	},
	"clinical_findings": {
		"presenting_symptoms": ["Chest pain", "Diaphoresis"],
		"vital_signs_assessment": ["Overall Status: unstable"],
		"red_flags": ["Possible ACS"],
	},
	"esi_rationale": {
		"decision_path": ["Step 1: Life-saving? -> No"],
		"key_factors": ["High-risk presentation"]
	},
	"nursing_notes": ["Continuous monitoring"]
}` + "\n```"

func TestAssessParsesRepairedOutput(t *testing.T) {
	client := &fakeLLM{response: validResponse}
	svc := NewService(client, nil, nil, zap.NewNop())

	a := svc.Assess(context.Background(), pkg.TriageRequest{Symptoms: "Chest pain"})

	assert.Equal(t, 2, a.TriageScore)
	assert.Equal(t, "EMERGENT", a.TriageLevel)
	assert.Equal(t, "Chest pain with radiation", a.Summary.PrimaryConcern)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, SystemPrompt, client.system)
}

func TestAssessUserMessagePlaceholders(t *testing.T) {
	client := &fakeLLM{response: validResponse}
	svc := NewService(client, nil, nil, zap.NewNop())

	svc.Assess(context.Background(), pkg.TriageRequest{Symptoms: "Headache"})

	assert.Contains(t, client.user, "Current Symptoms:\nHeadache")
	assert.Contains(t, client.user, "Patient History:\nNo history provided")
	assert.Contains(t, client.user, "Current Vitals:\nNo vitals provided")
	assert.Contains(t, client.user, "Previous Assessments:\nNo previous assessments")
}

func TestAssessVitalsFormatting(t *testing.T) {
	client := &fakeLLM{response: validResponse}
	svc := NewService(client, nil, nil, zap.NewNop())

	svc.Assess(context.Background(), pkg.TriageRequest{
		Symptoms: "Fever",
		Vitals:   map[string]any{"temperature": 39.1, "heart_rate": 112},
	})

	assert.Contains(t, client.user, "heart_rate: 112\ntemperature: 39.1")
}

func TestAssessDefaultOnCompletionError(t *testing.T) {
	longErr := strings.Repeat("upstream timeout contacting model endpoint ", 5)
	client := &fakeLLM{err: errors.New(longErr)}
	svc := NewService(client, nil, nil, zap.NewNop())

	a := svc.Assess(context.Background(), pkg.TriageRequest{Symptoms: "Dizziness"})

	assert.Equal(t, 3, a.TriageScore)
	assert.Equal(t, "URGENT", a.TriageLevel)
	assert.Equal(t, "MODERATE", a.Acuity)

	assert.True(t, a.Summary.ImmediateAction, "a failed automated pass must escalate, not reassure")
	assert.Equal(t, "immediate", a.Summary.EstimatedWaitTime)
	assert.Equal(t, []string{"Dizziness"}, a.ClinicalFindings.PresentingSymptoms,
		"raw symptoms carry through to the manual triager")

	assert.Contains(t, a.Summary.PrimaryConcern, "System error: ")
	assert.Contains(t, a.Summary.PrimaryConcern, ". Clinical evaluation required.")
	assert.LessOrEqual(t, len(a.Summary.PrimaryConcern),
		len("System error: ")+50+len(". Clinical evaluation required."))

	require.Len(t, a.NursingNotes, 3)
	assert.Equal(t, "CRITICAL: Automated triage error", a.NursingNotes[0])
	assert.Contains(t, a.NursingNotes[2], "Error: ")
	assert.LessOrEqual(t, len(a.NursingNotes[2]), len("Error: ")+100)
}

func TestAssessDefaultOnBadScore(t *testing.T) {
	client := &fakeLLM{response: `{"triage_score": 7, "triage_level": "???"}`}
	svc := NewService(client, nil, nil, zap.NewNop())

	a := svc.Assess(context.Background(), pkg.TriageRequest{Symptoms: "Cough"})
	assert.Equal(t, 3, a.TriageScore)
	assert.Contains(t, a.Summary.PrimaryConcern, "outside 1-5")
	assert.True(t, a.Summary.ImmediateAction)
}

func TestAssessDefaultOnUnparseableOutput(t *testing.T) {
	client := &fakeLLM{response: "I cannot produce JSON today."}
	svc := NewService(client, nil, nil, zap.NewNop())

	a := svc.Assess(context.Background(), pkg.TriageRequest{Symptoms: "Cough"})
	assert.Equal(t, 3, a.TriageScore)
}

func TestAssembleHistoryOrderAndSkips(t *testing.T) {
	docs := &fakeStore{}
	require.NoError(t, docs.PutAll(context.Background(), "p1", []pkg.Summary{
		{Key: pkg.DocRecentVitals, Text: "MOST RECENT VITAL SIGNS"},
		{Key: pkg.DocPatientInformation, Text: "PATIENT INFORMATION"},
		{Key: pkg.DocActiveConditions, Text: "ACTIVE MEDICAL CONDITIONS"},
	}))
	svc := NewService(&fakeLLM{response: validResponse}, docs, nil, zap.NewNop())

	history := svc.AssembleHistory(context.Background(), "p1")

	assert.Equal(t, "PATIENT INFORMATION\n\nACTIVE MEDICAL CONDITIONS\n\nMOST RECENT VITAL SIGNS", history)
}

func TestAssessUsesStoredHistory(t *testing.T) {
	docs := &fakeStore{}
	require.NoError(t, docs.PutAll(context.Background(), "p1", []pkg.Summary{
		{Key: pkg.DocPatientInformation, Text: "PATIENT INFORMATION"},
	}))
	client := &fakeLLM{response: validResponse}
	svc := NewService(client, docs, nil, zap.NewNop())

	svc.Assess(context.Background(), pkg.TriageRequest{PatientID: "p1", Symptoms: "Nausea"})
	assert.Contains(t, client.user, "Patient History:\nPATIENT INFORMATION")
}

func TestAssessSanitizesPatientScope(t *testing.T) {
	docs := &fakeStore{}
	require.NoError(t, docs.PutAll(context.Background(), "urn-uuid-p_1", []pkg.Summary{
		{Key: pkg.DocPatientInformation, Text: "PATIENT INFORMATION"},
	}))
	client := &fakeLLM{response: validResponse}
	svc := NewService(client, docs, nil, zap.NewNop())

	svc.Assess(context.Background(), pkg.TriageRequest{PatientID: "urn:uuid:p 1", Symptoms: "Nausea"})

	assert.Contains(t, client.user, "Patient History:\nPATIENT INFORMATION",
		"raw ids with colons or spaces must resolve to the stored scope")
}

func TestAssembleHistoryAcceptsRawID(t *testing.T) {
	docs := &fakeStore{}
	require.NoError(t, docs.PutAll(context.Background(), "urn-uuid-p_1", []pkg.Summary{
		{Key: pkg.DocActiveConditions, Text: "ACTIVE MEDICAL CONDITIONS"},
	}))
	svc := NewService(&fakeLLM{response: validResponse}, docs, nil, zap.NewNop())

	assert.Equal(t, "ACTIVE MEDICAL CONDITIONS", svc.AssembleHistory(context.Background(), "urn:uuid:p 1"))
	assert.Equal(t, "ACTIVE MEDICAL CONDITIONS", svc.AssembleHistory(context.Background(), "urn-uuid-p_1"),
		"already-sanitized keys pass through unchanged")
}

func TestAssessInlineHistoryWins(t *testing.T) {
	docs := &fakeStore{}
	require.NoError(t, docs.PutAll(context.Background(), "p1", []pkg.Summary{
		{Key: pkg.DocPatientInformation, Text: "STORED"},
	}))
	client := &fakeLLM{response: validResponse}
	svc := NewService(client, docs, nil, zap.NewNop())

	svc.Assess(context.Background(), pkg.TriageRequest{PatientID: "p1", Symptoms: "Nausea", History: "INLINE"})
	assert.Contains(t, client.user, "Patient History:\nINLINE")
	assert.NotContains(t, client.user, "STORED")
}
