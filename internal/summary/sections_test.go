package summary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triage-assistant/pkg"
)

func findDoc(t *testing.T, res *Result, key string) pkg.Summary {
	t.Helper()
	for _, d := range res.Documents {
		if d.Key == key {
			return d
		}
	}
	t.Fatalf("document %q not generated, got %v", key, res.Keys())
	return pkg.Summary{}
}

func TestRecentLabsDocument(t *testing.T) {
	s := New(DefaultConfig(), WithClock(frozenClock()))
	res, err := s.Summarize(bundleOf(t, patientJSON,
		`{"resourceType":"Observation","category":[{"coding":[{"code":"laboratory"}]}],"code":{"text":"Glucose"},"effectiveDateTime":"2023-05-01","valueQuantity":{"value":5.4,"unit":"mmol/L"}}`,
		`{"resourceType":"Observation","category":[{"coding":[{"code":"laboratory"}]}],"code":{"text":"Hemoglobin"},"effectiveDateTime":"2023-05-01","valueQuantity":{"value":13.2,"unit":"g/dL"}}`,
		`{"resourceType":"Observation","category":[{"coding":[{"code":"laboratory"}]}],"code":{"text":"Creatinine"},"effectiveDateTime":"2022-01-10","valueQuantity":{"value":0.9,"unit":"mg/dL"}}`,
	))
	require.NoError(t, err)

	labs := findDoc(t, res, pkg.DocRecentLabs)
	assert.Contains(t, labs.Text, "RECENT LABORATORY RESULTS:")
	assert.Contains(t, labs.Text, "=== 2023-05-01 ===")
	assert.Contains(t, labs.Text, "Glucose: 5.4 mmol/L")
	assert.Contains(t, labs.Text, "=== 2022-01-10 ===")

	assert.Less(t, strings.Index(labs.Text, "2023-05-01"), strings.Index(labs.Text, "2022-01-10"), "newest date block first")

	assert.Equal(t, "2023-05-01", labs.Metadata["last_lab_date"])
	assert.Equal(t, 3, labs.Metadata["total_lab_results"])
}

func TestImmunizationsDocument(t *testing.T) {
	s := New(DefaultConfig(), WithClock(frozenClock()))
	res, err := s.Summarize(bundleOf(t, patientJSON,
		`{"resourceType":"Immunization","status":"completed","vaccineCode":{"text":"Influenza, seasonal"},"occurrenceDateTime":"2022-10-01T00:00:00Z"}`,
		`{"resourceType":"Immunization","status":"completed","vaccineCode":{"text":"Influenza, seasonal"},"occurrenceDateTime":"2023-10-05T00:00:00Z"}`,
		`{"resourceType":"Immunization","status":"completed","vaccineCode":{"text":"Td (adult)"},"occurrenceDateTime":"2019-06-12T00:00:00Z"}`,
	))
	require.NoError(t, err)

	imm := findDoc(t, res, pkg.DocImmunizations)
	assert.Contains(t, imm.Text, "IMMUNIZATION HISTORY (3 Total):")
	assert.Contains(t, imm.Text, "✓ Influenza, seasonal\n   Most Recent: 2023-10-05\n   Total Doses: 2\n   Status: Completed")
	assert.Contains(t, imm.Text, "✓ Td (adult)\n   Most Recent: 2019-06-12\n   Status: Completed")

	assert.Equal(t, 3, imm.Metadata["total_immunizations"])
	assert.Equal(t, 2, imm.Metadata["unique_vaccines"])
	assert.Equal(t, "2023-10-05", imm.Metadata["last_vaccination_date"])
}

func TestProceduresDocument(t *testing.T) {
	s := New(DefaultConfig(), WithClock(frozenClock()))
	res, err := s.Summarize(bundleOf(t, patientJSON,
		`{"resourceType":"Procedure","status":"completed","code":{"text":"Dental plaque removal"},"performedPeriod":{"start":"2023-02-01T09:00:00Z"}}`,
		`{"resourceType":"Procedure","status":"completed","code":{"text":"Insertion of intrauterine contraceptive device"},"performedDateTime":"2022-08-15T10:00:00Z"}`,
		`{"resourceType":"Procedure","status":"completed","code":{"text":"Depression screening"},"performedDateTime":"2023-06-20T11:00:00Z"}`,
		`{"resourceType":"Procedure","status":"completed","code":{"text":"Medication reconciliation"},"performedDateTime":"2023-06-20T11:30:00Z"}`,
	))
	require.NoError(t, err)

	proc := findDoc(t, res, pkg.DocProcedures)
	assert.Contains(t, proc.Text, "SURGICAL & MEDICAL PROCEDURE HISTORY (4 Total):")
	assert.Contains(t, proc.Text, "=== SURGICAL & SIGNIFICANT PROCEDURES ===\n- Insertion of intrauterine contraceptive device (2022-08-15)")
	assert.Contains(t, proc.Text, "=== DENTAL PROCEDURES ===\n- Dental plaque removal (2023-02-01)")
	assert.Contains(t, proc.Text, "=== SCREENING & ASSESSMENT PROCEDURES ===\n- Depression screening (2023-06-20)")
	assert.NotContains(t, proc.Text, "Medication reconciliation", "uncategorized procedures are not rendered")

	assert.Equal(t, 4, proc.Metadata["total_procedures"])
	assert.Equal(t, 1, proc.Metadata["surgical_procedures"])
	assert.Equal(t, 1, proc.Metadata["dental_procedures"])
	assert.Equal(t, 1, proc.Metadata["screening_procedures"])
	assert.Equal(t, "2023-06-20", proc.Metadata["last_procedure_date"])
}

func TestAllergiesAndFamilyHistory(t *testing.T) {
	s := New(DefaultConfig(), WithClock(frozenClock()))
	res, err := s.Summarize(bundleOf(t, patientJSON,
		`{"resourceType":"AllergyIntolerance","criticality":"high","code":{"text":"Penicillin"},"reaction":[{"manifestation":[{"text":"Hives"}]}]}`,
		`{"resourceType":"FamilyMemberHistory","relationship":{"text":"Mother"},"condition":[{"code":{"text":"Breast cancer"},"onsetAge":{"value":52,"unit":"a"}}]}`,
	))
	require.NoError(t, err)

	allergies := findDoc(t, res, pkg.DocAllergies)
	assert.Contains(t, allergies.Text, "ALLERGIES (1):")
	assert.Contains(t, allergies.Text, "1. Penicillin\n   Reaction: Hives\n   Severity: High")
	assert.Equal(t, true, allergies.Metadata["has_allergies"])

	family := findDoc(t, res, pkg.DocFamilyHistory)
	assert.Contains(t, family.Text, "FAMILY MEDICAL HISTORY (1 entries):")
	assert.Contains(t, family.Text, "1. Mother: Breast cancer\n   Onset Age: 52")
	assert.Equal(t, true, family.Metadata["has_family_history"])
}

func TestSocialHistoryDocument(t *testing.T) {
	s := New(DefaultConfig(), WithClock(frozenClock()))
	res, err := s.Summarize(bundleOf(t, patientJSON,
		`{"resourceType":"Observation","category":[{"coding":[{"code":"social-history"}]}],"code":{"text":"Tobacco smoking status"},"effectiveDateTime":"2023-01-01","valueCodeableConcept":{"text":"Never smoked tobacco"}}`,
		`{"resourceType":"Condition","clinicalStatus":{"coding":[{"code":"active"}]},"code":{"text":"Alcoholism"}}`,
		`{"resourceType":"Condition","clinicalStatus":{"coding":[{"code":"active"}]},"code":{"text":"Victim of intimate partner abuse"}}`,
		`{"resourceType":"Condition","clinicalStatus":{"coding":[{"code":"active"}]},"code":{"text":"Full-time employment"}}`,
	))
	require.NoError(t, err)

	social := findDoc(t, res, pkg.DocSocialHistory)
	assert.Contains(t, social.Text, "=== SUBSTANCE USE ===\nAlcohol: Alcoholism (Active)")
	assert.Contains(t, social.Text, "⚠️ CRITICAL ALERT: Victim of intimate partner abuse")
	assert.Contains(t, social.Text, "   Requires: Safety assessment, counseling referral, social services support")
	assert.Contains(t, social.Text, "=== EMPLOYMENT ===\nFull-time employment")
	assert.Contains(t, social.Text, "=== SOCIAL FACTORS ===\nTobacco smoking status: Never smoked tobacco")

	assert.Equal(t, false, social.Metadata["tobacco_use"])
	assert.Equal(t, true, social.Metadata["alcohol_history"])
	assert.Equal(t, true, social.Metadata["employed"])
	assert.Equal(t, true, social.Metadata["domestic_violence_risk"])
	assert.Equal(t, true, social.Metadata["requires_social_services"])
}

func TestUpdateWeight(t *testing.T) {
	text := "MOST RECENT VITAL SIGNS (2023-07-01):\n\n" +
		"Body Height: 170 cm\n" +
		"Body Weight: 70 kg\n" +
		"Body mass index (BMI) [Ratio]: 24.22 kg/m2\n"
	meta := pkg.Metadata{"bmi_category": "normal", "patient_id": "p1"}

	t.Run("Recomputes BMI From Height", func(t *testing.T) {
		updated, outMeta := UpdateWeight(text, meta, 95)
		assert.Contains(t, updated, "Body Weight: 95 kg")
		assert.Contains(t, updated, "Body mass index (BMI) [Ratio]: 32.87 kg/m2")
		assert.Equal(t, "obese", outMeta["bmi_category"])
		assert.Equal(t, "p1", outMeta["patient_id"])
		assert.Equal(t, "normal", meta["bmi_category"], "input metadata untouched")
	})

	t.Run("No Height Leaves BMI Alone", func(t *testing.T) {
		noHeight := "Body Weight: 70 kg\nBody mass index (BMI) [Ratio]: 24.22 kg/m2\n"
		updated, outMeta := UpdateWeight(noHeight, meta, 95)
		assert.Contains(t, updated, "Body Weight: 95 kg")
		assert.Contains(t, updated, "24.22 kg/m2")
		assert.Equal(t, "normal", outMeta["bmi_category"])
	})
}
