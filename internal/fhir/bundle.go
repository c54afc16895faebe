// Package fhir holds a minimal, read-only model of the FHIR resources the
// triage assistant consumes, plus the field extraction used to flatten them.
// Every field is optional; accessors degrade to zero values instead of
// failing, because sparse records are the norm in exported bundles.
package fhir

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var (
	// ErrNotBundle is returned when the root document is not a FHIR Bundle.
	ErrNotBundle = errors.New("document is not a FHIR Bundle")
	// ErrNoPatient is returned when a bundle carries no Patient resource.
	ErrNoPatient = errors.New("no Patient resource found in bundle")
)

// Bundle is the root document of one patient export.
type Bundle struct {
	ResourceType string  `json:"resourceType"`
	Type         string  `json:"type"`
	Entry        []Entry `json:"entry"`
}

// Entry wraps exactly one resource.  The payload stays raw until bucketing
// decides which typed struct to decode it into.
type Entry struct {
	Resource json.RawMessage `json:"resource"`
}

// resourceHeader is the minimal view used to route an entry to its bucket.
type resourceHeader struct {
	ResourceType string `json:"resourceType"`
}

// ParseBundle decodes a bundle document and checks the root resource type.
func ParseBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if b.ResourceType != "Bundle" {
		return nil, ErrNotBundle
	}
	return &b, nil
}

// Buckets groups a bundle's resources by type, preserving entry order.
// A type with no entries is simply an empty slice.
type Buckets struct {
	Patients           []Patient
	Encounters         []Encounter
	Conditions         []Condition
	Observations       []Observation
	DiagnosticReports  []DiagnosticReport
	Claims             []Claim
	Benefits           []ExplanationOfBenefit
	Medications        []Medication
	MedicationRequests []MedicationRequest
	Immunizations      []Immunization
	Procedures         []Procedure
	Allergies          []AllergyIntolerance
	FamilyHistories    []FamilyMemberHistory
}

// BuildBuckets routes every entry to its typed bucket.  Unknown resource
// types are skipped; an entry that fails to decode as its declared type is
// skipped as well rather than aborting the whole bundle.
func BuildBuckets(b *Bundle) *Buckets {
	out := &Buckets{}
	for _, e := range b.Entry {
		var hdr resourceHeader
		if err := json.Unmarshal(e.Resource, &hdr); err != nil {
			continue
		}
		switch hdr.ResourceType {
		case "Patient":
			appendResource(e.Resource, &out.Patients)
		case "Encounter":
			appendResource(e.Resource, &out.Encounters)
		case "Condition":
			appendResource(e.Resource, &out.Conditions)
		case "Observation":
			appendResource(e.Resource, &out.Observations)
		case "DiagnosticReport":
			appendResource(e.Resource, &out.DiagnosticReports)
		case "Claim":
			appendResource(e.Resource, &out.Claims)
		case "ExplanationOfBenefit":
			appendResource(e.Resource, &out.Benefits)
		case "Medication":
			appendResource(e.Resource, &out.Medications)
		case "MedicationRequest":
			appendResource(e.Resource, &out.MedicationRequests)
		case "Immunization":
			appendResource(e.Resource, &out.Immunizations)
		case "Procedure":
			appendResource(e.Resource, &out.Procedures)
		case "AllergyIntolerance":
			appendResource(e.Resource, &out.Allergies)
		case "FamilyMemberHistory":
			appendResource(e.Resource, &out.FamilyHistories)
		}
	}
	return out
}

func appendResource[T any](raw json.RawMessage, dst *[]T) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = append(*dst, v)
}

// SolePatient returns the bundle's Patient resource.  Exactly one must be
// present for summarization to proceed.
func (bk *Buckets) SolePatient() (*Patient, error) {
	if len(bk.Patients) == 0 {
		return nil, ErrNoPatient
	}
	return &bk.Patients[0], nil
}

// Patient is the demographic root resource.
type Patient struct {
	ID                   string           `json:"id"`
	Name                 []HumanName      `json:"name"`
	Gender               string           `json:"gender"`
	BirthDate            string           `json:"birthDate"`
	Address              []Address        `json:"address"`
	Telecom              []ContactPoint   `json:"telecom"`
	MaritalStatus        *CodeableConcept `json:"maritalStatus"`
	MultipleBirthBoolean *bool            `json:"multipleBirthBoolean"`
	Extension            []Extension      `json:"extension"`
}

type Encounter struct {
	ID              string            `json:"id"`
	Status          string            `json:"status"`
	Class           *Coding           `json:"class"`
	Type            []CodeableConcept `json:"type"`
	Period          *Period           `json:"period"`
	ServiceProvider *Reference        `json:"serviceProvider"`
}

type Condition struct {
	ID             string           `json:"id"`
	ClinicalStatus *CodeableConcept `json:"clinicalStatus"`
	Code           *CodeableConcept `json:"code"`
	OnsetDateTime  string           `json:"onsetDateTime"`
	RecordedDate   string           `json:"recordedDate"`
}

type Observation struct {
	ID                   string            `json:"id"`
	Status               string            `json:"status"`
	Category             []CodeableConcept `json:"category"`
	Code                 *CodeableConcept  `json:"code"`
	EffectiveDateTime    string            `json:"effectiveDateTime"`
	Issued               string            `json:"issued"`
	ValueQuantity        *Quantity         `json:"valueQuantity"`
	ValueCodeableConcept *CodeableConcept  `json:"valueCodeableConcept"`
	ValueString          string            `json:"valueString"`
}

type DiagnosticReport struct {
	ID                string            `json:"id"`
	Status            string            `json:"status"`
	Category          []CodeableConcept `json:"category"`
	Code              *CodeableConcept  `json:"code"`
	EffectiveDateTime string            `json:"effectiveDateTime"`
	Issued            string            `json:"issued"`
}

type Claim struct {
	ID      string           `json:"id"`
	Status  string           `json:"status"`
	Use     string           `json:"use"`
	Type    *CodeableConcept `json:"type"`
	Created string           `json:"created"`
	Total   *Money           `json:"total"`
}

type ExplanationOfBenefit struct {
	ID      string           `json:"id"`
	Status  string           `json:"status"`
	Use     string           `json:"use"`
	Type    *CodeableConcept `json:"type"`
	Created string           `json:"created"`
	Outcome string           `json:"outcome"`
	Total   []BenefitTotal   `json:"total"`
	Payment *BenefitPayment  `json:"payment"`
}

type BenefitTotal struct {
	Category *CodeableConcept `json:"category"`
	Amount   *Money           `json:"amount"`
}

type BenefitPayment struct {
	Amount *Money `json:"amount"`
}

type Medication struct {
	ID   string           `json:"id"`
	Code *CodeableConcept `json:"code"`
}

type MedicationRequest struct {
	ID                        string           `json:"id"`
	Status                    string           `json:"status"`
	MedicationCodeableConcept *CodeableConcept `json:"medicationCodeableConcept"`
	AuthoredOn                string           `json:"authoredOn"`
	DosageInstruction         []Dosage         `json:"dosageInstruction"`
}

type Dosage struct {
	Text string `json:"text"`
}

type Immunization struct {
	ID                 string           `json:"id"`
	Status             string           `json:"status"`
	VaccineCode        *CodeableConcept `json:"vaccineCode"`
	OccurrenceDateTime string           `json:"occurrenceDateTime"`
}

type Procedure struct {
	ID                string           `json:"id"`
	Status            string           `json:"status"`
	Code              *CodeableConcept `json:"code"`
	PerformedDateTime string           `json:"performedDateTime"`
	PerformedPeriod   *Period          `json:"performedPeriod"`
}

type AllergyIntolerance struct {
	ID          string            `json:"id"`
	Code        *CodeableConcept  `json:"code"`
	Criticality string            `json:"criticality"`
	Reaction    []AllergyReaction `json:"reaction"`
}

type AllergyReaction struct {
	Manifestation []CodeableConcept `json:"manifestation"`
}

type FamilyMemberHistory struct {
	ID           string            `json:"id"`
	Relationship *CodeableConcept  `json:"relationship"`
	Condition    []FamilyCondition `json:"condition"`
}

type FamilyCondition struct {
	Code     *CodeableConcept `json:"code"`
	OnsetAge *Quantity        `json:"onsetAge"`
}
