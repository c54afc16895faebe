// Package summary turns one parsed record bundle into the ordered set of
// tagged text documents stored per patient.  It is a pure transform: no
// I/O, no retained state, safe to run concurrently for different bundles.
package summary

import (
	"strings"
	"time"

	"triage-assistant/internal/fhir"
	"triage-assistant/pkg"
)

// Config carries the classification policy the builders apply.  All lists
// default to the values the triage team tuned against Synthea exports; they
// are explicit here so nothing clinical hides inside rendering code.
type Config struct {
	// MedicationCutoffYear: prescriptions authored before this year count
	// as past medications.  Compared as a string against the ISO year.
	MedicationCutoffYear string

	AlertKeywords          []string
	NotableHistoryKeywords []string
	ControlledSubstances   []string

	// ContraceptiveTerms flags contraception in the current-medication
	// list; PastContraceptiveTerms categorizes past prescriptions. The
	// two sets overlap but are not identical.
	ContraceptiveTerms     []string
	PastContraceptiveTerms []string

	DentalTerms    []string
	SurgicalTerms  []string
	ScreeningTerms []string

	SocialAlcoholKeyword    string
	SocialEmploymentKeyword string

	LabDatesShown  int
	DentalShown    int
	ScreeningShown int
}

// DefaultConfig returns the standard policy.
func DefaultConfig() Config {
	return Config{
		MedicationCutoffYear:   "2023",
		AlertKeywords:          []string{"abuse", "violence"},
		NotableHistoryKeywords: []string{"miscarriage", "anemia", "substance", "alcohol", "cancer"},
		ControlledSubstances:   []string{"tramadol", "oxycodone", "hydrocodone", "morphine", "fentanyl"},
		ContraceptiveTerms:     []string{"contraceptive", "birth control", "iud", "mirena", "levora", "nuvaring"},
		PastContraceptiveTerms: []string{"contraceptive", "levora", "nuvaring", "natazia"},
		DentalTerms:            []string{"dental", "gingivae", "plaque", "fluoride"},
		SurgicalTerms:          []string{"insertion", "removal", "surgery", "ultrasound", "iud"},
		ScreeningTerms:         []string{"screening", "assessment", "depression", "anxiety", "abuse"},

		SocialAlcoholKeyword:    "alcohol",
		SocialEmploymentKeyword: "employment",

		LabDatesShown:  5,
		DentalShown:    5,
		ScreeningShown: 10,
	}
}

// Summarizer builds per-patient summary documents from record bundles.
type Summarizer struct {
	cfg Config
	now func() time.Time
}

// Option tweaks Summarizer construction.
type Option func(*Summarizer)

// WithClock overrides the generation timestamp source.  Tests freeze it so
// two runs over the same bundle are byte-identical.
func WithClock(now func() time.Time) Option {
	return func(s *Summarizer) { s.now = now }
}

// New constructs a Summarizer with the given policy.
func New(cfg Config, opts ...Option) *Summarizer {
	s := &Summarizer{cfg: cfg, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Result is the full output for one bundle, ready for a single bulk write.
type Result struct {
	ScopeKey    string
	PatientID   string
	PatientName string
	Documents   []pkg.Summary
}

// Keys lists the emitted document keys in order.
func (r *Result) Keys() []string {
	keys := make([]string, len(r.Documents))
	for i, d := range r.Documents {
		keys[i] = d.Key
	}
	return keys
}

// ScopeKey sanitizes a patient identifier for use as a storage scope:
// colons become dashes, spaces become underscores.
func ScopeKey(patientID string) string {
	return strings.NewReplacer(":", "-", " ", "_").Replace(patientID)
}

// Summarize converts one bundle into its ordered document set.  It fails
// only on the two fatal input conditions: a non-Bundle root (checked by the
// caller's ParseBundle) and a missing Patient resource.  Everything else is
// treated as optional data.
func (s *Summarizer) Summarize(bundle *fhir.Bundle) (*Result, error) {
	buckets := fhir.BuildBuckets(bundle)

	patient, err := buckets.SolePatient()
	if err != nil {
		return nil, err
	}
	info := fhir.ExtractPatient(patient)

	patientName := info.FullName
	if patientName == "" {
		patientName = "Unknown Patient"
	}

	b := &builder{
		cfg:         s.cfg,
		patient:     info,
		patientName: patientName,
		lastUpdated: s.now().Format("2006-01-02"),
	}

	res := &Result{
		ScopeKey:    ScopeKey(info.ID),
		PatientID:   info.ID,
		PatientName: patientName,
	}

	add := func(key, text string, meta pkg.Metadata) {
		res.Documents = append(res.Documents, pkg.Summary{Key: key, Text: text, Metadata: meta})
	}

	// Always emitted, even when empty.
	text, meta := b.patientInformation()
	add(pkg.DocPatientInformation, text, meta)

	text, meta = b.activeConditions(buckets.Conditions)
	add(pkg.DocActiveConditions, text, meta)

	text, meta = b.pastConditions(buckets.Conditions)
	add(pkg.DocPastConditions, text, meta)

	// Conditional documents: skipped entirely when nothing qualifies.
	if current := fhir.CurrentMedications(buckets.Medications, buckets.MedicationRequests, s.cfg.MedicationCutoffYear); len(current) > 0 {
		text, meta = b.currentMedications(current)
		add(pkg.DocCurrentMedications, text, meta)
	}
	if past := fhir.PastMedications(buckets.MedicationRequests, s.cfg.MedicationCutoffYear); len(past) > 0 {
		text, meta = b.pastMedications(past)
		add(pkg.DocPastMedications, text, meta)
	}
	if vitals := fhir.VitalSigns(buckets.Observations); len(vitals) > 0 {
		text, meta = b.recentVitals(vitals)
		add(pkg.DocRecentVitals, text, meta)
	}
	if labs := fhir.LabResults(buckets.Observations); len(labs) > 0 {
		text, meta = b.recentLabs(labs)
		add(pkg.DocRecentLabs, text, meta)
	}
	if len(buckets.Immunizations) > 0 {
		text, meta = b.immunizations(buckets.Immunizations)
		add(pkg.DocImmunizations, text, meta)
	}
	if len(buckets.Procedures) > 0 {
		text, meta = b.procedures(buckets.Procedures)
		add(pkg.DocProcedures, text, meta)
	}
	if len(buckets.Allergies) > 0 {
		text, meta = b.allergies(buckets.Allergies)
		add(pkg.DocAllergies, text, meta)
	}
	if len(buckets.FamilyHistories) > 0 {
		text, meta = b.familyHistory(buckets.FamilyHistories)
		add(pkg.DocFamilyHistory, text, meta)
	}
	if social := fhir.SocialHistory(buckets.Observations); len(social) > 0 {
		text, meta = b.socialHistory(social, buckets.Conditions)
		add(pkg.DocSocialHistory, text, meta)
	}

	return res, nil
}

// builder carries the per-run context shared by every section.
type builder struct {
	cfg         Config
	patient     fhir.PatientInfo
	patientName string
	lastUpdated string
}

// baseMetadata returns the fields every summary's metadata must carry.
func (b *builder) baseMetadata(docType string) pkg.Metadata {
	return pkg.Metadata{
		"document_type": docType,
		"patient_id":    b.patient.ID,
		"patient_name":  b.patientName,
		"last_updated":  b.lastUpdated,
	}
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// firstWord returns the first whitespace-separated token of s.
func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// containsAny reports whether the lower-cased s contains any keyword.
func containsAny(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// appendUnique appends v to list if not already present, keeping first-seen
// order so repeated runs render identically.
func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
