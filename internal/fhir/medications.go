package fhir

// MedicationEntry is one medication flattened for summary rendering.  Kind
// distinguishes standing Medication resources from prescriptions.
type MedicationEntry struct {
	Name   string
	Code   string
	Kind   string // "current" or "prescription"
	Status string
	Date   string
	Dosage string
	ID     string
}

// CurrentMedications merges Medication resources (always current) with
// MedicationRequest entries that are active or completed and were authored
// on or after the cutoff year.  A request with no authored date counts as
// current: absence of a date never demotes a prescription to the past.
func CurrentMedications(medications []Medication, requests []MedicationRequest, cutoffYear string) []MedicationEntry {
	var current []MedicationEntry

	for i := range medications {
		m := &medications[i]
		current = append(current, MedicationEntry{
			Name: m.Code.DisplayText(),
			Code: m.Code.Code(),
			Kind: "current",
			ID:   m.ID,
		})
	}

	for i := range requests {
		r := &requests[i]
		if r.Status != "active" && r.Status != "completed" {
			continue
		}
		if r.AuthoredOn != "" && Year(r.AuthoredOn) < cutoffYear {
			continue
		}
		entry := MedicationEntry{
			Name:   r.MedicationCodeableConcept.DisplayText(),
			Code:   r.MedicationCodeableConcept.Code(),
			Kind:   "prescription",
			Status: r.Status,
			Date:   DatePrefix(r.AuthoredOn, ""),
			ID:     r.ID,
		}
		if len(r.DosageInstruction) > 0 {
			entry.Dosage = r.DosageInstruction[0].Text
		}
		current = append(current, entry)
	}
	return current
}

// PastMedications selects MedicationRequest entries authored before the
// cutoff year.  Requests without an authored date are never past.
func PastMedications(requests []MedicationRequest, cutoffYear string) []MedicationEntry {
	var past []MedicationEntry
	for i := range requests {
		r := &requests[i]
		if r.AuthoredOn == "" || Year(r.AuthoredOn) >= cutoffYear {
			continue
		}
		past = append(past, MedicationEntry{
			Name:   r.MedicationCodeableConcept.DisplayText(),
			Code:   r.MedicationCodeableConcept.Code(),
			Date:   DatePrefix(r.AuthoredOn, ""),
			Status: r.Status,
			ID:     r.ID,
		})
	}
	return past
}
