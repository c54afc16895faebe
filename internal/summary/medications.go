package summary

import (
	"fmt"
	"strings"

	"triage-assistant/internal/fhir"
	"triage-assistant/pkg"
)

// currentMedications renders the merged current-medication list and flags
// controlled substances and contraceptive use for downstream filtering.
func (b *builder) currentMedications(medications []fhir.MedicationEntry) (string, pkg.Metadata) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CURRENT MEDICATIONS (%d):\n\n", len(medications))

	hasControlled := false
	var controlled []string
	hasContraceptive := false

	for i, med := range medications {
		name := orDefault(med.Name, "Unknown Medication")

		fmt.Fprintf(&sb, "%d. %s\n", i+1, name)
		if med.Code != "" {
			fmt.Fprintf(&sb, "   Code: %s\n", med.Code)
		}
		if med.Dosage != "" {
			fmt.Fprintf(&sb, "   Dosage: %s\n", med.Dosage)
		}
		if med.Date != "" {
			fmt.Fprintf(&sb, "   Started: %s\n", med.Date)
		}

		if containsAny(name, b.cfg.ControlledSubstances) {
			hasControlled = true
			controlled = append(controlled, firstWord(name))
			sb.WriteString("   ⚠️ NOTE: Controlled substance - monitor for tolerance/dependence\n")
		}
		if containsAny(name, b.cfg.ContraceptiveTerms) {
			hasContraceptive = true
			sb.WriteString("   Purpose: Contraception\n")
		}
		sb.WriteString("\n")
	}

	meta := b.baseMetadata(pkg.DocCurrentMedications)
	meta["total_medications"] = len(medications)
	meta["has_controlled_substances"] = hasControlled
	meta["controlled_substances"] = strings.Join(controlled, ", ")
	meta["contraceptive_use"] = hasContraceptive
	return sb.String(), meta
}

// pastMedications renders prescriptions that predate the recency cutoff.
func (b *builder) pastMedications(medications []fhir.MedicationEntry) (string, pkg.Metadata) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PAST MEDICATIONS (%d):\n\n", len(medications))

	var categories []string

	for i, med := range medications {
		name := orDefault(med.Name, "Unknown Medication")

		fmt.Fprintf(&sb, "%d. %s\n", i+1, name)
		fmt.Fprintf(&sb, "   Prescribed: %s\n", orDefault(med.Date, "Unknown"))
		fmt.Fprintf(&sb, "   Status: %s\n\n", capitalize(med.Status))

		if containsAny(name, b.cfg.PastContraceptiveTerms) {
			categories = appendUnique(categories, "contraceptive")
		}
	}

	meta := b.baseMetadata(pkg.DocPastMedications)
	meta["total_medications"] = len(medications)
	meta["medication_categories"] = strings.Join(categories, ", ")
	return sb.String(), meta
}
