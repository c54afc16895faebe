package summary

import (
	"fmt"
	"strconv"
	"strings"

	"triage-assistant/internal/fhir"
	"triage-assistant/pkg"
)

// allergies renders every recorded allergy with its first documented
// reaction and criticality.  No filtering: an allergy list is never stale.
func (b *builder) allergies(allergies []fhir.AllergyIntolerance) (string, pkg.Metadata) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ALLERGIES (%d):\n\n", len(allergies))

	for i := range allergies {
		a := &allergies[i]
		substance := a.Code.DisplayText()

		reaction := ""
		if len(a.Reaction) > 0 && len(a.Reaction[0].Manifestation) > 0 {
			reaction = a.Reaction[0].Manifestation[0].DisplayText()
		}

		fmt.Fprintf(&sb, "%d. %s\n", i+1, substance)
		if reaction != "" {
			fmt.Fprintf(&sb, "   Reaction: %s\n", reaction)
		}
		fmt.Fprintf(&sb, "   Severity: %s\n\n", capitalize(orDefault(a.Criticality, "Unknown")))
	}

	meta := b.baseMetadata(pkg.DocAllergies)
	meta["has_allergies"] = true
	meta["total_allergies"] = len(allergies)
	return sb.String(), meta
}

// familyHistory renders every family-member entry with its first recorded
// condition and onset age where documented.
func (b *builder) familyHistory(entries []fhir.FamilyMemberHistory) (string, pkg.Metadata) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "FAMILY MEDICAL HISTORY (%d entries):\n\n", len(entries))

	for i := range entries {
		fh := &entries[i]
		relationship := fh.Relationship.DisplayText()

		conditionName := ""
		var onsetAge *float64
		if len(fh.Condition) > 0 {
			conditionName = fh.Condition[0].Code.DisplayText()
			if fh.Condition[0].OnsetAge != nil {
				onsetAge = fh.Condition[0].OnsetAge.Value
			}
		}

		fmt.Fprintf(&sb, "%d. %s: %s\n", i+1, relationship, conditionName)
		if onsetAge != nil {
			fmt.Fprintf(&sb, "   Onset Age: %s\n", strconv.FormatFloat(*onsetAge, 'f', -1, 64))
		}
		sb.WriteString("\n")
	}

	meta := b.baseMetadata(pkg.DocFamilyHistory)
	meta["has_family_history"] = true
	meta["total_entries"] = len(entries)
	return sb.String(), meta
}
