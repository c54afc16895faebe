package summary

import (
	"fmt"
	"sort"
	"strings"

	"triage-assistant/internal/fhir"
	"triage-assistant/pkg"
)

type doseRecord struct {
	Date   string
	Status string
}

// immunizations groups doses by vaccine name, newest dose first, and
// renders one block per vaccine in alphabetical order.
func (b *builder) immunizations(immunizations []fhir.Immunization) (string, pkg.Metadata) {
	sorted := make([]fhir.Immunization, len(immunizations))
	copy(sorted, immunizations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurrenceDateTime > sorted[j].OccurrenceDateTime
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "IMMUNIZATION HISTORY (%d Total):\n\n", len(immunizations))

	vaccines := make(map[string][]doseRecord)
	for i := range sorted {
		imm := &sorted[i]
		name := imm.VaccineCode.DisplayText()
		vaccines[name] = append(vaccines[name], doseRecord{
			Date:   fhir.DatePrefix(imm.OccurrenceDateTime, ""),
			Status: imm.Status,
		})
	}

	names := make([]string, 0, len(vaccines))
	for name := range vaccines {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		doses := vaccines[name]
		fmt.Fprintf(&sb, "✓ %s\n", name)
		fmt.Fprintf(&sb, "   Most Recent: %s\n", doses[0].Date)
		if len(doses) > 1 {
			fmt.Fprintf(&sb, "   Total Doses: %d\n", len(doses))
		}
		fmt.Fprintf(&sb, "   Status: %s\n\n", capitalize(doses[0].Status))
	}

	lastVaccination := "Unknown"
	if len(sorted) > 0 {
		lastVaccination = fhir.DatePrefix(sorted[0].OccurrenceDateTime, "Unknown")
	}

	meta := b.baseMetadata(pkg.DocImmunizations)
	meta["total_immunizations"] = len(immunizations)
	meta["unique_vaccines"] = len(vaccines)
	meta["last_vaccination_date"] = lastVaccination
	return sb.String(), meta
}
