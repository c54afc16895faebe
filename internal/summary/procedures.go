package summary

import (
	"fmt"
	"sort"
	"strings"

	"triage-assistant/internal/fhir"
	"triage-assistant/pkg"
)

type procedureRecord struct {
	Name   string
	Date   string
	Status string
}

// procedureDate prefers the period start over the point-in-time stamp.
func procedureDate(p *fhir.Procedure) string {
	if p.PerformedPeriod != nil {
		return fhir.DatePrefix(p.PerformedPeriod.Start, "")
	}
	return fhir.DatePrefix(p.PerformedDateTime, "")
}

// procedures sorts the history newest first and splits it into dental,
// surgical, screening and other buckets by a first-match keyword scan in
// that precedence order.  The "other" bucket is counted but not rendered.
func (b *builder) procedures(procedures []fhir.Procedure) (string, pkg.Metadata) {
	sorted := make([]fhir.Procedure, len(procedures))
	copy(sorted, procedures)
	sort.SliceStable(sorted, func(i, j int) bool {
		return procedureDate(&sorted[i]) > procedureDate(&sorted[j])
	})

	var surgical, dental, screening, other []procedureRecord
	for i := range sorted {
		p := &sorted[i]
		rec := procedureRecord{
			Name:   p.Code.DisplayText(),
			Date:   procedureDate(p),
			Status: p.Status,
		}
		switch {
		case containsAny(rec.Name, b.cfg.DentalTerms):
			dental = append(dental, rec)
		case containsAny(rec.Name, b.cfg.SurgicalTerms):
			surgical = append(surgical, rec)
		case containsAny(rec.Name, b.cfg.ScreeningTerms):
			screening = append(screening, rec)
		default:
			other = append(other, rec)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SURGICAL & MEDICAL PROCEDURE HISTORY (%d Total):\n\n", len(procedures))

	if len(surgical) > 0 {
		sb.WriteString("=== SURGICAL & SIGNIFICANT PROCEDURES ===\n")
		for _, p := range surgical {
			fmt.Fprintf(&sb, "- %s (%s)\n", p.Name, p.Date)
		}
		sb.WriteString("\n")
	}

	if len(dental) > 0 {
		sb.WriteString("=== DENTAL PROCEDURES ===\n")
		shown := dental
		if len(shown) > b.cfg.DentalShown {
			shown = shown[:b.cfg.DentalShown]
		}
		for _, p := range shown {
			fmt.Fprintf(&sb, "- %s (%s)\n", p.Name, p.Date)
		}
		if len(dental) > b.cfg.DentalShown {
			fmt.Fprintf(&sb, "  ... and %d more dental procedures\n", len(dental)-b.cfg.DentalShown)
		}
		sb.WriteString("\n")
	}

	if len(screening) > 0 {
		sb.WriteString("=== SCREENING & ASSESSMENT PROCEDURES ===\n")
		shown := screening
		if len(shown) > b.cfg.ScreeningShown {
			shown = shown[:b.cfg.ScreeningShown]
		}
		for _, p := range shown {
			fmt.Fprintf(&sb, "- %s (%s)\n", p.Name, p.Date)
		}
		if len(screening) > b.cfg.ScreeningShown {
			fmt.Fprintf(&sb, "  ... and %d more screenings\n", len(screening)-b.cfg.ScreeningShown)
		}
		sb.WriteString("\n")
	}

	lastDate := "Unknown"
	if len(sorted) > 0 {
		lastDate = fhir.DatePrefix(procedureDate(&sorted[0]), "Unknown")
	}

	meta := b.baseMetadata(pkg.DocProcedures)
	meta["total_procedures"] = len(procedures)
	meta["surgical_procedures"] = len(surgical)
	meta["dental_procedures"] = len(dental)
	meta["screening_procedures"] = len(screening)
	meta["last_procedure_date"] = lastDate
	return sb.String(), meta
}
