package summary

import (
	"fmt"
	"strings"

	"triage-assistant/internal/fhir"
	"triage-assistant/pkg"
)

// socialHistory combines condition-derived lifestyle markers with the raw
// social-observation list.  The condition scan is intentionally against the
// Condition bucket: exports record alcohol/violence/employment findings as
// conditions, not observations.  tobacco_use is declared for downstream
// filters but no rule sets it yet.
func (b *builder) socialHistory(social []fhir.ObservationPoint, conditions []fhir.Condition) (string, pkg.Metadata) {
	var sb strings.Builder
	sb.WriteString("SOCIAL & LIFESTYLE HISTORY:\n\n")

	alcoholHistory := false
	employed := false
	domesticViolence := false

	for i := range conditions {
		info := fhir.ExtractCondition(&conditions[i])
		name, _ := info.Name()
		lower := strings.ToLower(name)
		status := capitalize(info.ClinicalStatus)

		if strings.Contains(lower, b.cfg.SocialAlcoholKeyword) {
			alcoholHistory = true
			sb.WriteString("=== SUBSTANCE USE ===\n")
			fmt.Fprintf(&sb, "Alcohol: %s (%s)\n\n", name, status)
		}
		if containsAny(name, b.cfg.AlertKeywords) {
			domesticViolence = true
			fmt.Fprintf(&sb, "⚠️ CRITICAL ALERT: %s\n", name)
			fmt.Fprintf(&sb, "   Status: %s\n", status)
			sb.WriteString("   Requires: Safety assessment, counseling referral, social services support\n\n")
		}
		if strings.Contains(lower, b.cfg.SocialEmploymentKeyword) {
			employed = true
			sb.WriteString("=== EMPLOYMENT ===\n")
			fmt.Fprintf(&sb, "%s\n\n", name)
		}
	}

	if len(social) > 0 {
		sb.WriteString("=== SOCIAL FACTORS ===\n")
		for _, obs := range social {
			fmt.Fprintf(&sb, "%s: %s\n", obs.Name, obs.Value)
		}
		sb.WriteString("\n")
	}

	meta := b.baseMetadata(pkg.DocSocialHistory)
	meta["tobacco_use"] = false
	meta["alcohol_history"] = alcoholHistory
	meta["employed"] = employed
	meta["domestic_violence_risk"] = domesticViolence
	meta["requires_social_services"] = domesticViolence
	return sb.String(), meta
}
