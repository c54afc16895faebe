package summary

import (
	"fmt"
	"strings"

	"triage-assistant/internal/fhir"
	"triage-assistant/pkg"
)

// splitByStatus partitions conditions by clinical status: "active" goes to
// the active list, anything else (including no status at all) is past.
func splitByStatus(conditions []fhir.Condition) (active, past []fhir.ConditionInfo) {
	for i := range conditions {
		info := fhir.ExtractCondition(&conditions[i])
		if info.ClinicalStatus == "active" {
			active = append(active, info)
		} else {
			past = append(past, info)
		}
	}
	return active, past
}

// activeConditions renders the active condition list.  Two textual markers
// are tracked while rendering: "chronic" in the display name feeds the
// chronic_conditions metadata, and abuse/violence wording raises an inline
// alert plus the has_alerts flag the dashboard filters on.
func (b *builder) activeConditions(conditions []fhir.Condition) (string, pkg.Metadata) {
	active, _ := splitByStatus(conditions)

	var sb strings.Builder
	fmt.Fprintf(&sb, "ACTIVE MEDICAL CONDITIONS (%d):\n\n", len(active))

	var chronic []string
	var alertTypes []string
	hasAlerts := false

	for i, cond := range active {
		name, code := cond.Name()
		if name == "" {
			name = "Unknown Condition"
		}
		onset := fhir.DatePrefix(cond.OnsetDate, "Unknown")

		fmt.Fprintf(&sb, "%d. %s\n", i+1, name)
		if code != "" {
			fmt.Fprintf(&sb, "   Code: %s\n", code)
		}
		fmt.Fprintf(&sb, "   Onset Date: %s\n", onset)
		sb.WriteString("   Status: Active\n")

		if strings.Contains(strings.ToLower(name), "chronic") {
			chronic = append(chronic, name)
		}
		if containsAny(name, b.cfg.AlertKeywords) {
			hasAlerts = true
			alertTypes = appendUnique(alertTypes, "intimate_partner_abuse")
			sb.WriteString("   ⚠️ ALERT: Requires follow-up and support services\n")
		}
		sb.WriteString("\n")
	}

	if len(active) == 0 {
		sb.WriteString("No active conditions documented.\n")
	}

	meta := b.baseMetadata(pkg.DocActiveConditions)
	meta["total_conditions"] = len(active)
	meta["chronic_conditions"] = strings.Join(chronic, ", ")
	meta["has_alerts"] = hasAlerts
	meta["alert_types"] = strings.Join(alertTypes, ", ")
	return sb.String(), meta
}

// pastConditions renders resolved conditions and collects the notable
// history markers (first word of any name matching the keyword set).
func (b *builder) pastConditions(conditions []fhir.Condition) (string, pkg.Metadata) {
	_, past := splitByStatus(conditions)

	var sb strings.Builder
	fmt.Fprintf(&sb, "RESOLVED/PAST MEDICAL CONDITIONS (%d):\n\n", len(past))

	var notable []string

	for i, cond := range past {
		name, code := cond.Name()
		if name == "" {
			name = "Unknown Condition"
		}
		onset := fhir.DatePrefix(cond.OnsetDate, "Unknown")

		fmt.Fprintf(&sb, "%d. %s\n", i+1, name)
		if code != "" {
			fmt.Fprintf(&sb, "   Code: %s\n", code)
		}
		fmt.Fprintf(&sb, "   Date: %s\n", onset)
		sb.WriteString("   Status: Resolved\n\n")

		if containsAny(name, b.cfg.NotableHistoryKeywords) {
			notable = appendUnique(notable, firstWord(strings.ToLower(name)))
		}
	}

	if len(past) == 0 {
		sb.WriteString("No past conditions documented.\n")
	}

	meta := b.baseMetadata(pkg.DocPastConditions)
	meta["total_conditions"] = len(past)
	meta["notable_history"] = strings.Join(notable, ", ")
	return sb.String(), meta
}
