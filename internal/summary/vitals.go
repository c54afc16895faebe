package summary

import (
	"fmt"
	"sort"
	"strings"

	"triage-assistant/internal/fhir"
	"triage-assistant/pkg"
)

// bmiCategory classifies a body-mass-index value.
func bmiCategory(bmi float64) string {
	switch {
	case bmi >= 30:
		return "obese"
	case bmi >= 25:
		return "overweight"
	case bmi < 18.5:
		return "underweight"
	default:
		return "normal"
	}
}

// recentVitals keeps only the latest reading per measurement name (dates
// compare as ISO strings, so the lexicographically greater one is newer)
// and renders them alphabetically.  BMI and pain readings are additionally
// parsed for the filter metadata; a value that fails to parse simply leaves
// the classification at its default.
func (b *builder) recentVitals(vitals []fhir.ObservationPoint) (string, pkg.Metadata) {
	latest := make(map[string]fhir.ObservationPoint)
	for _, v := range vitals {
		if prev, ok := latest[v.Name]; !ok || v.Date > prev.Date {
			latest[v.Name] = v
		}
	}

	names := make([]string, 0, len(latest))
	mostRecent := ""
	for name, v := range latest {
		names = append(names, name)
		if v.Date > mostRecent {
			mostRecent = v.Date
		}
	}
	sort.Strings(names)
	if mostRecent == "" {
		mostRecent = "Unknown"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "MOST RECENT VITAL SIGNS (%s):\n\n", mostRecent)

	category := "normal"
	painLevel := 0

	for _, name := range names {
		v := latest[name]
		fmt.Fprintf(&sb, "%s: %s\n", name, v.Value)

		lower := strings.ToLower(name)
		if strings.Contains(lower, "bmi") && v.Value != "" {
			if bmi := fhir.ParseFloatOrDefault(firstWord(v.Value), -1); bmi >= 0 {
				category = bmiCategory(bmi)
			}
		}
		if strings.Contains(lower, "pain") && v.Value != "" {
			painLevel = fhir.ParseIntOrDefault(firstWord(v.Value), painLevel)
		}
	}

	meta := b.baseMetadata(pkg.DocRecentVitals)
	meta["last_measurement_date"] = mostRecent
	meta["bmi_category"] = category
	meta["chronic_pain_present"] = painLevel > 0
	meta["pain_level"] = painLevel
	return sb.String(), meta
}
