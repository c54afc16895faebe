package summary

import (
	"fmt"
	"sort"
	"strings"

	"triage-assistant/internal/fhir"
	"triage-assistant/pkg"
)

// recentLabs groups lab results by date and renders the most recent test
// dates, newest first.  The last_lab_date metadata is the maximum over all
// dates, not just the rendered ones.
func (b *builder) recentLabs(labs []fhir.ObservationPoint) (string, pkg.Metadata) {
	byDate := make(map[string][]fhir.ObservationPoint)
	for _, lab := range labs {
		byDate[lab.Date] = append(byDate[lab.Date], lab)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	var sb strings.Builder
	sb.WriteString("RECENT LABORATORY RESULTS:\n\n")

	shown := dates
	if len(shown) > b.cfg.LabDatesShown {
		shown = shown[:b.cfg.LabDatesShown]
	}
	for _, d := range shown {
		fmt.Fprintf(&sb, "=== %s ===\n", d)
		for _, lab := range byDate[d] {
			fmt.Fprintf(&sb, "%s: %s\n", lab.Name, lab.Value)
		}
		sb.WriteString("\n")
	}

	mostRecent := "Unknown"
	if len(dates) > 0 {
		mostRecent = dates[0]
	}

	meta := b.baseMetadata(pkg.DocRecentLabs)
	meta["last_lab_date"] = mostRecent
	meta["total_lab_results"] = len(labs)
	return sb.String(), meta
}
