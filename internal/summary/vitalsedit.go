package summary

import (
	"fmt"
	"regexp"
	"strconv"

	"triage-assistant/pkg"
)

var (
	weightLineRe = regexp.MustCompile(`Body Weight:\s*\d+(?:\.\d+)?\s*kg`)
	heightLineRe = regexp.MustCompile(`Body Height:\s*(\d+(?:\.\d+)?)\s*cm`)
	bmiLineRe    = regexp.MustCompile(`Body mass index \(BMI\) \[Ratio\]:\s*\d+(?:\.\d+)?\s*kg/m2`)
)

// UpdateWeight rewrites the weight line of a recent_vitals document with a
// new measurement.  When the document also carries a height, the BMI line
// and the bmi_category metadata are recomputed from the new weight.  The
// input metadata is not mutated; the updated copy is returned.
func UpdateWeight(text string, meta pkg.Metadata, weightKg float64) (string, pkg.Metadata) {
	updated := weightLineRe.ReplaceAllString(text, fmt.Sprintf("Body Weight: %d kg", int(weightKg)))

	out := make(pkg.Metadata, len(meta))
	for k, v := range meta {
		out[k] = v
	}

	if m := heightLineRe.FindStringSubmatch(updated); m != nil {
		if heightCm, err := strconv.ParseFloat(m[1], 64); err == nil && heightCm > 0 {
			heightM := heightCm / 100
			bmi := weightKg / (heightM * heightM)
			updated = bmiLineRe.ReplaceAllString(updated, fmt.Sprintf("Body mass index (BMI) [Ratio]: %.2f kg/m2", bmi))
			out["bmi_category"] = bmiCategory(bmi)
		}
	}
	return updated, out
}
