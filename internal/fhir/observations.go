package fhir

import "strings"

// ObservationPoint is one classified observation reading: a measurement
// name, its rendered value, the reading date and the source resource id.
type ObservationPoint struct {
	Name  string
	Value string
	Date  string
	ID    string
}

// hasCategory reports whether any category coding's code contains the given
// substring, case-insensitively.  Synthetic exports are inconsistent about
// category systems, so substring matching is deliberate.
func hasCategory(o *Observation, substr string) bool {
	for _, cat := range o.Category {
		for _, coding := range cat.Coding {
			if strings.Contains(strings.ToLower(coding.Code), substr) {
				return true
			}
		}
	}
	return false
}

func observationDate(o *Observation) string {
	if o.EffectiveDateTime != "" {
		return DatePrefix(o.EffectiveDateTime, "")
	}
	return DatePrefix(o.Issued, "")
}

// VitalSigns selects vital-sign observations.  Values resolve from the
// quantity when present, else the coded value's text.
func VitalSigns(observations []Observation) []ObservationPoint {
	var out []ObservationPoint
	for i := range observations {
		o := &observations[i]
		if !hasCategory(o, "vital") {
			continue
		}
		value := o.ValueQuantity.String()
		if value == "" && o.ValueCodeableConcept != nil {
			value = o.ValueCodeableConcept.DisplayText()
		}
		out = append(out, ObservationPoint{
			Name:  o.Code.DisplayText(),
			Value: value,
			Date:  observationDate(o),
			ID:    o.ID,
		})
	}
	return out
}

// LabResults selects laboratory observations.  Only quantity values are
// rendered; coded or string lab values stay empty.
func LabResults(observations []Observation) []ObservationPoint {
	var out []ObservationPoint
	for i := range observations {
		o := &observations[i]
		if !hasCategory(o, "lab") {
			continue
		}
		out = append(out, ObservationPoint{
			Name:  o.Code.DisplayText(),
			Value: o.ValueQuantity.String(),
			Date:  observationDate(o),
			ID:    o.ID,
		})
	}
	return out
}

// SocialHistory selects social-history observations.  Values resolve from
// the coded value's text, else the plain string value.
func SocialHistory(observations []Observation) []ObservationPoint {
	var out []ObservationPoint
	for i := range observations {
		o := &observations[i]
		if !hasCategory(o, "social") {
			continue
		}
		value := o.ValueCodeableConcept.DisplayText()
		if value == "" {
			value = o.ValueString
		}
		out = append(out, ObservationPoint{
			Name:  o.Code.DisplayText(),
			Value: value,
			Date:  observationDate(o),
			ID:    o.ID,
		})
	}
	return out
}
