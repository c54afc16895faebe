package fhir

import "strings"

// PatientInfo is the flattened demographic record used by the patient
// information summary and the scope metadata.
type PatientInfo struct {
	ID            string
	FamilyName    string
	GivenNames    string
	Prefix        string
	FullName      string
	Gender        string
	BirthDate     string
	AddressLine   string
	City          string
	State         string
	PostalCode    string
	Country       string
	FullAddress   string
	Phone         string
	Email         string
	MaritalStatus string
	MultipleBirth *bool
	Race          string
	Ethnicity     string
}

// ExtractPatient flattens a Patient resource.  Every field is best-effort;
// missing data leaves the corresponding field empty.
func ExtractPatient(p *Patient) PatientInfo {
	info := PatientInfo{ID: p.ID, Gender: p.Gender, BirthDate: p.BirthDate}

	if len(p.Name) > 0 {
		n := p.Name[0]
		info.FamilyName = n.Family
		info.GivenNames = strings.Join(n.Given, " ")
		info.Prefix = strings.Join(n.Prefix, " ")
		info.FullName = strings.TrimSpace(strings.Join(trimEmpty([]string{info.Prefix, info.GivenNames, info.FamilyName}), " "))
	}

	if len(p.Address) > 0 {
		a := p.Address[0]
		info.AddressLine = strings.Join(a.Line, ", ")
		info.City = a.City
		info.State = a.State
		info.PostalCode = a.PostalCode
		info.Country = a.Country
		info.FullAddress = strings.Join(trimEmpty([]string{info.AddressLine, a.City, a.State, a.PostalCode, a.Country}), ", ")
	}

	for _, t := range p.Telecom {
		switch t.System {
		case "phone":
			info.Phone = t.Value
		case "email":
			info.Email = t.Value
		}
	}

	info.MaritalStatus = p.MaritalStatus.DisplayText()
	info.MultipleBirth = p.MultipleBirthBoolean

	for _, ext := range p.Extension {
		switch {
		case strings.Contains(ext.URL, "race"):
			info.Race = textSubExtension(ext)
		case strings.Contains(ext.URL, "ethnicity"):
			info.Ethnicity = textSubExtension(ext)
		}
	}
	return info
}

func textSubExtension(ext Extension) string {
	for _, sub := range ext.Extension {
		if sub.URL == "text" {
			return sub.ValueString
		}
	}
	return ""
}

func trimEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// EncounterInfo is the flattened view of an Encounter resource.
type EncounterInfo struct {
	ID              string
	Status          string
	Class           string
	TypeCode        string
	TypeDisplay     string
	Start           string
	End             string
	ServiceProvider string
}

func ExtractEncounter(e *Encounter) EncounterInfo {
	info := EncounterInfo{ID: e.ID, Status: e.Status}
	if e.Class != nil {
		info.Class = e.Class.Code
	}
	if len(e.Type) > 0 {
		info.TypeCode = e.Type[0].Code()
		info.TypeDisplay = e.Type[0].DisplayText()
	}
	if e.Period != nil {
		info.Start = e.Period.Start
		info.End = e.Period.End
	}
	if e.ServiceProvider != nil {
		info.ServiceProvider = e.ServiceProvider.Display
	}
	return info
}

// ConditionInfo is the flattened view of a Condition resource.
type ConditionInfo struct {
	ID             string
	ClinicalStatus string
	Code           string
	Display        string
	System         string
	Text           string
	OnsetDate      string
}

func ExtractCondition(c *Condition) ConditionInfo {
	info := ConditionInfo{
		ID:             c.ID,
		ClinicalStatus: c.ClinicalStatus.Code(),
		Code:           c.Code.Code(),
		System:         c.Code.System(),
	}
	if c.Code != nil {
		info.Text = c.Code.Text
		if len(c.Code.Coding) > 0 {
			info.Display = c.Code.Coding[0].Display
		}
	}
	info.OnsetDate = c.OnsetDateTime
	if info.OnsetDate == "" {
		info.OnsetDate = c.RecordedDate
	}
	return info
}

// Name resolves the condition's display label: the free-text override wins,
// then the coding display.  The paired code is only reported when the label
// came from a coding, matching how the summaries render condition codes.
func (c ConditionInfo) Name() (name, code string) {
	if c.Text != "" {
		return c.Text, ""
	}
	if c.Display != "" {
		return c.Display, c.Code
	}
	return "", ""
}

// ObservationInfo is the flattened view of an Observation resource.  Value
// resolution follows a fixed precedence: quantity, coded value, string.
type ObservationInfo struct {
	ID              string
	Status          string
	CategoryCode    string
	CategoryDisplay string
	Code            string
	Display         string
	Text            string
	EffectiveDate   string
	Value           *float64
	Unit            string
	ValueCode       string
	ValueDisplay    string
	ValueString     string
}

func ExtractObservation(o *Observation) ObservationInfo {
	info := ObservationInfo{
		ID:            o.ID,
		Status:        o.Status,
		EffectiveDate: o.EffectiveDateTime,
	}
	if len(o.Category) > 0 {
		info.CategoryCode = o.Category[0].Code()
		if len(o.Category[0].Coding) > 0 {
			info.CategoryDisplay = o.Category[0].Coding[0].Display
		}
	}
	if o.Code != nil {
		info.Text = o.Code.Text
		if len(o.Code.Coding) > 0 {
			info.Code = o.Code.Coding[0].Code
			info.Display = o.Code.Coding[0].Display
		}
	}
	switch {
	case o.ValueQuantity != nil:
		info.Value = o.ValueQuantity.Value
		info.Unit = o.ValueQuantity.Unit
		info.ValueString = o.ValueQuantity.String()
	case o.ValueCodeableConcept != nil:
		info.ValueCode = o.ValueCodeableConcept.Code()
		info.ValueDisplay = o.ValueCodeableConcept.DisplayText()
		if o.ValueCodeableConcept.Text != "" {
			info.ValueString = o.ValueCodeableConcept.Text
		}
	case o.ValueString != "":
		info.ValueString = o.ValueString
	}
	return info
}

// DiagnosticReportInfo is the flattened view of a DiagnosticReport.
type DiagnosticReportInfo struct {
	ID              string
	Status          string
	CategoryCode    string
	CategoryDisplay string
	Code            string
	Display         string
	EffectiveDate   string
	IssuedDate      string
}

func ExtractDiagnosticReport(r *DiagnosticReport) DiagnosticReportInfo {
	info := DiagnosticReportInfo{
		ID:            r.ID,
		Status:        r.Status,
		EffectiveDate: r.EffectiveDateTime,
		IssuedDate:    r.Issued,
	}
	if len(r.Category) > 0 {
		info.CategoryCode = r.Category[0].Code()
		if len(r.Category[0].Coding) > 0 {
			info.CategoryDisplay = r.Category[0].Coding[0].Display
		}
	}
	if r.Code != nil && len(r.Code.Coding) > 0 {
		info.Code = r.Code.Coding[0].Code
		info.Display = r.Code.Coding[0].Display
	}
	return info
}

// ClaimInfo is the flattened view of a Claim resource.
type ClaimInfo struct {
	ID            string
	Status        string
	Use           string
	TypeCode      string
	TypeDisplay   string
	CreatedDate   string
	TotalValue    *float64
	TotalCurrency string
}

func ExtractClaim(c *Claim) ClaimInfo {
	info := ClaimInfo{
		ID:          c.ID,
		Status:      c.Status,
		Use:         c.Use,
		TypeCode:    c.Type.Code(),
		CreatedDate: c.Created,
	}
	info.TypeDisplay = c.Type.DisplayText()
	if c.Total != nil {
		info.TotalValue = c.Total.Value
		info.TotalCurrency = c.Total.Currency
	}
	return info
}

// BenefitInfo is the flattened view of an ExplanationOfBenefit, including
// the per-category total amounts keyed by category code.
type BenefitInfo struct {
	ID              string
	Status          string
	Use             string
	TypeCode        string
	TypeDisplay     string
	CreatedDate     string
	Outcome         string
	Totals          []BenefitAmount
	PaymentValue    *float64
	PaymentCurrency string
}

// BenefitAmount is one category-tagged total from an EOB.
type BenefitAmount struct {
	Category string
	Value    *float64
	Currency string
}

func ExtractBenefit(e *ExplanationOfBenefit) BenefitInfo {
	info := BenefitInfo{
		ID:          e.ID,
		Status:      e.Status,
		Use:         e.Use,
		TypeCode:    e.Type.Code(),
		TypeDisplay: e.Type.DisplayText(),
		CreatedDate: e.Created,
		Outcome:     e.Outcome,
	}
	for _, t := range e.Total {
		amt := BenefitAmount{Category: t.Category.Code()}
		if t.Amount != nil {
			amt.Value = t.Amount.Value
			amt.Currency = t.Amount.Currency
		}
		info.Totals = append(info.Totals, amt)
	}
	if e.Payment != nil && e.Payment.Amount != nil {
		info.PaymentValue = e.Payment.Amount.Value
		info.PaymentCurrency = e.Payment.Amount.Currency
	}
	return info
}
