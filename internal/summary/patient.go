package summary

import (
	"fmt"
	"strings"

	"triage-assistant/pkg"
)

// patientInformation renders the demographic document.  Age is a
// placeholder: nothing in this pipeline computes it from the birth date, so
// the text shows "Unknown" and the metadata carries a zero for filtering.
func (b *builder) patientInformation() (string, pkg.Metadata) {
	p := b.patient

	var sb strings.Builder
	sb.WriteString("PATIENT INFORMATION\n\n")
	fmt.Fprintf(&sb, "Name: %s\n", orDefault(p.FullName, "Unknown"))
	fmt.Fprintf(&sb, "Patient ID: %s\n", orDefault(p.ID, "Unknown"))
	fmt.Fprintf(&sb, "Date of Birth: %s\n", orDefault(p.BirthDate, "Unknown"))
	sb.WriteString("Age: Unknown years old\n")
	fmt.Fprintf(&sb, "Gender: %s\n", capitalize(orDefault(p.Gender, "Unknown")))
	fmt.Fprintf(&sb, "Race: %s\n", orDefault(p.Race, "Not documented"))
	fmt.Fprintf(&sb, "Ethnicity: %s\n", orDefault(p.Ethnicity, "Not documented"))
	fmt.Fprintf(&sb, "Marital Status: %s\n", orDefault(p.MaritalStatus, "Not documented"))
	sb.WriteString("\nCONTACT INFORMATION:\n")
	fmt.Fprintf(&sb, "Address: %s\n", orDefault(p.FullAddress, "Not documented"))
	fmt.Fprintf(&sb, "Phone: %s\n", orDefault(p.Phone, "Not documented"))

	meta := b.baseMetadata(pkg.DocPatientInformation)
	meta["age"] = 0
	meta["gender"] = p.Gender
	return sb.String(), meta
}
