package fhir

import "strconv"

// Coding is one (system, code, display) triple inside a CodeableConcept.
type Coding struct {
	System  string `json:"system"`
	Code    string `json:"code"`
	Display string `json:"display"`
}

// CodeableConcept offers either a free-text override or a list of codings.
type CodeableConcept struct {
	Coding []Coding `json:"coding"`
	Text   string   `json:"text"`
}

// DisplayText resolves the human-readable label: the free-text override if
// present, else the display of the first coding, else "".
func (c *CodeableConcept) DisplayText() string {
	if c == nil {
		return ""
	}
	if c.Text != "" {
		return c.Text
	}
	if len(c.Coding) > 0 {
		return c.Coding[0].Display
	}
	return ""
}

// Code returns the first coding's code, else "".
func (c *CodeableConcept) Code() string {
	if c == nil || len(c.Coding) == 0 {
		return ""
	}
	return c.Coding[0].Code
}

// System returns the first coding's system, else "".
func (c *CodeableConcept) System() string {
	if c == nil || len(c.Coding) == 0 {
		return ""
	}
	return c.Coding[0].System
}

// Quantity is a measured value with a unit.
type Quantity struct {
	Value *float64 `json:"value"`
	Unit  string   `json:"unit"`
}

// String renders the quantity as "value unit", trimming trailing zeros the
// way the source JSON carried the number.
func (q *Quantity) String() string {
	if q == nil || q.Value == nil {
		return ""
	}
	s := strconv.FormatFloat(*q.Value, 'f', -1, 64)
	if q.Unit != "" {
		return s + " " + q.Unit
	}
	return s
}

type Money struct {
	Value    *float64 `json:"value"`
	Currency string   `json:"currency"`
}

type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Reference struct {
	Reference string `json:"reference"`
	Display   string `json:"display"`
}

type HumanName struct {
	Family string   `json:"family"`
	Given  []string `json:"given"`
	Prefix []string `json:"prefix"`
}

type Address struct {
	Line       []string `json:"line"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	PostalCode string   `json:"postalCode"`
	Country    string   `json:"country"`
}

type ContactPoint struct {
	System string `json:"system"`
	Value  string `json:"value"`
}

// Extension carries US-Core style nested extensions (race, ethnicity).
type Extension struct {
	URL         string      `json:"url"`
	ValueString string      `json:"valueString"`
	Extension   []Extension `json:"extension"`
}

// DatePrefix truncates an ISO timestamp to its date part.  Shorter strings
// pass through unchanged; empty input yields the fallback.
func DatePrefix(s, fallback string) string {
	if s == "" {
		return fallback
	}
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

// Year returns the four-digit year prefix of an ISO date string, else "".
func Year(s string) string {
	if len(s) < 4 {
		return ""
	}
	return s[:4]
}

// ParseFloatOrDefault parses s as a float, returning def when it does not
// parse.  Classification heuristics use this so bad data degrades silently.
func ParseFloatOrDefault(s string, def float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

// ParseIntOrDefault parses s as an integer, returning def on failure.
func ParseIntOrDefault(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
