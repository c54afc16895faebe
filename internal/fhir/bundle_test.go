package fhir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBundle(t *testing.T) {
	t.Run("Valid Bundle", func(t *testing.T) {
		b, err := ParseBundle([]byte(`{"resourceType":"Bundle","type":"collection","entry":[]}`))
		require.NoError(t, err)
		assert.Equal(t, "Bundle", b.ResourceType)
		assert.Equal(t, "collection", b.Type)
	})

	t.Run("Not A Bundle", func(t *testing.T) {
		_, err := ParseBundle([]byte(`{"resourceType":"Patient","id":"p1"}`))
		assert.ErrorIs(t, err, ErrNotBundle)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		_, err := ParseBundle([]byte(`{"resourceType":`))
		assert.Error(t, err)
	})
}

func TestBuildBuckets(t *testing.T) {
	t.Run("Routes Entries By Type", func(t *testing.T) {
		b, err := ParseBundle([]byte(`{
			"resourceType": "Bundle",
			"entry": [
				{"resource": {"resourceType": "Patient", "id": "p1"}},
				{"resource": {"resourceType": "Condition", "id": "c1"}},
				{"resource": {"resourceType": "Condition", "id": "c2"}},
				{"resource": {"resourceType": "Observation", "id": "o1"}},
				{"resource": {"resourceType": "CarePlan", "id": "ignored"}}
			]
		}`))
		require.NoError(t, err)

		buckets := BuildBuckets(b)
		assert.Len(t, buckets.Patients, 1)
		assert.Len(t, buckets.Conditions, 2)
		assert.Len(t, buckets.Observations, 1)
		assert.Equal(t, "c1", buckets.Conditions[0].ID)
		assert.Equal(t, "c2", buckets.Conditions[1].ID)
	})

	t.Run("Sole Patient Missing", func(t *testing.T) {
		buckets := BuildBuckets(&Bundle{ResourceType: "Bundle"})
		_, err := buckets.SolePatient()
		assert.ErrorIs(t, err, ErrNoPatient)
	})

	t.Run("Sole Patient Present", func(t *testing.T) {
		buckets := &Buckets{Patients: []Patient{{ID: "p1"}, {ID: "p2"}}}
		p, err := buckets.SolePatient()
		require.NoError(t, err)
		assert.Equal(t, "p1", p.ID)
	})
}

func TestCodeableConcept(t *testing.T) {
	t.Run("Text Overrides Coding", func(t *testing.T) {
		c := &CodeableConcept{
			Text:   "Plain label",
			Coding: []Coding{{Code: "1234", Display: "Coded label"}},
		}
		assert.Equal(t, "Plain label", c.DisplayText())
		assert.Equal(t, "1234", c.Code())
	})

	t.Run("Falls Back To First Coding", func(t *testing.T) {
		c := &CodeableConcept{Coding: []Coding{{Display: "Coded label"}, {Display: "Second"}}}
		assert.Equal(t, "Coded label", c.DisplayText())
	})

	t.Run("Nil Receiver", func(t *testing.T) {
		var c *CodeableConcept
		assert.Equal(t, "", c.DisplayText())
		assert.Equal(t, "", c.Code())
		assert.Equal(t, "", c.System())
	})
}

func TestQuantityString(t *testing.T) {
	v := 72.6
	assert.Equal(t, "72.6 kg", (&Quantity{Value: &v, Unit: "kg"}).String())

	whole := 120.0
	assert.Equal(t, "120", (&Quantity{Value: &whole}).String())

	assert.Equal(t, "", (&Quantity{Unit: "kg"}).String())

	var q *Quantity
	assert.Equal(t, "", q.String())
}

func TestDateHelpers(t *testing.T) {
	assert.Equal(t, "2023-05-01", DatePrefix("2023-05-01T10:30:00Z", ""))
	assert.Equal(t, "2023-05", DatePrefix("2023-05", ""))
	assert.Equal(t, "Unknown", DatePrefix("", "Unknown"))

	assert.Equal(t, "2023", Year("2023-05-01"))
	assert.Equal(t, "", Year("23"))
}
