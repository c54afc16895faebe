package triage

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON(t *testing.T) {
	t.Run("Strips Code Fence", func(t *testing.T) {
		raw := "```json\n{\"triage_score\": 2}\n```"
		assert.Equal(t, `{"triage_score": 2}`, RepairJSON(raw))
	})

	t.Run("Strips Bare Fence", func(t *testing.T) {
		raw := "```\n{\"triage_score\": 2}\n```"
		assert.Equal(t, `{"triage_score": 2}`, RepairJSON(raw))
	})

	t.Run("Strips BOM", func(t *testing.T) {
		raw := "\ufeff{\"triage_score\": 4}"
		assert.Equal(t, `{"triage_score": 4}`, RepairJSON(raw))
	})

	t.Run("Removes Trailing Commas", func(t *testing.T) {
		raw := `{"items": ["a", "b",], "score": 3,}`
		cleaned := RepairJSON(raw)
		var v map[string]any
		require.NoError(t, json.Unmarshal([]byte(cleaned), &v))
		assert.Equal(t, float64(3), v["score"])
	})

	t.Run("Removes Line Comments", func(t *testing.T) {
		raw := "{\n\"score\": 5 // nothing urgent\n}"
		cleaned := RepairJSON(raw)
		var v map[string]any
		require.NoError(t, json.Unmarshal([]byte(cleaned), &v))
		assert.Equal(t, float64(5), v["score"])
	})

	t.Run("Extracts Object From Surrounding Prose", func(t *testing.T) {
		raw := "Here is the assessment:\n{\"triage_score\": 1}\nLet me know if you need more."
		assert.Equal(t, `{"triage_score": 1}`, RepairJSON(raw))
	})

	t.Run("Empty Input", func(t *testing.T) {
		assert.Equal(t, "", RepairJSON("   "))
	})
}
