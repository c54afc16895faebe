// Package recall remembers recent triage assessments per patient so the
// scorer can judge symptom progression across visits.  Backed by a Redis
// list; when no Redis client is configured every call degrades to a no-op
// and scoring proceeds without progression context.
package recall

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"triage-assistant/pkg"
)

const (
	defaultDepth = 20
	shownEntries = 3
)

// Memory stores and formats per-patient assessment history.
type Memory struct {
	rdb    *redis.Client
	logger *zap.Logger
	depth  int64
	ttl    time.Duration
}

// New builds a Memory on the given client.  A nil client is allowed and
// yields an inert memory.
func New(rdb *redis.Client, logger *zap.Logger, depth int, ttl time.Duration) *Memory {
	if depth <= 0 {
		depth = defaultDepth
	}
	return &Memory{rdb: rdb, logger: logger, depth: int64(depth), ttl: ttl}
}

func (m *Memory) key(patientID string) string {
	return "recall:" + patientID
}

// Remember appends one assessment outcome to the patient's history, keeping
// only the most recent entries. Failures are logged and swallowed; recall is
// advisory and must never fail a scoring run.
func (m *Memory) Remember(ctx context.Context, patientID string, entry pkg.RecallEntry) {
	if m.rdb == nil || patientID == "" {
		return
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		m.logger.Warn("recall encode failed", zap.Error(err))
		return
	}
	key := m.key(patientID)
	pipe := m.rdb.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.LTrim(ctx, key, -m.depth, -1)
	if m.ttl > 0 {
		pipe.Expire(ctx, key, m.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		m.logger.Warn("recall store failed", zap.String("patient_id", patientID), zap.Error(err))
	}
}

// Entries returns the stored history, oldest first.
func (m *Memory) Entries(ctx context.Context, patientID string) ([]pkg.RecallEntry, error) {
	if m.rdb == nil || patientID == "" {
		return nil, nil
	}
	raws, err := m.rdb.LRange(ctx, m.key(patientID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("recall read: %w", err)
	}
	entries := make([]pkg.RecallEntry, 0, len(raws))
	for _, raw := range raws {
		var e pkg.RecallEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Text renders the most recent assessments as a block for the scoring
// prompt. Returns "" when there is nothing to recall or Redis is
// unavailable.
func (m *Memory) Text(ctx context.Context, patientID string) string {
	entries, err := m.Entries(ctx, patientID)
	if err != nil {
		m.logger.Warn("recall unavailable", zap.String("patient_id", patientID), zap.Error(err))
		return ""
	}
	if len(entries) == 0 {
		return ""
	}
	return formatEntries(entries)
}

const symptomsShownRunes = 100

// formatEntries renders the newest entries as the recall block for the
// scoring prompt. Symptoms are truncated on runes so a multibyte character
// is never split mid-sequence.
func formatEntries(entries []pkg.RecallEntry) string {
	if len(entries) > shownEntries {
		entries = entries[len(entries)-shownEntries:]
	}
	blocks := make([]string, 0, len(entries))
	for i, e := range entries {
		symptoms := e.Symptoms
		if runes := []rune(symptoms); len(runes) > symptomsShownRunes {
			symptoms = string(runes[:symptomsShownRunes])
		}
		blocks = append(blocks, fmt.Sprintf("Assessment %d (%s):\n  Symptoms: %s...\n  Triage Score: %d/5",
			i+1, e.Timestamp.Format("2006-01-02 15:04"), symptoms, e.TriageScore))
	}
	return strings.Join(blocks, "\n\n")
}
