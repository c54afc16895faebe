// Package store persists per-patient summary documents.  The contract is a
// keyed document store: bulk upsert of one patient's full document set,
// point reads, in-place updates for single-summary edits, and a listing of
// stored patients for the dashboard.
package store

import (
	"context"
	"errors"

	"triage-assistant/pkg"
)

// ErrNotFound is returned when a scope or summary key has no stored row.
var ErrNotFound = errors.New("document not found")

// DocumentStore is the storage contract the summarizer output is handed to.
type DocumentStore interface {
	// PutAll upserts one patient's complete document set in a single
	// transaction, keyed by the sanitized scope key.
	PutAll(ctx context.Context, scopeKey string, documents []pkg.Summary) error

	// Get returns one stored summary, or ErrNotFound.
	Get(ctx context.Context, scopeKey, summaryKey string) (pkg.Summary, error)

	// Update rewrites the text and metadata of one stored summary.
	Update(ctx context.Context, scopeKey, summaryKey, text string, metadata pkg.Metadata) error

	// ListScopes returns a preview of every stored patient, derived from
	// each scope's patient_information metadata.
	ListScopes(ctx context.Context) ([]pkg.PatientPreview, error)
}
