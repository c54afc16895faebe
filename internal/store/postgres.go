package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"triage-assistant/pkg"
)

// Repository is the Postgres-backed document store.  Metadata lives in a
// JSONB column so dashboards can filter on the flags directly.
type Repository struct {
	DB *sql.DB
}

// NewRepository constructs a Repository from an existing sql.DB.  The
// caller manages the connection lifecycle.
func NewRepository(db *sql.DB) *Repository { return &Repository{DB: db} }

var _ DocumentStore = (*Repository)(nil)

// PutAll upserts the full document set for one patient in a transaction so
// a partially written record set is never observable.
func (r *Repository) PutAll(ctx context.Context, scopeKey string, documents []pkg.Summary) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put-all: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO patient_documents (scope_key, summary_key, doc, metadata, updated_at)
         VALUES ($1, $2, $3, $4, NOW())
         ON CONFLICT (scope_key, summary_key)
         DO UPDATE SET doc = EXCLUDED.doc, metadata = EXCLUDED.metadata, updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("prepare put-all: %w", err)
	}
	defer stmt.Close()

	for _, d := range documents {
		metaJSON, err := json.Marshal(d.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for %s: %w", d.Key, err)
		}
		if _, err := stmt.ExecContext(ctx, scopeKey, d.Key, d.Text, metaJSON); err != nil {
			return fmt.Errorf("upsert %s/%s: %w", scopeKey, d.Key, err)
		}
	}
	return tx.Commit()
}

// Get returns one stored summary.
func (r *Repository) Get(ctx context.Context, scopeKey, summaryKey string) (pkg.Summary, error) {
	var (
		doc      string
		metaJSON []byte
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT doc, metadata FROM patient_documents
         WHERE scope_key = $1 AND summary_key = $2`,
		scopeKey, summaryKey,
	).Scan(&doc, &metaJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return pkg.Summary{}, ErrNotFound
	}
	if err != nil {
		return pkg.Summary{}, err
	}

	var meta pkg.Metadata
	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		return pkg.Summary{}, fmt.Errorf("decode metadata for %s/%s: %w", scopeKey, summaryKey, err)
	}
	return pkg.Summary{Key: summaryKey, Text: doc, Metadata: meta}, nil
}

// Update rewrites one stored summary in place.
func (r *Repository) Update(ctx context.Context, scopeKey, summaryKey, text string, metadata pkg.Metadata) error {
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE patient_documents
         SET doc = $3, metadata = $4, updated_at = NOW()
         WHERE scope_key = $1 AND summary_key = $2`,
		scopeKey, summaryKey, text, metaJSON)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListScopes lists stored patients, newest first.  The preview fields come
// from each scope's patient_information metadata.
func (r *Repository) ListScopes(ctx context.Context) ([]pkg.PatientPreview, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT scope_key, metadata FROM patient_documents
         WHERE summary_key = $1
         ORDER BY updated_at DESC`,
		pkg.DocPatientInformation)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var previews []pkg.PatientPreview
	for rows.Next() {
		var (
			scopeKey string
			metaJSON []byte
		)
		if err := rows.Scan(&scopeKey, &metaJSON); err != nil {
			return nil, err
		}
		var meta pkg.Metadata
		if err := json.Unmarshal(metaJSON, &meta); err != nil {
			return nil, fmt.Errorf("decode metadata for %s: %w", scopeKey, err)
		}
		previews = append(previews, pkg.PatientPreview{
			ScopeKey:    scopeKey,
			PatientID:   metaString(meta, "patient_id"),
			PatientName: metaString(meta, "patient_name"),
			Gender:      metaString(meta, "gender"),
			LastUpdated: metaString(meta, "last_updated"),
		})
	}
	return previews, rows.Err()
}

func metaString(meta pkg.Metadata, key string) string {
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}
