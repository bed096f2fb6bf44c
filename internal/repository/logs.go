package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"housing-intake/internal/common/errors"
	"housing-intake/internal/models"
)

// LogRepository appends to the immutable processing audit trail.
type LogRepository struct {
	db *sql.DB
}

func NewLogRepository(db *sql.DB) *LogRepository {
	return &LogRepository{db: db}
}

// Append writes one audit entry. Entries are never updated or deleted while
// their document exists.
func (r *LogRepository) Append(ctx context.Context, entry *models.ProcessingLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO processing_log (id, document_id, case_id, action, outcome, details, error, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.DocumentID, entry.CaseID, entry.Action, string(entry.Outcome),
		entry.Details, entry.Error, entry.Duration, entry.CreatedAt,
	); err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

// ByDocument returns a document's audit trail in chronological order.
func (r *LogRepository) ByDocument(ctx context.Context, documentID string) ([]models.ProcessingLogEntry, error) {
	query := `
		SELECT id, document_id, case_id, action, outcome, details, error, duration_ms, created_at
		FROM processing_log
		WHERE document_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError(err)
	}
	defer rows.Close()

	return scanLogEntries(rows)
}

// ByCase returns every audit entry for a case in chronological order.
func (r *LogRepository) ByCase(ctx context.Context, caseID string) ([]models.ProcessingLogEntry, error) {
	query := `
		SELECT id, document_id, case_id, action, outcome, details, error, duration_ms, created_at
		FROM processing_log
		WHERE case_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError(err)
	}
	defer rows.Close()

	return scanLogEntries(rows)
}

func scanLogEntries(rows *sql.Rows) ([]models.ProcessingLogEntry, error) {
	var entries []models.ProcessingLogEntry
	for rows.Next() {
		var (
			e       models.ProcessingLogEntry
			outcome string
			details sql.NullString
			errMsg  sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.DocumentID, &e.CaseID, &e.Action, &outcome, &details, &errMsg, &e.Duration, &e.CreatedAt); err != nil {
			return nil, errors.NewDatabaseQueryFailedError(err)
		}
		e.Outcome = models.LogOutcome(outcome)
		if details.Valid {
			e.Details = details.String
		}
		if errMsg.Valid {
			e.Error = errMsg.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
