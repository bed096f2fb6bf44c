// Package repository persists cases, documents, version snapshots and the
// processing log in PostgreSQL. JSON-shaped columns (applicant, checklist,
// extracted data, issues) are stored as jsonb.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"housing-intake/internal/common/errors"
	"housing-intake/internal/common/logger"
	"housing-intake/internal/models"
)

// CaseRepository stores application cases.
type CaseRepository struct {
	db  *sql.DB
	log logger.Logger
}

func NewCaseRepository(db *sql.DB, log logger.Logger) *CaseRepository {
	return &CaseRepository{db: db, log: log}
}

// Create inserts a new case in status "new" with the given reference number.
func (r *CaseRepository) Create(ctx context.Context, clientID, reference string, applicant models.Applicant) (*models.Case, error) {
	applicantJSON, err := json.Marshal(applicant)
	if err != nil {
		return nil, errors.NewInvalidInputError("applicant is not serializable: " + err.Error())
	}

	c := &models.Case{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Reference: reference,
		Status:    models.CaseStatusNew,
		Applicant: applicant,
		CreatedAt: time.Now().UTC(),
	}
	c.UpdatedAt = c.CreatedAt

	query := `
		INSERT INTO cases (id, client_id, reference, status, applicant, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, query,
		c.ID, c.ClientID, c.Reference, string(c.Status), applicantJSON, c.CreatedAt, c.UpdatedAt,
	); err != nil {
		r.log.Error("case insert failed", map[string]interface{}{"caseId": c.ID, "error": err.Error()})
		return nil, errors.NewDatabaseInsertFailedError(err)
	}
	return c, nil
}

// GetByID loads one case, including its stored checklist if present.
func (r *CaseRepository) GetByID(ctx context.Context, caseID string) (*models.Case, error) {
	query := `
		SELECT id, client_id, reference, status, applicant, checklist, created_at, updated_at
		FROM cases
		WHERE id = $1
	`
	var (
		c             models.Case
		status        string
		applicantJSON []byte
		checklistJSON []byte
	)
	err := r.db.QueryRowContext(ctx, query, caseID).Scan(
		&c.ID, &c.ClientID, &c.Reference, &status, &applicantJSON, &checklistJSON, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewCaseNotFoundError(caseID)
	}
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError(err)
	}

	c.Status = models.CaseStatus(status)
	if err := json.Unmarshal(applicantJSON, &c.Applicant); err != nil {
		return nil, errors.NewDatabaseQueryFailedError(err)
	}
	if len(checklistJSON) > 0 {
		var checklist models.DocumentChecklistStatus
		if err := json.Unmarshal(checklistJSON, &checklist); err != nil {
			return nil, errors.NewDatabaseQueryFailedError(err)
		}
		c.Checklist = &checklist
	}
	return &c, nil
}

// UpdateStatus moves a case to the given status.
func (r *CaseRepository) UpdateStatus(ctx context.Context, caseID string, status models.CaseStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE cases SET status = $2, updated_at = $3 WHERE id = $1`,
		caseID, string(status), time.Now().UTC(),
	)
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.NewCaseNotFoundError(caseID)
	}
	return nil
}

// UpdateChecklist stores the evaluated checklist on the case.
func (r *CaseRepository) UpdateChecklist(ctx context.Context, caseID string, checklist models.DocumentChecklistStatus) error {
	checklistJSON, err := json.Marshal(checklist)
	if err != nil {
		return errors.NewInvalidInputError("checklist is not serializable: " + err.Error())
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE cases SET checklist = $2, updated_at = $3 WHERE id = $1`,
		caseID, checklistJSON, time.Now().UTC(),
	)
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.NewCaseNotFoundError(caseID)
	}
	return nil
}

// ListByClient returns a client's cases, newest first.
func (r *CaseRepository) ListByClient(ctx context.Context, clientID string) ([]models.Case, error) {
	query := `
		SELECT id, client_id, reference, status, applicant, checklist, created_at, updated_at
		FROM cases
		WHERE client_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError(err)
	}
	defer rows.Close()

	var cases []models.Case
	for rows.Next() {
		var (
			c             models.Case
			status        string
			applicantJSON []byte
			checklistJSON []byte
		)
		if err := rows.Scan(&c.ID, &c.ClientID, &c.Reference, &status, &applicantJSON, &checklistJSON, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, errors.NewDatabaseQueryFailedError(err)
		}
		c.Status = models.CaseStatus(status)
		if err := json.Unmarshal(applicantJSON, &c.Applicant); err != nil {
			return nil, errors.NewDatabaseQueryFailedError(err)
		}
		if len(checklistJSON) > 0 {
			var checklist models.DocumentChecklistStatus
			if err := json.Unmarshal(checklistJSON, &checklist); err != nil {
				return nil, errors.NewDatabaseQueryFailedError(err)
			}
			c.Checklist = &checklist
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}
