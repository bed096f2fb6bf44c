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

const documentColumns = `
	id, case_id, client_id, file_name, original_file_name, mime_type, size_bytes,
	storage_key, version, category, confidence, processing_status, extracted_data,
	extraction_version, completeness_score, issues, created_at, updated_at
`

// DocumentRepository stores uploaded documents and their derived state.
type DocumentRepository struct {
	db  *sql.DB
	log logger.Logger
}

func NewDocumentRepository(db *sql.DB, log logger.Logger) *DocumentRepository {
	return &DocumentRepository{db: db, log: log}
}

// Create inserts a freshly uploaded document at version 1 in status uploaded.
func (r *DocumentRepository) Create(ctx context.Context, d *models.Document) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Version == 0 {
		d.Version = 1
	}
	if d.ProcessingStatus == "" {
		d.ProcessingStatus = models.ProcessingUploaded
	}
	if d.Category == "" {
		d.Category = models.CategoryUnknown
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	extractedJSON, issuesJSON, err := marshalDerived(d)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	if _, err := r.db.ExecContext(ctx, query,
		d.ID, d.CaseID, d.ClientID, d.FileName, d.OriginalFileName, d.MimeType, d.SizeBytes,
		d.StorageKey, d.Version, string(d.Category), d.Confidence, string(d.ProcessingStatus),
		extractedJSON, d.ExtractionVersion, d.CompletenessScore, issuesJSON, d.CreatedAt, d.UpdatedAt,
	); err != nil {
		r.log.Error("document insert failed", map[string]interface{}{"documentId": d.ID, "error": err.Error()})
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

// GetByID loads one document.
func (r *DocumentRepository) GetByID(ctx context.Context, documentID string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	d, err := scanDocument(r.db.QueryRowContext(ctx, query, documentID))
	if err == sql.ErrNoRows {
		return nil, errors.NewDocumentNotFoundError(documentID)
	}
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError(err)
	}
	return d, nil
}

// ListByCase returns every document attached to a case in upload order.
func (r *DocumentRepository) ListByCase(ctx context.Context, caseID string) ([]models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE case_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError(err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, errors.NewDatabaseQueryFailedError(err)
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// UpdateStatus moves a document through the processing state machine.
func (r *DocumentRepository) UpdateStatus(ctx context.Context, documentID string, status models.ProcessingStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET processing_status = $2, updated_at = $3 WHERE id = $1`,
		documentID, string(status), time.Now().UTC(),
	)
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.NewDocumentNotFoundError(documentID)
	}
	return nil
}

// UpdateClassification records the classification outcome.
func (r *DocumentRepository) UpdateClassification(ctx context.Context, documentID string, category models.Category, confidence float64, status models.ProcessingStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET category = $2, confidence = $3, processing_status = $4, updated_at = $5 WHERE id = $1`,
		documentID, string(category), confidence, string(status), time.Now().UTC(),
	)
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.NewDocumentNotFoundError(documentID)
	}
	return nil
}

// UpdateExtraction records the extraction outcome and its version number.
func (r *DocumentRepository) UpdateExtraction(ctx context.Context, d *models.Document) error {
	extractedJSON, issuesJSON, err := marshalDerived(d)
	if err != nil {
		return err
	}
	d.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE documents
		SET extracted_data = $2, extraction_version = $3, completeness_score = $4,
		    issues = $5, processing_status = $6, updated_at = $7
		WHERE id = $1`,
		d.ID, extractedJSON, d.ExtractionVersion, d.CompletenessScore,
		issuesJSON, string(d.ProcessingStatus), d.UpdatedAt,
	)
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.NewDocumentNotFoundError(d.ID)
	}
	return nil
}

// ReplaceContent bumps the version counter and swaps the stored bytes' key
// when a newer file replaces the current one.
func (r *DocumentRepository) ReplaceContent(ctx context.Context, documentID, fileName, originalFileName, mimeType, storageKey string, sizeBytes int64, version int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE documents
		SET file_name = $2, original_file_name = $3, mime_type = $4, storage_key = $5,
		    size_bytes = $6, version = $7, processing_status = $8, updated_at = $9
		WHERE id = $1`,
		documentID, fileName, originalFileName, mimeType, storageKey,
		sizeBytes, version, string(models.ProcessingUploaded), time.Now().UTC(),
	)
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.NewDocumentNotFoundError(documentID)
	}
	return nil
}

// Delete removes the document row. Version snapshots and log entries cascade.
func (r *DocumentRepository) Delete(ctx context.Context, documentID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, documentID)
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.NewDocumentNotFoundError(documentID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var (
		d             models.Document
		category      string
		status        string
		extractedJSON []byte
		issuesJSON    []byte
	)
	if err := row.Scan(
		&d.ID, &d.CaseID, &d.ClientID, &d.FileName, &d.OriginalFileName, &d.MimeType, &d.SizeBytes,
		&d.StorageKey, &d.Version, &category, &d.Confidence, &status,
		&extractedJSON, &d.ExtractionVersion, &d.CompletenessScore, &issuesJSON, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	d.Category = models.Category(category)
	d.ProcessingStatus = models.ProcessingStatus(status)
	if len(extractedJSON) > 0 {
		if err := json.Unmarshal(extractedJSON, &d.ExtractedData); err != nil {
			return nil, err
		}
	}
	if len(issuesJSON) > 0 {
		if err := json.Unmarshal(issuesJSON, &d.Issues); err != nil {
			return nil, err
		}
	}
	return &d, nil
}

func marshalDerived(d *models.Document) (extracted, issues []byte, err error) {
	if d.ExtractedData != nil {
		if extracted, err = json.Marshal(d.ExtractedData); err != nil {
			return nil, nil, errors.NewInvalidInputError("extracted data is not serializable: " + err.Error())
		}
	}
	if d.Issues != nil {
		if issues, err = json.Marshal(d.Issues); err != nil {
			return nil, nil, errors.NewInvalidInputError("issues are not serializable: " + err.Error())
		}
	}
	return extracted, issues, nil
}
