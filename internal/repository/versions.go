package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"housing-intake/internal/common/errors"
	"housing-intake/internal/models"
)

// VersionRepository stores the immutable document and extraction snapshots.
type VersionRepository struct {
	db *sql.DB
}

func NewVersionRepository(db *sql.DB) *VersionRepository {
	return &VersionRepository{db: db}
}

// AddDocumentVersion appends a snapshot of the document state prior to a
// content replacement.
func (r *VersionRepository) AddDocumentVersion(ctx context.Context, v *models.DocumentVersion) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	v.CreatedAt = time.Now().UTC()

	var extractedJSON []byte
	if v.ExtractedData != nil {
		var err error
		if extractedJSON, err = json.Marshal(v.ExtractedData); err != nil {
			return errors.NewInvalidInputError("extracted data is not serializable: " + err.Error())
		}
	}

	query := `
		INSERT INTO document_versions (id, document_id, version, storage_key, extracted_data, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := r.db.ExecContext(ctx, query,
		v.ID, v.DocumentID, v.Version, v.StorageKey, extractedJSON, v.Reason, v.CreatedBy, v.CreatedAt,
	); err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

// DocumentVersions returns a document's snapshots, newest first.
func (r *VersionRepository) DocumentVersions(ctx context.Context, documentID string) ([]models.DocumentVersion, error) {
	query := `
		SELECT id, document_id, version, storage_key, extracted_data, reason, created_by, created_at
		FROM document_versions
		WHERE document_id = $1
		ORDER BY version DESC
	`
	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError(err)
	}
	defer rows.Close()

	var versions []models.DocumentVersion
	for rows.Next() {
		var (
			v             models.DocumentVersion
			extractedJSON []byte
			createdBy     sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.DocumentID, &v.Version, &v.StorageKey, &extractedJSON, &v.Reason, &createdBy, &v.CreatedAt); err != nil {
			return nil, errors.NewDatabaseQueryFailedError(err)
		}
		if createdBy.Valid {
			v.CreatedBy = createdBy.String
		}
		if len(extractedJSON) > 0 {
			if err := json.Unmarshal(extractedJSON, &v.ExtractedData); err != nil {
				return nil, errors.NewDatabaseQueryFailedError(err)
			}
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// AddExtractionVersion appends one successful extraction run. The version
// number must already be assigned by the caller.
func (r *VersionRepository) AddExtractionVersion(ctx context.Context, v *models.ExtractionVersion) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	v.CreatedAt = time.Now().UTC()

	dataJSON, err := json.Marshal(v.Data)
	if err != nil {
		return errors.NewInvalidInputError("extraction data is not serializable: " + err.Error())
	}

	query := `
		INSERT INTO extraction_versions (id, document_id, version, data, model, prompt_id, artifact_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := r.db.ExecContext(ctx, query,
		v.ID, v.DocumentID, v.Version, dataJSON, v.Model, v.PromptID, v.ArtifactKey, v.CreatedAt,
	); err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

// LatestExtractionVersion returns the highest version number recorded for the
// document, or 0 when none exist.
func (r *VersionRepository) LatestExtractionVersion(ctx context.Context, documentID string) (int, error) {
	var version int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM extraction_versions WHERE document_id = $1`,
		documentID,
	).Scan(&version)
	if err != nil {
		return 0, errors.NewDatabaseQueryFailedError(err)
	}
	return version, nil
}

// ExtractionVersions returns a document's extraction runs, newest first.
func (r *VersionRepository) ExtractionVersions(ctx context.Context, documentID string) ([]models.ExtractionVersion, error) {
	query := `
		SELECT id, document_id, version, data, model, prompt_id, artifact_key, created_at
		FROM extraction_versions
		WHERE document_id = $1
		ORDER BY version DESC
	`
	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError(err)
	}
	defer rows.Close()

	var versions []models.ExtractionVersion
	for rows.Next() {
		var (
			v        models.ExtractionVersion
			dataJSON []byte
		)
		if err := rows.Scan(&v.ID, &v.DocumentID, &v.Version, &dataJSON, &v.Model, &v.PromptID, &v.ArtifactKey, &v.CreatedAt); err != nil {
			return nil, errors.NewDatabaseQueryFailedError(err)
		}
		if len(dataJSON) > 0 {
			if err := json.Unmarshal(dataJSON, &v.Data); err != nil {
				return nil, errors.NewDatabaseQueryFailedError(err)
			}
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}
