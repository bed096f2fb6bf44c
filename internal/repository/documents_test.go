// internal/repository/documents_test.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housing-intake/internal/common/errors"
	"housing-intake/internal/common/logger"
	"housing-intake/internal/models"
)

func setupDocumentRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *DocumentRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewDocumentRepository(db, logger.NewNoOpLogger())
	return db, mock, repo
}

func documentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "case_id", "client_id", "file_name", "original_file_name", "mime_type", "size_bytes",
		"storage_key", "version", "category", "confidence", "processing_status", "extracted_data",
		"extraction_version", "completeness_score", "issues", "created_at", "updated_at",
	})
}

func TestDocumentCreateDefaults(t *testing.T) {
	db, mock, repo := setupDocumentRepo(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO documents`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	d := &models.Document{
		CaseID:           "case-1",
		ClientID:         "client-1",
		FileName:         "passport.pdf",
		OriginalFileName: "passport.pdf",
		MimeType:         "application/pdf",
		SizeBytes:        1024,
		StorageKey:       "client-1/case-1/documents/v1/passport.pdf",
	}
	require.NoError(t, repo.Create(context.Background(), d))

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, 1, d.Version)
	assert.Equal(t, models.ProcessingUploaded, d.ProcessingStatus)
	assert.Equal(t, models.CategoryUnknown, d.Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentGetByID(t *testing.T) {
	db, mock, repo := setupDocumentRepo(t)
	defer db.Close()

	extracted, _ := json.Marshal(models.ExtractedData{
		"fullName": {Value: "Maria Jansen", Confidence: 0.92},
	})
	issues, _ := json.Marshal([]models.Issue{
		{Field: "expiryDate", Severity: models.SeverityWarning, Message: "low confidence"},
	})
	now := time.Now().UTC()

	rows := documentRows().AddRow(
		"doc-1", "case-1", "client-1", "passport.pdf", "passport.pdf", "application/pdf", int64(1024),
		"client-1/case-1/documents/v1/passport.pdf", 1, "identity", 0.9, "extracted", extracted,
		2, 85, issues, now, now,
	)

	mock.ExpectQuery(`SELECT(.|\s)+FROM documents WHERE id`).
		WithArgs("doc-1").
		WillReturnRows(rows)

	d, err := repo.GetByID(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryIdentity, d.Category)
	assert.Equal(t, models.ProcessingExtracted, d.ProcessingStatus)
	assert.Equal(t, 2, d.ExtractionVersion)
	assert.Equal(t, "Maria Jansen", d.ExtractedData["fullName"].Value)
	require.Len(t, d.Issues, 1)
	assert.Equal(t, models.SeverityWarning, d.Issues[0].Severity)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentGetByID_NotFound(t *testing.T) {
	db, mock, repo := setupDocumentRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT(.|\s)+FROM documents WHERE id`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, errors.ErrCodeDocumentNotFound, errors.CodeOf(err))
}

func TestDocumentListByCase(t *testing.T) {
	db, mock, repo := setupDocumentRepo(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := documentRows().
		AddRow("doc-1", "case-1", "client-1", "a.pdf", "a.pdf", "application/pdf", int64(1), "k1", 1,
			"identity", 0.9, "completed", nil, 1, 90, nil, now, now).
		AddRow("doc-2", "case-1", "client-1", "b.pdf", "b.pdf", "application/pdf", int64(1), "k2", 1,
			"income", 0.8, "completed", nil, 1, 80, nil, now, now)

	mock.ExpectQuery(`SELECT(.|\s)+FROM documents WHERE case_id`).
		WithArgs("case-1").
		WillReturnRows(rows)

	docs, err := repo.ListByCase(context.Background(), "case-1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, models.CategoryIdentity, docs[0].Category)
	assert.Equal(t, models.CategoryIncome, docs[1].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentUpdateClassification(t *testing.T) {
	db, mock, repo := setupDocumentRepo(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE documents SET category`).
		WithArgs("doc-1", "identity", 0.92, "classified", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateClassification(context.Background(), "doc-1", models.CategoryIdentity, 0.92, models.ProcessingClassified)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentUpdateExtraction(t *testing.T) {
	db, mock, repo := setupDocumentRepo(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE documents`).
		WithArgs("doc-1", sqlmock.AnyArg(), 3, 85, sqlmock.AnyArg(), "extracted", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	d := &models.Document{
		ID:                "doc-1",
		ExtractedData:     models.ExtractedData{"fullName": {Value: "Maria Jansen", Confidence: 0.92}},
		ExtractionVersion: 3,
		CompletenessScore: 85,
		Issues:            []models.Issue{{Field: "expiryDate", Severity: models.SeverityWarning, Message: "low confidence"}},
		ProcessingStatus:  models.ProcessingExtracted,
	}
	assert.NoError(t, repo.UpdateExtraction(context.Background(), d))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentDelete(t *testing.T) {
	db, mock, repo := setupDocumentRepo(t)
	defer db.Close()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM documents`).
			WithArgs("doc-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), "doc-1"))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM documents`).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), "missing")
		assert.True(t, errors.IsNotFound(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVersionRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVersionRepository(db)

	t.Run("add extraction version", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO extraction_versions`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		v := &models.ExtractionVersion{
			DocumentID: "doc-1",
			Version:    2,
			Data:       models.ExtractedData{"fullName": {Value: "Maria Jansen", Confidence: 0.92}},
			Model:      "gpt-4o-mini",
		}
		require.NoError(t, repo.AddExtractionVersion(context.Background(), v))
		assert.NotEmpty(t, v.ID)
	})

	t.Run("latest extraction version", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(MAX\(version\), 0\)`).
			WithArgs("doc-1").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(2))

		version, err := repo.LatestExtractionVersion(context.Background(), "doc-1")
		require.NoError(t, err)
		assert.Equal(t, 2, version)
	})

	t.Run("latest for unseen document is zero", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(MAX\(version\), 0\)`).
			WithArgs("doc-9").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

		version, err := repo.LatestExtractionVersion(context.Background(), "doc-9")
		require.NoError(t, err)
		assert.Equal(t, 0, version)
	})

	t.Run("document versions newest first", func(t *testing.T) {
		now := time.Now().UTC()
		rows := sqlmock.NewRows([]string{"id", "document_id", "version", "storage_key", "extracted_data", "reason", "created_by", "created_at"}).
			AddRow("v2", "doc-1", 2, "k2", nil, "replaced", "caseworker", now).
			AddRow("v1", "doc-1", 1, "k1", nil, "replaced", nil, now.Add(-time.Hour))

		mock.ExpectQuery(`SELECT(.|\s)+FROM document_versions`).
			WithArgs("doc-1").
			WillReturnRows(rows)

		versions, err := repo.DocumentVersions(context.Background(), "doc-1")
		require.NoError(t, err)
		require.Len(t, versions, 2)
		assert.Equal(t, 2, versions[0].Version)
		assert.Equal(t, "caseworker", versions[0].CreatedBy)
		assert.Empty(t, versions[1].CreatedBy)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogRepositoryAppend(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLogRepository(db)

	mock.ExpectExec(`INSERT INTO processing_log`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := &models.ProcessingLogEntry{
		DocumentID: "doc-1",
		CaseID:     "case-1",
		Action:     "classify",
		Outcome:    models.LogCompleted,
		Duration:   1250,
	}
	require.NoError(t, repo.Append(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
