package pipeline

import (
	"context"

	"housing-intake/internal/models"
)

// The processor talks to storage through narrow interfaces so tests can run
// against in-memory fakes. The repository package provides the PostgreSQL
// implementations.

type CaseStore interface {
	Create(ctx context.Context, clientID, reference string, applicant models.Applicant) (*models.Case, error)
	GetByID(ctx context.Context, caseID string) (*models.Case, error)
	UpdateStatus(ctx context.Context, caseID string, status models.CaseStatus) error
	UpdateChecklist(ctx context.Context, caseID string, checklist models.DocumentChecklistStatus) error
}

type DocumentStore interface {
	Create(ctx context.Context, d *models.Document) error
	GetByID(ctx context.Context, documentID string) (*models.Document, error)
	ListByCase(ctx context.Context, caseID string) ([]models.Document, error)
	UpdateStatus(ctx context.Context, documentID string, status models.ProcessingStatus) error
	UpdateClassification(ctx context.Context, documentID string, category models.Category, confidence float64, status models.ProcessingStatus) error
	UpdateExtraction(ctx context.Context, d *models.Document) error
	ReplaceContent(ctx context.Context, documentID, fileName, originalFileName, mimeType, storageKey string, sizeBytes int64, version int) error
	Delete(ctx context.Context, documentID string) error
}

type VersionStore interface {
	AddDocumentVersion(ctx context.Context, v *models.DocumentVersion) error
	AddExtractionVersion(ctx context.Context, v *models.ExtractionVersion) error
	LatestExtractionVersion(ctx context.Context, documentID string) (int, error)
	DocumentVersions(ctx context.Context, documentID string) ([]models.DocumentVersion, error)
}

type LogStore interface {
	Append(ctx context.Context, entry *models.ProcessingLogEntry) error
}

// Sequencer hands out per-year case reference counters.
type Sequencer interface {
	Next(ctx context.Context, year int) (int, error)
}

// Classifier assigns a category to a document's pages.
type Classifier interface {
	ClassifyMultiPage(ctx context.Context, pages [][]byte, mimeType string) models.ClassificationResult
}

// Extractor pulls structured fields out of a classified document.
type Extractor interface {
	Extract(ctx context.Context, image []byte, mimeType string, category models.Category) models.ExtractionResult
	ModelID() string
}

// Enqueuer hands a document id to the asynchronous processing queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, documentID string) error
}

// Notifier is told when a case moves to a new status.
type Notifier interface {
	CaseStatusChanged(ctx context.Context, c *models.Case, from, to models.CaseStatus) error
}
