package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"housing-intake/internal/checklist"
	"housing-intake/internal/common/errors"
	"housing-intake/internal/common/logger"
	"housing-intake/internal/common/metrics"
	"housing-intake/internal/models"
	"housing-intake/internal/repository"
	"housing-intake/internal/storage"
)

// allowedMimeTypes is the upload allow-list.
var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/heic":      true,
}

// Processor owns the document intake pipeline.
type Processor struct {
	cases      CaseStore
	documents  DocumentStore
	versions   VersionStore
	logs       LogStore
	sequence   Sequencer
	blobs      storage.BlobStore
	classifier Classifier
	extractor  Extractor
	checklist  *checklist.Engine
	locker     Locker
	queue      Enqueuer
	notifier   Notifier
	log        logger.Logger

	classificationThreshold float64
	maxUploadBytes          int64
	now                     func() time.Time
}

// Options collects the processor's collaborators. Queue and Notifier may be
// nil; processing then runs inline and status changes are not announced.
type Options struct {
	Cases      CaseStore
	Documents  DocumentStore
	Versions   VersionStore
	Logs       LogStore
	Sequence   Sequencer
	Blobs      storage.BlobStore
	Classifier Classifier
	Extractor  Extractor
	Checklist  *checklist.Engine
	Locker     Locker
	Queue      Enqueuer
	Notifier   Notifier
	Logger     logger.Logger

	ClassificationThreshold float64
	MaxUploadBytes          int64
}

func New(opts Options) *Processor {
	locker := opts.Locker
	if locker == nil {
		locker = NewNoopLocker()
	}
	return &Processor{
		cases:      opts.Cases,
		documents:  opts.Documents,
		versions:   opts.Versions,
		logs:       opts.Logs,
		sequence:   opts.Sequence,
		blobs:      opts.Blobs,
		classifier: opts.Classifier,
		extractor:  opts.Extractor,
		checklist:  opts.Checklist,
		locker:     locker,
		queue:      opts.Queue,
		notifier:   opts.Notifier,
		log:        opts.Logger,

		classificationThreshold: opts.ClassificationThreshold,
		maxUploadBytes:          opts.MaxUploadBytes,
		now:                     time.Now,
	}
}

// CreateCase opens a new application case with a fresh reference number and
// an initial empty checklist.
func (p *Processor) CreateCase(ctx context.Context, clientID string, applicant models.Applicant) (*models.Case, error) {
	if applicant.FullName == "" {
		return nil, errors.NewInvalidInputError("applicant full name is required")
	}
	if applicant.Email == "" {
		return nil, errors.NewInvalidInputError("applicant email is required")
	}

	year := p.now().UTC().Year()
	value, err := p.sequence.Next(ctx, year)
	if err != nil {
		return nil, err
	}

	c, err := p.cases.Create(ctx, clientID, repository.FormatReference(year, value), applicant)
	if err != nil {
		return nil, err
	}

	p.log.Info("case created", map[string]interface{}{
		"caseId":    c.ID,
		"reference": c.Reference,
	})

	// An empty checklist still records what is required up front and moves
	// the case straight to documents_pending.
	if err := p.finishCase(ctx, c); err != nil {
		return nil, err
	}
	return p.cases.GetByID(ctx, c.ID)
}

// Upload validates and stores a new document on a case, then hands it to the
// processing queue (or processes it inline when no queue is wired).
func (p *Processor) Upload(ctx context.Context, caseID, fileName, mimeType string, data []byte) (*models.Document, error) {
	if !allowedMimeTypes[mimeType] {
		return nil, errors.NewUnsupportedFileTypeError(mimeType)
	}
	if int64(len(data)) > p.maxUploadBytes {
		return nil, errors.NewFileTooLargeError(int64(len(data)), p.maxUploadBytes)
	}
	if len(data) == 0 {
		return nil, errors.NewInvalidInputError("uploaded file is empty")
	}

	c, err := p.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	key := storage.DocumentKey(c.ClientID, c.ID, 1, fileName)
	if err := p.blobs.Put(ctx, key, data, mimeType); err != nil {
		return nil, err
	}

	d := &models.Document{
		CaseID:           c.ID,
		ClientID:         c.ClientID,
		FileName:         fileName,
		OriginalFileName: fileName,
		MimeType:         mimeType,
		SizeBytes:        int64(len(data)),
		StorageKey:       key,
		Version:          1,
	}
	if err := p.documents.Create(ctx, d); err != nil {
		// Best effort cleanup of the just-written blob.
		_ = p.blobs.Delete(ctx, key)
		return nil, err
	}

	p.appendLog(ctx, d, "upload", models.LogCompleted, fmt.Sprintf("stored %d bytes", d.SizeBytes), "", 0)

	if err := p.dispatch(ctx, d.ID); err != nil {
		return nil, err
	}
	return p.documents.GetByID(ctx, d.ID)
}

// UploadVersion replaces a document's content, snapshotting the prior version
// first. The blob is written before the row is updated so a storage failure
// never commits a version bump.
func (p *Processor) UploadVersion(ctx context.Context, documentID, fileName, mimeType string, data []byte, reason, createdBy string) (*models.Document, error) {
	if !allowedMimeTypes[mimeType] {
		return nil, errors.NewUnsupportedFileTypeError(mimeType)
	}
	if int64(len(data)) > p.maxUploadBytes {
		return nil, errors.NewFileTooLargeError(int64(len(data)), p.maxUploadBytes)
	}
	if len(data) == 0 {
		return nil, errors.NewInvalidInputError("uploaded file is empty")
	}

	d, err := p.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	newVersion := d.Version + 1
	key := storage.DocumentKey(d.ClientID, d.CaseID, newVersion, fileName)
	if err := p.blobs.Put(ctx, key, data, mimeType); err != nil {
		return nil, err
	}

	snapshot := &models.DocumentVersion{
		DocumentID:    d.ID,
		Version:       d.Version,
		StorageKey:    d.StorageKey,
		ExtractedData: d.ExtractedData,
		Reason:        reason,
		CreatedBy:     createdBy,
	}
	if err := p.versions.AddDocumentVersion(ctx, snapshot); err != nil {
		return nil, err
	}

	if err := p.documents.ReplaceContent(ctx, d.ID, fileName, fileName, mimeType, key, int64(len(data)), newVersion); err != nil {
		return nil, err
	}

	p.appendLog(ctx, d, "upload_version", models.LogCompleted, fmt.Sprintf("version %d", newVersion), "", 0)

	if err := p.dispatch(ctx, d.ID); err != nil {
		return nil, err
	}
	return p.documents.GetByID(ctx, d.ID)
}

// Process runs classification and extraction for one document and refreshes
// the owning case's checklist. Safe to call repeatedly; each successful run
// appends a new extraction version.
func (p *Processor) Process(ctx context.Context, documentID string) error {
	release, acquired, err := p.locker.Acquire(ctx, documentID)
	if err != nil {
		return err
	}
	if !acquired {
		return errors.NewDocumentLockedError(documentID)
	}
	defer release()

	started := p.now()
	d, err := p.documents.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	c, err := p.cases.GetByID(ctx, d.CaseID)
	if err != nil {
		return err
	}

	p.appendLog(ctx, d, "process", models.LogStarted, "", "", 0)

	data, err := p.blobs.Get(ctx, d.StorageKey)
	if err != nil {
		return p.fail(ctx, d, "fetch", started, err)
	}

	if err := p.documents.UpdateStatus(ctx, d.ID, models.ProcessingClassifying); err != nil {
		return err
	}

	result := p.classifier.ClassifyMultiPage(ctx, [][]byte{data}, d.MimeType)
	d.Category = result.Category
	d.Confidence = result.Confidence

	// Unusable classifications complete without extraction rather than
	// blocking the case on a document nobody can schema-match.
	if result.Category == models.CategoryUnknown || result.Confidence < p.classificationThreshold {
		if err := p.documents.UpdateClassification(ctx, d.ID, result.Category, result.Confidence, models.ProcessingCompleted); err != nil {
			return err
		}
		p.appendLog(ctx, d, "classify", models.LogCompleted,
			fmt.Sprintf("category=%s confidence=%.2f, extraction skipped", result.Category, result.Confidence), "", p.sinceMillis(started))
		metrics.DocumentsProcessed.WithLabelValues("skipped").Inc()
		return p.finishCase(ctx, c)
	}

	if err := p.documents.UpdateClassification(ctx, d.ID, result.Category, result.Confidence, models.ProcessingClassified); err != nil {
		return err
	}
	p.appendLog(ctx, d, "classify", models.LogCompleted,
		fmt.Sprintf("category=%s confidence=%.2f", result.Category, result.Confidence), "", p.sinceMillis(started))

	if err := p.documents.UpdateStatus(ctx, d.ID, models.ProcessingExtracting); err != nil {
		return err
	}

	extraction := p.extractor.Extract(ctx, data, d.MimeType, result.Category)
	if !extraction.Success {
		d.ProcessingStatus = models.ProcessingValidationFailed
		d.Issues = extraction.Issues
		d.CompletenessScore = 0
		if err := p.documents.UpdateExtraction(ctx, d); err != nil {
			return err
		}
		p.appendLog(ctx, d, "extract", models.LogFailed, "", firstIssue(extraction.Issues), p.sinceMillis(started))
		metrics.DocumentsProcessed.WithLabelValues("validation_failed").Inc()
		metrics.PipelineStageFailures.WithLabelValues("extract").Inc()
		return p.finishCase(ctx, c)
	}

	latest, err := p.versions.LatestExtractionVersion(ctx, d.ID)
	if err != nil {
		return err
	}
	extractionVersion := latest + 1

	artifactKey := storage.ExtractionKey(d.ClientID, d.CaseID, d.ID, extractionVersion)
	artifact, err := marshalArtifact(extraction)
	if err == nil {
		err = p.blobs.Put(ctx, artifactKey, artifact, "application/json")
	}
	if err != nil {
		return p.fail(ctx, d, "artifact", started, err)
	}

	if err := p.versions.AddExtractionVersion(ctx, &models.ExtractionVersion{
		DocumentID:  d.ID,
		Version:     extractionVersion,
		Data:        extraction.Fields,
		Model:       p.extractor.ModelID(),
		ArtifactKey: artifactKey,
	}); err != nil {
		return err
	}

	d.ExtractedData = extraction.Fields
	d.ExtractionVersion = extractionVersion
	d.CompletenessScore = extraction.CompletenessScore
	d.Issues = extraction.Issues
	d.ProcessingStatus = models.ProcessingExtracted
	if err := p.documents.UpdateExtraction(ctx, d); err != nil {
		return err
	}

	if err := p.documents.UpdateStatus(ctx, d.ID, models.ProcessingCompleted); err != nil {
		return err
	}
	p.appendLog(ctx, d, "extract", models.LogCompleted,
		fmt.Sprintf("completeness=%d version=%d", extraction.CompletenessScore, extractionVersion), "", p.sinceMillis(started))
	metrics.DocumentsProcessed.WithLabelValues("completed").Inc()

	return p.finishCase(ctx, c)
}

// Reprocess re-runs the pipeline over the current stored content.
func (p *Processor) Reprocess(ctx context.Context, documentID string) error {
	return p.Process(ctx, documentID)
}

// Delete removes a document, its stored blobs and snapshots, then recomputes
// the case checklist without it.
func (p *Processor) Delete(ctx context.Context, documentID string) error {
	d, err := p.documents.GetByID(ctx, documentID)
	if err != nil {
		return err
	}

	versions, err := p.versions.DocumentVersions(ctx, documentID)
	if err != nil {
		return err
	}
	for _, v := range versions {
		if v.StorageKey != "" && v.StorageKey != d.StorageKey {
			if err := p.blobs.Delete(ctx, v.StorageKey); err != nil {
				return err
			}
		}
	}
	if d.StorageKey != "" {
		if err := p.blobs.Delete(ctx, d.StorageKey); err != nil {
			return err
		}
	}

	artifacts, err := p.blobs.List(ctx, storage.ExtractionPrefix(d.ClientID, d.CaseID, d.ID))
	if err != nil {
		return err
	}
	for _, obj := range artifacts {
		if err := p.blobs.Delete(ctx, obj.Key); err != nil {
			return err
		}
	}

	if err := p.documents.Delete(ctx, documentID); err != nil {
		return err
	}

	p.log.Info("document deleted", map[string]interface{}{
		"documentId": documentID,
		"caseId":     d.CaseID,
	})

	c, err := p.cases.GetByID(ctx, d.CaseID)
	if err != nil {
		return err
	}
	return p.finishCase(ctx, c)
}

// dispatch queues asynchronous processing, or runs it inline without a queue.
func (p *Processor) dispatch(ctx context.Context, documentID string) error {
	if p.queue != nil {
		return p.queue.Enqueue(ctx, documentID)
	}
	return p.Process(ctx, documentID)
}

// finishCase refreshes the checklist and derives the next case status.
func (p *Processor) finishCase(ctx context.Context, c *models.Case) error {
	status, err := p.refreshChecklist(ctx, c.ID)
	if err != nil {
		return err
	}

	next := checklist.NextCaseStatus(status)
	if next == c.Status {
		return nil
	}
	if err := p.cases.UpdateStatus(ctx, c.ID, next); err != nil {
		return err
	}
	p.log.Info("case status changed", map[string]interface{}{
		"caseId": c.ID,
		"from":   string(c.Status),
		"to":     string(next),
	})
	if p.notifier != nil {
		if err := p.notifier.CaseStatusChanged(ctx, c, c.Status, next); err != nil {
			// Notification failures never fail the pipeline.
			p.log.Warn("status notification failed", map[string]interface{}{
				"caseId": c.ID,
				"error":  err.Error(),
			})
		}
	}
	return nil
}

func (p *Processor) refreshChecklist(ctx context.Context, caseID string) (models.DocumentChecklistStatus, error) {
	c, err := p.cases.GetByID(ctx, caseID)
	if err != nil {
		return models.DocumentChecklistStatus{}, err
	}
	docs, err := p.documents.ListByCase(ctx, caseID)
	if err != nil {
		return models.DocumentChecklistStatus{}, err
	}

	status := p.checklist.Evaluate(docs, c.Applicant)
	if err := p.cases.UpdateChecklist(ctx, caseID, status); err != nil {
		return models.DocumentChecklistStatus{}, err
	}
	metrics.ChecklistCompleteness.Observe(float64(checklist.CalculateOverallCompleteness(status)))
	return status, nil
}

func (p *Processor) fail(ctx context.Context, d *models.Document, stage string, started time.Time, cause error) error {
	if err := p.documents.UpdateStatus(ctx, d.ID, models.ProcessingError); err != nil {
		p.log.Error("status update failed after pipeline error", map[string]interface{}{
			"documentId": d.ID,
			"error":      err.Error(),
		})
	}
	p.appendLog(ctx, d, stage, models.LogFailed, "", cause.Error(), p.sinceMillis(started))
	metrics.DocumentsProcessed.WithLabelValues("error").Inc()
	metrics.PipelineStageFailures.WithLabelValues(stage).Inc()
	return cause
}

func (p *Processor) appendLog(ctx context.Context, d *models.Document, action string, outcome models.LogOutcome, details, errMsg string, durationMs int64) {
	entry := &models.ProcessingLogEntry{
		DocumentID: d.ID,
		CaseID:     d.CaseID,
		Action:     action,
		Outcome:    outcome,
		Details:    details,
		Error:      errMsg,
		Duration:   durationMs,
	}
	if err := p.logs.Append(ctx, entry); err != nil {
		p.log.Error("audit log append failed", map[string]interface{}{
			"documentId": d.ID,
			"action":     action,
			"error":      err.Error(),
		})
	}
}

func (p *Processor) sinceMillis(started time.Time) int64 {
	return p.now().Sub(started).Milliseconds()
}

func firstIssue(issues []models.Issue) string {
	if len(issues) == 0 {
		return ""
	}
	return issues[0].Message
}

// marshalArtifact serializes the full extraction result stored alongside the
// document for audit and replay.
func marshalArtifact(result models.ExtractionResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}
