// internal/pipeline/fakes_test.go
package pipeline

import (
	"context"
	"sync"
	"time"

	"housing-intake/internal/common/errors"
	"housing-intake/internal/models"
)

// fakeStore is an in-memory implementation of every store interface the
// processor consumes.
type fakeStore struct {
	mu sync.Mutex

	cases     map[string]*models.Case
	documents map[string]*models.Document

	docVersions        map[string][]models.DocumentVersion
	extractionVersions map[string][]models.ExtractionVersion
	logEntries         []models.ProcessingLogEntry

	sequence int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cases:              make(map[string]*models.Case),
		documents:          make(map[string]*models.Document),
		docVersions:        make(map[string][]models.DocumentVersion),
		extractionVersions: make(map[string][]models.ExtractionVersion),
	}
}

func (s *fakeStore) Create(ctx context.Context, clientID, reference string, applicant models.Applicant) (*models.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &models.Case{
		ID:        "case-" + reference,
		ClientID:  clientID,
		Reference: reference,
		Status:    models.CaseStatusNew,
		Applicant: applicant,
		CreatedAt: time.Now().UTC(),
	}
	s.cases[c.ID] = c
	return copyCase(c), nil
}

func (s *fakeStore) GetByID(ctx context.Context, caseID string) (*models.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[caseID]
	if !ok {
		return nil, errors.NewCaseNotFoundError(caseID)
	}
	return copyCase(c), nil
}

func (s *fakeStore) UpdateStatus(ctx context.Context, caseID string, status models.CaseStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[caseID]
	if !ok {
		return errors.NewCaseNotFoundError(caseID)
	}
	c.Status = status
	return nil
}

func (s *fakeStore) UpdateChecklist(ctx context.Context, caseID string, checklist models.DocumentChecklistStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[caseID]
	if !ok {
		return errors.NewCaseNotFoundError(caseID)
	}
	copied := checklist
	c.Checklist = &copied
	return nil
}

// documentStore view of the fake.

type fakeDocuments struct{ *fakeStore }

func (s *fakeDocuments) Create(ctx context.Context, d *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = "doc-" + d.FileName
	}
	if d.ProcessingStatus == "" {
		d.ProcessingStatus = models.ProcessingUploaded
	}
	if d.Category == "" {
		d.Category = models.CategoryUnknown
	}
	copied := *d
	s.documents[d.ID] = &copied
	return nil
}

func (s *fakeDocuments) GetByID(ctx context.Context, documentID string) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents[documentID]
	if !ok {
		return nil, errors.NewDocumentNotFoundError(documentID)
	}
	copied := *d
	return &copied, nil
}

func (s *fakeDocuments) ListByCase(ctx context.Context, caseID string) ([]models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var docs []models.Document
	for _, d := range s.documents {
		if d.CaseID == caseID {
			docs = append(docs, *d)
		}
	}
	return docs, nil
}

func (s *fakeDocuments) UpdateStatus(ctx context.Context, documentID string, status models.ProcessingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents[documentID]
	if !ok {
		return errors.NewDocumentNotFoundError(documentID)
	}
	d.ProcessingStatus = status
	return nil
}

func (s *fakeDocuments) UpdateClassification(ctx context.Context, documentID string, category models.Category, confidence float64, status models.ProcessingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents[documentID]
	if !ok {
		return errors.NewDocumentNotFoundError(documentID)
	}
	d.Category = category
	d.Confidence = confidence
	d.ProcessingStatus = status
	return nil
}

func (s *fakeDocuments) UpdateExtraction(ctx context.Context, updated *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents[updated.ID]
	if !ok {
		return errors.NewDocumentNotFoundError(updated.ID)
	}
	d.ExtractedData = updated.ExtractedData
	d.ExtractionVersion = updated.ExtractionVersion
	d.CompletenessScore = updated.CompletenessScore
	d.Issues = updated.Issues
	d.ProcessingStatus = updated.ProcessingStatus
	return nil
}

func (s *fakeDocuments) ReplaceContent(ctx context.Context, documentID, fileName, originalFileName, mimeType, storageKey string, sizeBytes int64, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents[documentID]
	if !ok {
		return errors.NewDocumentNotFoundError(documentID)
	}
	d.FileName = fileName
	d.OriginalFileName = originalFileName
	d.MimeType = mimeType
	d.StorageKey = storageKey
	d.SizeBytes = sizeBytes
	d.Version = version
	d.ProcessingStatus = models.ProcessingUploaded
	return nil
}

func (s *fakeDocuments) Delete(ctx context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[documentID]; !ok {
		return errors.NewDocumentNotFoundError(documentID)
	}
	delete(s.documents, documentID)
	return nil
}

// version store view.

type fakeVersions struct{ *fakeStore }

func (s *fakeVersions) AddDocumentVersion(ctx context.Context, v *models.DocumentVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docVersions[v.DocumentID] = append(s.docVersions[v.DocumentID], *v)
	return nil
}

func (s *fakeVersions) AddExtractionVersion(ctx context.Context, v *models.ExtractionVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extractionVersions[v.DocumentID] = append(s.extractionVersions[v.DocumentID], *v)
	return nil
}

func (s *fakeVersions) LatestExtractionVersion(ctx context.Context, documentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	versions := s.extractionVersions[documentID]
	latest := 0
	for _, v := range versions {
		if v.Version > latest {
			latest = v.Version
		}
	}
	return latest, nil
}

func (s *fakeVersions) DocumentVersions(ctx context.Context, documentID string) ([]models.DocumentVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DocumentVersion, len(s.docVersions[documentID]))
	copy(out, s.docVersions[documentID])
	return out, nil
}

// log store view.

type fakeLogs struct{ *fakeStore }

func (s *fakeLogs) Append(ctx context.Context, entry *models.ProcessingLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logEntries = append(s.logEntries, *entry)
	return nil
}

// sequencer view.

type fakeSequence struct{ *fakeStore }

func (s *fakeSequence) Next(ctx context.Context, year int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequence++
	return s.sequence, nil
}

func copyCase(c *models.Case) *models.Case {
	copied := *c
	if c.Checklist != nil {
		checklist := *c.Checklist
		copied.Checklist = &checklist
	}
	return &copied
}

// scripted pipeline stages.

type fakeClassifier struct {
	result models.ClassificationResult
	calls  int
}

func (f *fakeClassifier) ClassifyMultiPage(ctx context.Context, pages [][]byte, mimeType string) models.ClassificationResult {
	f.calls++
	return f.result
}

type fakeExtractor struct {
	result models.ExtractionResult
	calls  int
}

func (f *fakeExtractor) Extract(ctx context.Context, image []byte, mimeType string, category models.Category) models.ExtractionResult {
	f.calls++
	return f.result
}

func (f *fakeExtractor) ModelID() string { return "test-model" }

type recordingNotifier struct {
	transitions []string
}

func (n *recordingNotifier) CaseStatusChanged(ctx context.Context, c *models.Case, from, to models.CaseStatus) error {
	n.transitions = append(n.transitions, string(from)+"->"+string(to))
	return nil
}
