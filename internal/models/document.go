// internal/models/document.go
package models

import "time"

// ExtractedField is one structured field pulled out of a document by the model.
// Value may be a string, number, boolean or nil.
type ExtractedField struct {
	Value      interface{} `json:"value"`
	Confidence float64     `json:"confidence"`
	Source     string      `json:"source,omitempty"`
	Issues     []string    `json:"issues,omitempty"`
}

// ExtractedData maps field names to their extracted values for one document,
// scoped to a category-specific schema.
type ExtractedData map[string]ExtractedField

// IssueSeverity grades an extraction or completeness issue.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue is one extraction or completeness problem on a document.
type Issue struct {
	Field      string        `json:"field"`
	Severity   IssueSeverity `json:"severity"`
	Message    string        `json:"message"`
	Suggestion string        `json:"suggestion,omitempty"`
}

// Document is one uploaded file attached to a case.
type Document struct {
	ID                string           `json:"id"`
	CaseID            string           `json:"caseId"`
	ClientID          string           `json:"clientId"`
	FileName          string           `json:"fileName"`
	OriginalFileName  string           `json:"originalFileName"`
	MimeType          string           `json:"mimeType"`
	SizeBytes         int64            `json:"sizeBytes"`
	StorageKey        string           `json:"storageKey"`
	Version           int              `json:"version"`
	Category          Category         `json:"category"`
	Confidence        float64          `json:"confidence"`
	ProcessingStatus  ProcessingStatus `json:"processingStatus"`
	ExtractedData     ExtractedData    `json:"extractedData,omitempty"`
	ExtractionVersion int              `json:"extractionVersion"`
	CompletenessScore int              `json:"completenessScore"`
	Issues            []Issue          `json:"issues,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// DocumentVersion is an immutable snapshot written whenever a document's
// bytes are replaced.
type DocumentVersion struct {
	ID            string        `json:"id"`
	DocumentID    string        `json:"documentId"`
	Version       int           `json:"version"`
	StorageKey    string        `json:"storageKey"`
	ExtractedData ExtractedData `json:"extractedData,omitempty"`
	Reason        string        `json:"reason"`
	CreatedBy     string        `json:"createdBy,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// ExtractionVersion is an immutable snapshot of one successful extraction run.
// (DocumentID, Version) is unique and versions are dense starting at 1.
type ExtractionVersion struct {
	ID          string        `json:"id"`
	DocumentID  string        `json:"documentId"`
	Version     int           `json:"version"`
	Data        ExtractedData `json:"data"`
	Model       string        `json:"model"`
	PromptID    string        `json:"promptId,omitempty"`
	ArtifactKey string        `json:"artifactKey,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// ProcessingLogEntry is one append-only audit record of a pipeline action.
type ProcessingLogEntry struct {
	ID         string     `json:"id"`
	DocumentID string     `json:"documentId"`
	CaseID     string     `json:"caseId"`
	Action     string     `json:"action"`
	Outcome    LogOutcome `json:"outcome"`
	Details    string     `json:"details,omitempty"`
	Error      string     `json:"error,omitempty"`
	Duration   int64      `json:"durationMs"`
	CreatedAt  time.Time  `json:"createdAt"`
}
