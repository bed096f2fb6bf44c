// internal/models/status.go
package models

// ProcessingStatus is the per-document pipeline state machine.
type ProcessingStatus string

const (
	ProcessingUploaded         ProcessingStatus = "uploaded"
	ProcessingClassifying      ProcessingStatus = "classifying"
	ProcessingClassified       ProcessingStatus = "classified"
	ProcessingExtracting       ProcessingStatus = "extracting"
	ProcessingExtracted        ProcessingStatus = "extracted"
	ProcessingValidationFailed ProcessingStatus = "validation_failed"
	ProcessingCompleted        ProcessingStatus = "completed"
	ProcessingError            ProcessingStatus = "error"
)

// CaseStatus is the application lifecycle status.
type CaseStatus string

const (
	CaseStatusNew              CaseStatus = "new"
	CaseStatusDocumentsPending CaseStatus = "documents_pending"
	CaseStatusDocumentsReview  CaseStatus = "documents_review"
	CaseStatusEligibilityCheck CaseStatus = "eligibility_check"
	CaseStatusApproved         CaseStatus = "approved"
	CaseStatusRejected         CaseStatus = "rejected"
)

// LogOutcome is the outcome recorded on a processing log entry.
type LogOutcome string

const (
	LogStarted   LogOutcome = "started"
	LogCompleted LogOutcome = "completed"
	LogFailed    LogOutcome = "failed"
)
