// internal/models/classification.go
package models

// AlternativeCategory is a runner-up classification candidate.
type AlternativeCategory struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
}

// ClassificationResult is the normalized outcome of classifying a document.
type ClassificationResult struct {
	Category     Category              `json:"category"`
	Confidence   float64               `json:"confidence"`
	Subtype      string                `json:"subtype,omitempty"`
	Reasoning    string                `json:"reasoning"`
	Alternatives []AlternativeCategory `json:"alternativeCategories,omitempty"`
}

// ExtractionResult is the outcome of one extraction run against a document.
type ExtractionResult struct {
	Success           bool          `json:"success"`
	DocumentType      Category      `json:"documentType"`
	Fields            ExtractedData `json:"fields"`
	CompletenessScore int           `json:"completenessScore"`
	Issues            []Issue       `json:"issues,omitempty"`
	RawText           string        `json:"rawText,omitempty"`
}
