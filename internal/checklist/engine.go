// internal/checklist/engine.go

// Package checklist derives a case's document checklist from its current
// documents and applicant snapshot. Evaluate is a pure function of its
// inputs; the clock is injected so freshness checks stay deterministic.
package checklist

import (
	"fmt"
	"time"

	"housing-intake/internal/models"
)

type Engine struct {
	cfg Config
	now func() time.Time
}

func New(cfg Config) *Engine {
	return &Engine{cfg: cfg, now: time.Now}
}

// NewWithClock is used by tests to pin the evaluation time.
func NewWithClock(cfg Config, now func() time.Time) *Engine {
	return &Engine{cfg: cfg, now: now}
}

// Evaluate computes the full checklist for a case's documents.
func (e *Engine) Evaluate(documents []models.Document, applicant models.Applicant) models.DocumentChecklistStatus {
	byCategory := make(map[models.Category][]models.Document)
	for _, d := range documents {
		byCategory[d.Category] = append(byCategory[d.Category], d)
	}

	return models.DocumentChecklistStatus{
		Identity:         e.evaluateIdentity(byCategory[models.CategoryIdentity]),
		Income:           e.evaluateCoverage(byCategory[models.CategoryIncome], e.cfg.IncomeMonths, e.cfg.CompletenessThreshold, true),
		BankStatements:   e.evaluateCoverage(byCategory[models.CategoryBankStatement], e.cfg.BankStatementMonths, e.cfg.BankCompletenessThreshold, true),
		ProofOfAddress:   e.evaluateProofOfAddress(byCategory[models.CategoryProofOfAddress]),
		WelfareBenefit:   e.evaluateConditional(byCategory[models.CategoryWelfareBenefit], e.cfg.WelfareBenefitRequired, "welfare benefit award letter"),
		MedicalEvidence:  e.evaluateConditional(byCategory[models.CategoryMedical], medicalRequired(applicant), "medical evidence"),
		TenancyAgreement: e.evaluateConditional(byCategory[models.CategoryTenancy], e.cfg.TenancyAgreementRequired, "tenancy agreement"),
	}
}

// medicalRequired: medical evidence becomes required when any household
// member is flagged as requiring support.
func medicalRequired(applicant models.Applicant) bool {
	for _, m := range applicant.HouseholdMembers {
		if m.RequiresSupport {
			return true
		}
	}
	return false
}

// evaluateIdentity flags documents with failed processing, low classification
// confidence, an expired expiryDate, or low completeness. Verified needs zero
// issues and at least the configured count of clean documents.
//
// Failed processing status is only consulted here, not in the other
// evaluators; this mirrors the long-standing behavior of the checklist.
func (e *Engine) evaluateIdentity(docs []models.Document) models.ChecklistItem {
	item := models.ChecklistItem{Required: true, DocumentIDs: ids(docs)}
	if len(docs) == 0 {
		item.Status = models.ItemMissing
		item.Issues = []string{"no identity document uploaded"}
		return item
	}

	clean := 0
	for _, d := range docs {
		flagged := false
		if d.ProcessingStatus == models.ProcessingError || d.ProcessingStatus == models.ProcessingValidationFailed {
			item.Issues = append(item.Issues, fmt.Sprintf("document %s failed processing", d.OriginalFileName))
			flagged = true
		}
		if d.Confidence < e.cfg.IdentityConfidenceThreshold {
			item.Issues = append(item.Issues, fmt.Sprintf("document %s could not be confidently identified", d.OriginalFileName))
			flagged = true
		}
		if expired, ok := e.isExpired(d); ok && expired {
			item.Issues = append(item.Issues, fmt.Sprintf("document %s has expired", d.OriginalFileName))
			flagged = true
		}
		if d.CompletenessScore < e.cfg.CompletenessThreshold {
			item.Issues = append(item.Issues, fmt.Sprintf("document %s is missing key details", d.OriginalFileName))
			flagged = true
		}
		if !flagged {
			clean++
		}
	}

	switch {
	case len(item.Issues) > 0:
		item.Status = models.ItemIssues
	case clean >= e.cfg.MinIdentityDocuments:
		item.Status = models.ItemVerified
	default:
		item.Status = models.ItemPending
	}
	return item
}

// evaluateCoverage handles the income / bank statement pattern: pending until
// the expected monthly count is reached and every document clears the
// completeness floor.
func (e *Engine) evaluateCoverage(docs []models.Document, months, completeness int, required bool) models.ChecklistItem {
	item := models.ChecklistItem{Required: required, DocumentIDs: ids(docs)}
	if len(docs) == 0 {
		item.Status = models.ItemMissing
		return item
	}

	pending := len(docs) < months
	for _, d := range docs {
		if d.CompletenessScore < completeness {
			pending = true
			item.Issues = append(item.Issues, fmt.Sprintf("document %s is missing key details", d.OriginalFileName))
		}
	}
	if pending {
		item.Status = models.ItemPending
		if len(docs) < months {
			item.Issues = append(item.Issues, fmt.Sprintf("%d of %d expected documents provided", len(docs), months))
		}
		return item
	}

	item.Status = models.ItemVerified
	return item
}

// evaluateProofOfAddress is pending when any document's extracted issue date
// falls outside the freshness window.
func (e *Engine) evaluateProofOfAddress(docs []models.Document) models.ChecklistItem {
	item := models.ChecklistItem{Required: true, DocumentIDs: ids(docs)}
	if len(docs) == 0 {
		item.Status = models.ItemMissing
		return item
	}

	cutoff := e.now().Add(-e.cfg.ProofOfAddressMaxAge)
	for _, d := range docs {
		issued, ok := extractedDate(d, "issueDate")
		if ok && issued.Before(cutoff) {
			item.Status = models.ItemPending
			item.Issues = append(item.Issues, fmt.Sprintf("document %s is older than allowed", d.OriginalFileName))
		}
	}
	if item.Status == "" {
		item.Status = models.ItemVerified
	}
	return item
}

// evaluateConditional handles the welfare / medical / tenancy slots whose
// required flag is computed from policy or applicant data.
func (e *Engine) evaluateConditional(docs []models.Document, required bool, label string) models.ChecklistItem {
	item := models.ChecklistItem{Required: required, DocumentIDs: ids(docs)}
	if len(docs) == 0 {
		item.Status = models.ItemMissing
		if required {
			item.Issues = []string{fmt.Sprintf("no %s uploaded", label)}
		}
		return item
	}

	for _, d := range docs {
		if d.CompletenessScore < e.cfg.CompletenessThreshold {
			item.Issues = append(item.Issues, fmt.Sprintf("document %s is missing key details", d.OriginalFileName))
		}
	}
	if len(item.Issues) > 0 {
		item.Status = models.ItemPending
	} else {
		item.Status = models.ItemVerified
	}
	return item
}

// isExpired reads the extracted expiryDate, when one was extracted.
func (e *Engine) isExpired(d models.Document) (expired, ok bool) {
	exp, ok := extractedDate(d, "expiryDate")
	if !ok {
		return false, false
	}
	return exp.Before(e.now()), true
}

func extractedDate(d models.Document, field string) (time.Time, bool) {
	f, ok := d.ExtractedData[field]
	if !ok || f.Value == nil {
		return time.Time{}, false
	}
	s, ok := f.Value.(string)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func ids(docs []models.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}
