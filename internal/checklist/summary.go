// internal/checklist/summary.go
package checklist

import (
	"math"

	"housing-intake/internal/models"
)

// CalculateOverallCompleteness weighs required items at 2 and optional items
// at 1. Optional items that are missing are excluded entirely; verified earns
// full weight, pending half, issues a quarter, required-missing zero.
func CalculateOverallCompleteness(status models.DocumentChecklistStatus) int {
	var achieved, total float64

	for _, slot := range status.Slots() {
		item := slot.Item
		if !item.Required && item.Status == models.ItemMissing {
			continue
		}

		weight := 1.0
		if item.Required {
			weight = 2.0
		}
		total += weight

		switch item.Status {
		case models.ItemVerified:
			achieved += weight
		case models.ItemPending:
			achieved += weight / 2
		case models.ItemIssues:
			achieved += weight / 4
		}
	}

	if total == 0 {
		return 0
	}
	return int(math.Round(100 * achieved / total))
}

// MissingDocuments lists human-readable labels for every required item that
// is still missing.
func MissingDocuments(status models.DocumentChecklistStatus) []string {
	var out []string
	for _, slot := range status.Slots() {
		if slot.Item.Required && slot.Item.Status == models.ItemMissing {
			out = append(out, slot.Label)
		}
	}
	return out
}

// ReviewItem is one checklist slot that needs human attention.
type ReviewItem struct {
	Category string   `json:"category"`
	Issues   []string `json:"issues"`
}

// ItemsNeedingReview lists every pending/issues item that carries issues.
func ItemsNeedingReview(status models.DocumentChecklistStatus) []ReviewItem {
	var out []ReviewItem
	for _, slot := range status.Slots() {
		item := slot.Item
		if item.Status != models.ItemPending && item.Status != models.ItemIssues {
			continue
		}
		if len(item.Issues) == 0 {
			continue
		}
		out = append(out, ReviewItem{Category: slot.Key, Issues: item.Issues})
	}
	return out
}

// HasMissingRequired reports whether any required slot is still missing.
func HasMissingRequired(status models.DocumentChecklistStatus) bool {
	for _, slot := range status.Slots() {
		if slot.Item.Required && slot.Item.Status == models.ItemMissing {
			return true
		}
	}
	return false
}

// NextCaseStatus derives the application status from an evaluated checklist:
// a missing required document keeps the case in documents_pending, anything
// short of full completeness needs review, and a complete checklist moves the
// case on to eligibility checking.
func NextCaseStatus(status models.DocumentChecklistStatus) models.CaseStatus {
	if HasMissingRequired(status) {
		return models.CaseStatusDocumentsPending
	}
	if CalculateOverallCompleteness(status) < 100 {
		return models.CaseStatusDocumentsReview
	}
	return models.CaseStatusEligibilityCheck
}
