// internal/checklist/summary_test.go
package checklist

import (
	"testing"

	"housing-intake/internal/models"

	"github.com/stretchr/testify/assert"
)

func item(required bool, status models.ItemStatus, issues ...string) models.ChecklistItem {
	return models.ChecklistItem{Required: required, Status: status, Issues: issues}
}

func TestCalculateOverallCompleteness(t *testing.T) {
	tests := []struct {
		name   string
		status models.DocumentChecklistStatus
		want   int
	}{
		{
			name: "all required verified, optionals missing",
			status: models.DocumentChecklistStatus{
				Identity:         item(true, models.ItemVerified),
				Income:           item(true, models.ItemVerified),
				BankStatements:   item(true, models.ItemVerified),
				ProofOfAddress:   item(true, models.ItemVerified),
				WelfareBenefit:   item(false, models.ItemMissing),
				MedicalEvidence:  item(false, models.ItemMissing),
				TenancyAgreement: item(false, models.ItemMissing),
			},
			want: 100,
		},
		{
			name: "required verified plus required pending, optional missing excluded",
			status: models.DocumentChecklistStatus{
				Identity:         item(true, models.ItemVerified),
				Income:           item(true, models.ItemPending, "2 of 3 expected documents provided"),
				BankStatements:   item(false, models.ItemMissing),
				ProofOfAddress:   item(false, models.ItemMissing),
				WelfareBenefit:   item(false, models.ItemMissing),
				MedicalEvidence:  item(false, models.ItemMissing),
				TenancyAgreement: item(false, models.ItemMissing),
			},
			// (2 + 1) / 4 = 75
			want: 75,
		},
		{
			name: "issues earn a quarter of the weight",
			status: models.DocumentChecklistStatus{
				Identity:         item(true, models.ItemIssues, "document passport.pdf has expired"),
				Income:           item(true, models.ItemVerified),
				BankStatements:   item(false, models.ItemMissing),
				ProofOfAddress:   item(false, models.ItemMissing),
				WelfareBenefit:   item(false, models.ItemMissing),
				MedicalEvidence:  item(false, models.ItemMissing),
				TenancyAgreement: item(false, models.ItemMissing),
			},
			// (0.5 + 2) / 4 = 62.5 -> 63
			want: 63,
		},
		{
			name: "optional non-missing items count at weight one",
			status: models.DocumentChecklistStatus{
				Identity:         item(true, models.ItemVerified),
				Income:           item(true, models.ItemVerified),
				BankStatements:   item(true, models.ItemVerified),
				ProofOfAddress:   item(true, models.ItemVerified),
				WelfareBenefit:   item(false, models.ItemPending, "document award.pdf is missing key details"),
				MedicalEvidence:  item(false, models.ItemMissing),
				TenancyAgreement: item(false, models.ItemMissing),
			},
			// (8 + 0.5) / 9 = 94.4 -> 94
			want: 94,
		},
		{
			name: "required missing earns nothing but counts",
			status: models.DocumentChecklistStatus{
				Identity:         item(true, models.ItemMissing, "no identity document uploaded"),
				Income:           item(true, models.ItemVerified),
				BankStatements:   item(false, models.ItemMissing),
				ProofOfAddress:   item(false, models.ItemMissing),
				WelfareBenefit:   item(false, models.ItemMissing),
				MedicalEvidence:  item(false, models.ItemMissing),
				TenancyAgreement: item(false, models.ItemMissing),
			},
			// 2 / 4 = 50
			want: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateOverallCompleteness(tt.status))
		})
	}
}

func TestMissingDocuments(t *testing.T) {
	status := models.DocumentChecklistStatus{
		Identity:         item(true, models.ItemMissing),
		Income:           item(true, models.ItemVerified),
		BankStatements:   item(true, models.ItemMissing),
		ProofOfAddress:   item(true, models.ItemPending),
		WelfareBenefit:   item(false, models.ItemMissing),
		MedicalEvidence:  item(true, models.ItemMissing),
		TenancyAgreement: item(false, models.ItemMissing),
	}

	assert.Equal(t,
		[]string{"Identity document", "Bank statements", "Medical evidence"},
		MissingDocuments(status))
}

func TestItemsNeedingReview(t *testing.T) {
	status := models.DocumentChecklistStatus{
		Identity:       item(true, models.ItemIssues, "document passport.pdf has expired"),
		Income:         item(true, models.ItemPending, "2 of 3 expected documents provided"),
		BankStatements: item(true, models.ItemVerified),
		ProofOfAddress: item(true, models.ItemPending), // no issues, not reviewable
		WelfareBenefit: item(false, models.ItemMissing),
	}

	got := ItemsNeedingReview(status)
	assert.Equal(t, []ReviewItem{
		{Category: "identity", Issues: []string{"document passport.pdf has expired"}},
		{Category: "income", Issues: []string{"2 of 3 expected documents provided"}},
	}, got)
}

func TestNextCaseStatus(t *testing.T) {
	verified := item(true, models.ItemVerified)

	t.Run("missing required stays documents_pending", func(t *testing.T) {
		status := models.DocumentChecklistStatus{
			Identity: item(true, models.ItemMissing),
			Income:   verified, BankStatements: verified, ProofOfAddress: verified,
		}
		assert.Equal(t, models.CaseStatusDocumentsPending, NextCaseStatus(status))
	})

	t.Run("incomplete checklist needs review", func(t *testing.T) {
		status := models.DocumentChecklistStatus{
			Identity: item(true, models.ItemPending, "document id.pdf is missing key details"),
			Income:   verified, BankStatements: verified, ProofOfAddress: verified,
		}
		assert.Equal(t, models.CaseStatusDocumentsReview, NextCaseStatus(status))
	})

	t.Run("complete checklist moves to eligibility", func(t *testing.T) {
		status := models.DocumentChecklistStatus{
			Identity: verified, Income: verified, BankStatements: verified, ProofOfAddress: verified,
		}
		assert.Equal(t, models.CaseStatusEligibilityCheck, NextCaseStatus(status))
	})
}
