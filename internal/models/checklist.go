// internal/models/checklist.go
package models

// ItemStatus is the derived verification state of one checklist slot.
type ItemStatus string

const (
	ItemMissing  ItemStatus = "missing"
	ItemPending  ItemStatus = "pending"
	ItemVerified ItemStatus = "verified"
	ItemIssues   ItemStatus = "issues"
)

// ChecklistItem tracks one required/optional document-category slot for a case.
type ChecklistItem struct {
	Required    bool       `json:"required"`
	Status      ItemStatus `json:"status"`
	DocumentIDs []string   `json:"documentIds"`
	Issues      []string   `json:"issues,omitempty"`
}

// DocumentChecklistStatus is the fixed checklist computed for a case. The
// first four slots are always required; the last three are conditional.
type DocumentChecklistStatus struct {
	Identity         ChecklistItem `json:"identity"`
	Income           ChecklistItem `json:"income"`
	BankStatements   ChecklistItem `json:"bankStatements"`
	ProofOfAddress   ChecklistItem `json:"proofOfAddress"`
	WelfareBenefit   ChecklistItem `json:"welfareBenefit"`
	MedicalEvidence  ChecklistItem `json:"medicalEvidence"`
	TenancyAgreement ChecklistItem `json:"tenancyAgreement"`
}

// ChecklistSlot pairs a checklist item with its slot key and label, for
// callers that need to iterate the fixed mapping.
type ChecklistSlot struct {
	Key   string
	Label string
	Item  ChecklistItem
}

// Slots returns every checklist slot in declaration order.
func (s *DocumentChecklistStatus) Slots() []ChecklistSlot {
	return []ChecklistSlot{
		{Key: "identity", Label: "Identity document", Item: s.Identity},
		{Key: "income", Label: "Proof of income", Item: s.Income},
		{Key: "bankStatements", Label: "Bank statements", Item: s.BankStatements},
		{Key: "proofOfAddress", Label: "Proof of address", Item: s.ProofOfAddress},
		{Key: "welfareBenefit", Label: "Welfare benefit award letter", Item: s.WelfareBenefit},
		{Key: "medicalEvidence", Label: "Medical evidence", Item: s.MedicalEvidence},
		{Key: "tenancyAgreement", Label: "Tenancy agreement", Item: s.TenancyAgreement},
	}
}
