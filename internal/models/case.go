// internal/models/case.go
package models

import "time"

// HouseholdMember is one person living with the applicant.
type HouseholdMember struct {
	Name            string `json:"name"`
	Relationship    string `json:"relationship,omitempty"`
	Age             int    `json:"age,omitempty"`
	RequiresSupport bool   `json:"requiresSupport"`
}

// Applicant is the applicant snapshot stored on a case.
type Applicant struct {
	FullName         string            `json:"fullName"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone,omitempty"`
	Address          string            `json:"address,omitempty"`
	HouseholdMembers []HouseholdMember `json:"householdMembers,omitempty"`
}

// Case is one applicant's housing application record.
type Case struct {
	ID        string                   `json:"id"`
	ClientID  string                   `json:"clientId"`
	Reference string                   `json:"reference"`
	Status    CaseStatus               `json:"status"`
	Applicant Applicant                `json:"applicant"`
	Checklist *DocumentChecklistStatus `json:"checklist,omitempty"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}
