// internal/checklist/config.go
package checklist

import "time"

// Config holds the per-category checklist policy knobs. All fields have
// documented defaults; construct with DefaultConfig and override explicitly.
type Config struct {
	// MinIdentityDocuments is the minimum count of clean identity documents
	// for the identity slot to verify. Default 1.
	MinIdentityDocuments int
	// IdentityConfidenceThreshold flags identity documents classified below
	// this confidence. Default 0.7.
	IdentityConfidenceThreshold float64
	// IncomeMonths is how many months of income evidence are expected.
	// Default 3.
	IncomeMonths int
	// BankStatementMonths is how many months of bank statements are expected.
	// Default 3.
	BankStatementMonths int
	// CompletenessThreshold is the minimum extraction completeness for most
	// slots. Default 70.
	CompletenessThreshold int
	// BankCompletenessThreshold is the looser floor used for bank statements.
	// Default 60.
	BankCompletenessThreshold int
	// ProofOfAddressMaxAge is how old a proof-of-address document may be.
	// Default 90 days.
	ProofOfAddressMaxAge time.Duration
	// WelfareBenefitRequired marks the welfare benefit slot required.
	// Default false.
	WelfareBenefitRequired bool
	// TenancyAgreementRequired marks the tenancy agreement slot required.
	// Default false.
	TenancyAgreementRequired bool
}

// DefaultConfig returns the policy defaults.
func DefaultConfig() Config {
	return Config{
		MinIdentityDocuments:        1,
		IdentityConfidenceThreshold: 0.7,
		IncomeMonths:                3,
		BankStatementMonths:         3,
		CompletenessThreshold:       70,
		BankCompletenessThreshold:   60,
		ProofOfAddressMaxAge:        90 * 24 * time.Hour,
		WelfareBenefitRequired:      false,
		TenancyAgreementRequired:    false,
	}
}
