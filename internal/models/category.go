// internal/models/category.go
package models

// Category is the closed classification label for an uploaded document.
type Category string

const (
	CategoryIdentity       Category = "identity"
	CategoryIncome         Category = "income"
	CategoryBankStatement  Category = "bank_statement"
	CategoryWelfareBenefit Category = "welfare_benefit"
	CategoryMedical        Category = "medical"
	CategoryTenancy        Category = "tenancy"
	CategoryProofOfAddress Category = "proof_of_address"
	CategoryOther          Category = "other"
	CategoryUnknown        Category = "unknown"
)

// AllCategories lists every category in declaration order. The order matters:
// multi-page aggregation breaks confidence ties by first match in this slice.
var AllCategories = []Category{
	CategoryIdentity,
	CategoryIncome,
	CategoryBankStatement,
	CategoryWelfareBenefit,
	CategoryMedical,
	CategoryTenancy,
	CategoryProofOfAddress,
	CategoryOther,
	CategoryUnknown,
}

// ParseCategory coerces a raw model label into the closed enum.
// Anything unrecognized becomes CategoryUnknown.
func ParseCategory(s string) Category {
	for _, c := range AllCategories {
		if string(c) == s {
			return c
		}
	}
	return CategoryUnknown
}

// IsValidCategory reports whether s is a member of the closed enum.
func IsValidCategory(s string) bool {
	for _, c := range AllCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}
