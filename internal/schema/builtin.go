// internal/schema/builtin.go
package schema

import "housing-intake/internal/models"

// builtinSchemas is the hand-maintained schema history. Versions are listed
// oldest first; the last entry is the current version for its category.
func builtinSchemas() map[models.Category][]SchemaVersion {
	return map[models.Category][]SchemaVersion{
		models.CategoryIdentity: {
			{
				Version: "1.0.0",
				Fields: map[string]FieldSpec{
					"fullName":       {Type: "string", Description: "Full legal name as printed on the document"},
					"dateOfBirth":    {Type: "date", Description: "Date of birth, ISO-8601"},
					"documentNumber": {Type: "string", Description: "Passport / ID card / licence number"},
					"expiryDate":     {Type: "date", Description: "Document expiry date, ISO-8601"},
				},
				Required: []string{"fullName", "dateOfBirth", "documentNumber", "expiryDate"},
			},
			{
				Version: "1.1.0",
				Fields: map[string]FieldSpec{
					"fullName":       {Type: "string", Description: "Full legal name as printed on the document"},
					"dateOfBirth":    {Type: "date", Description: "Date of birth, ISO-8601"},
					"documentNumber": {Type: "string", Description: "Passport / ID card / licence number"},
					"expiryDate":     {Type: "date", Description: "Document expiry date, ISO-8601"},
					"nationality":    {Type: "string", Description: "Nationality if stated"},
					"documentKind":   {Type: "string", Description: "passport | id_card | driving_licence | residence_permit"},
				},
				Required: []string{"fullName", "dateOfBirth", "documentNumber", "expiryDate"},
			},
		},
		models.CategoryIncome: {
			{
				Version: "1.0.0",
				Fields: map[string]FieldSpec{
					"employeeName":      {Type: "string", Description: "Employee name on the payslip"},
					"employerName":      {Type: "string", Description: "Employer name"},
					"payDate":           {Type: "date", Description: "Payment date, ISO-8601"},
					"netMonthlyIncome":  {Type: "number", Description: "Net pay for the period"},
					"grossMonthlyIncome": {Type: "number", Description: "Gross pay for the period"},
				},
				Required: []string{"employeeName", "employerName", "payDate", "netMonthlyIncome"},
			},
			{
				Version: "1.1.0",
				Fields: map[string]FieldSpec{
					"employeeName":       {Type: "string", Description: "Employee name on the payslip"},
					"employerName":       {Type: "string", Description: "Employer name"},
					"payDate":            {Type: "date", Description: "Payment date, ISO-8601"},
					"netMonthlyIncome":   {Type: "number", Description: "Net pay for the period"},
					"grossMonthlyIncome": {Type: "number", Description: "Gross pay for the period"},
					"payFrequency":       {Type: "string", Description: "weekly | fortnightly | monthly"},
				},
				Required: []string{"employeeName", "employerName", "payDate", "netMonthlyIncome"},
			},
		},
		models.CategoryBankStatement: {
			{
				Version: "1.0.0",
				Fields: map[string]FieldSpec{
					"accountHolder":      {Type: "string", Description: "Account holder name"},
					"accountNumber":      {Type: "string", Description: "Account number, may be partially masked"},
					"statementStartDate": {Type: "date", Description: "Statement period start, ISO-8601"},
					"statementEndDate":   {Type: "date", Description: "Statement period end, ISO-8601"},
					"closingBalance":     {Type: "number", Description: "Closing balance"},
				},
				Required: []string{"accountHolder", "statementStartDate", "statementEndDate", "closingBalance"},
			},
		},
		models.CategoryWelfareBenefit: {
			{
				Version: "1.0.0",
				Fields: map[string]FieldSpec{
					"claimantName":   {Type: "string", Description: "Claimant name on the award letter"},
					"benefitType":    {Type: "string", Description: "Benefit type, e.g. universal credit, housing benefit"},
					"awardAmount":    {Type: "number", Description: "Awarded amount per period"},
					"awardStartDate": {Type: "date", Description: "Award start date, ISO-8601"},
				},
				Required: []string{"claimantName", "benefitType", "awardAmount"},
			},
		},
		models.CategoryMedical: {
			{
				Version: "1.0.0",
				Fields: map[string]FieldSpec{
					"patientName":      {Type: "string", Description: "Patient name"},
					"practitionerName": {Type: "string", Description: "Issuing practitioner or clinic"},
					"issuedDate":       {Type: "date", Description: "Date the evidence was issued, ISO-8601"},
					"summary":          {Type: "string", Description: "Short description of the condition or need"},
				},
				Required: []string{"patientName", "issuedDate"},
			},
		},
		models.CategoryTenancy: {
			{
				Version: "1.0.0",
				Fields: map[string]FieldSpec{
					"tenantName":      {Type: "string", Description: "Tenant name"},
					"landlordName":    {Type: "string", Description: "Landlord or agent name"},
					"propertyAddress": {Type: "string", Description: "Address of the tenancy"},
					"startDate":       {Type: "date", Description: "Tenancy start date, ISO-8601"},
					"monthlyRent":     {Type: "number", Description: "Monthly rent"},
				},
				Required: []string{"tenantName", "propertyAddress", "startDate", "monthlyRent"},
			},
		},
		models.CategoryProofOfAddress: {
			{
				Version: "1.0.0",
				Fields: map[string]FieldSpec{
					"name":       {Type: "string", Description: "Addressee name"},
					"address":    {Type: "string", Description: "Full address shown"},
					"issueDate":  {Type: "date", Description: "Date the document was issued, ISO-8601"},
					"issuerName": {Type: "string", Description: "Issuing organisation, e.g. utility or council"},
				},
				Required: []string{"name", "address", "issueDate"},
			},
		},
		// No structured fields for catch-all categories; extraction is skipped
		// or trivially complete for them.
		models.CategoryOther:   {{Version: "1.0.0", Fields: map[string]FieldSpec{}, Required: nil}},
		models.CategoryUnknown: {{Version: "1.0.0", Fields: map[string]FieldSpec{}, Required: nil}},
	}
}
