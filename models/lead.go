package models

// Request types a lead can declare
const (
	RequestTypeEarlyAccess = "join_early_access"
	RequestTypeDemo        = "request_demo"
)

// Business types offered by the lead form. Stored as-is, never enforced.
const (
	BusinessTypeIslamicBank        = "islamic_bank"
	BusinessTypeArRahnuInstitution = "ar_rahnu_institution"
	BusinessTypeFinancialServices  = "financial_services"
	BusinessTypeOther              = "other"
)

// LeadsTable is the default name of the remote lead table
const LeadsTable = "muafin_leads"

// LeadSubmission is the record written once into the remote lead table.
// Optional fields are nil when blank so they serialize as JSON null.
type LeadSubmission struct {
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone"`
	BusinessName *string `json:"business_name"`
	BusinessType *string `json:"business_type"`
	RequestType  string  `json:"request_type"`
	Message      *string `json:"message"`
	SourcePage   string  `json:"source_page"`
}

// BusinessTypes returns the business types in the order the form lists them
func BusinessTypes() []string {
	return []string{
		BusinessTypeIslamicBank,
		BusinessTypeArRahnuInstitution,
		BusinessTypeFinancialServices,
		BusinessTypeOther,
	}
}

// RequestTypes returns the request types in the order the form lists them
func RequestTypes() []string {
	return []string{
		RequestTypeEarlyAccess,
		RequestTypeDemo,
	}
}

// IsValidRequestType checks if the request type is valid
func IsValidRequestType(requestType string) bool {
	for _, rt := range RequestTypes() {
		if rt == requestType {
			return true
		}
	}
	return false
}
