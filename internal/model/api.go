package model

// QuoteSuccessCode is the ResponseCode the packages API returns on the
// first element of a successful quote response.
const QuoteSuccessCode = "USTI-S001"

// Covid coverage values as the UIC APIs spell them.
const (
	CovidCovered    = "Covered"
	CovidNotCovered = "Not Covered"
)

// QuoteRequest is the body of POST /api/uic/packages.
type QuoteRequest struct {
	TravelerName string `json:"TravelerName" validate:"required"`
	NICNo        string `json:"NICNo"`
	NTNNo        string `json:"NTNNo"`
	TravelDays   int    `json:"TravelDays" validate:"required,gt=0"`
	DOB          string `json:"DOB" validate:"required"` // DD/MM/YYYY
	Covid        string `json:"Covid" validate:"required,oneof='Covered' 'Not Covered'"`
}

// QuoteResponse is the envelope of the packages API. Data must be an
// array for the response to count as well-formed.
type QuoteResponse struct {
	Data []InsurancePackage `json:"data"`
}

// IssuanceChild is one child record in the issuance payload.
type IssuanceChild struct {
	ChildName       string `json:"ChildName" validate:"required"`
	ChildDOB        string `json:"ChildDOB" validate:"required"` // DD/MM/YYYY
	ChildPassportNo string `json:"ChildPassportNo"`
}

// IssuanceRequest is the body of POST /api/uic/policy/create, with the
// external field names the issuance API requires. The family block is
// only populated when PlanType is "F".
type IssuanceRequest struct {
	TravelerName string `json:"TravelerName" validate:"required,min=2"`
	NICNo        string `json:"NICNo" validate:"required,len=13,numeric"`
	NTNNo        string `json:"NTNNo"`
	DOB          string `json:"DOB" validate:"required"` // DD/MM/YYYY
	PassportNo   string `json:"PassportNo" validate:"required"`

	Email   string `json:"Email" validate:"required,email"`
	PhoneNo string `json:"PhoneNo" validate:"required"`
	Address string `json:"Address" validate:"required"`

	BeneficiaryName string `json:"BeneficiaryName" validate:"required"`
	Relationship    string `json:"Relationship" validate:"required"`

	AreaShortCode string `json:"AreaShortCode" validate:"required"`
	Country       string `json:"Country" validate:"required"`
	CountryCode   string `json:"CountryCode" validate:"required"`

	PlanType   string `json:"PlanType" validate:"required"`
	PlanName   string `json:"PlanName" validate:"required"`
	TravelDays int    `json:"TravelDays" validate:"required,gt=0"`
	StartDate  string `json:"StartDate" validate:"required"` // DD/MM/YYYY
	EndDate    string `json:"EndDate" validate:"required"`   // DD/MM/YYYY

	Covid   string  `json:"Covid" validate:"required,oneof='Covered' 'Not Covered'"`
	Premium float64 `json:"Premium" validate:"required"`
	GSTNo   string  `json:"GSTNo"`
	Remarks string  `json:"Remarks"`

	SpouseName       string          `json:"SpouseName"`
	SpouseDOB        string          `json:"SpouseDOB"` // DD/MM/YYYY
	SpousePassportNo string          `json:"SpousePassportNo"`
	NoOfChildren     int             `json:"NoOfChildren"`
	Children         []IssuanceChild `json:"Children" validate:"dive"`
}

// IssuanceResponse is the envelope of the policy create API. A
// populated Data array is required for success; its first element is
// the issued policy.
type IssuanceResponse struct {
	Data                []IssuedPolicy `json:"data"`
	Message             string         `json:"message,omitempty"`
	ResponseDescription string         `json:"ResponseDescription,omitempty"`
}
