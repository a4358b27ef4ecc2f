package model

// TripSearch is the ephemeral search input: traveler identity plus the
// trip date range. It is consumed once to request quotes and never
// persisted outside the wizard session.
type TripSearch struct {
	TravelerName string `json:"traveler_name" validate:"required"`
	NICNo        string `json:"nic_no,omitempty"`
	NTNNo        string `json:"ntn_no,omitempty"`
	DOB          string `json:"dob" validate:"required"` // YYYY-MM-DD
	TravelStart  string `json:"travel_start" validate:"required"`
	TravelEnd    string `json:"travel_end" validate:"required"`
	TravelDays   int    `json:"travel_days"`
	Covid        string `json:"covid"` // "Covered" | "Not Covered"

	// External-format copies carried forward to the later stages,
	// filled in after a successful quote call.
	FormattedDOB       string `json:"formatted_dob,omitempty"`
	FormattedStartDate string `json:"formatted_start_date,omitempty"`
	FormattedEndDate   string `json:"formatted_end_date,omitempty"`
}

// InsurancePackage is a single quote returned by the UIC packages API.
// Immutable once received; one search yields an ordered collection.
type InsurancePackage struct {
	Plan                string  `json:"Plan"`
	PlanType            string  `json:"PlanType"` // "F" marks family, anything else individual
	Company             string  `json:"Company,omitempty"`
	AreaShortCode       string  `json:"AreaShortCode"`
	Area                string  `json:"Area,omitempty"`
	MedicalCover        string  `json:"MedicalCover"`
	Premium             float64 `json:"Premium"`
	TotalPayablePremium float64 `json:"TotalPayablePremium"`
	Covid               string  `json:"Covid"`
	Duration            int     `json:"Duration"`
	ResponseCode        string  `json:"ResponseCode"`
	ResponseDescription string  `json:"ResponseDescription,omitempty"`
}

// Family returns true when the package covers a family plan.
func (p InsurancePackage) Family() bool { return p.PlanType == "F" }

// ChildDraft is one child entry on a family-plan purchase draft.
// Passport is optional; name and date of birth are required once the
// entry exists.
type ChildDraft struct {
	Name       string `json:"name"`
	DOB        string `json:"dob"` // YYYY-MM-DD
	PassportNo string `json:"passport_no,omitempty"`
}

// PurchaseDraft is the mutable stage-3 form state built from a selected
// package plus re-entered traveler detail. Family fields apply iff the
// selected package's plan type is family.
type PurchaseDraft struct {
	TravelerName string `json:"traveler_name"`
	NICNo        string `json:"nic_no"`
	NTNNo        string `json:"ntn_no,omitempty"`
	DOB          string `json:"dob"` // YYYY-MM-DD
	PassportNo   string `json:"passport_no"`

	Email     string `json:"email"`
	ContactNo string `json:"contact_no"`
	Address   string `json:"address"`

	BeneficiaryName string `json:"beneficiary_name"`
	Relationship    string `json:"relationship"`

	StartDate  string `json:"start_date"` // YYYY-MM-DD
	TravelDays int    `json:"travel_days"`

	GSTNo   string `json:"gst_no,omitempty"`
	Remarks string `json:"remarks,omitempty"`

	SpouseName     string       `json:"spouse_name,omitempty"`
	SpouseDOB      string       `json:"spouse_dob,omitempty"`
	SpousePassport string       `json:"spouse_passport,omitempty"`
	Children       []ChildDraft `json:"children,omitempty"`
}

// IssuedPolicy is the server-confirmed result of a successful purchase
// submission. PolicyNo is mandatory: a record without one is a broken
// navigation state, never a valid empty value.
type IssuedPolicy struct {
	PolicyNo            string `json:"PolicyNo"`
	ReferenceID         string `json:"ReferenceID"`
	TravelerName        string `json:"TravelerName"`
	TravelerEmail       string `json:"TravelerEmail,omitempty"`
	Email               string `json:"Email,omitempty"`
	PlanName            string `json:"PlanName,omitempty"`
	Plan                string `json:"Plan,omitempty"`
	Area                string `json:"Area,omitempty"`
	Amount              string `json:"Amount,omitempty"`
	TotalPayablePremium string `json:"TotalPayablePremium,omitempty"`
	AdvanceTax          string `json:"AdvanceTax,omitempty"`
	TotalAmount         string `json:"TotalAmount,omitempty"`
	StartDate           string `json:"StartDate,omitempty"`
	Duration            int    `json:"Duration,omitempty"`
	PolicyPrintURL      string `json:"PolicyPrintUrl"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription,omitempty"`
}

// EmailAddress returns whichever email field the issuance API populated.
func (p IssuedPolicy) EmailAddress() string {
	if p.TravelerEmail != "" {
		return p.TravelerEmail
	}
	return p.Email
}

// DisplayPlanName prefers the merged PlanName over the raw Plan field.
func (p IssuedPolicy) DisplayPlanName() string {
	if p.PlanName != "" {
		return p.PlanName
	}
	return p.Plan
}
