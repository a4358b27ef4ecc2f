// Package purchase validates the stage-3 purchase draft and shapes it
// into the issuance API's payload.
package purchase

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"uic-travel-backend/internal/dates"
	"uic-travel-backend/internal/model"
)

// go-playground/validator/v10: one shared validator instance with the
// domain checks registered as custom tags.
var validate = validator.New()

var (
	cnicRe     = regexp.MustCompile(`^[0-9]{13}$`)
	passportRe = regexp.MustCompile(`^[A-Z]{2}[0-9]{7}$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitsRe   = regexp.MustCompile(`^[0-9]+$`)
)

func init() {
	// CNIC: exactly 13 digits once dash separators are stripped.
	_ = validate.RegisterValidation("cnic", func(fl validator.FieldLevel) bool {
		return cnicRe.MatchString(StripNIC(fl.Field().String()))
	})
	// Passport, strict form: two uppercase letters then seven digits.
	_ = validate.RegisterValidation("passport", func(fl validator.FieldLevel) bool {
		return passportRe.MatchString(fl.Field().String())
	})
}

// StripNIC removes dash separators from a national ID; the APIs take
// the bare 13 digits.
func StripNIC(nic string) string {
	return strings.ReplaceAll(nic, "-", "")
}

// ValidNIC reports whether the national ID is exactly 13 digits after
// stripping dashes.
func ValidNIC(nic string) bool {
	return validate.Var(nic, "cnic") == nil
}

// ValidEmail reports whether the address has the local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// Errors is the field-keyed validation error map. Child rows key as
// child_<index>_name / child_<index>_dob.
type Errors map[string]string

// Ok reports whether validation passed.
func (e Errors) Ok() bool { return len(e) == 0 }

// ValidateDraft checks every rule and reports each failing field
// individually. The family block is validated if and only if the
// selected package is a family plan. now anchors the age computation.
func ValidateDraft(draft model.PurchaseDraft, pkg model.InsurancePackage, p Policy, now time.Time) Errors {
	errs := Errors{}

	if !ValidNIC(draft.NICNo) {
		errs["nicNo"] = "Invalid CNIC"
	}

	if draft.DOB == "" {
		errs["dob"] = "Required"
	} else if dob, err := dates.ParseInternal(draft.DOB); err != nil {
		errs["dob"] = "Invalid date"
	} else if p.AgeMin > 0 || p.AgeMax > 0 {
		age := dates.Age(dob, now)
		if age < p.AgeMin || age > p.AgeMax {
			errs["dob"] = fmt.Sprintf("Must be %d-%d years", p.AgeMin, p.AgeMax)
		}
	}

	if len(draft.TravelerName) < p.MinNameLen {
		errs["travelerName"] = "Required"
	}

	passport := draft.PassportNo
	if p.StrictPassport {
		passport = strings.ToUpper(passport)
		if validate.Var(passport, "passport") != nil {
			errs["passportNo"] = "Two uppercase letters followed by seven digits"
		}
	} else if len(passport) < p.MinPassportLen {
		errs["passportNo"] = "Required"
	}

	if len(draft.Address) < p.MinAddressLen {
		errs["address"] = "Required"
	}

	if !ValidEmail(draft.Email) {
		errs["email"] = "Invalid Email"
	}

	if p.PhoneExactDigits > 0 {
		if len(draft.ContactNo) != p.PhoneExactDigits || !digitsRe.MatchString(draft.ContactNo) {
			errs["contactNo"] = fmt.Sprintf("Must be exactly %d digits", p.PhoneExactDigits)
		}
	} else if len(draft.ContactNo) < p.MinPhoneLen {
		errs["contactNo"] = "Required"
	}

	// Beneficiary is required regardless of plan type.
	if draft.BeneficiaryName == "" {
		errs["beneficiaryName"] = "Required"
	}
	if draft.Relationship == "" {
		errs["relationship"] = "Required"
	}

	if pkg.Family() {
		if draft.SpouseName == "" {
			errs["spouseName"] = "Required"
		}
		if draft.SpouseDOB == "" {
			errs["spouseDOB"] = "Required"
		}
		// Zero children is allowed; per-child fields are required
		// once the entry exists.
		for i, child := range draft.Children {
			if child.Name == "" {
				errs[fmt.Sprintf("child_%d_name", i)] = "Required"
			}
			if child.DOB == "" {
				errs[fmt.Sprintf("child_%d_dob", i)] = "Required"
			}
		}
	}

	return errs
}

// ValidatePayload runs the struct-tag validation over the assembled
// issuance request, a final gate before submission.
func ValidatePayload(req model.IssuanceRequest) error {
	// go-playground/validator/v10: Struct validates the payload
	// against the tags in internal/model.
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("payload validation failed: %w", err)
	}
	return nil
}
