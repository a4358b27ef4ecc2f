package purchase

// ReportMode selects how validation failures reach the user. Field-level
// errors are the minimum behavior; the notification variant additionally
// raises transient messages that expire on their own.
type ReportMode int

const (
	ReportFieldErrors ReportMode = iota
	ReportNotifications
	ReportBoth
)

// Policy carries the form-variant validation knobs. The two observed
// form variants disagree on several rules, so they are configuration
// rather than constants.
type Policy struct {
	// AgeMin/AgeMax bound the traveler's age in whole years. Zero
	// values disable the bound check; date of birth stays required.
	AgeMin int
	AgeMax int

	// MinNameLen is the minimum traveler-name length.
	MinNameLen int

	// MinAddressLen is the minimum address length.
	MinAddressLen int

	// StrictPassport requires two uppercase letters followed by seven
	// digits, upper-casing the input first. When false the passport
	// only needs a minimum length.
	StrictPassport bool
	MinPassportLen int

	// PhoneExactDigits, when non-zero, requires exactly that many
	// digits. Otherwise MinPhoneLen applies.
	PhoneExactDigits int
	MinPhoneLen      int

	Reporting ReportMode
}

// StrictDefaults is the documented default policy: age 18-86, 20-char
// address minimum, passport pattern enforced, exactly 11 phone digits.
func StrictDefaults() Policy {
	return Policy{
		AgeMin:           18,
		AgeMax:           86,
		MinNameLen:       2,
		MinAddressLen:    20,
		StrictPassport:   true,
		PhoneExactDigits: 11,
		Reporting:        ReportFieldErrors,
	}
}

// LenientDefaults matches the looser of the two observed form variants:
// age merely required, short address and passport minimums, length-only
// phone check, failures raised as transient notifications as well.
func LenientDefaults() Policy {
	return Policy{
		MinNameLen:     2,
		MinAddressLen:  5,
		MinPassportLen: 3,
		MinPhoneLen:    7,
		Reporting:      ReportBoth,
	}
}
