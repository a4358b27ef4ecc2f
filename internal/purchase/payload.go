package purchase

import (
	"fmt"
	"strings"

	"uic-travel-backend/internal/dates"
	"uic-travel-backend/internal/model"
)

// BuildIssuanceRequest maps a validated draft plus the selected package
// onto the issuance API's field names. Dates go out in DD/MM/YYYY, the
// national ID loses its dashes, and the family block is only populated
// for family plans.
func BuildIssuanceRequest(draft model.PurchaseDraft, pkg model.InsurancePackage) (model.IssuanceRequest, error) {
	dob, err := dates.ToExternal(draft.DOB)
	if err != nil {
		return model.IssuanceRequest{}, fmt.Errorf("date of birth: %w", err)
	}
	startDate, err := dates.ToExternal(draft.StartDate)
	if err != nil {
		return model.IssuanceRequest{}, fmt.Errorf("start date: %w", err)
	}
	endDate, err := dates.EndDateExternal(draft.StartDate, draft.TravelDays)
	if err != nil {
		return model.IssuanceRequest{}, fmt.Errorf("end date: %w", err)
	}

	area := pkg.AreaShortCode
	if area == "" {
		area = "WW"
	}

	remarks := draft.Remarks
	if remarks == "" {
		remarks = "Online Purchase"
	}

	req := model.IssuanceRequest{
		TravelerName: draft.TravelerName,
		NICNo:        StripNIC(draft.NICNo),
		NTNNo:        draft.NTNNo,
		DOB:          dob,
		PassportNo:   strings.ToUpper(draft.PassportNo),

		Email:   draft.Email,
		PhoneNo: draft.ContactNo,
		Address: draft.Address,

		BeneficiaryName: draft.BeneficiaryName,
		Relationship:    draft.Relationship,

		AreaShortCode: area,
		Country:       "Pakistan",
		CountryCode:   "PAK",

		PlanType:   pkg.PlanType,
		PlanName:   strings.ToUpper(pkg.Plan),
		TravelDays: draft.TravelDays,
		StartDate:  startDate,
		EndDate:    endDate,

		Covid:   normalizeCovid(pkg.Covid),
		Premium: pkg.TotalPayablePremium,
		GSTNo:   draft.GSTNo,
		Remarks: remarks,

		Children: []model.IssuanceChild{},
	}

	if pkg.Family() {
		spouseDOB := ""
		if draft.SpouseDOB != "" {
			if spouseDOB, err = dates.ToExternal(draft.SpouseDOB); err != nil {
				return model.IssuanceRequest{}, fmt.Errorf("spouse date of birth: %w", err)
			}
		}
		req.SpouseName = draft.SpouseName
		req.SpouseDOB = spouseDOB
		req.SpousePassportNo = draft.SpousePassport
		req.NoOfChildren = len(draft.Children)
		for i, child := range draft.Children {
			childDOB, err := dates.ToExternal(child.DOB)
			if err != nil {
				return model.IssuanceRequest{}, fmt.Errorf("child %d date of birth: %w", i+1, err)
			}
			req.Children = append(req.Children, model.IssuanceChild{
				ChildName:       child.Name,
				ChildDOB:        childDOB,
				ChildPassportNo: child.PassportNo,
			})
		}
	}

	return req, nil
}

// normalizeCovid collapses the package's coverage status to the two
// values the issuance API accepts.
func normalizeCovid(status string) string {
	if status == "Yes" || status == "Covered" {
		return model.CovidCovered
	}
	return model.CovidNotCovered
}
