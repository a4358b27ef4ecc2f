// Package filter holds the package-selector filter engine: three
// independent, composable filters recomputed from the full quote array
// plus the current filter values. The original array is never
// discarded.
package filter

import (
	"sort"
	"strings"

	"uic-travel-backend/internal/model"
)

// Plan-type filter values.
const (
	PlanAll        = "All"
	PlanFamily     = "Family"
	PlanIndividual = "Individual"
)

// Price-ceiling bounds: the floor is fixed, the ceiling is
// user-adjustable up to the default maximum.
const (
	PriceFloor          = 999
	DefaultPriceCeiling = 500000
)

// Criteria are the current filter values.
type Criteria struct {
	PlanType     string  `json:"plan_type"`
	PriceCeiling float64 `json:"price_ceiling"`
	CovidOnly    bool    `json:"covid_only"`
}

// Default returns the reset state of the filter sidebar.
func Default() Criteria {
	return Criteria{PlanType: PlanAll, PriceCeiling: DefaultPriceCeiling}
}

// covidCovered reports whether a package's coverage status string marks
// coronavirus cover, matching case-insensitively.
func covidCovered(status string) bool {
	switch strings.ToLower(status) {
	case "covered", "yes", "included":
		return true
	}
	return false
}

// Apply filters the full quote slice by the given criteria and returns
// the visible subset sorted ascending by total payable premium. Pure:
// the input slice is left untouched.
func Apply(packages []model.InsurancePackage, c Criteria) []model.InsurancePackage {
	result := make([]model.InsurancePackage, 0, len(packages))

	for _, pkg := range packages {
		switch c.PlanType {
		case PlanFamily:
			if !pkg.Family() {
				continue
			}
		case PlanIndividual:
			if pkg.Family() {
				continue
			}
		}

		if pkg.TotalPayablePremium < PriceFloor || pkg.TotalPayablePremium > c.PriceCeiling {
			continue
		}

		if c.CovidOnly && !covidCovered(pkg.Covid) {
			continue
		}

		result = append(result, pkg)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalPayablePremium < result[j].TotalPayablePremium
	})
	return result
}
