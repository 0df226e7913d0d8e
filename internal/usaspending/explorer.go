package usaspending

import "strconv"

// Spending explorer groupings. budget_function, agency, and object_class
// are the general entry points; the rest drill into a subset.
var explorerTypes = []string{
	"budget_function", "agency", "object_class",
	"federal_account", "recipient", "award", "budget_subfunction", "program_activity",
}

// generalExplorerTypes require only a fiscal year and quarter.
var generalExplorerTypes = []string{"budget_function", "agency", "object_class"}

// ExplorerFilters selects the slice of data to explore. FY and one of
// quarter/period are required; the id fields narrow drill-down requests.
type ExplorerFilters struct {
	FY                string `json:"fy"`
	Quarter           string `json:"quarter,omitempty"`
	Period            string `json:"period,omitempty"`
	Agency            string `json:"agency,omitempty"`
	FederalAccount    string `json:"federal_account,omitempty"`
	ObjectClass       string `json:"object_class,omitempty"`
	BudgetFunction    string `json:"budget_function,omitempty"`
	BudgetSubfunction string `json:"budget_subfunction,omitempty"`
	Recipient         string `json:"recipient,omitempty"`
	ProgramActivity   string `json:"program_activity,omitempty"`
}

// ExplorerRequest is the payload for spending/.
type ExplorerRequest struct {
	Type    string          `json:"type"`
	Filters ExplorerFilters `json:"filters"`
}

func (r *ExplorerRequest) Validate() error {
	if !contains(explorerTypes, r.Type) {
		return fieldErrorf("type", "must be one of %v: %q", explorerTypes, r.Type)
	}
	year, err := strconv.Atoi(r.Filters.FY)
	if err != nil {
		return fieldErrorf("filters.fy", "must be a valid year: %q", r.Filters.FY)
	}
	// Explorer data does not exist before FY 2017 Q2.
	if year < 2017 {
		return fieldErrorf("filters.fy", "data not available prior to FY 2017")
	}
	if r.Filters.Quarter != "" && r.Filters.Period != "" {
		return fieldErrorf("filters", "specify either quarter or period, not both")
	}
	if r.Filters.Quarter != "" {
		if q, err := strconv.Atoi(r.Filters.Quarter); err != nil || q < 1 || q > 4 {
			return fieldErrorf("filters.quarter", "must be 1-4: %q", r.Filters.Quarter)
		}
	}
	if r.Filters.Period != "" {
		if p, err := strconv.Atoi(r.Filters.Period); err != nil || p < 1 || p > 12 {
			return fieldErrorf("filters.period", "must be 1-12: %q", r.Filters.Period)
		}
	}
	if contains(generalExplorerTypes, r.Type) && r.Filters.Quarter == "" {
		return fieldErrorf("filters.quarter", "required for general explorer type %q", r.Type)
	}
	if r.Filters.Quarter == "" && r.Filters.Period == "" {
		return fieldErrorf("filters", "one of quarter or period is required")
	}
	return nil
}
