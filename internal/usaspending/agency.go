package usaspending

import (
	"net/url"
	"strconv"
)

// AgencyListParams are the query parameters shared by the agency
// sub_agency and sub_components endpoints.
type AgencyListParams struct {
	FiscalYear string `json:"fiscal_year,omitempty"`
	Sort       string `json:"sort,omitempty"`
	Page       int    `json:"page,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// Values renders the non-zero parameters as a URL query.
func (p AgencyListParams) Values() url.Values {
	q := url.Values{}
	if p.FiscalYear != "" {
		q.Set("fiscal_year", p.FiscalYear)
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}

var programActivitySorts = []string{"name", "obligated_amount", "gross_outlay_amount"}

// ProgramActivityParams are the query parameters for the agency
// program_activity endpoint.
type ProgramActivityParams struct {
	FiscalYear string `json:"fiscal_year,omitempty"`
	Filter     string `json:"filter,omitempty"`
	Order      string `json:"order,omitempty"`
	Sort       string `json:"sort,omitempty"`
	Page       int    `json:"page,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// ApplyDefaults fills the endpoint defaults.
func (p *ProgramActivityParams) ApplyDefaults() {
	if p.Order == "" {
		p.Order = OrderDesc
	}
	if p.Sort == "" {
		p.Sort = "obligated_amount"
	}
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = 100
	}
}

func (p ProgramActivityParams) Validate() error {
	if p.Order != OrderAsc && p.Order != OrderDesc {
		return fieldErrorf("order", "must be asc or desc: %q", p.Order)
	}
	if !contains(programActivitySorts, p.Sort) {
		return fieldErrorf("sort", "must be one of %v: %q", programActivitySorts, p.Sort)
	}
	return nil
}

// Values renders the parameters as a URL query.
func (p ProgramActivityParams) Values() url.Values {
	q := url.Values{}
	if p.FiscalYear != "" {
		q.Set("fiscal_year", p.FiscalYear)
	}
	if p.Filter != "" {
		q.Set("filter", p.Filter)
	}
	q.Set("order", p.Order)
	q.Set("sort", p.Sort)
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("limit", strconv.Itoa(p.Limit))
	return q
}
