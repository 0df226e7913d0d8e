package usaspending

import (
	"fmt"
	"time"
)

// FieldError reports a request field that failed validation. The tool
// layer surfaces these to the caller verbatim.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

func fieldErrorf(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Sort orders accepted by the API.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

const dateLayout = "2006-01-02"

// TimePeriod filters results to a date range. Dates use YYYY-MM-DD.
type TimePeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Validate checks date formats and ordering.
func (t TimePeriod) Validate() error {
	start, err := time.Parse(dateLayout, t.StartDate)
	if err != nil {
		return fieldErrorf("time_period.start_date", "must be in YYYY-MM-DD format: %q", t.StartDate)
	}
	end, err := time.Parse(dateLayout, t.EndDate)
	if err != nil {
		return fieldErrorf("time_period.end_date", "must be in YYYY-MM-DD format: %q", t.EndDate)
	}
	if start.After(end) {
		return fieldErrorf("time_period", "start_date must not be after end_date")
	}
	return nil
}

// Agency filters by awarding or funding agency.
type Agency struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"` // awarding (default) or funding
	Tier        string `json:"tier,omitempty"` // toptier (default) or subtier
	TopTierName string `json:"toptier_name,omitempty"`
}

func (a Agency) Validate() error {
	if a.Name == "" {
		return fieldErrorf("agencies.name", "must not be empty")
	}
	switch a.Type {
	case "", "awarding", "funding":
	default:
		return fieldErrorf("agencies.type", "must be awarding or funding: %q", a.Type)
	}
	switch a.Tier {
	case "", "toptier", "subtier":
	default:
		return fieldErrorf("agencies.tier", "must be toptier or subtier: %q", a.Tier)
	}
	return nil
}

// normalized returns the agency with the API defaults filled in.
func (a Agency) normalized() Agency {
	if a.Type == "" {
		a.Type = "awarding"
	}
	if a.Tier == "" {
		a.Tier = "toptier"
	}
	return a
}

// Pagination carries paging parameters shared by the search endpoints.
type Pagination struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order,omitempty"`
}

// DefaultPagination mirrors the API defaults.
func DefaultPagination() Pagination {
	return Pagination{Page: 1, Limit: 100, Order: OrderDesc}
}

// applyDefaults fills zero values with the API defaults.
func (p *Pagination) applyDefaults() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = 100
	}
	if p.Order == "" {
		p.Order = OrderDesc
	}
}

func (p Pagination) Validate() error {
	if p.Page < 1 {
		return fieldErrorf("pagination.page", "must be >= 1")
	}
	if p.Limit < 1 || p.Limit > 100 {
		return fieldErrorf("pagination.limit", "must be between 1 and 100")
	}
	if p.Order != OrderAsc && p.Order != OrderDesc {
		return fieldErrorf("pagination.order", "must be asc or desc: %q", p.Order)
	}
	return nil
}
