package usaspending

// DefaultAwardFields is the field list returned when the caller does not
// ask for specific columns.
var DefaultAwardFields = []string{
	"Award ID",
	"Recipient Name",
	"Start Date",
	"End Date",
	"Award Amount",
	"Awarding Agency",
	"Awarding Sub Agency",
	"Award Type",
}

// AwardAmount bounds an award amount range. Either bound may be open.
type AwardAmount struct {
	LowerBound *float64 `json:"lower_bound,omitempty"`
	UpperBound *float64 `json:"upper_bound,omitempty"`
}

func (a AwardAmount) Validate() error {
	if a.LowerBound == nil && a.UpperBound == nil {
		return fieldErrorf("award_amounts", "at least one of lower_bound or upper_bound is required")
	}
	if a.LowerBound != nil && a.UpperBound != nil && *a.LowerBound > *a.UpperBound {
		return fieldErrorf("award_amounts", "lower_bound must not exceed upper_bound")
	}
	return nil
}

// ProgramActivity filters by program activity name or code.
type ProgramActivity struct {
	Name string `json:"name,omitempty"`
	Code string `json:"code,omitempty"`
}

// AwardSearchFilters narrows a spending-by-award search.
type AwardSearchFilters struct {
	TimePeriod          []TimePeriod      `json:"time_period,omitempty"`
	AwardTypeCodes      []string          `json:"award_type_codes,omitempty"`
	Agencies            []Agency          `json:"agencies,omitempty"`
	RecipientSearchText []string          `json:"recipient_search_text,omitempty"`
	AwardIDs            []string          `json:"award_ids,omitempty"`
	Keywords            []string          `json:"keywords,omitempty"`
	AwardAmounts        []AwardAmount     `json:"award_amounts,omitempty"`
	ProgramActivities   []ProgramActivity `json:"program_activities,omitempty"`
}

func (f AwardSearchFilters) Validate() error {
	for _, tp := range f.TimePeriod {
		if err := tp.Validate(); err != nil {
			return err
		}
	}
	for _, a := range f.Agencies {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	for _, amt := range f.AwardAmounts {
		if err := amt.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AwardSearchRequest is the payload for search/spending_by_award/.
type AwardSearchRequest struct {
	Filters    AwardSearchFilters `json:"filters"`
	Fields     []string           `json:"fields"`
	Pagination Pagination         `json:"pagination"`
	Sort       string             `json:"sort,omitempty"`
	Subawards  bool               `json:"subawards"`
}

// ApplyDefaults fills the field list, agency defaults, and pagination.
func (r *AwardSearchRequest) ApplyDefaults() {
	if len(r.Fields) == 0 {
		r.Fields = DefaultAwardFields
	}
	for i := range r.Filters.Agencies {
		r.Filters.Agencies[i] = r.Filters.Agencies[i].normalized()
	}
	r.Pagination.applyDefaults()
}

func (r *AwardSearchRequest) Validate() error {
	if err := r.Filters.Validate(); err != nil {
		return err
	}
	return r.Pagination.Validate()
}
