package usaspending

// Award type groupings accepted by the recipient search.
var recipientAwardTypes = []string{
	"all", "contracts", "grants", "loans", "direct_payments", "other_financial_assistance",
}

var recipientSorts = []string{"amount", "name", "duns"}

// RecipientSearchRequest is the payload for recipient/.
type RecipientSearchRequest struct {
	Keyword    string     `json:"keyword,omitempty"`
	AwardType  string     `json:"award_type"`
	Sort       string     `json:"sort"`
	Order      string     `json:"order"`
	Pagination Pagination `json:"pagination"`
}

// ApplyDefaults fills the API defaults for the enum fields.
func (r *RecipientSearchRequest) ApplyDefaults() {
	if r.AwardType == "" {
		r.AwardType = "all"
	}
	if r.Sort == "" {
		r.Sort = "amount"
	}
	if r.Order == "" {
		r.Order = OrderDesc
	}
	r.Pagination.applyDefaults()
}

func (r *RecipientSearchRequest) Validate() error {
	if !contains(recipientAwardTypes, r.AwardType) {
		return fieldErrorf("award_type", "must be one of %v: %q", recipientAwardTypes, r.AwardType)
	}
	if !contains(recipientSorts, r.Sort) {
		return fieldErrorf("sort", "must be one of %v: %q", recipientSorts, r.Sort)
	}
	if r.Order != OrderAsc && r.Order != OrderDesc {
		return fieldErrorf("order", "must be asc or desc: %q", r.Order)
	}
	return r.Pagination.Validate()
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
