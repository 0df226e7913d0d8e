package usaspending

import "unicode"

// Geographic scopes.
const (
	ScopePlaceOfPerformance = "place_of_performance"
	ScopeRecipientLocation  = "recipient_location"
)

// Geographic aggregation layers.
const (
	LayerState    = "state"
	LayerCounty   = "county"
	LayerDistrict = "district"
	LayerZip      = "zip"
)

// GeographySearchFilters narrows a spending-by-geography search.
type GeographySearchFilters struct {
	TimePeriod          []TimePeriod `json:"time_period,omitempty"`
	AwardTypeCodes      []string     `json:"award_type_codes,omitempty"`
	Agencies            []Agency     `json:"agencies,omitempty"`
	RecipientSearchText []string     `json:"recipient_search_text,omitempty"`
	RecipientTypeNames  []string     `json:"recipient_type_names,omitempty"`
}

func (f GeographySearchFilters) Validate() error {
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
	return nil
}

// GeographySearchRequest is the payload for search/spending_by_geography/.
type GeographySearchRequest struct {
	Scope           string                 `json:"scope"`
	GeoLayer        string                 `json:"geo_layer"`
	GeoLayerFilters []string               `json:"geo_layer_filters"`
	Filters         GeographySearchFilters `json:"filters"`
	Pagination      Pagination             `json:"pagination"`
	Sort            string                 `json:"sort,omitempty"`
	Subawards       bool                   `json:"subawards"`
}

// ApplyDefaults fills the sort field, agency defaults, and pagination.
func (r *GeographySearchRequest) ApplyDefaults() {
	if r.Sort == "" {
		r.Sort = "aggregated_amount"
	}
	for i := range r.Filters.Agencies {
		r.Filters.Agencies[i] = r.Filters.Agencies[i].normalized()
	}
	r.Pagination.applyDefaults()
}

func (r *GeographySearchRequest) Validate() error {
	switch r.Scope {
	case ScopePlaceOfPerformance, ScopeRecipientLocation:
	default:
		return fieldErrorf("scope", "must be place_of_performance or recipient_location: %q", r.Scope)
	}
	switch r.GeoLayer {
	case LayerState, LayerCounty, LayerDistrict, LayerZip:
	default:
		return fieldErrorf("geo_layer", "must be state, county, district, or zip: %q", r.GeoLayer)
	}
	if len(r.GeoLayerFilters) == 0 {
		return fieldErrorf("geo_layer_filters", "at least one geographic code is required")
	}
	for _, code := range r.GeoLayerFilters {
		if err := validateGeoCode(r.GeoLayer, code); err != nil {
			return err
		}
	}
	if err := r.Filters.Validate(); err != nil {
		return err
	}
	return r.Pagination.Validate()
}

// validateGeoCode checks a geographic code against its layer's shape:
// states are 2-letter postal or 2-digit FIPS codes, counties and ZIPs are
// 5-digit codes, districts are a state code plus district number (WA01).
func validateGeoCode(layer, code string) error {
	switch layer {
	case LayerState:
		if len(code) != 2 || !(allLetters(code) || allDigits(code)) {
			return fieldErrorf("geo_layer_filters",
				"state codes must be 2-letter postal codes or 2-digit FIPS codes: %q", code)
		}
	case LayerCounty:
		if len(code) != 5 || !allDigits(code) {
			return fieldErrorf("geo_layer_filters", "county codes must be 5-digit FIPS codes: %q", code)
		}
	case LayerZip:
		if len(code) != 5 || !allDigits(code) {
			return fieldErrorf("geo_layer_filters", "ZIP codes must be 5-digit codes: %q", code)
		}
	case LayerDistrict:
		if len(code) < 4 || !allLetters(code[:2]) || !allDigits(code[2:]) {
			return fieldErrorf("geo_layer_filters",
				"district codes must be a state code plus district number: %q", code)
		}
	}
	return nil
}

func allLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
