package usaspending

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimePeriodValidate(t *testing.T) {
	assert.NoError(t, TimePeriod{StartDate: "2023-10-01", EndDate: "2024-09-30"}.Validate())

	err := TimePeriod{StartDate: "10/01/2023", EndDate: "2024-09-30"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_date")

	err = TimePeriod{StartDate: "2024-09-30", EndDate: "2023-10-01"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_date must not be after end_date")
}

func TestPaginationDefaultsAndValidate(t *testing.T) {
	var p Pagination
	p.applyDefaults()
	assert.Equal(t, DefaultPagination(), p)

	assert.Error(t, Pagination{Page: 0, Limit: 10, Order: OrderDesc}.Validate())
	assert.Error(t, Pagination{Page: 1, Limit: 101, Order: OrderDesc}.Validate())
	assert.Error(t, Pagination{Page: 1, Limit: 10, Order: "sideways"}.Validate())
}

func TestAwardSearchRequestDefaults(t *testing.T) {
	req := AwardSearchRequest{
		Filters: AwardSearchFilters{
			Agencies: []Agency{{Name: "Department of Defense"}},
		},
	}
	req.ApplyDefaults()

	assert.Equal(t, DefaultAwardFields, req.Fields)
	assert.Equal(t, 1, req.Pagination.Page)
	assert.Equal(t, 100, req.Pagination.Limit)
	assert.Equal(t, "awarding", req.Filters.Agencies[0].Type)
	assert.Equal(t, "toptier", req.Filters.Agencies[0].Tier)
	assert.NoError(t, req.Validate())
}

func TestAwardAmountValidate(t *testing.T) {
	low, high := 1000.0, 10.0
	assert.Error(t, AwardAmount{}.Validate())
	assert.Error(t, AwardAmount{LowerBound: &low, UpperBound: &high}.Validate())
	assert.NoError(t, AwardAmount{LowerBound: &high}.Validate())
}

func TestGeographySearchRequestValidate(t *testing.T) {
	base := GeographySearchRequest{
		Scope:           ScopePlaceOfPerformance,
		GeoLayer:        LayerState,
		GeoLayerFilters: []string{"WA", "06"},
	}
	base.ApplyDefaults()
	assert.NoError(t, base.Validate())
	assert.Equal(t, "aggregated_amount", base.Sort)

	cases := []struct {
		name   string
		layer  string
		code   string
		errMsg string
	}{
		{"state too long", LayerState, "WASH", "state codes"},
		{"county not fips", LayerCounty, "WA", "county codes"},
		{"zip letters", LayerZip, "981AB", "ZIP codes"},
		{"district no digits", LayerDistrict, "WAxx", "district codes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			req.GeoLayer = tc.layer
			req.GeoLayerFilters = []string{tc.code}
			err := req.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}

	req := base
	req.Scope = "everywhere"
	assert.Error(t, req.Validate())

	req = base
	req.GeoLayerFilters = nil
	assert.Error(t, req.Validate())
}

func TestGeographyValidCodesPerLayer(t *testing.T) {
	valid := map[string][]string{
		LayerState:    {"WA", "53"},
		LayerCounty:   {"53033"},
		LayerDistrict: {"WA01", "CA12"},
		LayerZip:      {"98101"},
	}
	for layer, codes := range valid {
		for _, code := range codes {
			assert.NoError(t, validateGeoCode(layer, code), "%s %s", layer, code)
		}
	}
}

func TestRecipientSearchRequestValidate(t *testing.T) {
	var req RecipientSearchRequest
	req.ApplyDefaults()
	assert.Equal(t, "all", req.AwardType)
	assert.Equal(t, "amount", req.Sort)
	assert.Equal(t, OrderDesc, req.Order)
	assert.NoError(t, req.Validate())

	req.AwardType = "gifts"
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "award_type")

	req.AwardType = "grants"
	req.Sort = "color"
	assert.Error(t, req.Validate())
}

func TestExplorerRequestValidate(t *testing.T) {
	ok := ExplorerRequest{Type: "agency", Filters: ExplorerFilters{FY: "2024", Quarter: "4"}}
	assert.NoError(t, ok.Validate())

	drill := ExplorerRequest{Type: "federal_account", Filters: ExplorerFilters{FY: "2024", Period: "6", Agency: "012"}}
	assert.NoError(t, drill.Validate())

	cases := []struct {
		name string
		req  ExplorerRequest
	}{
		{"bad type", ExplorerRequest{Type: "galaxy", Filters: ExplorerFilters{FY: "2024", Quarter: "4"}}},
		{"fy before 2017", ExplorerRequest{Type: "agency", Filters: ExplorerFilters{FY: "2016", Quarter: "4"}}},
		{"fy not a year", ExplorerRequest{Type: "agency", Filters: ExplorerFilters{FY: "twenty", Quarter: "4"}}},
		{"quarter and period", ExplorerRequest{Type: "award", Filters: ExplorerFilters{FY: "2024", Quarter: "4", Period: "6"}}},
		{"quarter out of range", ExplorerRequest{Type: "agency", Filters: ExplorerFilters{FY: "2024", Quarter: "5"}}},
		{"period out of range", ExplorerRequest{Type: "award", Filters: ExplorerFilters{FY: "2024", Period: "13"}}},
		{"general needs quarter", ExplorerRequest{Type: "agency", Filters: ExplorerFilters{FY: "2024", Period: "6"}}},
		{"neither quarter nor period", ExplorerRequest{Type: "award", Filters: ExplorerFilters{FY: "2024"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.req.Validate())
		})
	}
}

func TestProgramActivityParams(t *testing.T) {
	var p ProgramActivityParams
	p.ApplyDefaults()
	require.NoError(t, p.Validate())

	q := p.Values()
	assert.Equal(t, "desc", q.Get("order"))
	assert.Equal(t, "obligated_amount", q.Get("sort"))
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "100", q.Get("limit"))

	p.Sort = "velocity"
	assert.Error(t, p.Validate())
}

func TestAgencyListParamsValues(t *testing.T) {
	q := AgencyListParams{FiscalYear: "2024", Sort: "name", Page: 2, Limit: 50}.Values()
	assert.Equal(t, "2024", q.Get("fiscal_year"))
	assert.Equal(t, "name", q.Get("sort"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "50", q.Get("limit"))

	empty := AgencyListParams{}.Values()
	assert.Empty(t, empty)
}
