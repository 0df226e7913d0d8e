package tools

import (
	"context"
	"encoding/json"

	"usaspending-mcp/internal/usaspending"
)

// RegisterGeographyTools adds the spending-by-geography search.
func RegisterGeographyTools(r *Registry, client *usaspending.Client) error {
	return r.Register(&Descriptor{
		Name: "search_spending_by_geography",
		Description: "Search USA government spending aggregated by geographic location. " +
			"Scope selects place of performance or recipient location; geo_layer selects " +
			"state, county, congressional district, or ZIP aggregation.",
		InputSchema: schemaObject(map[string]any{
			"scope": schemaStringEnum("Geographic scope",
				usaspending.ScopePlaceOfPerformance, usaspending.ScopeRecipientLocation),
			"geo_layer": schemaStringEnum("Geographic aggregation level",
				usaspending.LayerState, usaspending.LayerCounty,
				usaspending.LayerDistrict, usaspending.LayerZip),
			"geo_layer_filters": schemaStringArray("Geographic codes to filter by: 2-letter " +
				"postal or 2-digit FIPS state codes, 5-digit county FIPS codes, state code " +
				"plus district number (WA01), or 5-digit ZIP codes"),
			"filters": schemaObject(map[string]any{
				"time_period":           schemaArray("Date ranges to search", timePeriodSchema()),
				"award_type_codes":      schemaStringArray("Award type codes (A, B, C, D, ...)"),
				"agencies":              schemaArray("Awarding or funding agencies", agencySchema()),
				"recipient_search_text": schemaStringArray("Recipient names to search for"),
				"recipient_type_names":  schemaStringArray("Recipient type names (e.g. nonprofit)"),
			}),
			"pagination": paginationSchema(),
			"sort":       schemaString("Sort field (default aggregated_amount)"),
			"subawards":  schemaBoolean("Include subaward data (default false)"),
		}, "scope", "geo_layer", "geo_layer_filters"),
		Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
			var req usaspending.GeographySearchRequest
			if err := json.Unmarshal(args, &req); err != nil {
				return nil, invalidArgs("search_spending_by_geography", err)
			}
			req.ApplyDefaults()
			if err := req.Validate(); err != nil {
				return nil, invalidArgs("search_spending_by_geography", err)
			}
			return client.Post(ctx, "search/spending_by_geography/", req)
		},
	})
}
