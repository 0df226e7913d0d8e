package tools

import (
	"context"
	"encoding/json"

	"usaspending-mcp/internal/usaspending"
)

// RegisterRecipientTools adds the recipient search.
func RegisterRecipientTools(r *Registry, client *usaspending.Client) error {
	return r.Register(&Descriptor{
		Name: "search_recipients",
		Description: "Search government spending recipients (contractors, grantees, ...) " +
			"over the last 12 months. Returns recipients with spending amounts, DUNS " +
			"numbers, UEI identifiers, and recipient levels.",
		InputSchema: schemaObject(map[string]any{
			"keyword": schemaString("Filter by recipient name, UEI, or DUNS"),
			"award_type": schemaStringEnum("Award type grouping (default all)",
				"all", "contracts", "grants", "loans", "direct_payments",
				"other_financial_assistance"),
			"sort":       schemaStringEnum("Sort field (default amount)", "amount", "name", "duns"),
			"order":      schemaStringEnum("Sort direction (default desc)", "asc", "desc"),
			"pagination": paginationSchema(),
		}),
		Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
			var req usaspending.RecipientSearchRequest
			if err := json.Unmarshal(args, &req); err != nil {
				return nil, invalidArgs("search_recipients", err)
			}
			req.ApplyDefaults()
			if err := req.Validate(); err != nil {
				return nil, invalidArgs("search_recipients", err)
			}
			return client.Post(ctx, "recipient/", req)
		},
	})
}
