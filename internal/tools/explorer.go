package tools

import (
	"context"
	"encoding/json"

	"usaspending-mcp/internal/usaspending"
)

// RegisterExplorerTools adds the spending explorer search.
func RegisterExplorerTools(r *Registry, client *usaspending.Client) error {
	return r.Register(&Descriptor{
		Name: "search_spending_explorer",
		Description: "Drill into government spending by grouping: budget_function, agency, " +
			"and object_class are the general entry points; federal_account, recipient, " +
			"award, budget_subfunction, and program_activity drill into a subset selected " +
			"by the filter ids. Data is not available prior to FY 2017 Q2.",
		InputSchema: schemaObject(map[string]any{
			"type": schemaStringEnum("Data grouping",
				"budget_function", "agency", "object_class", "federal_account",
				"recipient", "award", "budget_subfunction", "program_activity"),
			"filters": schemaObject(map[string]any{
				"fy":                 schemaString("Fiscal year, e.g. 2024"),
				"quarter":            schemaStringEnum("Fiscal quarter", "1", "2", "3", "4"),
				"period":             schemaString("Fiscal period, 1-12"),
				"agency":             schemaString("Agency ID to drill into"),
				"federal_account":    schemaString("Federal account ID to drill into"),
				"object_class":       schemaString("Object class ID to drill into"),
				"budget_function":    schemaString("Budget function ID to drill into"),
				"budget_subfunction": schemaString("Budget subfunction ID to drill into"),
				"recipient":          schemaString("Recipient ID to drill into"),
				"program_activity":   schemaString("Program activity ID to drill into"),
			}, "fy"),
		}, "type", "filters"),
		Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
			var req usaspending.ExplorerRequest
			if err := json.Unmarshal(args, &req); err != nil {
				return nil, invalidArgs("search_spending_explorer", err)
			}
			if err := req.Validate(); err != nil {
				return nil, invalidArgs("search_spending_explorer", err)
			}
			return client.Post(ctx, "spending/", req)
		},
	})
}
