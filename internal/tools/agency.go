package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"usaspending-mcp/internal/usaspending"
)

// RegisterAgencyTools adds the agency sub-agency, sub-component, and
// program-activity lookups.
func RegisterAgencyTools(r *Registry, client *usaspending.Client) error {
	listSchema := schemaObject(map[string]any{
		"toptier_code": schemaString("Top-tier code of the agency, e.g. 012 for USDA"),
		"fiscal_year":  schemaString("Fiscal year YYYY (defaults to current fiscal year)"),
		"sort": schemaStringEnum("Sort field (default total_obligations)",
			"name", "total_obligations", "transaction_amount", "new_award_count"),
		"page":  schemaInteger("Page number (default 1)"),
		"limit": schemaInteger("Results per page (default 100)"),
	}, "toptier_code")

	type listArgs struct {
		ToptierCode string `json:"toptier_code"`
		usaspending.AgencyListParams
	}

	listHandler := func(name, pathSuffix string) Handler {
		return func(ctx context.Context, args json.RawMessage) (any, error) {
			var a listArgs
			if err := json.Unmarshal(args, &a); err != nil {
				return nil, invalidArgs(name, err)
			}
			endpoint := "agency/" + url.PathEscape(a.ToptierCode) + "/" + pathSuffix
			return client.Get(ctx, endpoint, a.Values())
		}
	}

	if err := r.Register(&Descriptor{
		Name: "get_sub_agency_list",
		Description: "List the sub-agencies and offices under an agency for a fiscal " +
			"year, by awarding or funding agency.",
		InputSchema: listSchema,
		Handler:     listHandler("get_sub_agency_list", "sub_agency/"),
	}); err != nil {
		return err
	}

	if err := r.Register(&Descriptor{
		Name: "get_sub_components_list",
		Description: "List all sub-components, bureaus, and offices under an agency " +
			"identified by its top-tier code.",
		InputSchema: listSchema,
		Handler:     listHandler("get_sub_components_list", "sub_components/"),
	}); err != nil {
		return err
	}

	if err := r.Register(&Descriptor{
		Name: "get_sub_component_details",
		Description: "Detailed spending and budget information for one bureau or office " +
			"within an agency, identified by its slug.",
		InputSchema: schemaObject(map[string]any{
			"toptier_code": schemaString("Top-tier code of the agency, e.g. 012 for USDA"),
			"bureau_slug":  schemaString("Slug of the sub-component, e.g. farm-service-agency"),
			"fiscal_year":  schemaString("Fiscal year YYYY (defaults to current fiscal year)"),
			"sort": schemaStringEnum("Sort field (default total_obligations)",
				"name", "total_obligations", "transaction_amount", "new_award_count"),
			"page":  schemaInteger("Page number (default 1)"),
			"limit": schemaInteger("Results per page (default 100)"),
		}, "toptier_code", "bureau_slug"),
		Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
			var a struct {
				ToptierCode string `json:"toptier_code"`
				BureauSlug  string `json:"bureau_slug"`
				usaspending.AgencyListParams
			}
			if err := json.Unmarshal(args, &a); err != nil {
				return nil, invalidArgs("get_sub_component_details", err)
			}
			endpoint := fmt.Sprintf("agency/%s/sub_components/%s/",
				url.PathEscape(a.ToptierCode), url.PathEscape(a.BureauSlug))
			return client.Get(ctx, endpoint, a.Values())
		},
	}); err != nil {
		return err
	}

	return r.Register(&Descriptor{
		Name: "list_program_activities",
		Description: "List program activities for an agency and fiscal year, showing how " +
			"funds were allocated by program (e.g. agency IT spending).",
		InputSchema: schemaObject(map[string]any{
			"toptier_code": schemaString("Top-tier code of the agency, e.g. 086"),
			"fiscal_year":  schemaString("Fiscal year YYYY (defaults to current fiscal year)"),
			"filter":       schemaString("Filter program activities by name"),
			"order":        schemaStringEnum("Sort direction (default desc)", "asc", "desc"),
			"sort": schemaStringEnum("Sort field (default obligated_amount)",
				"name", "obligated_amount", "gross_outlay_amount"),
			"page":  schemaInteger("Page number (default 1)"),
			"limit": schemaInteger("Results per page (default 100)"),
		}, "toptier_code"),
		Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
			var a struct {
				ToptierCode string `json:"toptier_code"`
				usaspending.ProgramActivityParams
			}
			if err := json.Unmarshal(args, &a); err != nil {
				return nil, invalidArgs("list_program_activities", err)
			}
			a.ApplyDefaults()
			if err := a.Validate(); err != nil {
				return nil, invalidArgs("list_program_activities", err)
			}
			endpoint := "agency/" + url.PathEscape(a.ToptierCode) + "/program_activity/"
			return client.Get(ctx, endpoint, a.Values())
		},
	})
}
