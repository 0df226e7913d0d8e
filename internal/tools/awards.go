package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"

	"usaspending-mcp/internal/usaspending"
)

const (
	defaultMaxPages      = 3
	defaultMaxConcurrent = 10
)

// RegisterAwardTools adds the spending-by-award search and the award
// details lookup.
func RegisterAwardTools(r *Registry, client *usaspending.Client) error {
	if err := r.Register(&Descriptor{
		Name: "search_spending_by_award",
		Description: "Search USA government spending data by award. Filters cover time " +
			"periods, award type codes, agencies, recipients, keywords, award IDs, award " +
			"amount ranges, and program activities. Follows pagination up to max_pages " +
			"when fetch_all_pages is set.",
		InputSchema: schemaObject(map[string]any{
			"filters": schemaObject(map[string]any{
				"time_period":           schemaArray("Date ranges to search", timePeriodSchema()),
				"award_type_codes":      schemaStringArray("Award type codes (A, B, C, D, 02, ...)"),
				"agencies":              schemaArray("Awarding or funding agencies", agencySchema()),
				"recipient_search_text": schemaStringArray("Recipient names to search for"),
				"award_ids":             schemaStringArray("Specific award IDs"),
				"keywords":              schemaStringArray("Keywords to search in award descriptions"),
				"award_amounts": schemaArray("Award amount ranges", schemaObject(map[string]any{
					"lower_bound": schemaNumber("Lower bound of the award amount"),
					"upper_bound": schemaNumber("Upper bound of the award amount"),
				})),
				"program_activities": schemaArray("Program activities", schemaObject(map[string]any{
					"name": schemaString("Program activity name"),
					"code": schemaString("Program activity code"),
				})),
			}),
			"fields":          schemaStringArray("Response columns (defaults to the basic award fields)"),
			"pagination":      paginationSchema(),
			"sort":            schemaString("Field to sort results by"),
			"subawards":       schemaBoolean("Include subaward data (default false)"),
			"fetch_all_pages": schemaBoolean("Follow pagination and merge results (default true)"),
			"max_pages":       schemaInteger("Page cap when fetch_all_pages is set (default 3)"),
		}, "filters"),
		Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
			return searchSpendingByAward(ctx, client, args)
		},
	}); err != nil {
		return err
	}

	return r.Register(&Descriptor{
		Name: "get_award_details",
		Description: "Fetch full details for one or more awards by award ID. IDs are " +
			"fetched concurrently; failures are reported per award.",
		InputSchema: schemaObject(map[string]any{
			"award_ids":      schemaStringArray("Award IDs to look up"),
			"max_concurrent": schemaInteger("Maximum concurrent upstream requests (default 10)"),
		}, "award_ids"),
		Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
			return getAwardDetails(ctx, client, args)
		},
	})
}

type awardSearchArgs struct {
	usaspending.AwardSearchRequest
	FetchAllPages *bool `json:"fetch_all_pages,omitempty"`
	MaxPages      int   `json:"max_pages,omitempty"`
}

func searchSpendingByAward(ctx context.Context, client *usaspending.Client, args json.RawMessage) (any, error) {
	var a awardSearchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, invalidArgs("search_spending_by_award", err)
	}
	a.ApplyDefaults()
	if err := a.Validate(); err != nil {
		return nil, invalidArgs("search_spending_by_award", err)
	}
	fetchAll := a.FetchAllPages == nil || *a.FetchAllPages
	maxPages := a.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	resp, err := client.Post(ctx, "search/spending_by_award/", a.AwardSearchRequest)
	if err != nil {
		return nil, err
	}
	if !fetchAll {
		return resp, nil
	}
	return fetchRemainingPages(ctx, client, a.AwardSearchRequest, resp, maxPages)
}

// fetchRemainingPages follows page_metadata.hasNext up to maxPages and
// merges results into a single response, annotating the metadata with
// what was actually fetched.
func fetchRemainingPages(ctx context.Context, client *usaspending.Client, req usaspending.AwardSearchRequest, first any, maxPages int) (any, error) {
	page, ok := first.(map[string]any)
	if !ok {
		return first, nil
	}
	results, _ := page["results"].([]any)
	meta, _ := page["page_metadata"].(map[string]any)
	hasNext, _ := meta["hasNext"].(bool)

	pagesFetched := 1
	currentPage := req.Pagination.Page

	if total, ok := meta["total"].(float64); ok && total > 0 {
		totalPages := int(total)/req.Pagination.Limit + 1
		if totalPages < maxPages {
			maxPages = totalPages
		}
	}

	for hasNext && pagesFetched < maxPages {
		currentPage++
		pagesFetched++

		next := req
		next.Pagination.Page = currentPage
		resp, err := client.Post(ctx, "search/spending_by_award/", next)
		if err != nil {
			// Keep what we have rather than failing the whole search.
			hasNext = false
			break
		}
		nextPage, ok := resp.(map[string]any)
		if !ok {
			break
		}
		pageResults, _ := nextPage["results"].([]any)
		results = append(results, pageResults...)
		nextMeta, _ := nextPage["page_metadata"].(map[string]any)
		hasNext, _ = nextMeta["hasNext"].(bool)
		if len(pageResults) == 0 {
			break
		}
	}

	merged := make(map[string]any, len(page))
	for k, v := range page {
		merged[k] = v
	}
	merged["results"] = results
	if meta == nil {
		meta = map[string]any{}
	}
	mergedMeta := make(map[string]any, len(meta)+4)
	for k, v := range meta {
		mergedMeta[k] = v
	}
	mergedMeta["total_results_fetched"] = len(results)
	mergedMeta["pages_fetched"] = pagesFetched
	mergedMeta["has_more_pages"] = hasNext
	merged["page_metadata"] = mergedMeta
	return merged, nil
}

type awardDetailsArgs struct {
	AwardIDs      []string `json:"award_ids"`
	MaxConcurrent int      `json:"max_concurrent,omitempty"`
}

func getAwardDetails(ctx context.Context, client *usaspending.Client, args json.RawMessage) (any, error) {
	var a awardDetailsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, invalidArgs("get_award_details", err)
	}
	if len(a.AwardIDs) == 0 {
		return nil, invalidArgs("get_award_details", fmt.Errorf("award_ids: at least one award ID is required"))
	}
	limit := a.MaxConcurrent
	if limit <= 0 {
		limit = defaultMaxConcurrent
	}

	type entry struct {
		AwardID string `json:"award_id"`
		Data    any    `json:"data,omitempty"`
		Error   string `json:"error,omitempty"`
	}
	entries := make([]entry, len(a.AwardIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range a.AwardIDs {
		g.Go(func() error {
			data, err := client.Get(ctx, "awards/"+url.PathEscape(id)+"/", nil)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				entries[i] = entry{AwardID: id, Error: err.Error()}
				return nil
			}
			entries[i] = entry{AwardID: id, Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return map[string]any{"results": entries}, nil
}
