package tools

import (
	"context"
	"encoding/json"

	"usaspending-mcp/internal/usaspending"
)

// ReferenceToolNames lists the tools whose responses are stable enough
// to cache: pure reference data with no arguments.
var ReferenceToolNames = []string{"get_agencies", "get_award_types", "get_glossary"}

// RegisterReferenceTools adds the reference/lookup tools.
func RegisterReferenceTools(r *Registry, client *usaspending.Client) error {
	refs := []struct {
		name, description, endpoint string
	}{
		{
			name: "get_agencies",
			description: "List US top-tier agencies with their IDs and codes. Use this to " +
				"find the agency identifiers needed by other tools.",
			endpoint: "references/toptier_agencies/",
		},
		{
			name: "get_award_types",
			description: "List all award types and their codes, explaining what codes " +
				"like A, B, C, D mean when filtering spending data.",
			endpoint: "references/award_types/",
		},
		{
			name:        "get_glossary",
			description: "Glossary terms that help interpret and present the spending data.",
			endpoint:    "references/glossary/",
		},
	}
	for _, ref := range refs {
		err := r.Register(&Descriptor{
			Name:        ref.name,
			Description: ref.description,
			InputSchema: schemaObject(map[string]any{}),
			Handler: func(ctx context.Context, _ json.RawMessage) (any, error) {
				return client.Get(ctx, ref.endpoint, nil)
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// RegisterAll wires the complete USAspending tool set into the registry.
func RegisterAll(r *Registry, client *usaspending.Client) error {
	for _, register := range []func(*Registry, *usaspending.Client) error{
		RegisterAwardTools,
		RegisterGeographyTools,
		RegisterRecipientTools,
		RegisterExplorerTools,
		RegisterAgencyTools,
		RegisterReferenceTools,
	} {
		if err := register(r, client); err != nil {
			return err
		}
	}
	return nil
}
