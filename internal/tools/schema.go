package tools

// Small helpers for building the JSON-schema maps the descriptors
// declare. They only cover the shapes the USAspending tools need.

func schemaObject(props map[string]any, required ...string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func schemaString(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func schemaStringEnum(desc string, values ...string) map[string]any {
	return map[string]any{"type": "string", "description": desc, "enum": values}
}

func schemaInteger(desc string) map[string]any {
	return map[string]any{"type": "integer", "description": desc}
}

func schemaNumber(desc string) map[string]any {
	return map[string]any{"type": "number", "description": desc}
}

func schemaBoolean(desc string) map[string]any {
	return map[string]any{"type": "boolean", "description": desc}
}

func schemaArray(desc string, items map[string]any) map[string]any {
	return map[string]any{"type": "array", "description": desc, "items": items}
}

func schemaStringArray(desc string) map[string]any {
	return schemaArray(desc, map[string]any{"type": "string"})
}

// timePeriodSchema matches usaspending.TimePeriod.
func timePeriodSchema() map[string]any {
	return schemaObject(map[string]any{
		"start_date": schemaString("Start date in YYYY-MM-DD format"),
		"end_date":   schemaString("End date in YYYY-MM-DD format"),
	}, "start_date", "end_date")
}

// agencySchema matches usaspending.Agency.
func agencySchema() map[string]any {
	return schemaObject(map[string]any{
		"name":         schemaString("Agency name"),
		"type":         schemaStringEnum("Agency role", "awarding", "funding"),
		"tier":         schemaStringEnum("Agency tier", "toptier", "subtier"),
		"toptier_name": schemaString("Top-tier agency name, for subtier filters"),
	}, "name")
}

// paginationSchema matches usaspending.Pagination.
func paginationSchema() map[string]any {
	return schemaObject(map[string]any{
		"page":  schemaInteger("Page number (default 1)"),
		"limit": schemaInteger("Results per page, 1-100 (default 100)"),
		"order": schemaStringEnum("Sort direction", "asc", "desc"),
	})
}
