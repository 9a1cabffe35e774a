package service

import (
	"fmt"
	"strings"

	"ev-platform-be/internal/model"
	"ev-platform-be/pkg/evtables"
)

const querySystemPrompt = `You are a query translator for an EV industry database.
Given a question, respond with ONLY a JSON object describing one query:

{"table": "<table name>", "filters": [{"column": "<col>", "op": "<op>", "value": <value>}], "orderBy": "<col>", "order": "asc|desc", "limit": <n>}

Rules:
- "table" must be one of the tables listed below, exactly as written.
- "filters" columns must come from that table's column list.
- "op" must be one of: eq, neq, gt, gte, lt, lte, like.
- "orderBy", "order" and "filters" are optional. Omit what the question does not ask for.
- "limit" defaults to 50 and may not exceed 200.
- Never invent columns. Never output SQL. Never output anything but the JSON object.

Examples:
Q: how many cars did BYD deliver in march 2025
{"table": "EVMetric", "filters": [{"column": "brand", "op": "eq", "value": "BYD"}, {"column": "metric", "op": "eq", "value": "deliveries"}, {"column": "year", "op": "eq", "value": 2025}, {"column": "month", "op": "eq", "value": 3}], "limit": 50}

Q: top battery makers in china this year
{"table": "BatteryMakerRankings", "filters": [{"column": "scope", "op": "eq", "value": "CHINA"}, {"column": "year", "op": "eq", "value": 2025}], "orderBy": "ranking", "order": "asc", "limit": 50}

Q: latest nio power snapshot
{"table": "NioPowerSnapshot", "orderBy": "capturedAt", "order": "desc", "limit": 1}`

// buildSchemaCatalog renders every queryable table with its columns so
// the model can only reference what actually exists.
func buildSchemaCatalog() string {
	var b strings.Builder
	b.WriteString("Tables:\n")
	for _, table := range evtables.All() {
		entry, ok := model.IndustryTableFor(table.Name)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", table.Name, strings.Join(entry.Columns, ", "))
	}
	return b.String()
}

func buildQueryPrompt(question string) string {
	return fmt.Sprintf("%s\n\nQuestion: %s", buildSchemaCatalog(), question)
}

func buildRepairPrompt(question, raw string, parseErr error) string {
	return fmt.Sprintf(
		"%s\n\nQuestion: %s\n\nYour previous answer could not be used (%v):\n%s\n\nRespond again with ONLY the corrected JSON object.",
		buildSchemaCatalog(), question, parseErr, raw,
	)
}
