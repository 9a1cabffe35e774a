package dto

// QueryRequest is one natural-language question for the data explorer.
type QueryRequest struct {
	Question string `json:"question" validate:"required,min=3,max=500"`
	Limit    int    `json:"limit" validate:"omitempty,min=1,max=200"`
}

// QueryFilter is one condition of the validated, executable query.
type QueryFilter struct {
	Column string `json:"column"`
	Op     string `json:"op"`
	Value  any    `json:"value"`
}

// QueryPlan is the validated query echoed back with the results so the
// admin can see what actually ran.
type QueryPlan struct {
	Table   string        `json:"table"`
	Filters []QueryFilter `json:"filters,omitempty"`
	OrderBy string        `json:"orderBy,omitempty"`
	Order   string        `json:"order,omitempty"`
	Limit   int           `json:"limit"`
}

// QueryResponse carries the rows, the executed plan and which
// translator produced it (deepseek, openai or heuristic).
type QueryResponse struct {
	Rows       []map[string]any `json:"rows"`
	Query      QueryPlan        `json:"query"`
	Translator string           `json:"translator"`
}
