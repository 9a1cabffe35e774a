package contract

import (
	"context"

	"ev-platform-be/internal/repository/specification"
)

// Filter is one validated explorer condition. Column is the json name of a
// registry model field; Op is one of eq, neq, gt, gte, lt, lte, like.
type Filter struct {
	Column string
	Op     string
	Value  any
}

// IndustryRepository works generically over every table in the model
// registry. Records travel as maps keyed by json field names.
type IndustryRepository interface {
	// Upsert inserts or, when the table's key columns match an existing
	// row, updates it. Tables without key columns always insert.
	Upsert(ctx context.Context, table string, record map[string]any) (bool, error)
	List(ctx context.Context, table string, specs ...specification.Specification) ([]map[string]any, error)
	Query(ctx context.Context, table string, filters []Filter, orderBy string, desc bool, limit int) ([]map[string]any, error)
}
