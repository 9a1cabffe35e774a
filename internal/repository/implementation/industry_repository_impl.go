package implementation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"ev-platform-be/internal/model"
	"ev-platform-be/internal/repository/contract"
	"ev-platform-be/internal/repository/specification"

	"gorm.io/gorm"
)

// Server-managed fields, dropped from submitted records before binding.
var reservedColumns = map[string]bool{
	"id":        true,
	"createdAt": true,
	"updatedAt": true,
}

var filterOps = map[string]string{
	"eq":   "=",
	"neq":  "<>",
	"gt":   ">",
	"gte":  ">=",
	"lt":   "<",
	"lte":  "<=",
	"like": "LIKE",
}

type IndustryRepositoryImpl struct {
	db *gorm.DB
}

func NewIndustryRepository(db *gorm.DB) contract.IndustryRepository {
	return &IndustryRepositoryImpl{db: db}
}

func (r *IndustryRepositoryImpl) Upsert(ctx context.Context, table string, record map[string]any) (bool, error) {
	entry, ok := model.IndustryTableFor(table)
	if !ok {
		return false, fmt.Errorf("unknown table: %s", table)
	}

	clean := make(map[string]any, len(record))
	for k, v := range record {
		if reservedColumns[k] {
			continue
		}
		clean[k] = v
	}

	m := entry.New()
	if err := bindRecord(clean, m); err != nil {
		return false, fmt.Errorf("invalid %s record: %w", table, err)
	}

	// Append-only tables have no key columns.
	if len(entry.Keys) == 0 {
		return true, r.db.WithContext(ctx).Create(m).Error
	}

	where := make(map[string]any, len(entry.Keys))
	for _, key := range entry.Keys {
		v, ok := clean[key]
		if !ok || v == nil {
			return false, fmt.Errorf("%s: missing key field %s", table, key)
		}
		where[jsonColumn(key)] = v
	}

	existing := entry.New()
	err := r.db.WithContext(ctx).Where(where).First(existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, r.db.WithContext(ctx).Create(m).Error
	}
	if err != nil {
		return false, err
	}

	updates := make(map[string]any, len(clean))
	for k, v := range clean {
		if isKey(entry.Keys, k) {
			continue
		}
		updates[jsonColumn(k)] = v
	}
	if len(updates) == 0 {
		return false, nil
	}
	return false, r.db.WithContext(ctx).Model(entry.New()).Where(where).Updates(updates).Error
}

func (r *IndustryRepositoryImpl) List(ctx context.Context, table string, specs ...specification.Specification) ([]map[string]any, error) {
	entry, ok := model.IndustryTableFor(table)
	if !ok {
		return nil, fmt.Errorf("unknown table: %s", table)
	}

	query := r.db.WithContext(ctx).Model(entry.New())
	for _, spec := range specs {
		query = spec.Apply(query)
	}

	slice := newModelSlice(entry.New())
	if err := query.Find(slice).Error; err != nil {
		return nil, err
	}
	return rowsFromSlice(slice)
}

func (r *IndustryRepositoryImpl) Query(ctx context.Context, table string, filters []contract.Filter, orderBy string, desc bool, limit int) ([]map[string]any, error) {
	entry, ok := model.IndustryTableFor(table)
	if !ok {
		return nil, fmt.Errorf("unknown table: %s", table)
	}

	query := r.db.WithContext(ctx).Model(entry.New())
	for _, f := range filters {
		if !hasColumn(entry.Columns, f.Column) {
			return nil, fmt.Errorf("%s: unknown column %s", table, f.Column)
		}
		op, ok := filterOps[f.Op]
		if !ok {
			return nil, fmt.Errorf("unsupported operator: %s", f.Op)
		}
		value := f.Value
		if f.Op == "like" {
			value = fmt.Sprintf("%%%v%%", f.Value)
		}
		query = query.Where(fmt.Sprintf("%s %s ?", jsonColumn(f.Column), op), value)
	}
	if orderBy != "" {
		if !hasColumn(entry.Columns, orderBy) {
			return nil, fmt.Errorf("%s: unknown column %s", table, orderBy)
		}
		direction := "ASC"
		if desc {
			direction = "DESC"
		}
		query = query.Order(fmt.Sprintf("%s %s", jsonColumn(orderBy), direction))
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	slice := newModelSlice(entry.New())
	if err := query.Find(slice).Error; err != nil {
		return nil, err
	}
	return rowsFromSlice(slice)
}

// bindRecord decodes a record into the table's model, rejecting fields the
// model does not declare.
func bindRecord(record map[string]any, target any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(target)
}

// jsonColumn maps a json field name to its snake_case column. Models pin
// columns that would not round-trip this way (yoyChange -> yoy_change).
func jsonColumn(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func newModelSlice(m any) any {
	return reflect.New(reflect.SliceOf(reflect.TypeOf(m).Elem())).Interface()
}

func rowsFromSlice(slice any) ([]map[string]any, error) {
	data, err := json.Marshal(slice)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func isKey(keys []string, name string) bool {
	for _, k := range keys {
		if k == name {
			return true
		}
	}
	return false
}

func hasColumn(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}
