package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ev-platform-be/internal/dto"
	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/model"
	"ev-platform-be/internal/pkg/logger"
	"ev-platform-be/internal/repository/contract"
	"ev-platform-be/internal/repository/unitofwork"
	"ev-platform-be/pkg/evtables"
	"ev-platform-be/pkg/llm"

	"github.com/google/uuid"
)

const (
	queryDefaultLimit = 50
	queryMaxLimit     = 200

	queryTemperature = 0.1
	queryMaxTokens   = 500
)

// TranslatorHeuristic marks results produced without any LLM.
const TranslatorHeuristic = "heuristic"

// ErrUnanswerableQuery means neither the LLM translators nor the
// heuristic fallback could map the question to a known table.
var ErrUnanswerableQuery = errors.New("could not understand the question")

var queryOps = map[string]bool{
	"eq": true, "neq": true, "gt": true, "gte": true,
	"lt": true, "lte": true, "like": true,
}

type IQueryService interface {
	// Query answers a natural-language question against the data tables.
	Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error)
}

type queryService struct {
	uowFactory unitofwork.RepositoryFactory
	providers  []llm.LLMProvider
	logger     logger.ILogger
}

func NewQueryService(uowFactory unitofwork.RepositoryFactory, providers []llm.LLMProvider, log logger.ILogger) IQueryService {
	return &queryService{
		uowFactory: uowFactory,
		providers:  providers,
		logger:     log,
	}
}

func (s *queryService) Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	plan, translator := s.translate(ctx, req)
	if plan == nil {
		return nil, ErrUnanswerableQuery
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	filters := make([]contract.Filter, len(plan.Filters))
	for i, f := range plan.Filters {
		filters[i] = contract.Filter{Column: f.Column, Op: f.Op, Value: f.Value}
	}
	desc := plan.Order != "asc"

	rows, err := uow.IndustryRepository().Query(ctx, plan.Table, filters, plan.OrderBy, desc, plan.Limit)
	if err != nil {
		return nil, err
	}

	return &dto.QueryResponse{
		Rows:       rows,
		Query:      *plan,
		Translator: translator,
	}, nil
}

// translate tries each provider with one repair round, then falls back
// to keyword heuristics. Every LLM round is accounted as query usage.
func (s *queryService) translate(ctx context.Context, req *dto.QueryRequest) (*dto.QueryPlan, string) {
	for _, provider := range s.providers {
		plan := s.translateWith(ctx, provider, req)
		if plan != nil {
			return plan, provider.Name()
		}
		if ctx.Err() != nil {
			return nil, ""
		}
	}
	return s.heuristicPlan(req), TranslatorHeuristic
}

func (s *queryService) translateWith(ctx context.Context, provider llm.LLMProvider, req *dto.QueryRequest) *dto.QueryPlan {
	prompt := buildQueryPrompt(req.Question)

	for round := 0; round < 2; round++ {
		started := time.Now()
		var usage llm.Usage
		raw, err := provider.Chat(ctx,
			[]llm.Message{
				{Role: "system", Content: querySystemPrompt},
				{Role: "user", Content: prompt},
			},
			llm.WithTemperature(queryTemperature),
			llm.WithMaxTokens(queryMaxTokens),
			llm.WithJSONResponse(),
			llm.WithUsage(&usage),
		)
		s.recordUsage(ctx, provider.Name(), usage, time.Since(started), err)
		if err != nil {
			s.logger.Warn("Query", "Translator call failed", map[string]interface{}{
				"provider": provider.Name(),
				"error":    err.Error(),
			})
			return nil
		}

		plan, parseErr := s.parsePlan(raw, req.Limit)
		if parseErr == nil {
			return plan
		}
		// One repair round: show the model its own output and the error.
		prompt = buildRepairPrompt(req.Question, raw, parseErr)
	}
	return nil
}

func (s *queryService) parsePlan(raw string, requestedLimit int) (*dto.QueryPlan, error) {
	payload, ok := llm.ExtractJSON(raw)
	if !ok {
		return nil, errors.New("no JSON object in response")
	}

	var plan dto.QueryPlan
	if err := json.Unmarshal([]byte(payload), &plan); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := s.validatePlan(&plan, requestedLimit); err != nil {
		return nil, err
	}
	return &plan, nil
}

// validatePlan pins the plan to the registry: normalized table name,
// known columns, allowed operators, clamped limit. Only plans passing
// here are ever executed.
func (s *queryService) validatePlan(plan *dto.QueryPlan, requestedLimit int) error {
	table, ok := evtables.Normalize(plan.Table)
	if !ok {
		return fmt.Errorf("unknown table %q", plan.Table)
	}
	plan.Table = table

	entry, ok := model.IndustryTableFor(table)
	if !ok {
		return fmt.Errorf("table %q has no registry model", table)
	}
	columns := make(map[string]bool, len(entry.Columns))
	for _, col := range entry.Columns {
		columns[col] = true
	}

	for _, f := range plan.Filters {
		if !columns[f.Column] {
			return fmt.Errorf("unknown column %q on %s", f.Column, table)
		}
		if !queryOps[f.Op] {
			return fmt.Errorf("unsupported operator %q", f.Op)
		}
	}
	if plan.OrderBy != "" && !columns[plan.OrderBy] {
		return fmt.Errorf("unknown orderBy column %q", plan.OrderBy)
	}
	if plan.Order != "" && plan.Order != "asc" && plan.Order != "desc" {
		return fmt.Errorf("unknown order %q", plan.Order)
	}

	if requestedLimit > 0 && (plan.Limit == 0 || plan.Limit > requestedLimit) {
		plan.Limit = requestedLimit
	}
	if plan.Limit <= 0 {
		plan.Limit = queryDefaultLimit
	}
	if plan.Limit > queryMaxLimit {
		plan.Limit = queryMaxLimit
	}
	return nil
}

var (
	yearPattern  = regexp.MustCompile(`\b(20\d{2})\b`)
	monthPattern = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
)

var monthNumbers = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
}

// heuristicPlan is the no-LLM fallback: scan the question's token
// n-grams for a table alias and pull year/month filters from the text.
func (s *queryService) heuristicPlan(req *dto.QueryRequest) *dto.QueryPlan {
	table, ok := scanForTable(req.Question)
	if !ok {
		return nil
	}

	plan := &dto.QueryPlan{Table: table, Limit: req.Limit}
	entry, _ := model.IndustryTableFor(table)
	columns := make(map[string]bool, len(entry.Columns))
	for _, col := range entry.Columns {
		columns[col] = true
	}

	if columns["year"] {
		if m := yearPattern.FindStringSubmatch(req.Question); m != nil {
			year, _ := strconv.Atoi(m[1])
			plan.Filters = append(plan.Filters, dto.QueryFilter{Column: "year", Op: "eq", Value: year})
		}
	}
	if columns["month"] {
		if m := monthPattern.FindStringSubmatch(req.Question); m != nil {
			plan.Filters = append(plan.Filters, dto.QueryFilter{Column: "month", Op: "eq", Value: monthNumbers[strings.ToLower(m[1])]})
		}
	}

	if plan.Limit <= 0 {
		plan.Limit = queryDefaultLimit
	}
	if plan.Limit > queryMaxLimit {
		plan.Limit = queryMaxLimit
	}
	return plan
}

// scanForTable tries progressively shorter n-grams so "battery maker
// rankings" wins over "rankings".
func scanForTable(question string) (string, bool) {
	words := strings.Fields(strings.ToLower(question))
	for size := 4; size >= 1; size-- {
		for i := 0; i+size <= len(words); i++ {
			candidate := strings.Join(words[i:i+size], " ")
			if table, ok := evtables.Normalize(candidate); ok {
				return table, true
			}
		}
	}
	return "", false
}

func (s *queryService) recordUsage(ctx context.Context, modelName string, usage llm.Usage, elapsed time.Duration, callErr error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if usage.Model != "" {
		modelName = usage.Model
	}
	record := &entity.AIUsage{
		Id:           uuid.New(),
		Type:         entity.UsageTypeQuery,
		Model:        modelName,
		Success:      callErr == nil,
		InputTokens:  usage.PromptTokens,
		OutputTokens: usage.CompletionTokens,
		Source:       "data-explorer",
		DurationMs:   int(elapsed.Milliseconds()),
		CreatedAt:    time.Now(),
	}
	if callErr != nil {
		msg := callErr.Error()
		record.ErrorMsg = &msg
	}
	if err := uow.UsageRepository().Create(ctx, record); err != nil {
		s.logger.Warn("Query", "Failed to record usage", map[string]interface{}{"error": err.Error()})
	}
}
