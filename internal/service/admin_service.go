package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"ev-platform-be/internal/dto"
	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/pkg/logger"
	"ev-platform-be/internal/repository/specification"
	"ev-platform-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const dashboardCategoryWindow = 30 * 24 * time.Hour

// ErrLogNotFound is returned when no system log row matches the id.
var ErrLogNotFound = errors.New("log not found")

type IAdminService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	Logs(ctx context.Context, level string, limit, offset int) ([]*dto.LogListResponse, error)
	LogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)
	ScrapeRuns(ctx context.Context, limit int) (*dto.ScrapeRunListResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	dailyLimit int
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
	dailyLimit int,
) IAdminService {
	if dailyLimit <= 0 {
		dailyLimit = defaultDailyLimit
	}
	return &adminService{
		uowFactory: uowFactory,
		logger:     log,
		dailyLimit: dailyLimit,
	}
}

func (s *adminService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	posts := uow.PostRepository()

	byStatus, err := posts.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count posts by status: %w", err)
	}

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	ingestedToday, err := posts.Count(ctx, specification.CreatedSince{Time: dayStart})
	if err != nil {
		return nil, err
	}
	publishedToday, err := posts.Count(ctx,
		specification.ByStatus{Status: string(entity.PostStatusPosted)},
		specification.PostedSince{Time: dayStart},
	)
	if err != nil {
		return nil, err
	}
	publishedThisWeek, err := posts.Count(ctx,
		specification.ByStatus{Status: string(entity.PostStatusPosted)},
		specification.PostedSince{Time: weekStart},
	)
	if err != nil {
		return nil, err
	}

	totals, err := uow.UsageRepository().Totals(ctx, monthStart, now)
	if err != nil {
		return nil, err
	}

	res := &dto.DashboardResponse{
		PostsByStatus:     byStatus,
		IngestedToday:     ingestedToday,
		PublishedToday:    publishedToday,
		PublishedThisWeek: publishedThisWeek,
		QueueDepth:        byStatus[string(entity.PostStatusApproved)] + byStatus[string(entity.PostStatusScheduled)],
		XQuotaLimit:       s.dailyLimit,
		XQuotaRemaining:   s.dailyLimit,
		AICostThisMonth:   roundCost(totals.Cost),
		TopCategories:     []dto.CategoryCount{},
	}

	day := dayStart.Format("2006-01-02")
	if limit, err := uow.RateLimitRepository().GetDay(ctx, day); err == nil && limit != nil {
		res.XQuotaLimit = limit.DailyLimit
		remaining := limit.DailyLimit - limit.PostedCount
		if remaining < 0 {
			remaining = 0
		}
		res.XQuotaRemaining = remaining
	}

	if top, err := s.topCategories(ctx, now.Add(-dashboardCategoryWindow)); err != nil {
		s.logger.Warn("AdminService", "top categories failed", map[string]interface{}{"error": err.Error()})
	} else {
		res.TopCategories = top
	}

	if runs, err := uow.ScrapeRunRepository().FindAll(ctx,
		specification.OrderBy{Field: "started_at", Desc: true},
		specification.Pagination{Limit: 5},
	); err == nil {
		res.RecentRuns = make([]dto.ScrapeRunResponse, len(runs))
		for i, run := range runs {
			res.RecentRuns[i] = toScrapeRunResponse(run)
		}
	}

	return res, nil
}

// topCategories tallies category tags across recent posts. Categories live
// in a jsonb array, so the tally happens here rather than in SQL.
func (s *adminService) topCategories(ctx context.Context, since time.Time) ([]dto.CategoryCount, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	recent, err := uow.PostRepository().FindAll(ctx,
		specification.CreatedSince{Time: since},
		specification.Pagination{Limit: 1000},
	)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, post := range recent {
		for _, cat := range post.Categories {
			counts[cat]++
		}
	}

	top := make([]dto.CategoryCount, 0, len(counts))
	for cat, n := range counts {
		top = append(top, dto.CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Category < top[j].Category
	})
	if len(top) > 10 {
		top = top[:10]
	}
	return top, nil
}

func (s *adminService) Logs(ctx context.Context, level string, limit, offset int) ([]*dto.LogListResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	}
	if level != "" {
		specs = append(specs, specification.Filter("level", level))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.SystemLogRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, fmt.Errorf("read logs: %w", err)
	}

	res := make([]*dto.LogListResponse, len(entries))
	for i, e := range entries {
		res[i] = logListResponse(e)
	}
	return res, nil
}

func (s *adminService) LogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	id, err := uuid.Parse(logId)
	if err != nil {
		return nil, ErrLogNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	entry, err := uow.SystemLogRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrLogNotFound
	}

	var details map[string]interface{}
	if entry.Details != nil {
		_ = json.Unmarshal([]byte(*entry.Details), &details)
	}
	return &dto.LogDetailResponse{
		LogListResponse: *logListResponse(entry),
		Details:         details,
	}, nil
}

func logListResponse(e *entity.SystemLog) *dto.LogListResponse {
	module := ""
	if e.Source != nil {
		module = *e.Source
	}
	return &dto.LogListResponse{
		Id:        e.Id.String(),
		Level:     e.Level,
		Module:    module,
		Message:   e.Message,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

func (s *adminService) ScrapeRuns(ctx context.Context, limit int) (*dto.ScrapeRunListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	runs, err := uow.ScrapeRunRepository().FindAll(ctx,
		specification.OrderBy{Field: "started_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.ScrapeRunListResponse{Runs: make([]dto.ScrapeRunResponse, len(runs))}
	for i, run := range runs {
		res.Runs[i] = toScrapeRunResponse(run)
	}
	return res, nil
}

func toScrapeRunResponse(run *entity.ScrapeRun) dto.ScrapeRunResponse {
	res := dto.ScrapeRunResponse{
		Id:              run.Id,
		BatchId:         run.BatchId,
		StartedAt:       run.StartedAt,
		FinishedAt:      run.FinishedAt,
		TotalReceived:   run.TotalReceived,
		TotalCreated:    run.TotalCreated,
		TotalDuplicates: run.TotalDuplicates,
		TotalSkipped:    run.TotalSkipped,
		Status:          string(run.Status),
		Error:           run.Error,
	}
	if len(run.SourceStats) > 0 {
		res.SourceStats = make([]dto.SourceStatResponse, len(run.SourceStats))
		for i, stat := range run.SourceStats {
			res.SourceStats[i] = dto.SourceStatResponse(stat)
		}
	}
	return res
}
