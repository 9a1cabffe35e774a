package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"ev-platform-be/internal/dto"
	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/repository/contract"
	"ev-platform-be/internal/repository/specification"
	"ev-platform-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory repository doubles. Only the repositories the ingest and
// post services touch are real; the rest return nil.

type memPostRepo struct {
	posts []*entity.Post
}

func (r *memPostRepo) Create(_ context.Context, post *entity.Post) error {
	r.posts = append(r.posts, post)
	return nil
}

func (r *memPostRepo) Update(_ context.Context, post *entity.Post) error {
	for i, p := range r.posts {
		if p.Id == post.Id {
			r.posts[i] = post
			return nil
		}
	}
	return nil
}

func (r *memPostRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, p := range r.posts {
		if p.Id == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memPostRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Post, error) {
	for _, p := range r.posts {
		if matchPost(p, specs) {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memPostRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Post, error) {
	var out []*entity.Post
	for _, p := range r.posts {
		if matchPost(p, specs) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPostRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	var n int64
	for _, p := range r.posts {
		if matchPost(p, specs) {
			n++
		}
	}
	return n, nil
}

func (r *memPostRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, p := range r.posts {
		out[string(p.Status)]++
	}
	return out, nil
}

func matchPost(p *entity.Post, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if p.Id != s.ID {
				return false
			}
		case specification.ByURLHash:
			if p.URLHash != s.Hash {
				return false
			}
		case specification.ByStatus:
			if string(p.Status) != s.Status {
				return false
			}
		}
	}
	return true
}

type memRunRepo struct {
	runs []*entity.ScrapeRun
}

func (r *memRunRepo) Create(_ context.Context, run *entity.ScrapeRun) error {
	r.runs = append(r.runs, run)
	return nil
}

func (r *memRunRepo) Update(_ context.Context, run *entity.ScrapeRun) error { return nil }

func (r *memRunRepo) FindOne(_ context.Context, _ ...specification.Specification) (*entity.ScrapeRun, error) {
	return nil, nil
}

func (r *memRunRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ScrapeRun, error) {
	return r.runs, nil
}

type memLogRepo struct {
	logs []*entity.SystemLog
}

func (r *memLogRepo) Create(_ context.Context, log *entity.SystemLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func (r *memLogRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.SystemLog, error) {
	for _, l := range r.logs {
		if matchLog(l, specs) {
			return l, nil
		}
	}
	return nil, nil
}

func (r *memLogRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.SystemLog, error) {
	var out []*entity.SystemLog
	for _, l := range r.logs {
		if matchLog(l, specs) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	for _, spec := range specs {
		if p, ok := spec.(specification.Pagination); ok {
			if p.Offset < len(out) {
				out = out[p.Offset:]
			} else {
				out = nil
			}
			if p.Limit > 0 && len(out) > p.Limit {
				out = out[:p.Limit]
			}
		}
	}
	return out, nil
}

func (r *memLogRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	var n int64
	for _, l := range r.logs {
		if matchLog(l, specs) {
			n++
		}
	}
	return n, nil
}

func matchLog(l *entity.SystemLog, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if l.Id != s.ID {
				return false
			}
		case specification.FilterBy:
			if s.Field == "level" && l.Level != s.Value {
				return false
			}
		}
	}
	return true
}

type memUow struct {
	postRepo *memPostRepo
	runRepo  *memRunRepo
	logRepo  *memLogRepo
}

func (u *memUow) Begin(_ context.Context) error { return nil }
func (u *memUow) Commit() error                 { return nil }
func (u *memUow) Rollback() error               { return nil }

func (u *memUow) PostRepository() contract.PostRepository { return u.postRepo }
func (u *memUow) PostEmbeddingRepository() contract.PostEmbeddingRepository {
	return nil
}
func (u *memUow) MetricRepository() contract.MetricRepository             { return nil }
func (u *memUow) VehicleSpecRepository() contract.VehicleSpecRepository   { return nil }
func (u *memUow) IndustryRepository() contract.IndustryRepository         { return nil }
func (u *memUow) AdminUserRepository() contract.AdminUserRepository       { return nil }
func (u *memUow) RefreshTokenRepository() contract.RefreshTokenRepository { return nil }
func (u *memUow) UsageRepository() contract.UsageRepository               { return nil }
func (u *memUow) RateLimitRepository() contract.RateLimitRepository       { return nil }
func (u *memUow) ScrapeRunRepository() contract.ScrapeRunRepository       { return u.runRepo }
func (u *memUow) SystemLogRepository() contract.SystemLogRepository       { return u.logRepo }

type memFactory struct {
	uow *memUow
}

func (f *memFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork { return f.uow }

func newMemFactory() *memFactory {
	return &memFactory{uow: &memUow{postRepo: &memPostRepo{}, runRepo: &memRunRepo{}, logRepo: &memLogRepo{}}}
}

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error { return nil }

func webhookPost(url string, score int) dto.WebhookPost {
	return dto.WebhookPost{
		Source:            "OFFICIAL",
		SourceURL:         url,
		SourceDate:        time.Now(),
		OriginalTitle:     "title",
		TranslatedTitle:   "title",
		TranslatedSummary: "summary",
		RelevanceScore:    score,
	}
}

func TestIngestDeduplicatesByURL(t *testing.T) {
	factory := newMemFactory()
	svc := NewIngestService(factory, nil, nil, noopLogger{}, 80, 30)
	ctx := context.Background()

	batch := &dto.WebhookBatchRequest{
		BatchId: "batch-1",
		Posts: []dto.WebhookPost{
			webhookPost("https://example.com/a", 50),
			webhookPost("https://example.com/b", 50),
		},
	}
	res, err := svc.Ingest(ctx, batch)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if res.Created != 2 || res.Duplicates != 0 {
		t.Fatalf("first batch: created=%d duplicates=%d", res.Created, res.Duplicates)
	}

	// Redelivery of the same batch creates nothing.
	res, err = svc.Ingest(ctx, batch)
	if err != nil {
		t.Fatalf("ingest redelivery: %v", err)
	}
	if res.Created != 0 || res.Duplicates != 2 {
		t.Fatalf("redelivery: created=%d duplicates=%d", res.Created, res.Duplicates)
	}
	if got := len(factory.uow.postRepo.posts); got != 2 {
		t.Fatalf("stored posts = %d, want 2", got)
	}
}

func TestIngestScoreGates(t *testing.T) {
	factory := newMemFactory()
	svc := NewIngestService(factory, nil, nil, noopLogger{}, 80, 30)
	ctx := context.Background()

	res, err := svc.Ingest(ctx, &dto.WebhookBatchRequest{
		BatchId: "batch-2",
		Posts: []dto.WebhookPost{
			webhookPost("https://example.com/low", 10),
			webhookPost("https://example.com/mid", 50),
			webhookPost("https://example.com/high", 95),
		},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if res.Skipped != 1 || res.Created != 2 {
		t.Fatalf("skipped=%d created=%d", res.Skipped, res.Created)
	}

	byStatus := make(map[entity.PostStatus]int)
	for _, p := range factory.uow.postRepo.posts {
		byStatus[p.Status]++
	}
	if byStatus[entity.PostStatusPending] != 1 {
		t.Errorf("pending = %d, want 1", byStatus[entity.PostStatusPending])
	}
	if byStatus[entity.PostStatusApproved] != 1 {
		t.Errorf("approved = %d, want 1", byStatus[entity.PostStatusApproved])
	}
}

func TestIngestRecordsScrapeRun(t *testing.T) {
	factory := newMemFactory()
	svc := NewIngestService(factory, nil, nil, noopLogger{}, 80, 30)

	_, err := svc.Ingest(context.Background(), &dto.WebhookBatchRequest{
		BatchId: "batch-3",
		Posts:   []dto.WebhookPost{webhookPost("https://example.com/x", 60)},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	runs := factory.uow.runRepo.runs
	if len(runs) != 1 {
		t.Fatalf("scrape runs = %d, want 1", len(runs))
	}
	run := runs[0]
	if run.BatchId != "batch-3" || run.TotalReceived != 1 || run.TotalCreated != 1 {
		t.Errorf("run = %+v", run)
	}
	if run.Status != entity.ScrapeRunStatusCompleted {
		t.Errorf("run status = %q", run.Status)
	}
}
