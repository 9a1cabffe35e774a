package service

import (
	"context"
	"errors"
	"time"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/pkg/logger"
	"ev-platform-be/internal/repository/specification"
	"ev-platform-be/internal/repository/unitofwork"
	"ev-platform-be/pkg/events"
	pktNats "ev-platform-be/pkg/nats"
	"ev-platform-be/pkg/xapi"

	"github.com/redis/go-redis/v9"
)

const (
	publishLockKey = "cron:publish"
	publishLockTTL = 10 * time.Minute

	maxPublishAttempts = 3
	defaultDailyLimit  = 100
)

// PublishReport summarizes one publish run.
type PublishReport struct {
	Published int `json:"published"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Remaining int `json:"remaining"`
	LockHeld  bool
}

type IPublishService interface {
	// PublishDue posts due scheduled posts, then approved posts by
	// score, up to the daily quota and the per-run cap.
	PublishDue(ctx context.Context) (*PublishReport, error)
	// RetryFailed moves failed posts with attempts left back to approved.
	RetryFailed(ctx context.Context) (int, error)
}

type publishService struct {
	uowFactory     unitofwork.RepositoryFactory
	publisher      xapi.Publisher
	rdb            *redis.Client
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
	dailyLimit     int
	postsPerRun    int
	dryRun         bool
}

// NewPublishService builds the publish flow. A nil publisher switches
// to dry-run: statuses advance and counters apply, but nothing goes to
// X.
func NewPublishService(
	uowFactory unitofwork.RepositoryFactory,
	publisher xapi.Publisher,
	rdb *redis.Client,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	dailyLimit int,
	postsPerRun int,
) IPublishService {
	if dailyLimit <= 0 {
		dailyLimit = defaultDailyLimit
	}
	if postsPerRun <= 0 {
		postsPerRun = 5
	}
	return &publishService{
		uowFactory:     uowFactory,
		publisher:      publisher,
		rdb:            rdb,
		eventPublisher: eventPublisher,
		logger:         log,
		dailyLimit:     dailyLimit,
		postsPerRun:    postsPerRun,
		dryRun:         publisher == nil,
	}
}

func (s *publishService) PublishDue(ctx context.Context) (*PublishReport, error) {
	if !s.acquireLock(ctx) {
		s.logger.Info("Publish", "Publish lock held, skipping run", nil)
		return &PublishReport{LockHeld: true}, nil
	}
	defer s.releaseLock(ctx)

	if s.dryRun {
		s.logger.Warn("Publish", "X credentials absent, running in dry-run mode", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	day := time.Now().UTC().Format("2006-01-02")

	if err := uow.RateLimitRepository().EnsureDay(ctx, day, s.dailyLimit); err != nil {
		return nil, err
	}
	quota, err := uow.RateLimitRepository().GetDay(ctx, day)
	if err != nil {
		return nil, err
	}

	remaining := quota.DailyLimit - quota.PostedCount
	if remaining <= 0 {
		s.logger.Info("Publish", "Daily X quota exhausted", map[string]interface{}{"day": day})
		return &PublishReport{Remaining: 0}, nil
	}

	batch := remaining
	if batch > s.postsPerRun {
		batch = s.postsPerRun
	}

	candidates, err := s.selectCandidates(ctx, uow, batch)
	if err != nil {
		return nil, err
	}

	report := &PublishReport{}
	for _, post := range candidates {
		if ctx.Err() != nil {
			break
		}

		stop, err := s.publishOne(ctx, post, day, report)
		if err != nil {
			return report, err
		}
		if stop {
			break
		}
	}

	quota, err = uow.RateLimitRepository().GetDay(ctx, day)
	if err == nil && quota != nil {
		report.Remaining = quota.DailyLimit - quota.PostedCount
	}
	return report, nil
}

// selectCandidates takes due scheduled posts first, then approved posts
// by relevance, up to limit.
func (s *publishService) selectCandidates(ctx context.Context, uow unitofwork.UnitOfWork, limit int) ([]*entity.Post, error) {
	due, err := uow.PostRepository().FindAll(ctx,
		specification.DueForPublish{Now: time.Now()},
		specification.OrderBy{Field: "scheduled_at", Desc: false},
		specification.Pagination{Limit: limit, Offset: 0},
	)
	if err != nil {
		return nil, err
	}
	if len(due) >= limit {
		return due[:limit], nil
	}

	approved, err := uow.PostRepository().FindAll(ctx,
		specification.ByStatus{Status: string(entity.PostStatusApproved)},
		specification.OrderBy{Field: "relevance_score", Desc: true},
		specification.Pagination{Limit: limit - len(due), Offset: 0},
	)
	if err != nil {
		return nil, err
	}
	return append(due, approved...), nil
}

// publishOne posts a single post and records the outcome. The status
// update and the day-counter increment commit in one transaction so a
// crash cannot leave a posted tweet uncounted. Returns stop=true when
// the run should end (rate limited upstream).
func (s *publishService) publishOne(ctx context.Context, post *entity.Post, day string, report *PublishReport) (bool, error) {
	text := xapi.BuildTweetText(s.tweetSummary(post), post.Categories, post.SourceURL)

	xPostId := "dry-run"
	var postErr error
	if !s.dryRun {
		xPostId, postErr = s.publisher.PostTweet(ctx, text)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	switch {
	case postErr == nil:
		now := time.Now()
		post.Status = entity.PostStatusPosted
		post.XPostId = xPostId
		post.PostedAt = &now
		post.UpdatedAt = &now

		if err := uow.Begin(ctx); err != nil {
			return false, err
		}
		defer uow.Rollback()

		if err := uow.PostRepository().Update(ctx, post); err != nil {
			return false, err
		}
		if err := uow.RateLimitRepository().IncDay(ctx, day, 1); err != nil {
			return false, err
		}
		if err := uow.Commit(); err != nil {
			return false, err
		}

		report.Published++
		s.notifyPublished(ctx, post)
		return false, nil

	case errors.Is(postErr, xapi.ErrRateLimited):
		s.logger.Warn("Publish", "X rate limited, stopping run", map[string]interface{}{"day": day})
		s.markDayExhausted(ctx, uow, day)
		return true, nil

	case errors.Is(postErr, xapi.ErrDuplicate):
		post.Status = entity.PostStatusSkipped
		post.FailReason = "duplicate content"
		if err := uow.PostRepository().Update(ctx, post); err != nil {
			return false, err
		}
		report.Skipped++
		return false, nil

	default:
		post.Status = entity.PostStatusFailed
		post.Attempts++
		post.FailReason = postErr.Error()
		if err := uow.PostRepository().Update(ctx, post); err != nil {
			return false, err
		}
		report.Failed++
		s.logger.Error("Publish", "Failed to post to X", map[string]interface{}{
			"post_id": post.Id.String(),
			"error":   postErr.Error(),
		})
		return false, nil
	}
}

func (s *publishService) tweetSummary(post *entity.Post) string {
	if post.XSummary != "" {
		return post.XSummary
	}
	if post.TranslatedSummary != "" {
		return post.TranslatedSummary
	}
	return post.TranslatedTitle
}

// markDayExhausted burns the remaining quota so subsequent runs skip
// the day X already refused.
func (s *publishService) markDayExhausted(ctx context.Context, uow unitofwork.UnitOfWork, day string) {
	quota, err := uow.RateLimitRepository().GetDay(ctx, day)
	if err != nil || quota == nil {
		return
	}
	if remaining := quota.DailyLimit - quota.PostedCount; remaining > 0 {
		if err := uow.RateLimitRepository().IncDay(ctx, day, remaining); err != nil {
			s.logger.Warn("Publish", "Failed to mark day exhausted", map[string]interface{}{"day": day})
		}
	}
}

func (s *publishService) RetryFailed(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	failed, err := uow.PostRepository().FindAll(ctx,
		specification.ByStatus{Status: string(entity.PostStatusFailed)},
		specification.MaxAttempts{Limit: maxPublishAttempts},
	)
	if err != nil {
		return 0, err
	}

	retried := 0
	for _, post := range failed {
		post.Status = entity.PostStatusApproved
		post.FailReason = ""
		if err := uow.PostRepository().Update(ctx, post); err != nil {
			return retried, err
		}
		retried++
	}
	return retried, nil
}

func (s *publishService) notifyPublished(ctx context.Context, post *entity.Post) {
	if s.eventPublisher == nil {
		return
	}
	event := events.NewBaseEvent(events.PostPublished, map[string]interface{}{
		"post_id":   post.Id.String(),
		"x_post_id": post.XPostId,
		"title":     post.TranslatedTitle,
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Publish", "Failed to publish POST_PUBLISHED", map[string]interface{}{
			"post_id": post.Id.String(),
			"error":   err.Error(),
		})
	}
}

// acquireLock takes the cross-instance publish lock. Without Redis the
// in-process cron is the only trigger, so the run proceeds.
func (s *publishService) acquireLock(ctx context.Context) bool {
	if s.rdb == nil {
		return true
	}
	ok, err := s.rdb.SetNX(ctx, publishLockKey, time.Now().Format(time.RFC3339), publishLockTTL).Result()
	if err != nil {
		s.logger.Warn("Publish", "Redis lock unavailable, proceeding without it", map[string]interface{}{"error": err.Error()})
		return true
	}
	return ok
}

func (s *publishService) releaseLock(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, publishLockKey).Err(); err != nil {
		s.logger.Warn("Publish", "Failed to release publish lock", map[string]interface{}{"error": err.Error()})
	}
}
