package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"time"

	"ev-platform-be/internal/dto"
	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/pkg/logger"
	"ev-platform-be/internal/repository/specification"
	"ev-platform-be/internal/repository/unitofwork"
	"ev-platform-be/pkg/events"
	pktNats "ev-platform-be/pkg/nats"
	"ev-platform-be/pkg/scrape"

	"github.com/google/uuid"
)

type IIngestService interface {
	// Ingest stores one webhook batch. Idempotent on source URL: posts
	// whose URL hash already exists count as duplicates.
	Ingest(ctx context.Context, req *dto.WebhookBatchRequest) (*dto.IngestResponse, error)
}

type ingestService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
	autoApproveScore int
	minScore         int
}

func NewIngestService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	autoApproveScore int,
	minScore int,
) IIngestService {
	return &ingestService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
		autoApproveScore: autoApproveScore,
		minScore:         minScore,
	}
}

func urlHash(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

func (s *ingestService) Ingest(ctx context.Context, req *dto.WebhookBatchRequest) (*dto.IngestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	startedAt := time.Now()

	res := &dto.IngestResponse{Received: len(req.Posts)}
	statsBySource := make(map[string]*entity.SourceStat)
	var created []*entity.Post

	for i := range req.Posts {
		post := &req.Posts[i]

		stat, ok := statsBySource[post.Source]
		if !ok {
			stat = &entity.SourceStat{Source: post.Source}
			statsBySource[post.Source] = stat
		}
		stat.Received++

		hash := urlHash(post.SourceURL)
		existing, err := uow.PostRepository().FindOne(ctx, specification.ByURLHash{Hash: hash})
		if err != nil {
			return nil, err
		}
		if existing != nil {
			res.Duplicates++
			stat.Duplicates++
			continue
		}

		if post.RelevanceScore > 0 && post.RelevanceScore < s.minScore {
			res.Skipped++
			stat.Skipped++
			continue
		}

		status := entity.PostStatusPending
		if post.RelevanceScore >= s.autoApproveScore {
			status = entity.PostStatusApproved
		}
		score := post.RelevanceScore
		if score == 0 {
			score = scrape.DefaultRelevanceScore
		}

		entry := &entity.Post{
			Id:                uuid.New(),
			SourceId:          post.SourceId,
			Source:            post.Source,
			SourceURL:         post.SourceURL,
			URLHash:           hash,
			SourceAuthor:      post.SourceAuthor,
			SourceDate:        post.SourceDate,
			OriginalTitle:     post.OriginalTitle,
			OriginalContent:   post.OriginalContent,
			OriginalMediaURLs: post.OriginalMediaURLs,
			TranslatedTitle:   post.TranslatedTitle,
			TranslatedContent: post.TranslatedContent,
			TranslatedSummary: post.TranslatedSummary,
			XSummary:          post.TranslatedSummary,
			Categories:        post.Categories,
			RelevanceScore:    score,
			Status:            status,
			BatchId:           req.BatchId,
			CreatedAt:         time.Now(),
		}
		if err := uow.PostRepository().Create(ctx, entry); err != nil {
			return nil, err
		}

		res.Created++
		stat.Created++
		created = append(created, entry)
	}

	s.recordRun(ctx, uow, req.BatchId, startedAt, statsBySource, res)

	for _, post := range created {
		s.notifyCreated(ctx, post)
	}

	return res, nil
}

// recordRun stores the batch's ScrapeRun row. Failures here must not
// fail the ingest: the posts are already in.
func (s *ingestService) recordRun(ctx context.Context, uow unitofwork.UnitOfWork, batchId string, startedAt time.Time, statsBySource map[string]*entity.SourceStat, res *dto.IngestResponse) {
	stats := make([]entity.SourceStat, 0, len(statsBySource))
	for _, stat := range statsBySource {
		stats = append(stats, *stat)
	}

	finishedAt := time.Now()
	run := &entity.ScrapeRun{
		Id:              uuid.New(),
		BatchId:         batchId,
		StartedAt:       startedAt,
		FinishedAt:      &finishedAt,
		SourceStats:     stats,
		TotalReceived:   res.Received,
		TotalCreated:    res.Created,
		TotalDuplicates: res.Duplicates,
		TotalSkipped:    res.Skipped,
		Status:          entity.ScrapeRunStatusCompleted,
	}
	if err := uow.ScrapeRunRepository().Create(ctx, run); err != nil {
		s.logger.Warn("Ingest", "Failed to record scrape run", map[string]interface{}{
			"batch_id": batchId,
			"error":    err.Error(),
		})
	}
}

func (s *ingestService) notifyCreated(ctx context.Context, post *entity.Post) {
	if s.publisherService != nil {
		payload, err := json.Marshal(dto.PublishEmbedPostMessage{PostId: post.Id})
		if err == nil {
			if err := s.publisherService.Publish(ctx, payload); err != nil {
				s.logger.Warn("Ingest", "Failed to queue embed job", map[string]interface{}{
					"post_id": post.Id.String(),
					"error":   err.Error(),
				})
			}
		}
	}

	if s.eventPublisher != nil {
		event := events.NewBaseEvent(events.ArticleIngested, map[string]interface{}{
			"post_id": post.Id.String(),
			"source":  post.Source,
			"score":   post.RelevanceScore,
		})
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Ingest", "Failed to publish ARTICLE_INGESTED", map[string]interface{}{
				"post_id": post.Id.String(),
				"error":   err.Error(),
			})
		}
	}
}
