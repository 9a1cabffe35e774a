package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ev-platform-be/internal/dto"
	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/repository/contract"
	"ev-platform-be/internal/repository/specification"
	"ev-platform-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrInvalidTransition = errors.New("invalid post transition")
)

// PostListFilter narrows the admin post list.
type PostListFilter struct {
	Status   string
	Source   string
	MinScore int
	Limit    int
	Offset   int
}

type IPostService interface {
	List(ctx context.Context, filter PostListFilter) (*dto.PostListResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.PostResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePostRequest) (*dto.PostResponse, error)
	Related(ctx context.Context, id uuid.UUID, limit int) ([]dto.RelatedPostResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type postService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewPostService(uowFactory unitofwork.RepositoryFactory) IPostService {
	return &postService{
		uowFactory: uowFactory,
	}
}

func (s *postService) List(ctx context.Context, filter PostListFilter) (*dto.PostListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var specs []specification.Specification
	if filter.Status != "" {
		specs = append(specs, specification.ByStatus{Status: filter.Status})
	}
	if filter.Source != "" {
		specs = append(specs, specification.BySource{Source: filter.Source})
	}
	if filter.MinScore > 0 {
		specs = append(specs, specification.MinScore{Score: filter.MinScore})
	}

	total, err := uow.PostRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: filter.Offset},
	)

	posts, err := uow.PostRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := &dto.PostListResponse{
		Posts: make([]dto.PostResponse, len(posts)),
		Total: total,
	}
	for i, post := range posts {
		res.Posts[i] = toPostResponse(post, false)
	}
	return res, nil
}

func (s *postService) Show(ctx context.Context, id uuid.UUID) (*dto.PostResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	res := toPostResponse(post, true)
	return &res, nil
}

// Update applies one moderation action. Schedule requires a future
// scheduledAt; approve clears any previous failure state.
func (s *postService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePostRequest) (*dto.PostResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.Status == entity.PostStatusPosted {
		return nil, fmt.Errorf("%w: post already published", ErrInvalidTransition)
	}

	switch req.Action {
	case "approve":
		post.Status = entity.PostStatusApproved
		post.FailReason = ""
	case "skip":
		post.Status = entity.PostStatusSkipped
	case "schedule":
		if req.ScheduledAt == nil {
			return nil, fmt.Errorf("%w: scheduledAt is required for schedule", ErrInvalidTransition)
		}
		post.Status = entity.PostStatusScheduled
		post.ScheduledAt = req.ScheduledAt
	case "edit":
		if req.XSummary == "" {
			return nil, fmt.Errorf("%w: xSummary is required for edit", ErrInvalidTransition)
		}
		post.XSummary = req.XSummary
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, req.Action)
	}

	now := time.Now()
	post.UpdatedAt = &now
	if err := uow.PostRepository().Update(ctx, post); err != nil {
		return nil, err
	}

	res := toPostResponse(post, true)
	return &res, nil
}

// Related looks up nearest neighbors by embedding cosine distance. A
// post without an embedding yet returns an empty list, not an error.
func (s *postService) Related(ctx context.Context, id uuid.UUID, limit int) ([]dto.RelatedPostResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	embedding, err := uow.PostEmbeddingRepository().FindByPostId(ctx, id)
	if err != nil {
		return nil, err
	}
	if embedding == nil {
		return []dto.RelatedPostResponse{}, nil
	}

	if limit <= 0 {
		limit = 5
	}
	if limit > 20 {
		limit = 20
	}

	neighbors, err := uow.PostEmbeddingRepository().FindNearest(ctx, embedding.EmbeddingValue, limit, id)
	if err != nil {
		return nil, err
	}

	res := make([]dto.RelatedPostResponse, 0, len(neighbors))
	for _, hit := range neighbors {
		related, err := s.relatedPost(ctx, uow, hit)
		if err != nil {
			return nil, err
		}
		if related != nil {
			res = append(res, *related)
		}
	}
	return res, nil
}

func (s *postService) relatedPost(ctx context.Context, uow unitofwork.UnitOfWork, hit *contract.ScoredPostEmbedding) (*dto.RelatedPostResponse, error) {
	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: hit.Embedding.PostId})
	if err != nil {
		return nil, err
	}
	if post == nil || post.Status == entity.PostStatusSkipped {
		return nil, nil
	}
	return &dto.RelatedPostResponse{
		Post:       toPostResponse(post, false),
		Similarity: hit.Similarity,
	}, nil
}

func (s *postService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	return uow.PostRepository().Delete(ctx, id)
}

func toPostResponse(post *entity.Post, full bool) dto.PostResponse {
	res := dto.PostResponse{
		Id:                post.Id,
		Source:            post.Source,
		SourceURL:         post.SourceURL,
		SourceAuthor:      post.SourceAuthor,
		SourceDate:        post.SourceDate,
		OriginalTitle:     post.OriginalTitle,
		TranslatedTitle:   post.TranslatedTitle,
		TranslatedSummary: post.TranslatedSummary,
		XSummary:          post.XSummary,
		Categories:        post.Categories,
		RelevanceScore:    post.RelevanceScore,
		Status:            string(post.Status),
		BatchId:           post.BatchId,
		ScheduledAt:       post.ScheduledAt,
		PostedAt:          post.PostedAt,
		XPostId:           post.XPostId,
		FailReason:        post.FailReason,
		Attempts:          post.Attempts,
		CreatedAt:         post.CreatedAt,
	}
	if full {
		res.TranslatedContent = post.TranslatedContent
	}
	return res
}
