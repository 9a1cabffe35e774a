package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ev-platform-be/internal/dto"
	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/pkg/logger"
	"ev-platform-be/internal/repository/specification"
	"ev-platform-be/internal/repository/unitofwork"
	"ev-platform-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// embedDocumentMaxLen caps the text sent to the embedding API. One vector
// per post; the summary carries most of the signal so truncation is fine.
const embedDocumentMaxLen = 8000

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	if cs.embeddingProvider == nil {
		msg.Ack() // embeddings disabled, drop the job
		return
	}

	var payload dto.PublishEmbedPostMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "Invalid embed message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed payloads never become valid, do not retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: payload.PostId})
	if err != nil {
		cs.logger.Error("Consumer", "Failed to load post", map[string]interface{}{
			"post_id": payload.PostId.String(),
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}
	if post == nil {
		// deleted between ingest and embed
		msg.Ack()
		return
	}

	document := buildEmbedDocument(post)
	values, err := cs.embeddingProvider.Generate(document, embedding.TaskDocument)
	if err != nil {
		cs.logger.Error("Consumer", "Embedding generation failed", map[string]interface{}{
			"post_id": post.Id.String(),
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	record := &entity.PostEmbedding{
		Id:             uuid.New(),
		PostId:         post.Id,
		Document:       document,
		EmbeddingValue: values,
		Model:          cs.embeddingProvider.Model(),
		CreatedAt:      time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("Consumer", "Failed to begin transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	// re-embeds replace the old vector
	if err := uow.PostEmbeddingRepository().DeleteByPostId(ctx, post.Id); err != nil {
		cs.logger.Error("Consumer", "Failed to delete old embedding", map[string]interface{}{
			"post_id": post.Id.String(),
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}
	if err := uow.PostEmbeddingRepository().Create(ctx, record); err != nil {
		cs.logger.Error("Consumer", "Failed to store embedding", map[string]interface{}{
			"post_id": post.Id.String(),
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}
	if err := uow.Commit(); err != nil {
		cs.logger.Error("Consumer", "Failed to commit embedding", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	cs.logger.Info("Consumer", "Post embedded", map[string]interface{}{
		"post_id": post.Id.String(),
		"model":   record.Model,
	})
	msg.Ack()
}

// buildEmbedDocument flattens a post into the text that gets embedded.
// English fields only: the related-posts search runs over translations.
func buildEmbedDocument(post *entity.Post) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", post.TranslatedTitle)
	if len(post.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(post.Categories, ", "))
	}
	fmt.Fprintf(&b, "Source: %s\n\n", post.Source)
	if post.TranslatedSummary != "" {
		b.WriteString(post.TranslatedSummary)
		b.WriteString("\n\n")
	}
	b.WriteString(post.TranslatedContent)

	document := b.String()
	if len(document) > embedDocumentMaxLen {
		document = document[:embedDocumentMaxLen]
	}
	return document
}
