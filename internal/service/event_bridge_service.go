package service

import (
	"context"
	"fmt"
	"strings"

	"ev-platform-be/internal/pkg/logger"
	"ev-platform-be/internal/pkg/mailer"
	"ev-platform-be/internal/websocket"
	"ev-platform-be/pkg/events"
	natspkg "ev-platform-be/pkg/nats"
)

// IEventBridgeService relays platform events from NATS to the live
// websocket feed and to the operator mailbox.
type IEventBridgeService interface {
	Start() error
}

type eventBridgeService struct {
	subscriber   *natspkg.Subscriber
	hub          *websocket.Hub
	emailService mailer.IEmailService
	alertEmail   string
	logger       logger.ILogger
}

func NewEventBridgeService(
	subscriber *natspkg.Subscriber,
	hub *websocket.Hub,
	emailService mailer.IEmailService,
	alertEmail string,
	log logger.ILogger,
) IEventBridgeService {
	return &eventBridgeService{
		subscriber:   subscriber,
		hub:          hub,
		emailService: emailService,
		alertEmail:   alertEmail,
		logger:       log,
	}
}

func (s *eventBridgeService) Start() error {
	if s.subscriber == nil {
		return nil
	}

	if err := s.subscriber.Subscribe("events.>", "event-bridge", s.handle); err != nil {
		return fmt.Errorf("subscribe event bridge: %w", err)
	}
	return nil
}

func (s *eventBridgeService) handle(ctx context.Context, event events.Event) error {
	switch event.EventType() {
	case events.PostPublished:
		s.broadcast("post_published", event.Payload())
	case events.ScrapeCompleted:
		s.broadcast("scrape_completed", event.Payload())
	case events.ScrapeFailed:
		s.broadcast("scrape_failed", event.Payload())
		s.alertFailure(event.Payload())
	case events.ArticleIngested:
		s.broadcast("article_ingested", event.Payload())
	}
	// Unknown event types are acked and dropped.
	return nil
}

func (s *eventBridgeService) broadcast(msgType string, payload map[string]interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(websocket.Envelope{Type: msgType, Data: payload})
}

// alertFailure mails the operator. Mail problems are logged, never
// propagated, so the event is still acked.
func (s *eventBridgeService) alertFailure(payload map[string]interface{}) {
	if s.emailService == nil || s.alertEmail == "" {
		return
	}

	batchId := stringField(payload, "batchId")
	source := stringField(payload, "source")
	errMsg := stringField(payload, "error")

	if err := s.emailService.SendScrapeFailureAlert(s.alertEmail, batchId, source, errMsg); err != nil {
		s.logger.Warn("EVENT_BRIDGE", "Failed to send scrape failure alert", map[string]interface{}{
			"error":    err.Error(),
			"batch_id": batchId,
		})
	}
}

func stringField(payload map[string]interface{}, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}
