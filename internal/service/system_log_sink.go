package service

import (
	"context"
	"encoding/json"
	"time"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const sinkWriteTimeout = 5 * time.Second

// SystemLogSink copies warn and error log entries into system_logs for
// the admin log viewer. Writes are best-effort; a failing store must
// not take logging down with it, so errors are dropped.
type SystemLogSink struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewSystemLogSink(uowFactory unitofwork.RepositoryFactory) *SystemLogSink {
	return &SystemLogSink{uowFactory: uowFactory}
}

func (s *SystemLogSink) Store(level, module, message string, details map[string]interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), sinkWriteTimeout)
	defer cancel()

	var detailsJSON *string
	if len(details) > 0 {
		if b, err := json.Marshal(details); err == nil {
			str := string(b)
			detailsJSON = &str
		}
	}
	var source *string
	if module != "" {
		source = &module
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	_ = uow.SystemLogRepository().Create(ctx, &entity.SystemLog{
		Id:        uuid.New(),
		Level:     level,
		Source:    source,
		Message:   message,
		Details:   detailsJSON,
		CreatedAt: time.Now(),
	})
}
