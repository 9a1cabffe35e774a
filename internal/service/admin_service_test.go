package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ev-platform-be/internal/entity"

	"github.com/google/uuid"
)

func seedLog(factory *memFactory, level, message string, age time.Duration) *entity.SystemLog {
	source := "scraper"
	entry := &entity.SystemLog{
		Id:        uuid.New(),
		Level:     level,
		Source:    &source,
		Message:   message,
		CreatedAt: time.Now().Add(-age),
	}
	factory.uow.logRepo.logs = append(factory.uow.logRepo.logs, entry)
	return entry
}

func TestSystemLogSinkStoresEntry(t *testing.T) {
	factory := newMemFactory()
	sink := NewSystemLogSink(factory)

	sink.Store("error", "publisher", "post failed", map[string]interface{}{"post_id": "abc"})

	logs := factory.uow.logRepo.logs
	if len(logs) != 1 {
		t.Fatalf("stored %d rows, want 1", len(logs))
	}
	if logs[0].Level != "error" || logs[0].Message != "post failed" {
		t.Errorf("row = %s/%s, want error/post failed", logs[0].Level, logs[0].Message)
	}
	if logs[0].Source == nil || *logs[0].Source != "publisher" {
		t.Errorf("source not recorded")
	}
	if logs[0].Details == nil || *logs[0].Details != `{"post_id":"abc"}` {
		t.Errorf("details not recorded: %v", logs[0].Details)
	}
}

func TestAdminLogsFilterAndOrder(t *testing.T) {
	factory := newMemFactory()
	svc := NewAdminService(factory, noopLogger{}, 0)
	ctx := context.Background()

	seedLog(factory, "warn", "oldest warn", 3*time.Hour)
	seedLog(factory, "error", "an error", 2*time.Hour)
	seedLog(factory, "warn", "newest warn", time.Hour)

	all, err := svc.Logs(ctx, "", 10, 0)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	if all[0].Message != "newest warn" {
		t.Errorf("first entry = %q, want newest first", all[0].Message)
	}

	warns, err := svc.Logs(ctx, "warn", 10, 0)
	if err != nil {
		t.Fatalf("logs level=warn: %v", err)
	}
	if len(warns) != 2 {
		t.Fatalf("len(warns) = %d, want 2", len(warns))
	}
	for _, w := range warns {
		if w.Level != "warn" {
			t.Errorf("level = %q, want warn", w.Level)
		}
	}

	paged, err := svc.Logs(ctx, "", 1, 1)
	if err != nil {
		t.Fatalf("logs paged: %v", err)
	}
	if len(paged) != 1 || paged[0].Message != "an error" {
		t.Errorf("paged = %+v, want the second newest entry", paged)
	}
}

func TestAdminLogDetail(t *testing.T) {
	factory := newMemFactory()
	svc := NewAdminService(factory, noopLogger{}, 0)
	ctx := context.Background()

	details := `{"source":"cnevpost"}`
	entry := seedLog(factory, "error", "fetch failed", time.Hour)
	entry.Details = &details

	res, err := svc.LogDetail(ctx, entry.Id.String())
	if err != nil {
		t.Fatalf("log detail: %v", err)
	}
	if res.Message != "fetch failed" || res.Details["source"] != "cnevpost" {
		t.Errorf("detail = %+v, want message and parsed details", res)
	}

	if _, err := svc.LogDetail(ctx, uuid.NewString()); !errors.Is(err, ErrLogNotFound) {
		t.Errorf("unknown id err = %v, want ErrLogNotFound", err)
	}
	if _, err := svc.LogDetail(ctx, "not-a-uuid"); !errors.Is(err, ErrLogNotFound) {
		t.Errorf("bad id err = %v, want ErrLogNotFound", err)
	}
}
