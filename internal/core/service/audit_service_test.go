package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/testutil/memstore"
)

func TestAuditService_Process(t *testing.T) {
	store := memstore.New()
	svc := NewAuditService(store.Events, zerolog.Nop())

	ev := domain.DownloadEvent{ResourceID: "r1", UserID: "u1", DownloadedAt: time.Now()}
	if err := svc.Process(context.Background(), ev); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if got := store.Events.All(); len(got) != 1 || got[0].ResourceID != "r1" {
		t.Fatalf("unexpected events: %+v", got)
	}
}

func TestAuditService_Process_Errors(t *testing.T) {
	store := memstore.New()
	svc := NewAuditService(store.Events, zerolog.Nop())

	if err := svc.Process(context.Background(), domain.DownloadEvent{ResourceID: "r1"}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	store.Err = domain.ErrStoreUnavailable
	err := svc.Process(context.Background(), domain.DownloadEvent{ResourceID: "r1", UserID: "u1"})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
