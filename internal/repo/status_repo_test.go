package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/power-status-tracker/internal/domain"
)

func TestGetStatus_NotFoundBeforeFirstWrite(t *testing.T) {
	db := newRepoDB(t)
	st, err := GetStatus(context.Background(), db)
	if !errors.Is(err, ErrNotFound) || st != nil {
		t.Fatalf("expected ErrNotFound, got st=%v err=%v", st, err)
	}
}

func TestGetOrCreateStatus_CreatesOnceWithDefaults(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	st, created, err := GetOrCreateStatus(ctx, db, now)
	if err != nil {
		t.Fatalf("GetOrCreateStatus: %v", err)
	}
	if !created || st.ID != domain.PowerStatusID || st.IsOn || !st.LastUpdated.Equal(now) {
		t.Fatalf("unexpected created row: created=%v st=%+v", created, st)
	}

	again, created, err := GetOrCreateStatus(ctx, db, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("GetOrCreateStatus (2nd): %v", err)
	}
	if created {
		t.Fatalf("second call must not create")
	}
	if !again.LastUpdated.Equal(now) {
		t.Fatalf("second call must not touch LastUpdated, got %v", again.LastUpdated)
	}

	var n int64
	db.Model(&domain.PowerStatus{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected exactly one status row, got %d", n)
	}
}

func TestSaveStatus_WritesZeroValueAndTimestamp(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	st, _, err := GetOrCreateStatus(ctx, db, t0)
	if err != nil {
		t.Fatalf("GetOrCreateStatus: %v", err)
	}
	if err := SaveStatus(ctx, db, st, true, t0.Add(time.Minute)); err != nil {
		t.Fatalf("SaveStatus on: %v", err)
	}
	if err := SaveStatus(ctx, db, st, false, t0.Add(2*time.Minute)); err != nil {
		t.Fatalf("SaveStatus off: %v", err)
	}

	got, err := GetStatus(ctx, db)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if got.IsOn || !got.LastUpdated.Equal(t0.Add(2*time.Minute)) {
		t.Fatalf("unexpected persisted status: %+v", got)
	}
}

func TestSaveStatus_MissingRow(t *testing.T) {
	db := newRepoDB(t)
	st := &domain.PowerStatus{ID: domain.PowerStatusID}
	if err := SaveStatus(context.Background(), db, st, true, time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
