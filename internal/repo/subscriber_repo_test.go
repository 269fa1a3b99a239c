package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/power-status-tracker/internal/domain"
)

func TestUpsertSubscriber_CreateThenUpdateReactivates(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	s, created, err := UpsertSubscriber(ctx, db, 111, "alice", "Alice")
	if err != nil {
		t.Fatalf("UpsertSubscriber: %v", err)
	}
	if !created || s.ID == 0 || s.ChatID != 111 || !s.IsActive {
		t.Fatalf("unexpected created subscriber: created=%v s=%+v", created, s)
	}

	if err := SetSubscriberActive(ctx, db, 111, false); err != nil {
		t.Fatalf("SetSubscriberActive: %v", err)
	}

	s2, created, err := UpsertSubscriber(ctx, db, 111, "alice2", "Alice Two")
	if err != nil {
		t.Fatalf("UpsertSubscriber (2nd): %v", err)
	}
	if created {
		t.Fatalf("second upsert must update, not create")
	}
	if s2.ID != s.ID || s2.Username != "alice2" || s2.Name != "Alice Two" || !s2.IsActive {
		t.Fatalf("unexpected updated subscriber: %+v", s2)
	}

	var rows []domain.Subscriber
	if err := db.Where("chat_id = ?", 111).Find(&rows).Error; err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Alice Two" || !rows[0].IsActive {
		t.Fatalf("expected single reactivated row, got %+v", rows)
	}
}

func TestUpsertSubscriber_Error_NoTable(t *testing.T) {
	db := newRepoDB(t)
	if err := db.Migrator().DropTable(&domain.Subscriber{}); err != nil {
		t.Fatalf("drop: %v", err)
	}
	s, _, err := UpsertSubscriber(context.Background(), db, 1, "", "")
	if err == nil || s != nil {
		t.Fatalf("expected error without table, got s=%v err=%v", s, err)
	}
}

func TestGetSubscriberByChatID_AndNotFound(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	if _, err := GetSubscriberByChatID(ctx, db, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := UpsertSubscriber(ctx, db, 5, "u", "n"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	s, err := GetSubscriberByChatID(ctx, db, 5)
	if err != nil || s.Username != "u" {
		t.Fatalf("unexpected: s=%+v err=%v", s, err)
	}
}

func TestSetSubscriberActive_NotFound(t *testing.T) {
	db := newRepoDB(t)
	if err := SetSubscriberActive(context.Background(), db, 999, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestActiveListing_CountPageAndFirst(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	for _, id := range []int64{10, 20, 30, 40} {
		if _, _, err := UpsertSubscriber(ctx, db, id, "", ""); err != nil {
			t.Fatalf("upsert %d: %v", id, err)
		}
	}
	if err := SetSubscriberActive(ctx, db, 10, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	all, err := ListActiveSubscribers(ctx, db)
	if err != nil {
		t.Fatalf("ListActiveSubscribers: %v", err)
	}
	if len(all) != 3 || all[0].ChatID != 20 || all[2].ChatID != 40 {
		t.Fatalf("unexpected active list: %+v", all)
	}

	n, err := CountActiveSubscribers(ctx, db)
	if err != nil || n != 3 {
		t.Fatalf("CountActiveSubscribers = %d, %v", n, err)
	}

	page, err := ListActiveSubscribersPage(ctx, db, 1, 1)
	if err != nil || len(page) != 1 || page[0].ChatID != 30 {
		t.Fatalf("unexpected page: %+v err=%v", page, err)
	}

	first, err := FirstActiveSubscriber(ctx, db)
	if err != nil || first.ChatID != 20 {
		t.Fatalf("unexpected first: %+v err=%v", first, err)
	}
}

func TestFirstActiveSubscriber_NoneActive(t *testing.T) {
	db := newRepoDB(t)
	if _, err := FirstActiveSubscriber(context.Background(), db); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
