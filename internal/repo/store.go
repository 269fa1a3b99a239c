package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/power-status-tracker/internal/domain"
)

// SubscriberStore adapts the package-level subscriber functions to the
// method set expected by services.SubscriberRepo.
type SubscriberStore struct{}

func (SubscriberStore) UpsertSubscriber(ctx context.Context, db *gorm.DB, chatID int64, username, name string) (*domain.Subscriber, bool, error) {
	return UpsertSubscriber(ctx, db, chatID, username, name)
}

func (SubscriberStore) SetSubscriberActive(ctx context.Context, db *gorm.DB, chatID int64, active bool) error {
	return SetSubscriberActive(ctx, db, chatID, active)
}

func (SubscriberStore) ListActiveSubscribers(ctx context.Context, db *gorm.DB) ([]domain.Subscriber, error) {
	return ListActiveSubscribers(ctx, db)
}

func (SubscriberStore) CountActiveSubscribers(ctx context.Context, db *gorm.DB) (int64, error) {
	return CountActiveSubscribers(ctx, db)
}

func (SubscriberStore) ListActiveSubscribersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Subscriber, error) {
	return ListActiveSubscribersPage(ctx, db, offset, limit)
}

func (SubscriberStore) FirstActiveSubscriber(ctx context.Context, db *gorm.DB) (*domain.Subscriber, error) {
	return FirstActiveSubscriber(ctx, db)
}
