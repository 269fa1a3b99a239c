// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for Telegram
// subscribers.
//
// Subscribers are never hard-deleted. Removal and automatic deactivation
// both go through SetSubscriberActive.
//
// Functions:
//
//   - UpsertSubscriber(ctx, db, chatID, username, name) -> *domain.Subscriber, created, error
//   - GetSubscriberByChatID(ctx, db, chatID) -> *domain.Subscriber, error
//   - SetSubscriberActive(ctx, db, chatID, active) -> error
//   - ListActiveSubscribers(ctx, db) -> []domain.Subscriber, error
//   - CountActiveSubscribers(ctx, db) -> int64, error
//   - ListActiveSubscribersPage(ctx, db, offset, limit) -> []domain.Subscriber, error
//   - FirstActiveSubscriber(ctx, db) -> *domain.Subscriber, error
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/power-status-tracker/internal/domain"
)

// UpsertSubscriber registers chatID or refreshes an existing registration.
// Existing rows get username and name overwritten and are reactivated.
// It runs in its own transaction unless db already is one.
func UpsertSubscriber(ctx context.Context, db *gorm.DB, chatID int64, username, name string) (*domain.Subscriber, bool, error) {
	var (
		out     *domain.Subscriber
		created bool
	)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s domain.Subscriber
		err := tx.Where("chat_id = ?", chatID).First(&s).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			s = domain.Subscriber{
				ChatID:   chatID,
				Username: username,
				Name:     name,
				IsActive: true,
			}
			if err := tx.Create(&s).Error; err != nil {
				return err
			}
			created = true
		case err != nil:
			return err
		default:
			if err := tx.Model(&s).Updates(map[string]any{
				"username":  username,
				"name":      name,
				"is_active": true,
			}).Error; err != nil {
				return err
			}
			s.Username, s.Name, s.IsActive = username, name, true
		}
		out = &s
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, created, nil
}

// GetSubscriberByChatID fetches a subscriber regardless of its active flag.
// It returns ErrNotFound when the chat was never registered.
func GetSubscriberByChatID(ctx context.Context, db *gorm.DB, chatID int64) (*domain.Subscriber, error) {
	var s domain.Subscriber
	if err := db.WithContext(ctx).Where("chat_id = ?", chatID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// SetSubscriberActive flips the active flag of chatID. It returns
// ErrNotFound when no row matches.
func SetSubscriberActive(ctx context.Context, db *gorm.DB, chatID int64, active bool) error {
	res := db.WithContext(ctx).
		Model(&domain.Subscriber{}).
		Where("chat_id = ?", chatID).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListActiveSubscribers returns every active subscriber ordered by
// registration.
func ListActiveSubscribers(ctx context.Context, db *gorm.DB) ([]domain.Subscriber, error) {
	var out []domain.Subscriber
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id asc").
		Find(&out).Error
	return out, err
}

// CountActiveSubscribers returns the number of active subscribers.
func CountActiveSubscribers(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Subscriber{}).
		Where("is_active = ?", true).
		Count(&total).Error
	return total, err
}

// ListActiveSubscribersPage returns a page of active subscribers ordered by
// registration. The caller computes offset and limit.
func ListActiveSubscribersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Subscriber, error) {
	var out []domain.Subscriber
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// FirstActiveSubscriber returns the earliest registered active subscriber,
// or ErrNotFound.
func FirstActiveSubscriber(ctx context.Context, db *gorm.DB) (*domain.Subscriber, error) {
	var s domain.Subscriber
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id asc").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}
