// Package services – NotificationService
//
// This file implements the notification pipeline: it formats a power status
// message, fans it out to every active subscriber one at a time, and
// deactivates subscribers the gateway reports as permanently unreachable.
// It also hosts the administrative subscriber operations used by the CLI and
// the admin HTTP API.
//
// Fan-out never returns an error. A failure for one subscriber is logged and
// counted, and delivery continues with the next.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/power-status-tracker/internal/domain"
	"github.com/tbourn/power-status-tracker/internal/observability"
	"github.com/tbourn/power-status-tracker/internal/repo"
	"github.com/tbourn/power-status-tracker/internal/telegram"
	"github.com/tbourn/power-status-tracker/internal/utils"
)

// SubscriberRepo defines the repository contract required by
// NotificationService.
type SubscriberRepo interface {
	UpsertSubscriber(ctx context.Context, db *gorm.DB, chatID int64, username, name string) (*domain.Subscriber, bool, error)
	SetSubscriberActive(ctx context.Context, db *gorm.DB, chatID int64, active bool) error
	ListActiveSubscribers(ctx context.Context, db *gorm.DB) ([]domain.Subscriber, error)
	CountActiveSubscribers(ctx context.Context, db *gorm.DB) (int64, error)
	ListActiveSubscribersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Subscriber, error)
	FirstActiveSubscriber(ctx context.Context, db *gorm.DB) (*domain.Subscriber, error)
}

// Gateway is the messaging transport. *telegram.Client satisfies it.
type Gateway interface {
	Configured() bool
	Deliver(ctx context.Context, chatID int64, text string, opts ...telegram.SendOption) telegram.Result
	GetMe(ctx context.Context) (*telegram.BotInfo, error)
}

// NotificationService delivers status notifications and manages the
// subscriber list.
type NotificationService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the subscriber repository used by this service.
	Repo SubscriberRepo
	// Gateway sends messages. A gateway without a token turns fan-out into
	// a logged no-op.
	Gateway Gateway
	// Policy decides which rejections deactivate a subscriber.
	Policy DeactivationPolicy

	// Location renders timestamps in notifications.
	Location *time.Location
	// ParseMode is forwarded with status notifications ("" sends plain text).
	ParseMode string

	Logger zerolog.Logger
}

// NewNotificationService constructs a NotificationService with the default
// deactivation policy, UTC timestamps and HTML parse mode.
func NewNotificationService(db *gorm.DB, r SubscriberRepo, gw Gateway) *NotificationService {
	return &NotificationService{
		DB:        db,
		Repo:      r,
		Gateway:   gw,
		Policy:    NewPhrasePolicy(),
		Location:  time.UTC,
		ParseMode: "HTML",
		Logger:    log.With().Str("component", "notifications").Logger(),
	}
}

// NotifyStatusChange sends the formatted status to every active subscriber.
// Subscribers are processed sequentially and independently.
func (s *NotificationService) NotifyStatusChange(ctx context.Context, st domain.PowerStatus) {
	ctx, span := observability.StartSpan(ctx, "notifications.fanout", attribute.Bool("power.is_on", st.IsOn))
	defer span.End()

	if s.Gateway == nil || !s.Gateway.Configured() {
		s.Logger.Warn().Msg("telegram bot token not configured; skipping status notification")
		return
	}

	subs, err := s.Repo.ListActiveSubscribers(ctx, s.DB)
	if err != nil {
		s.Logger.Error().Err(err).Msg("load active subscribers")
		return
	}
	if len(subs) == 0 {
		s.Logger.Info().Msg("no active subscribers to notify")
		return
	}

	text := FormatStatusMessage(st, s.Location)
	var delivered, failed, deactivated int
	for _, sub := range subs {
		switch s.notifyOne(ctx, sub, text) {
		case outcomeDelivered:
			delivered++
		case outcomeDeactivated:
			failed++
			deactivated++
		default:
			failed++
		}
	}

	span.SetAttributes(
		attribute.Int("notify.subscribers", len(subs)),
		attribute.Int("notify.delivered", delivered),
		attribute.Int("notify.deactivated", deactivated),
	)
	s.Logger.Info().
		Bool("is_on", st.IsOn).
		Int("subscribers", len(subs)).
		Int("delivered", delivered).
		Int("failed", failed).
		Int("deactivated", deactivated).
		Msg("status notification fan-out finished")
}

type deliveryOutcome int

const (
	outcomeDelivered deliveryOutcome = iota
	outcomeFailed
	outcomeDeactivated
)

// notifyOne delivers text to a single subscriber. A panic in the gateway or
// the store is contained here so the rest of the fan-out proceeds.
func (s *NotificationService) notifyOne(ctx context.Context, sub domain.Subscriber, text string) (out deliveryOutcome) {
	l := s.Logger.With().Int64("chat_id", sub.ChatID).Logger()
	defer func() {
		if r := recover(); r != nil {
			l.Error().Interface("panic", r).Msg("notification delivery panicked")
			notificationsTotal.WithLabelValues("panic").Inc()
			out = outcomeFailed
		}
	}()

	res := s.Gateway.Deliver(ctx, sub.ChatID, text, telegram.WithParseMode(s.ParseMode))
	notificationsTotal.WithLabelValues(res.Outcome.String()).Inc()

	switch res.Outcome {
	case telegram.OutcomeDelivered:
		l.Debug().Msg("notification delivered")
		return outcomeDelivered
	case telegram.OutcomeRejected:
		l.Warn().Int("error_code", res.ErrorCode).Str("description", res.Description).Msg("telegram rejected notification")
		if s.policy().ShouldDeactivate(res.Description) {
			if err := s.Repo.SetSubscriberActive(ctx, s.DB, sub.ChatID, false); err != nil {
				l.Error().Err(err).Msg("deactivate subscriber")
				return outcomeFailed
			}
			subscribersDeactivated.Inc()
			l.Info().Msg("subscriber deactivated")
			return outcomeDeactivated
		}
		return outcomeFailed
	default:
		l.Error().Str("error", res.Description).Msg("notification transport error")
		return outcomeFailed
	}
}

// AddSubscriber registers chatID, or refreshes and reactivates an existing
// registration.
func (s *NotificationService) AddSubscriber(ctx context.Context, chatID int64, username, name string) (*domain.Subscriber, error) {
	if chatID == 0 {
		return nil, ErrInvalidChatID
	}
	sub, created, err := s.Repo.UpsertSubscriber(ctx, s.DB, chatID, normalizeUsername(username), normalizeName(name))
	if err != nil {
		s.Logger.Error().Err(err).Int64("chat_id", chatID).Msg("add subscriber")
		return nil, err
	}
	if created {
		s.Logger.Info().Int64("chat_id", chatID).Msg("subscriber added")
	} else {
		s.Logger.Info().Int64("chat_id", chatID).Msg("subscriber updated")
	}
	return sub, nil
}

// RemoveSubscriber deactivates chatID. It reports false when the chat was
// never registered.
func (s *NotificationService) RemoveSubscriber(ctx context.Context, chatID int64) (bool, error) {
	err := s.Repo.SetSubscriberActive(ctx, s.DB, chatID, false)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		s.Logger.Warn().Int64("chat_id", chatID).Msg("subscriber not found")
		return false, nil
	case err != nil:
		s.Logger.Error().Err(err).Int64("chat_id", chatID).Msg("remove subscriber")
		return false, err
	}
	s.Logger.Info().Int64("chat_id", chatID).Msg("subscriber deactivated")
	return true, nil
}

// SendTestMessage sends the fixed test text to chatID and reports the
// outcome as a success flag and a human-readable message. It never changes
// subscriber state.
func (s *NotificationService) SendTestMessage(ctx context.Context, chatID int64) (bool, string) {
	if s.Gateway == nil || !s.Gateway.Configured() {
		return false, "Telegram bot token not configured"
	}
	res := s.Gateway.Deliver(ctx, chatID, TestMessageText)
	switch res.Outcome {
	case telegram.OutcomeDelivered:
		return true, "Test message sent successfully"
	case telegram.OutcomeRejected:
		return false, "Telegram API error: " + res.Description
	default:
		return false, "Request error: " + res.Description
	}
}

// GetBotInfo returns the bot identity reported by the gateway.
func (s *NotificationService) GetBotInfo(ctx context.Context) (*telegram.BotInfo, error) {
	if s.Gateway == nil || !s.Gateway.Configured() {
		return nil, ErrBotTokenMissing
	}
	return s.Gateway.GetMe(ctx)
}

// ListActive returns a page of active subscribers and the active total.
func (s *NotificationService) ListActive(ctx context.Context, page, pageSize int) ([]domain.Subscriber, int64, error) {
	page, pageSize = utils.ClampPage(page, pageSize)
	offset := utils.Offset(page, pageSize)

	total, err := s.Repo.CountActiveSubscribers(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Subscriber{}, 0, nil
	}

	items, err := s.Repo.ListActiveSubscribersPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}

// AllActive returns every active subscriber.
func (s *NotificationService) AllActive(ctx context.Context) ([]domain.Subscriber, error) {
	return s.Repo.ListActiveSubscribers(ctx, s.DB)
}

// FirstActive returns the earliest registered active subscriber.
func (s *NotificationService) FirstActive(ctx context.Context) (*domain.Subscriber, error) {
	sub, err := s.Repo.FirstActiveSubscriber(ctx, s.DB)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNoActiveSubscribers
	}
	return sub, err
}

// ParseChatID parses a decimal chat id. Negative ids (groups) are allowed.
func ParseChatID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chat id %q: %w", s, err)
	}
	if id == 0 {
		return 0, ErrInvalidChatID
	}
	return id, nil
}

func (s *NotificationService) policy() DeactivationPolicy {
	if s.Policy == nil {
		return NewPhrasePolicy()
	}
	return s.Policy
}
