// Package services – StatusService
//
// StatusService owns the singleton power status. Set persists the new value
// and, when an existing status actually flipped, hands the committed record
// to the notifier. Creating the record never notifies, whatever its first
// value.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/tbourn/power-status-tracker/internal/domain"
	"github.com/tbourn/power-status-tracker/internal/observability"
	"github.com/tbourn/power-status-tracker/internal/repo"
)

// StatusNotifier is invoked after a committed status flip.
type StatusNotifier interface {
	NotifyStatusChange(ctx context.Context, st domain.PowerStatus)
}

// StatusUpdate describes the outcome of StatusService.Set.
type StatusUpdate struct {
	Status domain.PowerStatus
	// Created is true when this call inserted the status record.
	Created bool
	// Changed is true when an existing record flipped value.
	Changed bool
}

// StatusService reads and writes the power status.
type StatusService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Notifier receives committed flips. Nil disables notifications.
	Notifier StatusNotifier
	// Now stamps LastUpdated; defaults to time.Now.
	Now func() time.Time

	Logger zerolog.Logger
}

// NewStatusService constructs a StatusService.
func NewStatusService(db *gorm.DB, n StatusNotifier) *StatusService {
	return &StatusService{
		DB:       db,
		Notifier: n,
		Now:      time.Now,
		Logger:   log.With().Str("component", "status").Logger(),
	}
}

// Set records isOn, creating the status record on first use. LastUpdated is
// refreshed on every call, even when the value is unchanged.
func (s *StatusService) Set(ctx context.Context, isOn bool) (*StatusUpdate, error) {
	ctx, span := observability.StartSpan(ctx, "status.set", attribute.Bool("power.is_on", isOn))
	defer span.End()

	now := s.now()
	var (
		st       *domain.PowerStatus
		created  bool
		previous bool
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		st, created, err = repo.GetOrCreateStatus(ctx, tx, now)
		if err != nil {
			return err
		}
		previous = st.IsOn
		return repo.SaveStatus(ctx, tx, st, isOn, now)
	})
	if err != nil {
		s.Logger.Error().Err(err).Bool("is_on", isOn).Msg("save power status")
		span.RecordError(err)
		span.SetStatus(codes.Error, "save power status")
		return nil, err
	}

	up := &StatusUpdate{
		Status:  *st,
		Created: created,
		Changed: !created && previous != isOn,
	}
	span.SetAttributes(
		attribute.Bool("power.created", up.Created),
		attribute.Bool("power.changed", up.Changed),
	)
	s.Logger.Info().
		Str("status", domain.StatusText(isOn)).
		Bool("created", up.Created).
		Bool("changed", up.Changed).
		Msg("power status updated")

	if up.Changed {
		statusChanges.WithLabelValues(domain.StatusText(isOn)).Inc()
		s.notify(context.WithoutCancel(ctx), up.Status)
	}
	return up, nil
}

// Current returns the stored status or ErrStatusNotRecorded.
func (s *StatusService) Current(ctx context.Context) (*domain.PowerStatus, error) {
	st, err := repo.GetStatus(ctx, s.DB)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrStatusNotRecorded
	}
	return st, err
}

// notify runs the notifier after commit. A panicking notifier is logged and
// never fails the save.
func (s *StatusService) notify(ctx context.Context, st domain.PowerStatus) {
	if s.Notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error().Interface("panic", r).Msg("status notifier panicked")
		}
	}()
	s.Notifier.NotifyStatusChange(ctx, st)
}

func (s *StatusService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
