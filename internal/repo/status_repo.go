// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the single
// PowerStatus row.
//
// All functions are context-aware and accept a *gorm.DB handle, so callers
// can run them inside a transaction. They hold no business logic: change
// detection and notification live in services.StatusService.
//
// Error semantics:
//   - When the status row does not exist yet, GetStatus returns ErrNotFound.
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/power-status-tracker/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// GetStatus loads the power status row. It returns ErrNotFound before the
// first update has been recorded.
func GetStatus(ctx context.Context, db *gorm.DB) (*domain.PowerStatus, error) {
	var st domain.PowerStatus
	if err := db.WithContext(ctx).First(&st, domain.PowerStatusID).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

// GetOrCreateStatus returns the power status row, inserting it with
// IsOn=false and LastUpdated=now when it is missing. created reports whether
// the row was inserted by this call.
func GetOrCreateStatus(ctx context.Context, db *gorm.DB, now time.Time) (st *domain.PowerStatus, created bool, err error) {
	st, err = GetStatus(ctx, db)
	if err == nil {
		return st, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	st = &domain.PowerStatus{ID: domain.PowerStatusID, IsOn: false}
	st.Touch(now)
	if err := db.WithContext(ctx).Create(st).Error; err != nil {
		return nil, false, err
	}
	return st, true, nil
}

// SaveStatus writes isOn and stamps LastUpdated with now. Both columns are
// written even when isOn is the zero value.
func SaveStatus(ctx context.Context, db *gorm.DB, st *domain.PowerStatus, isOn bool, now time.Time) error {
	st.IsOn = isOn
	st.Touch(now)
	res := db.WithContext(ctx).
		Model(&domain.PowerStatus{}).
		Where("id = ?", st.ID).
		Updates(map[string]any{
			"is_on":        st.IsOn,
			"last_updated": st.LastUpdated,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
