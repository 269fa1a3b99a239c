// Package services defines the business logic of the power status tracker.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages, HTTP status codes or CLI exit codes
// is performed by the handler and command layers.
package services

import "errors"

var (
	// ErrBotTokenMissing indicates that no Telegram bot token is configured.
	// Administrative callers treat it as a hard failure; the automatic
	// notification path treats it as a no-op.
	ErrBotTokenMissing = errors.New("telegram bot token not configured")

	// ErrStatusNotRecorded is returned when no power status has been set yet.
	ErrStatusNotRecorded = errors.New("power status not recorded yet")

	// ErrNoActiveSubscribers is returned when an operation needs at least one
	// active subscriber and there is none.
	ErrNoActiveSubscribers = errors.New("no active subscribers")

	// ErrInvalidChatID is returned for a zero chat id.
	ErrInvalidChatID = errors.New("chat id must be non-zero")
)
