package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status labels and glyphs shared by the web page, CLI and notifications.
const (
	StatusTextOn      = "ON"
	StatusTextOff     = "OFF"
	StatusTextUnknown = "UNKNOWN"

	StatusEmojiOn      = "🟢"
	StatusEmojiOff     = "🔴"
	StatusEmojiUnknown = "⚪"

	// DisplayTimeLayout is the human timestamp on the status page.
	DisplayTimeLayout = "15:04 Jan 02, 2006"
	// NeverUpdated is shown when no status has been recorded yet.
	NeverUpdated = "Never"
)

// StatusText returns ON or OFF.
func StatusText(isOn bool) string {
	if isOn {
		return StatusTextOn
	}
	return StatusTextOff
}

// ParseStatus maps "on"/"off" (any case) to a bool.
func ParseStatus(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("status must be \"on\" or \"off\", got %q", s)
}

// StatusEmoji returns the glyph for the given state.
func StatusEmoji(isOn bool) string {
	if isOn {
		return StatusEmojiOn
	}
	return StatusEmojiOff
}

// StatusView is the read model rendered by the display surface.
type StatusView struct {
	Known              bool       `json:"known"`
	IsOn               bool       `json:"is_on"`
	StatusText         string     `json:"status_text"`
	StatusEmoji        string     `json:"status_emoji"`
	LastUpdated        *time.Time `json:"last_updated,omitempty"`
	FormattedTimestamp string     `json:"formatted_timestamp"`
}

// NewStatusView builds the view for st in loc. A nil st yields the
// UNKNOWN placeholder.
func NewStatusView(st *PowerStatus, loc *time.Location) StatusView {
	if st == nil {
		return StatusView{
			StatusText:         StatusTextUnknown,
			StatusEmoji:        StatusEmojiUnknown,
			FormattedTimestamp: NeverUpdated,
		}
	}
	if loc == nil {
		loc = time.UTC
	}
	ts := st.LastUpdated
	return StatusView{
		Known:              true,
		IsOn:               st.IsOn,
		StatusText:         StatusText(st.IsOn),
		StatusEmoji:        StatusEmoji(st.IsOn),
		LastUpdated:        &ts,
		FormattedTimestamp: ts.In(loc).Format(DisplayTimeLayout),
	}
}
