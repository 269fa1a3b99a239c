package telegram

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// envelope is the common Bot API response wrapper.
type envelope struct {
	OK          *bool           `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
}

// hasOK reports whether the body carried an "ok" field at all.
func (e *envelope) hasOK() bool { return e.OK != nil }

func (e *envelope) ok() bool { return e.OK != nil && *e.OK }

// describe returns the API description, falling back to the HTTP status.
func (e *envelope) describe(status int) string {
	if e.Description != "" {
		return e.Description
	}
	if status != 0 {
		return http.StatusText(status)
	}
	return "unknown error"
}

// BotInfo is the getMe result.
type BotInfo struct {
	ID                      int64  `json:"id"`
	IsBot                   bool   `json:"is_bot"`
	FirstName               string `json:"first_name"`
	Username                string `json:"username,omitempty"`
	CanJoinGroups           bool   `json:"can_join_groups,omitempty"`
	CanReadAllGroupMessages bool   `json:"can_read_all_group_messages,omitempty"`
	SupportsInlineQueries   bool   `json:"supports_inline_queries,omitempty"`
}

// APIError is a Bot API rejection (ok=false).
type APIError struct {
	ErrorCode   int
	Description string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.ErrorCode != 0 {
		return fmt.Sprintf("telegram API error %d: %s", e.ErrorCode, e.Description)
	}
	return "telegram API error: " + e.Description
}
