// Package handlers exposes the HTTP surface of the tracker:
//   - GET  /                              (status page, HTML)
//   - GET  /status                        (status view, JSON, ETag support)
//   - PUT  /status                        (admin: set status)
//   - GET  /subscribers                   (admin: list active, paginated)
//   - POST /subscribers                   (admin: add or reactivate)
//   - DELETE /subscribers/{chat_id}       (admin: deactivate)
//   - POST /subscribers/{chat_id}/test    (admin: send test message)
//   - GET  /bot                           (admin: bot identity)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/power-status-tracker/internal/domain"
	"github.com/tbourn/power-status-tracker/internal/services"
	"github.com/tbourn/power-status-tracker/internal/telegram"
	"github.com/tbourn/power-status-tracker/internal/utils"
)

//
// Service contracts (context-aware)
//

// StatusService reads and writes the power status.
type StatusService interface {
	// Set records the new value and triggers notifications on a flip.
	Set(ctx context.Context, isOn bool) (*services.StatusUpdate, error)
	// Current returns the stored status or services.ErrStatusNotRecorded.
	Current(ctx context.Context) (*domain.PowerStatus, error)
}

// SubscriberService manages subscribers and the messaging gateway.
type SubscriberService interface {
	AddSubscriber(ctx context.Context, chatID int64, username, name string) (*domain.Subscriber, error)
	RemoveSubscriber(ctx context.Context, chatID int64) (bool, error)
	SendTestMessage(ctx context.Context, chatID int64) (bool, string)
	GetBotInfo(ctx context.Context) (*telegram.BotInfo, error)
	ListActive(ctx context.Context, page, pageSize int) ([]domain.Subscriber, int64, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints.
type Handlers struct {
	statusSvc StatusService
	subSvc    SubscriberService
	loc       *time.Location
}

// New constructs Handlers. loc renders timestamps on the display surface.
func New(statusSvc StatusService, subSvc SubscriberService, loc *time.Location) *Handlers {
	if loc == nil {
		loc = time.UTC
	}
	return &Handlers{statusSvc: statusSvc, subSvc: subSvc, loc: loc}
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := utils.TotalPages(total, pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination parses and bounds the page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	page = utils.AtoiDefault(c.Query("page"), utils.DefaultPage)
	pageSize = utils.AtoiDefault(c.Query("page_size"), utils.DefaultPageSize)
	return utils.ClampPage(page, pageSize)
}
