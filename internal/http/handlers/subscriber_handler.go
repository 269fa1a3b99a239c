// Subscriber and bot HTTP handlers (admin only).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/power-status-tracker/internal/domain"
	"github.com/tbourn/power-status-tracker/internal/services"
	"github.com/tbourn/power-status-tracker/internal/telegram"
)

//
// DTOs
//

// AddSubscriberRequest is the JSON payload for registering a chat.
type AddSubscriberRequest struct {
	ChatID   int64  `json:"chat_id"  binding:"required" example:"123456789"`
	Username string `json:"username" example:"alice"`
	Name     string `json:"name"     example:"Alice"`
}

// ListSubscribersResponse wraps a page of active subscribers.
type ListSubscribersResponse struct {
	Subscribers []domain.Subscriber `json:"subscribers"`
	Pagination  Pagination          `json:"pagination"`
}

// TestMessageResponse reports the outcome of a test send.
type TestMessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message" example:"Test message sent successfully"`
}

// chatIDParam parses the :chat_id path parameter.
func chatIDParam(c *gin.Context) (int64, bool) {
	id, err := services.ParseChatID(c.Param("chat_id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat_id must be a non-zero integer")
		return 0, false
	}
	return id, true
}

//
// Handlers
//

// ListSubscribers godoc
// @ID          listSubscribers
// @Summary     List active subscribers (paginated)
// @Tags        Subscribers
// @Produce     json
// @Security    AdminToken
//
// @Param       page       query  int  false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListSubscribersResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /subscribers [get]
func (h *Handlers) ListSubscribers(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, err := h.subSvc.ListActive(c.Request.Context(), page, pageSize)
	if err != nil {
		failErr(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list subscribers", err)
		return
	}
	ok(c, http.StatusOK, ListSubscribersResponse{
		Subscribers: items,
		Pagination:  newPagination(page, pageSize, total),
	})
}

// AddSubscriber godoc
// @ID          addSubscriber
// @Summary     Add or reactivate a subscriber
// @Description Registers a Telegram chat. An existing chat gets its username and name refreshed and is reactivated.
// @Tags        Subscribers
// @Accept      json
// @Produce     json
// @Security    AdminToken
//
// @Param       body  body  handlers.AddSubscriberRequest  true  "Subscriber"
//
// @Success     200  {object} domain.Subscriber
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /subscribers [post]
func (h *Handlers) AddSubscriber(c *gin.Context) {
	var req AddSubscriberRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ChatID == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat_id required")
		return
	}
	sub, err := h.subSvc.AddSubscriber(c.Request.Context(), req.ChatID, req.Username, req.Name)
	if err != nil {
		failErr(c, http.StatusInternalServerError, ErrCodeSubscriberFailed, "could not add subscriber", err)
		return
	}
	ok(c, http.StatusOK, sub)
}

// RemoveSubscriber godoc
// @ID          removeSubscriber
// @Summary     Deactivate a subscriber
// @Tags        Subscribers
// @Produce     json
// @Security    AdminToken
//
// @Param       chat_id  path  int  true  "Telegram chat id"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Subscriber not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /subscribers/{chat_id} [delete]
func (h *Handlers) RemoveSubscriber(c *gin.Context) {
	chatID, valid := chatIDParam(c)
	if !valid {
		return
	}
	found, err := h.subSvc.RemoveSubscriber(c.Request.Context(), chatID)
	if err != nil {
		failErr(c, http.StatusInternalServerError, ErrCodeSubscriberFailed, "could not remove subscriber", err)
		return
	}
	if !found {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "subscriber not found")
		return
	}
	noContent(c)
}

// SendTestMessage godoc
// @ID          sendTestMessage
// @Summary     Send a test message
// @Description Sends the fixed diagnostic message to a chat. Subscriber state is never changed. Gateway failures are reported in the body with success=false.
// @Tags        Subscribers
// @Produce     json
// @Security    AdminToken
//
// @Param       chat_id  path  int  true  "Telegram chat id"
//
// @Success     200  {object} handlers.TestMessageResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Router      /subscribers/{chat_id}/test [post]
func (h *Handlers) SendTestMessage(c *gin.Context) {
	chatID, valid := chatIDParam(c)
	if !valid {
		return
	}
	success, msg := h.subSvc.SendTestMessage(c.Request.Context(), chatID)
	ok(c, http.StatusOK, TestMessageResponse{Success: success, Message: msg})
}

// GetBot godoc
// @ID          getBot
// @Summary     Bot identity
// @Tags        Bot
// @Produce     json
// @Security    AdminToken
//
// @Success     200  {object} telegram.BotInfo
// @Failure     502  {object} handlers.ErrorResponse "Gateway error"
// @Failure     503  {object} handlers.ErrorResponse "Bot not configured"
// @Router      /bot [get]
func (h *Handlers) GetBot(c *gin.Context) {
	info, err := h.subSvc.GetBotInfo(c.Request.Context())
	var apiErr *telegram.APIError
	switch {
	case errors.Is(err, services.ErrBotTokenMissing):
		fail(c, http.StatusServiceUnavailable, ErrCodeBotNotConfigured, err.Error())
	case errors.As(err, &apiErr):
		fail(c, http.StatusBadGateway, ErrCodeGatewayFailed, apiErr.Error())
	case err != nil:
		failErr(c, http.StatusBadGateway, ErrCodeGatewayFailed, "telegram unreachable", err)
	default:
		ok(c, http.StatusOK, info)
	}
}
