// Status HTTP handlers: the public display surface and the admin setter.
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/power-status-tracker/internal/domain"
	"github.com/tbourn/power-status-tracker/internal/services"
)

//
// DTOs
//

// SetStatusRequest is the JSON payload for changing the power status.
type SetStatusRequest struct {
	// Status is "on" or "off" (case-insensitive).
	Status string `json:"status" binding:"required" example:"on"`
}

// SetStatusResponse reports the stored status after an update.
type SetStatusResponse struct {
	domain.StatusView
	// Created is true when this request created the status record.
	Created bool `json:"created"`
	// Changed is true when the value flipped and notifications were sent.
	Changed bool `json:"changed"`
}

// currentView loads the status view, falling back to the UNKNOWN placeholder.
func (h *Handlers) currentView(c *gin.Context) (domain.StatusView, error) {
	st, err := h.statusSvc.Current(c.Request.Context())
	switch {
	case errors.Is(err, services.ErrStatusNotRecorded):
		return domain.NewStatusView(nil, h.loc), nil
	case err != nil:
		return domain.StatusView{}, err
	}
	return domain.NewStatusView(st, h.loc), nil
}

//
// Handlers
//

// Home renders the status page.
func (h *Handlers) Home(c *gin.Context) {
	view, err := h.currentView(c)
	if err != nil {
		failErr(c, http.StatusInternalServerError, ErrCodeStatusReadFailed, "could not load power status", err)
		return
	}
	c.HTML(http.StatusOK, homeTemplate, view)
}

// GetStatus godoc
// @ID          getStatus
// @Summary     Current power status
// @Description Returns the current status view. When nothing has been recorded yet the view is UNKNOWN with timestamp "Never". Supports weak ETag via If-None-Match and may return 304.
// @Tags        Status
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"status:1:1700000000\")
//
// @Success     200  {object} domain.StatusView
// @Header      200  {string} ETag  "Weak ETag for current status"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /status [get]
func (h *Handlers) GetStatus(c *gin.Context) {
	view, err := h.currentView(c)
	if err != nil {
		failErr(c, http.StatusInternalServerError, ErrCodeStatusReadFailed, "could not load power status", err)
		return
	}

	okETag(c, statusETag(view), view)
}

// statusETag changes whenever the value or the save time changes.
func statusETag(v domain.StatusView) string {
	if !v.Known {
		return `W/"status:unknown"`
	}
	on := 0
	if v.IsOn {
		on = 1
	}
	return fmt.Sprintf(`W/"status:%d:%d"`, on, v.LastUpdated.UnixNano())
}

// SetStatus godoc
// @ID          setStatus
// @Summary     Set the power status
// @Description Records the power status. Subscribers are notified only when an existing status flips; the first record never notifies.
// @Tags        Status
// @Accept      json
// @Produce     json
// @Security    AdminToken
//
// @Param       body  body  handlers.SetStatusRequest  true  "New status"
//
// @Success     200  {object} handlers.SetStatusResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Admin API disabled"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /status [put]
func (h *Handlers) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	isOn, err := domain.ParseStatus(req.Status)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	up, err := h.statusSvc.Set(c.Request.Context(), isOn)
	if err != nil {
		failErr(c, http.StatusInternalServerError, ErrCodeStatusUpdateFailed, "could not save power status", err)
		return
	}
	ok(c, http.StatusOK, SetStatusResponse{
		StatusView: domain.NewStatusView(&up.Status, h.loc),
		Created:    up.Created,
		Changed:    up.Changed,
	})
}
