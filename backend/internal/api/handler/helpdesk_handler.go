package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"helpdesk-system/backend/internal/dto"
	"helpdesk-system/backend/internal/service"
	"helpdesk-system/backend/pkg/response"
)

// HelpdeskHandler serves helpdesks and their timespans.
type HelpdeskHandler struct {
	helpdeskSvc service.HelpdeskService
}

// NewHelpdeskHandler creates a HelpdeskHandler.
func NewHelpdeskHandler(helpdeskSvc service.HelpdeskService) *HelpdeskHandler {
	return &HelpdeskHandler{helpdeskSvc: helpdeskSvc}
}

// ── helpdesk ──

// List lists every helpdesk, deleted ones included.
// GET /api/helpdesk
func (h *HelpdeskHandler) List(c *gin.Context) {
	h.list(c, false)
}

// ListActive lists helpdesks that are not deleted.
// GET /api/helpdesk/active
func (h *HelpdeskHandler) ListActive(c *gin.Context) {
	h.list(c, true)
}

// list backs both the full and the active-only listing.
func (h *HelpdeskHandler) list(c *gin.Context, activeOnly bool) {
	result, err := h.helpdeskSvc.List(c.Request.Context(), activeOnly)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result)
}

// Get returns one helpdesk.
// GET /api/helpdesk/:id
func (h *HelpdeskHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.helpdeskSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// Create adds a helpdesk.
// POST /api/helpdesk
func (h *HelpdeskHandler) Create(c *gin.Context) {
	var req dto.CreateHelpdeskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.helpdeskSvc.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// Update changes the given fields of a helpdesk.
// PATCH /api/helpdesk
func (h *HelpdeskHandler) Update(c *gin.Context) {
	var req dto.UpdateHelpdeskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.helpdeskSvc.Update(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete soft deletes a helpdesk.
// DELETE /api/helpdesk/:id
func (h *HelpdeskHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.helpdeskSvc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, nil)
}

// Clear force-checks-out every student of a helpdesk and empties its queue.
// DELETE /api/helpdesk/:id/clear
func (h *HelpdeskHandler) Clear(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.helpdeskSvc.ForceCheckoutAll(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// ── timespan ──

// ListTimespans lists every timespan.
// GET /api/helpdesk/timespan
func (h *HelpdeskHandler) ListTimespans(c *gin.Context) {
	result, err := h.helpdeskSvc.ListTimespans(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result)
}

// GetTimespan returns one timespan.
// GET /api/helpdesk/timespan/:id
func (h *HelpdeskHandler) GetTimespan(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.helpdeskSvc.GetTimespan(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// CreateTimespan adds a timespan.
// POST /api/helpdesk/timespan
func (h *HelpdeskHandler) CreateTimespan(c *gin.Context) {
	var req dto.CreateTimespanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.helpdeskSvc.CreateTimespan(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateTimespan replaces a timespan's name and range.
// PATCH /api/helpdesk/timespan
func (h *HelpdeskHandler) UpdateTimespan(c *gin.Context) {
	var req dto.UpdateTimespanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.helpdeskSvc.UpdateTimespan(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteTimespan deletes a timespan.
// DELETE /api/helpdesk/timespan/:id
func (h *HelpdeskHandler) DeleteTimespan(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.helpdeskSvc.DeleteTimespan(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, nil)
}

// Calendar downloads the helpdesk's timespans as an iCalendar file.
// GET /api/helpdesk/:id/calendar
func (h *HelpdeskHandler) Calendar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	cal, err := h.helpdeskSvc.TimespanCalendar(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Attachment(c, fmt.Sprintf("helpdesk_%d_timespans.ics", id), contentTypeCalendar, []byte(cal))
}
