package handler

import (
	"github.com/gin-gonic/gin"

	"helpdesk-system/backend/internal/dto"
	"helpdesk-system/backend/internal/service"
	"helpdesk-system/backend/pkg/response"
)

// CheckInHandler serves student check-in and checkout.
type CheckInHandler struct {
	checkInSvc service.CheckInService
}

// NewCheckInHandler creates a CheckInHandler.
func NewCheckInHandler(checkInSvc service.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkInSvc: checkInSvc}
}

// CheckIn checks a student in to a unit.
// POST /api/checkin
func (h *CheckInHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.checkInSvc.CheckIn(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// CheckOut closes a check-in and drops its pending queue items.
// PATCH /api/checkin
func (h *CheckInHandler) CheckOut(c *gin.Context) {
	var req dto.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.checkInSvc.CheckOut(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// ListByHelpdesk lists the open check-ins of a helpdesk.
// GET /api/checkin/:id
func (h *CheckInHandler) ListByHelpdesk(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.checkInSvc.ListByHelpdesk(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}
