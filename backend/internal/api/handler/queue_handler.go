package handler

import (
	"github.com/gin-gonic/gin"

	"helpdesk-system/backend/internal/dto"
	"helpdesk-system/backend/internal/service"
	"helpdesk-system/backend/pkg/response"
)

// QueueHandler serves the help queue.
type QueueHandler struct {
	queueSvc service.QueueService
}

// NewQueueHandler creates a QueueHandler.
func NewQueueHandler(queueSvc service.QueueService) *QueueHandler {
	return &QueueHandler{queueSvc: queueSvc}
}

// Add puts a student in the queue of a topic.
// POST /api/queue
func (h *QueueHandler) Add(c *gin.Context) {
	var req dto.AddQueueItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.queueSvc.Add(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// Update edits the topic and description of an item.
// PATCH /api/queue
func (h *QueueHandler) Update(c *gin.Context) {
	var req dto.UpdateQueueItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.queueSvc.Update(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateStatus marks an item helped or removed.
// PATCH /api/queue/UpdateQueueItemStatus
func (h *QueueHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateQueueItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.queueSvc.UpdateStatus(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// ListByHelpdesk lists the active queue of a helpdesk.
// GET /api/queue/helpdesk/:id
func (h *QueueHandler) ListByHelpdesk(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.queueSvc.ListByHelpdesk(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// ListByCheckIn lists every item raised under a check-in.
// GET /api/queue/checkin/:id
func (h *QueueHandler) ListByCheckIn(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.queueSvc.ListByCheckIn(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}
