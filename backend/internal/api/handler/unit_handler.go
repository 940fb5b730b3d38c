package handler

import (
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"helpdesk-system/backend/internal/dto"
	"helpdesk-system/backend/internal/service"
	"helpdesk-system/backend/pkg/response"
)

// UnitHandler serves units and their topics.
type UnitHandler struct {
	unitSvc service.UnitService
}

// NewUnitHandler creates a UnitHandler.
func NewUnitHandler(unitSvc service.UnitService) *UnitHandler {
	return &UnitHandler{unitSvc: unitSvc}
}

// Get returns one unit with its topics.
// GET /api/units/:id
func (h *UnitHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.unitSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// ListByHelpdesk lists the units of a helpdesk. ?active=true hides deleted ones.
// GET /api/units/helpdesk/:id
func (h *UnitHandler) ListByHelpdesk(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var q dto.UnitListRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.unitSvc.ListByHelpdesk(c.Request.Context(), id, q.ActiveOnly)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// Create adds a unit to a helpdesk.
// POST /api/units
func (h *UnitHandler) Create(c *gin.Context) {
	var req dto.SaveUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	req.UnitID = 0

	result, err := h.unitSvc.Save(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// Update changes a unit and syncs its topic list.
// PATCH /api/units
func (h *UnitHandler) Update(c *gin.Context) {
	var req dto.SaveUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.UnitID == 0 {
		response.BadRequest(c, codeValidation, "unit_id is required.")
		return
	}

	result, err := h.unitSvc.Save(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete soft deletes a unit and its topics.
// DELETE /api/units/:id
func (h *UnitHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.unitSvc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, nil)
}

// Import adds units from an uploaded xlsx file.
// POST /api/units/import/:helpdeskId (multipart field "file")
func (h *UnitHandler) Import(c *gin.Context) {
	helpdeskID, ok := pathID(c, "helpdeskId")
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, codeValidation, "Please upload a spreadsheet in field file.")
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".xlsx") {
		response.BadRequest(c, codeValidation, "Only .xlsx files are supported.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer f.Close()

	result, err := h.unitSvc.Import(c.Request.Context(), helpdeskID, f)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// TopicHandler serves topic reads.
type TopicHandler struct {
	topicSvc service.TopicService
}

// NewTopicHandler creates a TopicHandler.
func NewTopicHandler(topicSvc service.TopicService) *TopicHandler {
	return &TopicHandler{topicSvc: topicSvc}
}

// ListByUnit lists the live topics of a unit.
// GET /api/topics/unit/:id
func (h *TopicHandler) ListByUnit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.topicSvc.ListByUnit(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}
