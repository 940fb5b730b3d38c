package handler

import (
	"github.com/gin-gonic/gin"

	"helpdesk-system/backend/internal/dto"
	"helpdesk-system/backend/internal/service"
	"helpdesk-system/backend/pkg/response"
)

// StudentHandler serves student nicknames.
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler creates a StudentHandler.
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// List lists every registered nickname.
// GET /api/student
func (h *StudentHandler) List(c *gin.Context) {
	result, err := h.studentSvc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result)
}

// GetByNickname looks a student up by nickname.
// GET /api/student/nickname/:nickname
func (h *StudentHandler) GetByNickname(c *gin.Context) {
	result, err := h.studentSvc.GetByNickname(c.Request.Context(), c.Param("nickname"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result)
}

// Add registers a nickname.
// POST /api/student
func (h *StudentHandler) Add(c *gin.Context) {
	var req dto.AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.studentSvc.Add(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// Edit renames a student.
// PATCH /api/student/nickname
func (h *StudentHandler) Edit(c *gin.Context) {
	var req dto.EditStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.studentSvc.Edit(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// Validate tells a client whether a nickname can be used.
// 200: free to register. 202: already belongs to this student, returned
// in data. 404: unknown and no SID to match on.
// POST /api/student/validate
func (h *StudentHandler) Validate(c *gin.Context) {
	var req dto.ValidateNicknameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.studentSvc.Validate(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	switch result.Outcome {
	case service.NicknameRegistered:
		response.Accepted(c, "Nickname already registered.", result.Student)
	case service.NicknameUnknown:
		response.NotFound(c, codeNotFound, service.ErrStudentNotFound.Error())
	default:
		response.OK(c, nil)
	}
}

// Generate returns a random unused nickname.
// GET /api/student/generate
func (h *StudentHandler) Generate(c *gin.Context) {
	nickname, err := h.studentSvc.Generate(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, dto.GeneratedNicknameResponse{Nickname: nickname})
}
