package handler

import (
	"github.com/gin-gonic/gin"

	"helpdesk-system/backend/internal/dto"
	"helpdesk-system/backend/internal/service"
	"helpdesk-system/backend/pkg/response"
)

// UserHandler serves staff login and account admin.
type UserHandler struct {
	userSvc service.UserService
	authSvc service.AuthService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(userSvc service.UserService, authSvc service.AuthService) *UserHandler {
	return &UserHandler{userSvc: userSvc, authSvc: authSvc}
}

// Login issues a bearer token. A first-time user gets 202 and must set a
// password through PATCH /api/users before the token opens staff routes.
// POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	if result.FirstTime {
		response.Accepted(c, "Password change required.", result)
		return
	}
	response.OK(c, result)
}

// Logout revokes the current token.
// POST /api/users/logout
func (h *UserHandler) Logout(c *gin.Context) {
	jti, expiresAt := tokenInfo(c)
	if err := h.authSvc.Logout(c.Request.Context(), jti, expiresAt); err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, nil)
}

// List lists staff users.
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	result, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result)
}

// Get returns one staff user.
// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.userSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// Create adds a staff user whose password defaults to the username.
// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.userSvc.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// Update changes a username and password.
// PATCH /api/users
func (h *UserHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.userSvc.Update(c.Request.Context(), &req, callerID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete removes a staff user other than the caller.
// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, nil)
}
