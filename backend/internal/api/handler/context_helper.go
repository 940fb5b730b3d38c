package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"helpdesk-system/backend/pkg/response"
)

// MustGetUserID extracts the user_id set by the JWT middleware.
// On failure it writes a 401 and returns false; the caller should return.
func MustGetUserID(c *gin.Context) (int, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "Not authenticated.")
		return 0, false
	}
	id, ok := v.(int)
	if !ok || id <= 0 {
		response.Unauthorized(c, 10002, "Not authenticated.")
		return 0, false
	}
	return id, true
}

// tokenInfo returns the jti and expiry of the current token, if any.
func tokenInfo(c *gin.Context) (string, time.Time) {
	jti := c.GetString("token_jti")
	exp, _ := c.Get("token_exp")
	expiresAt, _ := exp.(time.Time)
	return jti, expiresAt
}

// pathID parses a positive integer path parameter. On failure it writes
// a 400 and returns false.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "Invalid "+name+".")
		return 0, false
	}
	return id, true
}
