package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "helpdesk-system/backend/pkg/errors"
	"helpdesk-system/backend/pkg/response"
)

// Error codes in the response envelope.
const (
	codeValidation   = 10001
	codeUnauthorized = 10002
	codeForbidden    = 10003
	codeNotFound     = 10006
	codeConflict     = 10007
)

// writeError maps a service error to its HTTP status. Business errors
// carry their message to the client; anything else is a bare 500.
func writeError(c *gin.Context, err error) {
	switch pkgerrors.Kind(err) {
	case pkgerrors.ErrValidation:
		response.BadRequest(c, codeValidation, err.Error())
	case pkgerrors.ErrConflict:
		response.BadRequest(c, codeConflict, err.Error())
	case pkgerrors.ErrNotFound:
		response.NotFound(c, codeNotFound, err.Error())
	case pkgerrors.ErrForbidden:
		response.Forbidden(c, codeForbidden, err.Error())
	default:
		response.InternalError(c)
	}
}

// bindError answers a request body or query that failed to bind.
func bindError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "Request body too large.")
		return
	}
	response.BadRequest(c, codeValidation, "Invalid request parameters.")
}
