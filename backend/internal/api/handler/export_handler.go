package handler

import (
	"bytes"
	"context"

	"github.com/gin-gonic/gin"

	"helpdesk-system/backend/internal/service"
	"helpdesk-system/backend/pkg/response"
)

const (
	contentTypeZip      = "application/zip"
	contentTypeXLSX     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCalendar = "text/calendar; charset=utf-8"
)

// ExportHandler serves database exports.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportDatabase downloads every table, as CSV files in a zip by default
// or as one workbook with ?format=xlsx.
// GET /api/exportdatabase
func (h *ExportHandler) ExportDatabase(c *gin.Context) {
	var (
		export      func(context.Context) (*bytes.Buffer, string, error)
		contentType string
	)
	switch c.DefaultQuery("format", "zip") {
	case "zip":
		export, contentType = h.exportSvc.ExportZip, contentTypeZip
	case "xlsx":
		export, contentType = h.exportSvc.ExportWorkbook, contentTypeXLSX
	default:
		response.BadRequest(c, codeValidation, "format must be zip or xlsx.")
		return
	}

	buf, filename, err := export(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response.Attachment(c, filename, contentType, buf.Bytes())
}
