package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/service"
	appErrors "github.com/realronaldrump/faculty-schedules-sub011/pkg/errors"
	"github.com/realronaldrump/faculty-schedules-sub011/pkg/response"
)

// ExportHandler serves schedule exports.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ExportTerm godoc
// @Summary Export a term's schedules
// @Description Download every schedule record in a term as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param term path string true "Term name"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /exports/schedules/{term} [get]
func (h *ExportHandler) ExportTerm(c *gin.Context) {
	term := c.Param("term")
	format := c.DefaultQuery("format", "csv")

	var (
		payload     []byte
		filename    string
		contentType string
		err         error
	)
	switch format {
	case "csv":
		payload, filename, err = h.exports.ExportTermCSV(c.Request.Context(), term)
		contentType = "text/csv"
	case "pdf":
		payload, filename, err = h.exports.ExportTermPDF(c.Request.Context(), term)
		contentType = "application/pdf"
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, payload)
}
