package gateway

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/export"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/models"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/storage"
)

// ExportRequest selects the rows to export.
type ExportRequest struct {
	TestCaseIDs []string `json:"testCaseIds"`
}

// ListExportFormats godoc
// @Summary List export formats
// @Tags export
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /export/formats [get]
func (h *Handler) ListExportFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "supportedFormats": h.exports.Formats()})
}

// ExportAll godoc
// @Summary Export all test cases
// @Tags export
// @Produce octet-stream
// @Param format path string true "Format name"
// @Success 200 {file} file
// @Failure 400 {object} models.ErrorResponse
// @Router /export/{format} [get]
func (h *Handler) ExportAll(c *gin.Context) {
	format := c.Param("format")
	if !h.checkFormat(c, format) {
		return
	}

	rows, err := h.store.List(c.Request.Context(), storage.Filter{})
	if err != nil {
		h.internalError(c, "Failed to fetch test cases", err)
		return
	}
	h.writeExport(c, format, rows)
}

// ExportSelected godoc
// @Summary Export selected test cases
// @Tags export
// @Accept json
// @Produce octet-stream
// @Param format path string true "Format name"
// @Param request body ExportRequest true "Row IDs"
// @Success 200 {file} file
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /export/{format} [post]
func (h *Handler) ExportSelected(c *gin.Context) {
	format := c.Param("format")
	if !h.checkFormat(c, format) {
		return
	}

	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.TestCaseIDs) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "testCaseIds array is required", Code: models.ErrCodeInvalidRequest})
		return
	}

	rows, err := h.store.FindByIDs(c.Request.Context(), req.TestCaseIDs)
	if err != nil {
		h.internalError(c, "Failed to fetch test cases", err)
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "No test cases found with provided IDs", Code: models.ErrCodeNotFound})
		return
	}
	h.writeExport(c, format, rows)
}

func (h *Handler) checkFormat(c *gin.Context, format string) bool {
	if _, err := h.exports.Lookup(format); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   err.Error(),
			Code:    models.ErrCodeUnsupportedFormat,
			Details: map[string]string{"format": format},
		})
		return false
	}
	return true
}

func (h *Handler) writeExport(c *gin.Context, format string, rows []models.TestCase) {
	doc, err := h.exports.Render(format, rows)
	if err != nil {
		var unsupported *export.UnsupportedFormatError
		if errors.As(err, &unsupported) {
			h.checkFormat(c, format)
			return
		}
		h.internalError(c, "Failed to export test cases", err)
		return
	}

	log.Printf(`{"level":"info","message":"Test cases exported","format":"%s","rows":%d}`, format, len(rows))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", doc.Filename))
	c.Data(http.StatusOK, doc.Format.ContentType, doc.Body)
}
