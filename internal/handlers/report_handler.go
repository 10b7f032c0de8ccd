package handlers

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "troskovi/internal/errors"
	"troskovi/internal/report"
	"troskovi/internal/services"
)

// ReportHandler serves monthly aggregations and document exports.
type ReportHandler struct {
	reportService services.ReportServicer
	exportService services.ExportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer, exportService services.ExportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService, exportService: exportService}
}

type exportURI struct {
	Format string `uri:"format" binding:"required,export_format"`
}

// GetReport handles computing a month's report
// @Summary     Monthly report
// @Description Totals, balance and per-category breakdown computed from the live rows
// @Tags        reports
// @Produce     json
// @Param       id    path int    true "Person ID"
// @Param       month path string true "Month (YYYY-MM)"
// @Success     200 {object} services.MonthlySummary "Monthly summary"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     404 {object} ErrorResponse "Person not found"
// @Router      /persons/{id}/months/{month}/report [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	personID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.ComputeReport(c.Request.Context(), personID, c.Param("month"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": summary})
}

// Export handles rendering a month as a document
// @Summary     Export month
// @Description Render the monthly report as PDF, DOCX or XLSX
// @Tags        reports
// @Produce     application/pdf
// @Produce     application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param       id     path int    true "Person ID"
// @Param       month  path string true "Month (YYYY-MM)"
// @Param       format path string true "pdf, docx or xlsx"
// @Success     200 {file} file "Document"
// @Failure     400 {object} ErrorResponse "Invalid month or format"
// @Failure     404 {object} ErrorResponse "Person not found"
// @Failure     500 {object} ErrorResponse "Render failed"
// @Router      /persons/{id}/months/{month}/export/{format} [get]
func (h *ReportHandler) Export(c *gin.Context) {
	personID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var uri exportURI
	if err := c.ShouldBindUri(&uri); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrUnsupportedFormat, "unsupported export format: "+c.Param("format")))
		return
	}
	format, err := report.ParseFormat(uri.Format)
	if err != nil {
		respondWithError(c, err)
		return
	}

	file, err := h.exportService.Render(c.Request.Context(), format, personID, c.Param("month"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
