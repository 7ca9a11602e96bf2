package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "billing/internal/errors"
	"billing/internal/middleware"
	"billing/internal/report"
	"billing/internal/services"
)

// ReportHandler renders wallet activity reports.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ReportResponse wraps the JSON report.
type ReportResponse struct {
	Results []report.Row `json:"results"`
}

// GetReport renders a user's entries in the requested format
// @Summary     Wallet activity report
// @Description Entries of a user's wallet, newest first. Staff may report on any user; others only on themselves.
// @Tags        reports
// @Produce     json,text/csv,application/xml,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       username  query string false "Username (default: caller)"
// @Param       date_from query string false "Inclusive start (RFC3339 or YYYY-MM-DD)"
// @Param       date_to   query string false "Inclusive end (RFC3339, or YYYY-MM-DD for the whole day)"
// @Param       format    query string false "json (default), csv, xlsx or xml"
// @Success     200 {object} ReportResponse "Report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Report on another user requested by non-staff"
// @Router      /reports [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	caller := c.GetString(middleware.ContextUsername)
	username := c.DefaultQuery("username", caller)
	if username != caller && !c.GetBool(middleware.ContextIsStaff) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrForbidden, "Only staff may report on other users"))
		return
	}

	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	filter := services.ReportFilter{Username: username}
	if v := c.Query("date_from"); v != "" {
		from, err := parseFlexibleTime(v)
		if err != nil {
			respondWithError(c, invalidInput(err))
			return
		}
		filter.DateFrom = &from
	}
	if v := c.Query("date_to"); v != "" {
		to, err := parseRangeEnd(v)
		if err != nil {
			respondWithError(c, invalidInput(err))
			return
		}
		filter.DateTo = &to
	}

	rows, err := h.reportService.GenerateReport(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if format == report.FormatJSON {
		c.JSON(http.StatusOK, ReportResponse{Results: rows})
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, format, rows); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(username, format)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
