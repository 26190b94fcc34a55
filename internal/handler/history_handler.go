package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/middleware"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/response"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/service"
)

// HistoryHandler handles the derived history endpoints.
type HistoryHandler struct {
	history *service.HistoryService
	report  *service.ReportService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(history *service.HistoryService, report *service.ReportService) *HistoryHandler {
	return &HistoryHandler{history: history, report: report}
}

// GetHistory godoc
// GET /api/v1/history
// Returns sessions (newest first), practice attempts, average readiness and
// discovered companies.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	history, err := h.history.History(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, history)
}

// GetPracticeStats godoc
// GET /api/v1/history/practice-stats
// Returns practice attempt tallies by difficulty bucket and topic.
func (h *HistoryHandler) GetPracticeStats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	stats, err := h.history.PracticeStats(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// ExportHistory godoc
// GET /api/v1/history/export
// Streams the user's history as an XLSX workbook.
func (h *HistoryHandler) ExportHistory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	workbook, err := h.report.ExportHistory(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("history-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := workbook.Write(c.Writer); err != nil {
		// Headers already sent; nothing recoverable here.
		c.Abort()
	}
}
