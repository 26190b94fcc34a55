package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/middleware"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/response"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/service"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/validator"
)

// PracticeHandler handles the practice sprint endpoints.
type PracticeHandler struct {
	practice *service.PracticeService
}

// NewPracticeHandler creates a new PracticeHandler.
func NewPracticeHandler(practice *service.PracticeService) *PracticeHandler {
	return &PracticeHandler{practice: practice}
}

// StartSprint godoc
// POST /api/v1/practice
// Generates a question set for the topic/difficulty and opens a sprint.
func (h *PracticeHandler) StartSprint(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.StartSprintRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.practice.StartSprint(c.Request.Context(), userID, &req)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"sprint": session})
}

// GetCurrent godoc
// GET /api/v1/practice/current
// Returns the live sprint snapshot.
func (h *PracticeHandler) GetCurrent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	session, err := h.practice.Current(userID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sprint": session})
}

// SubmitAttempt godoc
// POST /api/v1/practice/current/attempts/:question_id
// Judges and records an attempt; re-submitting overwrites the earlier one.
func (h *PracticeHandler) SubmitAttempt(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.RunCodeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attempt, err := h.practice.SubmitAttempt(c.Request.Context(), userID, c.Param("question_id"), &req)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// FinalizeSprint godoc
// POST /api/v1/practice/current/finalize?confirm=true
// Closes the sprint. A partially answered sprint requires confirm=true and
// fills the gaps with zero-score placeholder attempts.
func (h *PracticeHandler) FinalizeSprint(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	confirm := c.Query("confirm") == "true"

	session, err := h.practice.FinalizeSprint(c.Request.Context(), userID, confirm)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sprint": session})
}
