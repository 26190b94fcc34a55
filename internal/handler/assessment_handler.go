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

// AssessmentHandler handles the exam session endpoints.
type AssessmentHandler struct {
	assessments *service.AssessmentService
}

// NewAssessmentHandler creates a new AssessmentHandler.
func NewAssessmentHandler(assessments *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments}
}

// StartExam godoc
// POST /api/v1/exams
// Generates a fresh exam for the company/role/level and opens a session.
func (h *AssessmentHandler) StartExam(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.StartExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.assessments.StartExam(c.Request.Context(), userID, &req)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": session})
}

// GetCurrent godoc
// GET /api/v1/exams/current
// Returns the live session snapshot and countdown.
func (h *AssessmentHandler) GetCurrent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	session, remaining, err := h.assessments.Current(userID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"session":           session,
		"remaining_seconds": remaining,
	})
}

// Begin godoc
// POST /api/v1/exams/current/begin
// Leaves the intro screen and enters the timed run.
func (h *AssessmentHandler) Begin(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	session, err := h.assessments.Begin(c.Request.Context(), userID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// Navigate godoc
// POST /api/v1/exams/current/navigate
// Moves the active section/question pointer; out-of-range indices clamp.
func (h *AssessmentHandler) Navigate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.NavigateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.assessments.Navigate(c.Request.Context(), userID, &req)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// SaveAnswer godoc
// PUT /api/v1/exams/current/answers/:question_id
// Merges a partial answer: MCQ selection or per-language code text. An empty
// coding answer seeds the editor with starter code.
func (h *AssessmentHandler) SaveAnswer(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.AnswerPatchRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	answer, err := h.assessments.SaveAnswer(c.Request.Context(), userID, c.Param("question_id"), &req)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"answer": answer})
}

// RunCode godoc
// POST /api/v1/exams/current/answers/:question_id/run
// Judges the submitted code. The code is saved even when the judge is down;
// the previous run result is kept in that case.
func (h *AssessmentHandler) RunCode(c *gin.Context) {
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

	result, err := h.assessments.RunCode(c.Request.Context(), userID, c.Param("question_id"), &req)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Complete godoc
// POST /api/v1/exams/current/complete
// Grades and freezes the session. Idempotent: a repeat call returns the same
// frozen session without re-grading.
func (h *AssessmentHandler) Complete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	session, err := h.assessments.Complete(c.Request.Context(), userID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// Resume godoc
// POST /api/v1/exams/resume
// Rebuilds the live session from the latest checkpoint after a disconnect or
// server restart.
func (h *AssessmentHandler) Resume(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	session, err := h.assessments.Resume(c.Request.Context(), userID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}
