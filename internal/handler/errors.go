package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/exam"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/oracle"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/response"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/service"
)

// failFromErr maps domain errors onto the response envelope. Anything
// unrecognized becomes a 500.
func failFromErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveSession):
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
	case errors.Is(err, service.ErrNoActiveSprint):
		response.Fail(c, http.StatusNotFound, response.ErrSprintNotFound)
	case errors.Is(err, service.ErrActiveSessionExists):
		response.Fail(c, http.StatusConflict, response.ErrSessionActive)
	case errors.Is(err, service.ErrQuestionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrQuestionNotFound)
	case errors.Is(err, service.ErrJudgeUnavailable):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrJudgeUnavailable)
	case errors.Is(err, service.ErrPersistence):
		response.Fail(c, http.StatusInternalServerError, response.ErrPersistenceFailed)
	case errors.Is(err, exam.ErrSessionCompleted):
		response.Fail(c, http.StatusConflict, response.ErrSessionCompleted)
	case errors.Is(err, exam.ErrGradingInFlight), errors.Is(err, exam.ErrBadTransition):
		response.Fail(c, http.StatusConflict, response.ErrBadTransition)
	case errors.Is(err, exam.ErrSprintIncomplete):
		response.Fail(c, http.StatusConflict, response.ErrSprintIncomplete)
	case errors.Is(err, oracle.ErrGeneration):
		response.Fail(c, http.StatusBadGateway, response.ErrGenerationFailed)
	case errors.Is(err, oracle.ErrEvaluation):
		response.Fail(c, http.StatusBadGateway, response.ErrEvaluationFailed)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
