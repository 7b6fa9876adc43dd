package controller

import (
	"aula_virtual_backend/internal/service"
	"aula_virtual_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Scoring *service.ScoringService
}

func NewQuizController(scoring *service.ScoringService) *QuizController {
	return &QuizController{Scoring: scoring}
}

// @Summary Submit quiz answers
// @Description Grades the submission server-side; passing submissions get a verify code and a certificate folio
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "Quiz ID"
// @Param body body service.QuizSubmissionRequest true "Learner identity and answers"
// @Success 201 {object} util.Response{data=service.SubmissionResult}
// @Failure 400 {object} util.Response
// @Router /quizzes/{quizId}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	quizID, err := strconv.Atoi(ctx.Param("quizId"))
	if err != nil || quizID <= 0 {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	var req service.QuizSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	principal := util.GetUserFromContext(ctx)
	if principal == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.Scoring.SubmitQuiz(principal, uint(quizID), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, result)
}
