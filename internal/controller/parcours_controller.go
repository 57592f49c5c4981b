package controller

import (
	"formation_quiz_backend/internal/service"
	"formation_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ParcoursController carries the whole trainee flow, from picking a
// questionnaire to reading the detailed results.
type ParcoursController struct {
	ParcoursService *service.ParcoursService
	UserService     *service.UserService
}

func NewParcoursController(parcoursService *service.ParcoursService, userService *service.UserService) *ParcoursController {
	return &ParcoursController{
		ParcoursService: parcoursService,
		UserService:     userService,
	}
}

// traineeID resolves the authenticated user to its trainee profile.
func (c *ParcoursController) traineeID(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	profile, err := c.UserService.GetTraineeByUserID(claims.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return 0, false
	}
	return profile.ID, true
}

// Available godoc
// @Summary Questionnaires the trainee can start
// @Tags parcours
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.AvailableQuestionnaire}
// @Router /api/trainee/questionnaires [get]
func (c *ParcoursController) Available(ctx *gin.Context) {
	traineeID, ok := c.traineeID(ctx)
	if !ok {
		return
	}

	items, err := c.ParcoursService.ListAvailable(traineeID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// Start godoc
// @Summary Start a parcours
// @Description One open parcours per questionnaire and trainee
// @Tags parcours
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.StartParcoursInput true "Questionnaire and mode"
// @Success 201 {object} util.Response{data=model.Parcours}
// @Failure 409 {object} util.Response "Already in progress"
// @Router /api/trainee/parcours [post]
func (c *ParcoursController) Start(ctx *gin.Context) {
	traineeID, ok := c.traineeID(ctx)
	if !ok {
		return
	}

	var input service.StartParcoursInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	p, err := c.ParcoursService.Start(traineeID, input)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, p)
}

// ListMine godoc
// @Summary The trainee's parcours history
// @Tags parcours
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Parcours}
// @Router /api/trainee/parcours [get]
func (c *ParcoursController) ListMine(ctx *gin.Context) {
	traineeID, ok := c.traineeID(ctx)
	if !ok {
		return
	}

	items, err := c.ParcoursService.ListMine(traineeID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// Detail godoc
// @Summary Parcours progress
// @Description Reading an expired open parcours abandons it and returns 410
// @Tags parcours
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Parcours id"
// @Success 200 {object} util.Response{data=model.ParcoursDetail}
// @Failure 410 {object} util.Response "Time limit exceeded"
// @Router /api/trainee/parcours/{id} [get]
func (c *ParcoursController) Detail(ctx *gin.Context) {
	traineeID, ok := c.traineeID(ctx)
	if !ok {
		return
	}

	detail, err := c.ParcoursService.GetDetail(util.MustParseUint(ctx.Param("id")), traineeID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// CurrentQuestion godoc
// @Summary Next unanswered question
// @Tags parcours
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Parcours id"
// @Success 200 {object} util.Response{data=model.CurrentQuestionView}
// @Failure 409 {object} util.Response "No question left or parcours closed"
// @Failure 410 {object} util.Response "Time limit exceeded"
// @Router /api/trainee/parcours/{id}/question [get]
func (c *ParcoursController) CurrentQuestion(ctx *gin.Context) {
	traineeID, ok := c.traineeID(ctx)
	if !ok {
		return
	}

	view, err := c.ParcoursService.CurrentQuestion(util.MustParseUint(ctx.Param("id")), traineeID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// SubmitAnswer godoc
// @Summary Answer the current question
// @Tags parcours
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Parcours id"
// @Param   body body service.SubmitAnswerInput true "Selection"
// @Success 201 {object} util.Response{data=model.UserAnswer}
// @Failure 409 {object} util.Response "Already answered or invalid selection"
// @Failure 410 {object} util.Response "Time limit exceeded"
// @Router /api/trainee/parcours/{id}/answers [post]
func (c *ParcoursController) SubmitAnswer(ctx *gin.Context) {
	traineeID, ok := c.traineeID(ctx)
	if !ok {
		return
	}

	var input service.SubmitAnswerInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.ParcoursService.SubmitAnswer(util.MustParseUint(ctx.Param("id")), traineeID, input)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, answer)
}

// FinishParcoursRequest optionally carries the client's own elapsed timer.
type FinishParcoursRequest struct {
	TimeSpentSec *int `json:"timeSpentSec"`
}

// Finish godoc
// @Summary Complete a parcours and grade it
// @Tags parcours
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Parcours id"
// @Param   body body controller.FinishParcoursRequest false "Client-side elapsed time"
// @Success 200 {object} util.Response{data=model.Parcours}
// @Failure 409 {object} util.Response "Not in progress"
// @Failure 410 {object} util.Response "Time limit exceeded"
// @Router /api/trainee/parcours/{id}/finish [post]
func (c *ParcoursController) Finish(ctx *gin.Context) {
	traineeID, ok := c.traineeID(ctx)
	if !ok {
		return
	}

	var req FinishParcoursRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	p, err := c.ParcoursService.Finish(util.MustParseUint(ctx.Param("id")), traineeID, req.TimeSpentSec)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// Abandon godoc
// @Summary Give up an open parcours
// @Tags parcours
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Parcours id"
// @Success 200 {object} util.Response{data=model.Parcours}
// @Failure 409 {object} util.Response "Not in progress"
// @Router /api/trainee/parcours/{id}/abandon [post]
func (c *ParcoursController) Abandon(ctx *gin.Context) {
	traineeID, ok := c.traineeID(ctx)
	if !ok {
		return
	}

	p, err := c.ParcoursService.Abandon(util.MustParseUint(ctx.Param("id")), traineeID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// Results godoc
// @Summary Summary of a finished parcours
// @Tags parcours
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Parcours id"
// @Success 200 {object} util.Response{data=model.ParcoursResult}
// @Failure 409 {object} util.Response "Still in progress"
// @Router /api/trainee/parcours/{id}/results [get]
func (c *ParcoursController) Results(ctx *gin.Context) {
	traineeID, ok := c.traineeID(ctx)
	if !ok {
		return
	}

	result, err := c.ParcoursService.Results(util.MustParseUint(ctx.Param("id")), traineeID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// MyRecommendations godoc
// @Summary Advice from the trainee's completed parcours
// @Tags parcours
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ParcoursRecommendation}
// @Router /api/trainee/recommendations [get]
func (c *ParcoursController) MyRecommendations(ctx *gin.Context) {
	traineeID, ok := c.traineeID(ctx)
	if !ok {
		return
	}

	items, err := c.ParcoursService.MyRecommendations(traineeID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// DetailedResults godoc
// @Summary Per-question breakdown and recommendations
// @Tags parcours
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Parcours id"
// @Success 200 {object} util.Response{data=model.DetailedParcoursResult}
// @Failure 409 {object} util.Response "Not completed"
// @Router /api/trainee/parcours/{id}/results/detailed [get]
func (c *ParcoursController) DetailedResults(ctx *gin.Context) {
	traineeID, ok := c.traineeID(ctx)
	if !ok {
		return
	}

	result, err := c.ParcoursService.DetailedResults(util.MustParseUint(ctx.Param("id")), traineeID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
