package controller

import (
	"strconv"

	"formation_quiz_backend/internal/repository"
	"formation_quiz_backend/internal/service"
	"formation_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionnaireController struct {
	QuestionnaireService *service.QuestionnaireService
}

func NewQuestionnaireController(questionnaireService *service.QuestionnaireService) *QuestionnaireController {
	return &QuestionnaireController{QuestionnaireService: questionnaireService}
}

// Create godoc
// @Summary Create a questionnaire
// @Tags questionnaires
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.QuestionnaireInput true "Questionnaire"
// @Success 201 {object} util.Response{data=model.Questionnaire}
// @Failure 400 {object} util.Response
// @Router /api/admin/questionnaires [post]
func (c *QuestionnaireController) Create(ctx *gin.Context) {
	var input service.QuestionnaireInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuestionnaireService.Create(input)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

func intQuery(ctx *gin.Context, name string) *int {
	raw := ctx.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// List godoc
// @Summary List questionnaires with filters
// @Tags questionnaires
// @Produce  json
// @Security BearerAuth
// @Param   search query string false "Name or description"
// @Param   duration_min query int false "Minimum duration in minutes"
// @Param   duration_max query int false "Maximum duration in minutes"
// @Param   questions_min query int false "Minimum question count"
// @Param   questions_max query int false "Maximum question count"
// @Param   has_parcours query bool false "Only questionnaires with (or without) passages"
// @Param   recently_used_days query int false "Used within the last N days"
// @Param   page query int false "Page, starting at 1"
// @Param   limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/questionnaires [get]
func (c *QuestionnaireController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	filter := repository.QuestionnaireFilter{
		Search:       ctx.Query("search"),
		DurationMin:  intQuery(ctx, "duration_min"),
		DurationMax:  intQuery(ctx, "duration_max"),
		QuestionsMin: intQuery(ctx, "questions_min"),
		QuestionsMax: intQuery(ctx, "questions_max"),
		Page:         page,
		Limit:        limit,
	}
	if raw := ctx.Query("has_parcours"); raw != "" {
		has := raw == "true" || raw == "1"
		filter.HasParcours = &has
	}
	if days := intQuery(ctx, "recently_used_days"); days != nil {
		filter.RecentlyUsedDays = *days
	}

	items, total, err := c.QuestionnaireService.List(filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  items,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Get godoc
// @Summary Questionnaire detail with questions
// @Tags questionnaires
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Questionnaire id"
// @Success 200 {object} util.Response{data=model.Questionnaire}
// @Failure 404 {object} util.Response
// @Router /api/admin/questionnaires/{id} [get]
func (c *QuestionnaireController) Get(ctx *gin.Context) {
	q, err := c.QuestionnaireService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// Update godoc
// @Summary Update a questionnaire
// @Tags questionnaires
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Questionnaire id"
// @Param   body body service.QuestionnaireInput true "Questionnaire"
// @Success 200 {object} util.Response{data=model.Questionnaire}
// @Failure 404 {object} util.Response
// @Router /api/admin/questionnaires/{id} [put]
func (c *QuestionnaireController) Update(ctx *gin.Context) {
	var input service.QuestionnaireInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuestionnaireService.Update(util.MustParseUint(ctx.Param("id")), input)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// Delete godoc
// @Summary Delete a questionnaire
// @Description Refused while any parcours references it
// @Tags questionnaires
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Questionnaire id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Parcours recorded against it"
// @Router /api/admin/questionnaires/{id} [delete]
func (c *QuestionnaireController) Delete(ctx *gin.Context) {
	if err := c.QuestionnaireService.Delete(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "questionnaire deleted"})
}

// AddQuestion godoc
// @Summary Add a question to a questionnaire
// @Description A question carries 2 to 5 answers, at least one correct
// @Tags questions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Questionnaire id"
// @Param   body body service.QuestionInput true "Question with answers"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Router /api/admin/questionnaires/{id}/questions [post]
func (c *QuestionnaireController) AddQuestion(ctx *gin.Context) {
	var input service.QuestionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuestionnaireService.AddQuestion(util.MustParseUint(ctx.Param("id")), input)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// GetQuestion godoc
// @Summary Question detail
// @Tags questions
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Question id"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response
// @Router /api/admin/questions/{id} [get]
func (c *QuestionnaireController) GetQuestion(ctx *gin.Context) {
	q, err := c.QuestionnaireService.GetQuestion(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// UpdateQuestion godoc
// @Summary Update a question
// @Description Refused once the question has recorded answers
// @Tags questions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Question id"
// @Param   body body service.QuestionInput true "Question with answers"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 409 {object} util.Response "Answers recorded against it"
// @Router /api/admin/questions/{id} [put]
func (c *QuestionnaireController) UpdateQuestion(ctx *gin.Context) {
	var input service.QuestionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuestionnaireService.UpdateQuestion(util.MustParseUint(ctx.Param("id")), input)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Description Refused once the question has recorded answers
// @Tags questions
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Question id"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "Answers recorded against it"
// @Router /api/admin/questions/{id} [delete]
func (c *QuestionnaireController) DeleteQuestion(ctx *gin.Context) {
	if err := c.QuestionnaireService.DeleteQuestion(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "question deleted"})
}
