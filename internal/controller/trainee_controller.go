package controller

import (
	"strconv"

	"formation_quiz_backend/internal/service"
	"formation_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TraineeController covers the admin management of trainee accounts.
type TraineeController struct {
	UserService *service.UserService
}

func NewTraineeController(userService *service.UserService) *TraineeController {
	return &TraineeController{UserService: userService}
}

// Create godoc
// @Summary Register a trainee
// @Tags trainees
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreateTraineeInput true "Trainee account"
// @Success 201 {object} util.Response{data=model.TraineeProfile}
// @Failure 400 {object} util.Response
// @Router /api/admin/trainees [post]
func (c *TraineeController) Create(ctx *gin.Context) {
	var input service.CreateTraineeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.UserService.CreateTrainee(input)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, profile)
}

// List godoc
// @Summary List trainees
// @Tags trainees
// @Produce  json
// @Security BearerAuth
// @Param   search query string false "Name, email or company"
// @Param   page query int false "Page, starting at 1"
// @Param   limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/trainees [get]
func (c *TraineeController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	profiles, total, err := c.UserService.ListTrainees(ctx.Query("search"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  profiles,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Get godoc
// @Summary Trainee detail
// @Tags trainees
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Trainee profile id"
// @Success 200 {object} util.Response{data=model.TraineeProfile}
// @Failure 404 {object} util.Response
// @Router /api/admin/trainees/{id} [get]
func (c *TraineeController) Get(ctx *gin.Context) {
	profile, err := c.UserService.GetTrainee(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// Update godoc
// @Summary Update a trainee
// @Tags trainees
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Trainee profile id"
// @Param   body body service.UpdateTraineeInput true "Fields to update"
// @Success 200 {object} util.Response{data=model.TraineeProfile}
// @Failure 404 {object} util.Response
// @Router /api/admin/trainees/{id} [put]
func (c *TraineeController) Update(ctx *gin.Context) {
	var input service.UpdateTraineeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.UserService.UpdateTrainee(util.MustParseUint(ctx.Param("id")), input)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// Deactivate godoc
// @Summary Deactivate a trainee account
// @Description Disables the account; parcours history is preserved
// @Tags trainees
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Trainee profile id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/trainees/{id} [delete]
func (c *TraineeController) Deactivate(ctx *gin.Context) {
	if err := c.UserService.DeactivateTrainee(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "trainee deactivated"})
}
