package controller

import (
	"net/http"
	"strconv"

	"formation_quiz_backend/internal/service"
	"formation_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ReportController exposes the admin analytics: syntheses, difficult
// questions, CSV exports and the recompute maintenance endpoint.
type ReportController struct {
	ReportService *service.ReportService
	StatsService  *service.StatsService
	ExportService *service.ExportService
}

func NewReportController(
	reportService *service.ReportService,
	statsService *service.StatsService,
	exportService *service.ExportService,
) *ReportController {
	return &ReportController{
		ReportService: reportService,
		StatsService:  statsService,
		ExportService: exportService,
	}
}

// TraineeSynthesis godoc
// @Summary Trainee synthesis
// @Description Stats, level, badges and improvement areas for one trainee
// @Tags reports
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Trainee profile id"
// @Success 200 {object} util.Response{data=model.TraineeSynthesis}
// @Failure 404 {object} util.Response
// @Router /api/admin/reports/trainees/{id} [get]
func (c *ReportController) TraineeSynthesis(ctx *gin.Context) {
	synthesis, err := c.ReportService.TraineeSynthesis(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, synthesis)
}

// QuestionnaireReport godoc
// @Summary Questionnaire report
// @Description Aggregates plus the questions under the success-rate threshold
// @Tags reports
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Questionnaire id"
// @Param   threshold query number false "Success-rate ceiling, default 60"
// @Success 200 {object} util.Response{data=model.QuestionnaireReport}
// @Failure 404 {object} util.Response
// @Router /api/admin/reports/questionnaires/{id} [get]
func (c *ReportController) QuestionnaireReport(ctx *gin.Context) {
	threshold, _ := strconv.ParseFloat(ctx.DefaultQuery("threshold", "0"), 64)

	report, err := c.ReportService.QuestionnaireReport(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")), threshold)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// GlobalSynthesis godoc
// @Summary Platform-wide synthesis
// @Tags reports
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.GlobalSynthesis}
// @Router /api/admin/reports/global [get]
func (c *ReportController) GlobalSynthesis(ctx *gin.Context) {
	synthesis, err := c.ReportService.GlobalSynthesis(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, synthesis)
}

// Recompute godoc
// @Summary Rebuild every aggregate row
// @Description Full recomputation of question, trainee and questionnaire statistics
// @Tags reports
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/admin/maintenance/recompute-stats [post]
func (c *ReportController) Recompute(ctx *gin.Context) {
	if err := c.StatsService.RecomputeAll(ctx.Request.Context()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "statistics recomputed"})
}

// ExportTrainee godoc
// @Summary CSV export of one trainee's results
// @Tags reports
// @Produce  text/csv
// @Security BearerAuth
// @Param   id path int true "Trainee profile id"
// @Success 200 {string} string "CSV payload"
// @Failure 404 {object} util.Response
// @Router /api/admin/reports/trainees/{id}/export [get]
func (c *ReportController) ExportTrainee(ctx *gin.Context) {
	payload, filename, err := c.ExportService.TraineeResultsCSV(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, "text/csv", payload)
}

// ExportAll godoc
// @Summary CSV export of every result
// @Tags reports
// @Produce  text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV payload"
// @Router /api/admin/reports/export [get]
func (c *ReportController) ExportAll(ctx *gin.Context) {
	payload, filename, err := c.ExportService.AllResultsCSV(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, "text/csv", payload)
}
