package controller

import (
	"errors"

	"tedp_backend/internal/repository"
	"tedp_backend/internal/service"
	"tedp_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExportController struct {
	ExportService *service.ExportService
	ResponseRepo  *repository.ResponseRepository
}

func NewExportController(exportService *service.ExportService, responseRepo *repository.ResponseRepository) *ExportController {
	return &ExportController{
		ExportService: exportService,
		ResponseRepo:  responseRepo,
	}
}

// ListResponses godoc
// @Summary Browse a passation's responses
// @Tags responses
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "passation id"
// @Param   page query int false "page"
// @Param   limit query int false "page size"
// @Success 200 {object} util.Response{data=object} "responses"
// @Router /api/passations/{id}/responses [get]
func (c *ExportController) ListResponses(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	page, limit := pagination(ctx)

	responses, total, err := c.ResponseRepo.ListByPassation(id, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: responses, Total: total, Page: page, Limit: limit})
}

// ExportPassation godoc
// @Summary Export a passation's responses to CSV
// @Description Builds the CSV and stores it with the configured storage backend
// @Tags responses
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "passation id"
// @Success 200 {object} util.Response{data=service.ExportResult} "export"
// @Failure 404 {object} util.Response "passation not found"
// @Failure 409 {object} util.Response "no responses yet"
// @Router /api/passations/{id}/export [post]
func (c *ExportController) ExportPassation(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	result, err := c.ExportService.ExportPassation(ctx.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPassationNotFound), errors.Is(err, util.ErrSurveyNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNoResponses):
			util.Error(ctx, 409, "no responses to export")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// DownloadCSV godoc
// @Summary Download a passation's responses as CSV
// @Tags responses
// @Produce  text/csv
// @Security ApiKeyAuth
// @Param   id path int true "passation id"
// @Success 200 {string} string "csv file"
// @Failure 404 {object} util.Response "passation not found"
// @Router /api/passations/{id}/export/download [get]
func (c *ExportController) DownloadCSV(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	filename, data, err := c.ExportService.BuildPassationCSV(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, util.ErrPassationNotFound) || errors.Is(err, util.ErrSurveyNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(200, "text/csv", data)
}
