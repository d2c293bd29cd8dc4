package controller

import (
	"errors"
	"strconv"

	"tedp_backend/internal/service"
	"tedp_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SurveyController struct {
	SurveyService *service.SurveyService
}

func NewSurveyController(surveyService *service.SurveyService) *SurveyController {
	return &SurveyController{SurveyService: surveyService}
}

func paramID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func pagination(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// CreateSurvey godoc
// @Summary Create a survey
// @Tags surveys
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.SurveyRequest true "survey"
// @Success 201 {object} util.Response{data=model.Survey} "created"
// @Failure 400 {object} util.Response "invalid request"
// @Router /api/surveys [post]
func (c *SurveyController) CreateSurvey(ctx *gin.Context) {
	var req service.SurveyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	survey, err := c.SurveyService.CreateSurvey(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, survey)
}

// ListSurveys godoc
// @Summary List surveys
// @Tags surveys
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "page"
// @Param   limit query int false "page size"
// @Success 200 {object} util.Response{data=object} "surveys"
// @Router /api/surveys [get]
func (c *SurveyController) ListSurveys(ctx *gin.Context) {
	page, limit := pagination(ctx)
	surveys, total, err := c.SurveyService.ListSurveys(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: surveys, Total: total, Page: page, Limit: limit})
}

// GetSurvey godoc
// @Summary Get a survey with its questions
// @Tags surveys
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "survey id"
// @Success 200 {object} util.Response{data=model.Survey} "survey"
// @Failure 404 {object} util.Response "not found"
// @Router /api/surveys/{id} [get]
func (c *SurveyController) GetSurvey(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	survey, err := c.SurveyService.GetSurvey(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, survey)
}

// UpdateSurvey godoc
// @Summary Update a survey
// @Tags surveys
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "survey id"
// @Param   body body service.SurveyRequest true "survey"
// @Success 200 {object} util.Response{data=model.Survey} "updated"
// @Failure 404 {object} util.Response "not found"
// @Router /api/surveys/{id} [put]
func (c *SurveyController) UpdateSurvey(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var req service.SurveyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	survey, err := c.SurveyService.UpdateSurvey(id, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, survey)
}

// DeleteSurvey godoc
// @Summary Delete a survey
// @Tags surveys
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "survey id"
// @Success 200 {object} util.Response "deleted"
// @Router /api/surveys/{id} [delete]
func (c *SurveyController) DeleteSurvey(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := c.SurveyService.DeleteSurvey(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateQuestion godoc
// @Summary Add a question to a survey
// @Tags surveys
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.QuestionRequest true "question"
// @Success 201 {object} util.Response{data=model.Question} "created"
// @Failure 400 {object} util.Response "invalid request"
// @Router /api/questions [post]
func (c *SurveyController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.SurveyService.CreateQuestion(req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, q)
}

// ListQuestions godoc
// @Summary List a survey's questions in order
// @Tags surveys
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "survey id"
// @Success 200 {object} util.Response{data=object} "questions"
// @Router /api/surveys/{id}/questions [get]
func (c *SurveyController) ListQuestions(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	questions, err := c.SurveyService.ListQuestions(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"questions": questions})
}

// UpdateQuestion godoc
// @Summary Update a question
// @Tags surveys
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "question id"
// @Param   body body service.QuestionRequest true "question"
// @Success 200 {object} util.Response{data=model.Question} "updated"
// @Failure 404 {object} util.Response "not found"
// @Router /api/questions/{id} [put]
func (c *SurveyController) UpdateQuestion(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.SurveyService.UpdateQuestion(id, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, q)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags surveys
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "question id"
// @Success 200 {object} util.Response "deleted"
// @Router /api/questions/{id} [delete]
func (c *SurveyController) DeleteQuestion(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := c.SurveyService.DeleteQuestion(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
