package controller

import (
	"errors"
	"strconv"

	"tedp_backend/internal/model"
	"tedp_backend/internal/service"
	"tedp_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PassationController struct {
	PassationService  *service.PassationService
	AccessCodeService *service.AccessCodeService
}

func NewPassationController(passationService *service.PassationService, accessCodeService *service.AccessCodeService) *PassationController {
	return &PassationController{
		PassationService:  passationService,
		AccessCodeService: accessCodeService,
	}
}

// CreatePassation godoc
// @Summary Open a new passation for a survey
// @Description Creates an active passation labeled with the current school year
// @Tags passations
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.PassationRequest true "passation"
// @Success 201 {object} util.Response{data=model.Passation} "created"
// @Failure 400 {object} util.Response "invalid request"
// @Failure 404 {object} util.Response "survey not found"
// @Router /api/passations [post]
func (c *PassationController) CreatePassation(ctx *gin.Context) {
	var req service.PassationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	p, err := c.PassationService.CreatePassation(claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrSurveyNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, p)
}

// ListPassations godoc
// @Summary List passations
// @Tags passations
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "page"
// @Param   limit query int false "page size"
// @Param   status query string false "active, closed, archived or all"
// @Success 200 {object} util.Response{data=object} "passations"
// @Router /api/passations [get]
func (c *PassationController) ListPassations(ctx *gin.Context) {
	page, limit := pagination(ctx)
	status := ctx.DefaultQuery("status", "all")

	// school admins only see their own school's passations
	var schoolID *uint
	if claims := util.GetUserFromContext(ctx); claims != nil && claims.Role == model.SchoolAdmin {
		schoolID = claims.SchoolID
	}

	passations, total, err := c.PassationService.ListPassations(page, limit, status, schoolID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: passations, Total: total, Page: page, Limit: limit})
}

// GetPassation godoc
// @Summary Get a passation with its groups
// @Tags passations
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "passation id"
// @Success 200 {object} util.Response{data=model.Passation} "passation"
// @Failure 404 {object} util.Response "not found"
// @Router /api/passations/{id} [get]
func (c *PassationController) GetPassation(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	p, err := c.PassationService.GetPassation(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, p)
}

type StatusRequest struct {
	Status model.PassationStatus `json:"status" binding:"required"`
}

// ChangeStatus godoc
// @Summary Move a passation forward in its lifecycle
// @Description active -> closed -> archived, never backward
// @Tags passations
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "passation id"
// @Param   body body StatusRequest true "target status"
// @Success 200 {object} util.Response{data=model.Passation} "updated"
// @Failure 400 {object} util.Response "invalid transition"
// @Failure 404 {object} util.Response "not found"
// @Router /api/passations/{id}/status [patch]
func (c *PassationController) ChangeStatus(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var req StatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	p, err := c.PassationService.ChangeStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPassationNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidStatusChange):
			util.BadRequest(ctx, "status can only move forward")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, p)
}

type GroupRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddGroup godoc
// @Summary Add a group to a passation
// @Tags passations
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "passation id"
// @Param   body body GroupRequest true "group"
// @Success 201 {object} util.Response{data=model.Group} "created"
// @Failure 404 {object} util.Response "not found"
// @Router /api/passations/{id}/groups [post]
func (c *PassationController) AddGroup(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var req GroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	g, err := c.PassationService.AddGroup(id, req.Name)
	if err != nil {
		if errors.Is(err, util.ErrPassationNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, g)
}

// DeleteGroup godoc
// @Summary Delete a group
// @Tags passations
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "group id"
// @Success 200 {object} util.Response "deleted"
// @Router /api/groups/{id} [delete]
func (c *PassationController) DeleteGroup(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := c.PassationService.DeleteGroup(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GenerateCodes godoc
// @Summary Generate a batch of access codes
// @Description Creates unique 6-digit PINs for an active passation
// @Tags passations
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.GenerateCodesRequest true "batch parameters"
// @Success 201 {object} util.Response{data=object} "codes"
// @Failure 400 {object} util.Response "invalid request"
// @Failure 404 {object} util.Response "passation not found"
// @Router /api/access-codes [post]
func (c *PassationController) GenerateCodes(ctx *gin.Context) {
	var req service.GenerateCodesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	codes, err := c.AccessCodeService.GenerateCodes(req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPassationNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPassationNotActive):
			util.BadRequest(ctx, "passation is not active")
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, gin.H{"codes": codes, "count": len(codes)})
}

// ListCodes godoc
// @Summary List a passation's access codes
// @Tags passations
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "passation id"
// @Param   page query int false "page"
// @Param   limit query int false "page size"
// @Param   unused query bool false "only unused codes"
// @Success 200 {object} util.Response{data=object} "codes"
// @Router /api/passations/{id}/access-codes [get]
func (c *PassationController) ListCodes(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	page, limit := pagination(ctx)
	onlyUnused, _ := strconv.ParseBool(ctx.DefaultQuery("unused", "false"))

	codes, total, err := c.AccessCodeService.ListCodes(id, page, limit, onlyUnused)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: codes, Total: total, Page: page, Limit: limit})
}
