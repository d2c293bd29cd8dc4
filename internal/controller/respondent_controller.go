package controller

import (
	"errors"

	"tedp_backend/internal/runner"
	"tedp_backend/internal/service"
	"tedp_backend/internal/util"
	"tedp_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

// RespondentController is the anonymous survey-taking surface. No JWT here;
// the session token issued by ValidatePin is the only credential.
type RespondentController struct {
	RespondentService *service.RespondentService
}

func NewRespondentController(respondentService *service.RespondentService) *RespondentController {
	return &RespondentController{RespondentService: respondentService}
}

// flowError maps runner and session errors onto the response envelope.
func flowError(ctx *gin.Context, err error) {
	var verr *runner.ValidationError
	var serr *runner.SubmitError

	switch {
	case errors.As(err, &verr):
		util.ErrorData(ctx, 400, "required questions unanswered", gin.H{"questionIds": verr.QuestionIDs})
	// a spent PIN is terminal even when the submit sink reports it, so it
	// must win over the retryable SubmitError mapping
	case errors.Is(err, util.ErrPinAlreadyUsed):
		util.Error(ctx, 409, "this PIN has already been used")
	case errors.As(err, &serr):
		util.Error(ctx, 502, "submission failed, your answers are kept, please retry")
	case errors.Is(err, util.ErrSessionNotFound):
		util.Error(ctx, 404, "session expired or unknown")
	case errors.Is(err, util.ErrInvalidPinFormat):
		util.BadRequest(ctx, "PIN must be exactly 6 digits")
	case errors.Is(err, util.ErrPinUnknown):
		util.Error(ctx, 404, "unknown PIN")
	case errors.Is(err, util.ErrPassationNotActive), errors.Is(err, util.ErrPassationNotFound):
		util.Error(ctx, 409, "this survey is no longer open")
	case errors.Is(err, runner.ErrNotStarted),
		errors.Is(err, runner.ErrAlreadyStarted),
		errors.Is(err, runner.ErrFirstPage),
		errors.Is(err, runner.ErrLastPage),
		errors.Is(err, runner.ErrNotLastPage),
		errors.Is(err, runner.ErrSubmitInFlight),
		errors.Is(err, runner.ErrAlreadySubmitted),
		errors.Is(err, runner.ErrCancelled),
		errors.Is(err, runner.ErrUnknownQuestion),
		errors.Is(err, runner.ErrNotMultiChoice):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

type ValidatePinRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// ValidatePin godoc
// @Summary Validate an access code and open a survey session
// @Description Checks the 6-digit PIN and returns a session token with the first page
// @Tags respondent
// @Accept  json
// @Produce  json
// @Param   body body ValidatePinRequest true "access code"
// @Success 200 {object} util.Response{data=service.SessionView} "session"
// @Failure 400 {object} util.Response "malformed PIN"
// @Failure 404 {object} util.Response "unknown PIN"
// @Failure 409 {object} util.Response "PIN used or survey closed"
// @Router /api/respondent/validate-pin [post]
func (c *RespondentController) ValidatePin(ctx *gin.Context) {
	var req ValidatePinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.RespondentService.ValidatePin(ctx.Request.Context(), req.PIN)
	if err != nil {
		flowError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Start godoc
// @Summary Begin answering
// @Tags respondent
// @Produce  json
// @Param   token path string true "session token"
// @Success 200 {object} util.Response{data=service.SessionView} "first page"
// @Failure 404 {object} util.Response "session expired"
// @Router /api/respondent/sessions/{token}/start [post]
func (c *RespondentController) Start(ctx *gin.Context) {
	view, err := c.RespondentService.Start(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		flowError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// CurrentPage godoc
// @Summary Current page and recorded answers
// @Tags respondent
// @Produce  json
// @Param   token path string true "session token"
// @Success 200 {object} util.Response{data=service.SessionView} "page"
// @Failure 404 {object} util.Response "session expired"
// @Router /api/respondent/sessions/{token} [get]
func (c *RespondentController) CurrentPage(ctx *gin.Context) {
	view, err := c.RespondentService.CurrentPage(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		flowError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// RecordAnswer godoc
// @Summary Record an answer
// @Description Stores or replaces the answer to one question, no validation yet
// @Tags respondent
// @Accept  json
// @Produce  json
// @Param   token path string true "session token"
// @Param   body body service.AnswerRequest true "answer"
// @Success 200 {object} util.Response{data=service.SessionView} "updated page"
// @Failure 400 {object} util.Response "unknown question or wrong shape"
// @Router /api/respondent/sessions/{token}/answers [put]
func (c *RespondentController) RecordAnswer(ctx *gin.Context) {
	var req service.AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.RespondentService.RecordAnswer(ctx.Request.Context(), ctx.Param("token"), req)
	if err != nil {
		flowError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// ToggleChoice godoc
// @Summary Toggle one option of a multiple choice question
// @Tags respondent
// @Accept  json
// @Produce  json
// @Param   token path string true "session token"
// @Param   body body service.ToggleRequest true "option"
// @Success 200 {object} util.Response{data=service.SessionView} "updated page"
// @Failure 400 {object} util.Response "not a multiple choice question"
// @Router /api/respondent/sessions/{token}/toggle [post]
func (c *RespondentController) ToggleChoice(ctx *gin.Context) {
	var req service.ToggleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.RespondentService.ToggleChoice(ctx.Request.Context(), ctx.Param("token"), req)
	if err != nil {
		flowError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Advance godoc
// @Summary Move to the next page
// @Description Fails with the unanswered required question ids when the page is incomplete
// @Tags respondent
// @Produce  json
// @Param   token path string true "session token"
// @Success 200 {object} util.Response{data=service.SessionView} "next page"
// @Failure 400 {object} util.Response "required questions unanswered or already on the last page"
// @Router /api/respondent/sessions/{token}/advance [post]
func (c *RespondentController) Advance(ctx *gin.Context) {
	view, err := c.RespondentService.Advance(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		flowError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Retreat godoc
// @Summary Move back one page
// @Description Always allowed while in progress, nothing is validated
// @Tags respondent
// @Produce  json
// @Param   token path string true "session token"
// @Success 200 {object} util.Response{data=service.SessionView} "previous page"
// @Failure 400 {object} util.Response "already on the first page"
// @Router /api/respondent/sessions/{token}/retreat [post]
func (c *RespondentController) Retreat(ctx *gin.Context) {
	view, err := c.RespondentService.Retreat(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		flowError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Cancel godoc
// @Summary Abandon the session
// @Description Discards all answers, the PIN stays usable
// @Tags respondent
// @Produce  json
// @Param   token path string true "session token"
// @Success 200 {object} util.Response "cancelled"
// @Failure 404 {object} util.Response "session expired"
// @Router /api/respondent/sessions/{token} [delete]
func (c *RespondentController) Cancel(ctx *gin.Context) {
	if err := c.RespondentService.Cancel(ctx.Request.Context(), ctx.Param("token")); err != nil {
		flowError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Submit godoc
// @Summary Submit the completed survey
// @Description Stores the response, consumes the PIN and ends the session
// @Tags respondent
// @Produce  json
// @Param   token path string true "session token"
// @Success 200 {object} util.Response{data=service.SessionView} "submitted"
// @Failure 400 {object} util.Response "not on the last page or required questions unanswered"
// @Failure 502 {object} util.Response "storage failed, answers kept for retry"
// @Router /api/respondent/sessions/{token}/submit [post]
func (c *RespondentController) Submit(ctx *gin.Context) {
	view, err := c.RespondentService.Submit(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		monitoring.SubmissionCounter.WithLabelValues("failure").Inc()
		flowError(ctx, err)
		return
	}
	monitoring.SubmissionCounter.WithLabelValues("success").Inc()
	util.Success(ctx, view)
}
