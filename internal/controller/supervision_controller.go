package controller

import (
	"errors"

	"fyp_portal_backend/internal/service"
	"fyp_portal_backend/internal/util"
	"fyp_portal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type SupervisionController struct {
	SupervisionService *service.SupervisionService
}

func NewSupervisionController(supervisionService *service.SupervisionService) *SupervisionController {
	return &SupervisionController{SupervisionService: supervisionService}
}

type SubmitSupervisorRequestBody struct {
	SupervisorID       uint   `json:"supervisorId" binding:"required"`
	ProjectTitle       string `json:"projectTitle" binding:"required"`
	ProjectDescription string `json:"projectDescription"`
}

// Submit godoc
// @Summary Request supervision for a project
// @Tags supervision
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SubmitSupervisorRequestBody true "Request details"
// @Success 201 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/supervisor-request [post]
func (c *SupervisionController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var body SubmitSupervisorRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	req, err := c.SupervisionService.Submit(user.UserID, body.SupervisorID, body.ProjectTitle, body.ProjectDescription)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, "Supervisor request submitted", gin.H{"_id": req.ID})
}

// ListIncoming godoc
// @Summary Pending supervision requests addressed to the caller
// @Tags supervision
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/supervisor-requests [get]
func (c *SupervisionController) ListIncoming(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	reqs, err := c.SupervisionService.ListIncoming(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, "", gin.H{"requests": reqs})
}

// Approve godoc
// @Summary Approve a supervision request
// @Description Snapshots the supervisor onto the student and marks the project approved.
// @Tags supervision
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Request id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/requests/{id}/approve [post]
func (c *SupervisionController) Approve(ctx *gin.Context) {
	c.decide(ctx, service.DecisionApprove, "Supervision request approved")
}

// Reject godoc
// @Summary Reject a supervision request
// @Tags supervision
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Request id"
// @Success 200 {object} util.Response
// @Router /api/requests/{id}/reject [post]
func (c *SupervisionController) Reject(ctx *gin.Context) {
	c.decide(ctx, service.DecisionReject, "Supervision request rejected")
}

func (c *SupervisionController) decide(ctx *gin.Context, decision service.Decision, msg string) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	requestID := ctx.Param("id")
	if err := c.SupervisionService.Decide(requestID, user.UserID, decision); err != nil {
		if errors.Is(err, util.ErrAlreadyResolved) {
			monitoring.WorkflowConflicts.WithLabelValues("supervision").Inc()
		}
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, msg, nil)
}

// Resync godoc
// @Summary Re-copy a supervisor's identity onto their approved students
// @Description The approval-time snapshot goes stale when the supervisor's profile changes; this refreshes it.
// @Tags supervision
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Supervisor id"
// @Success 200 {object} util.Response
// @Router /api/admin/supervisors/{id}/resync [post]
func (c *SupervisionController) Resync(ctx *gin.Context) {
	supervisorID := util.MustParseUint(ctx.Param("id"))
	if supervisorID == 0 {
		util.BadRequest(ctx, "invalid supervisor id")
		return
	}

	n, err := c.SupervisionService.ResyncSnapshots(supervisorID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, "Snapshots refreshed", gin.H{"updated": n})
}
