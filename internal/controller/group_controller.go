package controller

import (
	"errors"

	"fyp_portal_backend/internal/service"
	"fyp_portal_backend/internal/util"
	"fyp_portal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	GroupService *service.GroupService
}

func NewGroupController(groupService *service.GroupService) *GroupController {
	return &GroupController{GroupService: groupService}
}

type SendGroupRequestBody struct {
	ToEmail string `json:"toEmail" binding:"required,email"`
}

// SendRequest godoc
// @Summary Send a group request to another student by email
// @Tags group
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SendGroupRequestBody true "Receiver email"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/group-request [post]
func (c *GroupController) SendRequest(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var body SendGroupRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	req, err := c.GroupService.SendRequest(user.UserID, body.ToEmail)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, "Group request sent", gin.H{"_id": req.ID})
}

// IncomingGroupRequest is the projection the portal renders in the inbox.
type IncomingGroupRequest struct {
	ID             string `json:"_id"`
	FromName       string `json:"fromName"`
	FromEmail      string `json:"fromEmail"`
	FromDepartment string `json:"fromDepartment"`
	CreatedAt      string `json:"createdAt"`
}

// ListIncoming godoc
// @Summary Pending group requests addressed to the caller
// @Tags group
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]IncomingGroupRequest}
// @Router /api/group-requests [get]
func (c *GroupController) ListIncoming(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	reqs, err := c.GroupService.ListIncoming(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	out := make([]IncomingGroupRequest, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, IncomingGroupRequest{
			ID:             r.ID,
			FromName:       r.From.Name,
			FromEmail:      r.From.Email,
			FromDepartment: r.From.Department,
			CreatedAt:      r.CreatedAt.Format(util.TimeFormat),
		})
	}

	util.Success(ctx, "", gin.H{"requests": out})
}

// Approve godoc
// @Summary Approve a group request; both students end up in one group
// @Tags group
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Request id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/group-request/{id}/approve [post]
func (c *GroupController) Approve(ctx *gin.Context) {
	c.respond(ctx, service.DecisionApprove, "Group request approved")
}

// Reject godoc
// @Summary Reject a group request
// @Tags group
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Request id"
// @Success 200 {object} util.Response
// @Router /api/group-request/{id}/reject [post]
func (c *GroupController) Reject(ctx *gin.Context) {
	c.respond(ctx, service.DecisionReject, "Group request rejected")
}

func (c *GroupController) respond(ctx *gin.Context, decision service.Decision, msg string) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	requestID := ctx.Param("id")
	if err := c.GroupService.Respond(requestID, user.UserID, decision); err != nil {
		if errors.Is(err, util.ErrAlreadyResolved) {
			monitoring.WorkflowConflicts.WithLabelValues("group").Inc()
		}
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, msg, nil)
}
