package controller

import (
	"time"

	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/internal/service"
	"fyp_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MilestoneController struct {
	MilestoneService *service.MilestoneService
}

func NewMilestoneController(milestoneService *service.MilestoneService) *MilestoneController {
	return &MilestoneController{MilestoneService: milestoneService}
}

type MilestoneRequest struct {
	Name     string `json:"name" binding:"required"`
	Deadline string `json:"deadline"`
	Order    int    `json:"order"`
}

// Create godoc
// @Summary Create a project milestone
// @Tags milestones
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body MilestoneRequest true "Milestone details"
// @Success 201 {object} util.Response{data=model.Milestone}
// @Failure 409 {object} util.Response
// @Router /api/admin/milestones [post]
func (c *MilestoneController) Create(ctx *gin.Context) {
	var req MilestoneRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	m := &model.Milestone{Name: req.Name, Order: req.Order}
	if req.Deadline != "" {
		t, err := time.Parse(util.DateFormat, req.Deadline)
		if err != nil {
			util.BadRequest(ctx, "deadline must be YYYY-MM-DD")
			return
		}
		m.Deadline = &t
	}

	if err := c.MilestoneService.Create(m); err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, "Milestone created", gin.H{"milestone": m})
}

// List godoc
// @Summary The milestone timeline in display order
// @Tags milestones
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Milestone}
// @Router /api/milestones [get]
func (c *MilestoneController) List(ctx *gin.Context) {
	milestones, err := c.MilestoneService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, "", gin.H{"milestones": milestones})
}

type UpdateMilestoneRequest struct {
	Name     string `json:"name"`
	Deadline string `json:"deadline"`
	Order    *int   `json:"order"`
}

// Update godoc
// @Summary Rename or reschedule a milestone
// @Tags milestones
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Milestone id"
// @Param body body UpdateMilestoneRequest true "Fields to change"
// @Success 200 {object} util.Response{data=model.Milestone}
// @Failure 404 {object} util.Response
// @Router /api/admin/milestones/{id} [put]
func (c *MilestoneController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid milestone id")
		return
	}

	var req UpdateMilestoneRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var deadline *time.Time
	if req.Deadline != "" {
		t, err := time.Parse(util.DateFormat, req.Deadline)
		if err != nil {
			util.BadRequest(ctx, "deadline must be YYYY-MM-DD")
			return
		}
		deadline = &t
	}

	m, err := c.MilestoneService.Update(id, req.Name, deadline, req.Order)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, "Milestone updated", gin.H{"milestone": m})
}

// Delete godoc
// @Summary Delete a milestone
// @Tags milestones
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Milestone id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/milestones/{id} [delete]
func (c *MilestoneController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid milestone id")
		return
	}

	if err := c.MilestoneService.Delete(id); err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, "Milestone deleted", nil)
}
