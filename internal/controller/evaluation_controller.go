package controller

import (
	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/internal/service"
	"fyp_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EvaluationController struct {
	EvaluationService *service.EvaluationService
}

func NewEvaluationController(evaluationService *service.EvaluationService) *EvaluationController {
	return &EvaluationController{EvaluationService: evaluationService}
}

type EvaluateRequest struct {
	StudentID uint   `json:"studentId" binding:"required"`
	Marks     *int   `json:"marks" binding:"required"`
	Feedback  string `json:"feedback"`
}

// Evaluate godoc
// @Summary Submit marks for a student
// @Description The slot written is implied by the caller's role: supervisor and internal mark out of 50, external out of 100. Resubmitting overwrites the caller's slot only.
// @Tags evaluation
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body EvaluateRequest true "Marks and feedback"
// @Success 200 {object} util.Response{data=model.Evaluation}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/evaluate [post]
func (c *EvaluationController) Evaluate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	role := model.EvaluatorRole(user.Role)
	if _, ok := model.MarksBound(role); !ok {
		util.Forbidden(ctx)
		return
	}

	var req EvaluateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	eval, err := c.EvaluationService.Submit(req.StudentID, role, *req.Marks, req.Feedback)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, "Evaluation recorded", gin.H{
		"evaluation": eval,
		"total":      eval.Total(),
	})
}

// Get godoc
// @Summary A student's evaluation record with the running total
// @Tags evaluation
// @Produce json
// @Security ApiKeyAuth
// @Param studentId path int true "Student id"
// @Success 200 {object} util.Response{data=model.Evaluation}
// @Failure 404 {object} util.Response
// @Router /api/evaluations/{studentId} [get]
func (c *EvaluationController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	studentID := util.MustParseUint(ctx.Param("studentId"))
	if studentID == 0 {
		util.BadRequest(ctx, "invalid student id")
		return
	}

	// Students may only read their own record.
	if user.Role == model.Student && user.UserID != studentID {
		util.Forbidden(ctx)
		return
	}

	eval, err := c.EvaluationService.Get(studentID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, "", gin.H{
		"evaluation": eval,
		"total":      eval.Total(),
	})
}
