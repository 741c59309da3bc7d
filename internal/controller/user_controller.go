package controller

import (
	"strconv"

	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/internal/service"
	"fyp_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// ListSupervisors godoc
// @Summary Supervisors a student can request, with name and department
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param query query string false "Name or email filter"
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/supervisors [get]
func (c *UserController) ListSupervisors(ctx *gin.Context) {
	supervisors, err := c.UserService.ListSupervisors(ctx.Query("query"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, "", gin.H{"supervisors": supervisors})
}

// ListUsers godoc
// @Summary Paginated user directory, filterable by role
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param role query string false "Role filter" Enums(student, supervisor, admin, internal, external)
// @Param query query string false "Name or email filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} util.Response
// @Router /api/admin/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	offset, _ := strconv.Atoi(ctx.Query("offset"))

	users, total, err := c.UserService.ListUsers(
		model.UserRole(ctx.Query("role")),
		ctx.Query("query"),
		limit,
		offset,
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, "", gin.H{"users": users, "total": total})
}

// GetUser godoc
// @Summary A single user record
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User id"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	user, err := c.UserService.GetUser(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, "", gin.H{"user": user})
}
