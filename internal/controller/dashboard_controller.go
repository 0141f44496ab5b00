package controller

import (
	"edu_platform_backend/internal/model"
	"edu_platform_backend/internal/service"
	"edu_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetDashboard serves /dashboard/:role. An unknown role value is a 400; a
// role that does not match the gate-resolved identity is a 403, never a 401.
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, util.ErrMissingCredential.Error())
		return
	}

	role := ctx.Param("role")
	if !model.ValidRole(role) {
		util.BadRequest(ctx, "invalid role")
		return
	}
	if model.UserRole(role) != user.Role {
		util.Forbidden(ctx)
		return
	}

	switch user.Role {
	case model.Student:
		dashboard, err := c.DashboardService.GetStudentDashboard(user.UserID)
		if err != nil {
			util.RespondError(ctx, err)
			return
		}
		util.Success(ctx, dashboard)
	case model.Teacher:
		dashboard, err := c.DashboardService.GetTeacherDashboard(user.UserID)
		if err != nil {
			util.RespondError(ctx, err)
			return
		}
		util.Success(ctx, dashboard)
	}
}
