package controller

import (
	"edu_platform_backend/internal/model"
	"edu_platform_backend/internal/service"
	"edu_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PerformanceController struct {
	PerformanceService *service.PerformanceService
	CourseService      *service.CourseService
}

func NewPerformanceController(performanceService *service.PerformanceService, courseService *service.CourseService) *PerformanceController {
	return &PerformanceController{
		PerformanceService: performanceService,
		CourseService:      courseService,
	}
}

// GetPerformance serves /performance?role=&timeRange=&subject=. The role
// query scopes the aggregation and must match the authenticated role.
func (c *PerformanceController) GetPerformance(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, util.ErrMissingCredential.Error())
		return
	}

	role := ctx.Query("role")
	if !model.ValidRole(role) {
		util.BadRequest(ctx, "invalid role")
		return
	}
	if model.UserRole(role) != user.Role {
		util.Forbidden(ctx)
		return
	}

	timeRange := ctx.Query("timeRange")
	subject := ctx.Query("subject")

	switch user.Role {
	case model.Student:
		perf, err := c.PerformanceService.GetStudentPerformance(user.UserID, timeRange, subject)
		if err != nil {
			util.RespondError(ctx, err)
			return
		}
		util.Success(ctx, perf)
	case model.Teacher:
		perf, err := c.PerformanceService.GetTeacherPerformance(user.UserID, timeRange)
		if err != nil {
			util.RespondError(ctx, err)
			return
		}
		util.Success(ctx, perf)
	}
}

type QuizScoreRequest struct {
	CourseID uint    `json:"courseId" binding:"required"`
	QuizID   string  `json:"quizId"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"maxScore" binding:"required"`
}

// RecordQuizScore appends one quiz event to the caller's performance record.
func (c *PerformanceController) RecordQuizScore(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, util.ErrMissingCredential.Error())
		return
	}

	var req QuizScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.CourseService.RecordQuizScore(user.UserID, req.CourseID, req.QuizID, req.Score, req.MaxScore)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "quiz score recorded"})
}

type LearningTimeRequest struct {
	CourseID uint `json:"courseId" binding:"required"`
	Minutes  int  `json:"minutes" binding:"required"`
}

// RecordLearningTime increments the caller's per-course learning counter.
func (c *PerformanceController) RecordLearningTime(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, util.ErrMissingCredential.Error())
		return
	}

	var req LearningTimeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.CourseService.RecordLearningTime(user.UserID, req.CourseID, req.Minutes)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "learning time recorded"})
}
