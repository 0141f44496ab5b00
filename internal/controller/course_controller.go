package controller

import (
	"strconv"

	"edu_platform_backend/internal/model"
	"edu_platform_backend/internal/service"
	"edu_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.CourseService.List(ctx.Query("topic"), ctx.Query("level"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"courses": courses})
}

func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	course, err := c.CourseService.Get(id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

type CreateCourseRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	Level           string `json:"level" binding:"required,oneof=beginner intermediate advanced"`
	Topic           string `json:"topic" binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"required"`
}

// CreateCourse is teacher-only (enforced by the role middleware); the
// creator is always the authenticated identity.
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, util.ErrMissingCredential.Error())
		return
	}

	var req CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course := &model.Course{
		Title:           req.Title,
		Description:     req.Description,
		Level:           model.CourseLevel(req.Level),
		Topic:           req.Topic,
		DurationMinutes: req.DurationMinutes,
		CreatorID:       user.UserID,
	}

	if err := c.CourseService.Create(course); err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

func (c *CourseController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, util.ErrMissingCredential.Error())
		return
	}

	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.CourseService.Enroll(user.UserID, courseID); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "enrolled"})
}

func (c *CourseController) Complete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, util.ErrMissingCredential.Error())
		return
	}

	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.CourseService.Complete(user.UserID, courseID); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "completed"})
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
