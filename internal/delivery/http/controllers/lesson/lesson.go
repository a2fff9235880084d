package lesson

import (
	"CourseMarket/internal/app_errors"
	"CourseMarket/internal/delivery/http/controllers/middleware"
	"CourseMarket/internal/delivery/http/controllers/response"
	"CourseMarket/internal/models"
	"CourseMarket/internal/service/access"
	"CourseMarket/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LessonService interface {
	CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
	LessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error)
}

type AccessChecker interface {
	CanView(ctx context.Context, p access.Principal, resource any) (bool, error)
}

type LessonHandler struct {
	log     logger.Log
	service LessonService
	access  AccessChecker
}

func NewLessonHandler(log logger.Log, service LessonService, a AccessChecker) *LessonHandler {
	return &LessonHandler{log: log, service: service, access: a}
}

type createLessonRequest struct {
	Title string `json:"title" binding:"required"`
	Link  string `json:"link" binding:"required,url"`
}

func (h *LessonHandler) CreateLesson(c *gin.Context) {
	courseID, ok := response.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	var input createLessonRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	lesson, err := h.service.CreateLesson(c.Request.Context(), models.Lesson{
		CourseID: courseID,
		Title:    input.Title,
		Link:     input.Link,
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

func (h *LessonHandler) LessonsByCourse(c *gin.Context) {
	courseID, ok := response.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	if !h.authorize(c, access.Course(courseID)) {
		return
	}

	lessons, err := h.service.LessonsByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lessons})
}

func (h *LessonHandler) LessonByID(c *gin.Context) {
	lessonID, ok := response.UUIDParam(c, "lesson_id")
	if !ok {
		return
	}

	lesson, err := h.service.LessonByID(c.Request.Context(), lessonID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if !h.authorize(c, *lesson) {
		return
	}
	c.JSON(http.StatusOK, lesson)
}

func (h *LessonHandler) authorize(c *gin.Context, resource any) bool {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return false
	}
	allowed, err := h.access.CanView(c.Request.Context(), principal, resource)
	if err != nil {
		response.Error(c, h.log, err)
		return false
	}
	if !allowed {
		response.Error(c, h.log, app_errors.ErrForbidden)
		return false
	}
	return true
}
