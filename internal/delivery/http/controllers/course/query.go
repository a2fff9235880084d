package course

import (
	"CourseMarket/internal/delivery/http/controllers/response"
	"CourseMarket/internal/models"
	"CourseMarket/pkg/logger"
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QueryService interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.CourseDetail, error)
	ListCourses(ctx context.Context, count int, offset int) ([]models.CourseDetail, int, error)
	SearchCourses(ctx context.Context, query string, count int, offset int) ([]models.CourseDetail, int, error)
}

type QueryHandler struct {
	log     logger.Log
	service QueryService
}

func NewQueryHandler(log logger.Log, s QueryService) *QueryHandler {
	return &QueryHandler{
		log:     log,
		service: s,
	}
}

func (h *QueryHandler) CourseByID(c *gin.Context) {
	courseID, ok := response.UUIDParam(c, "course_id")
	if !ok {
		return
	}

	detail, err := h.service.CourseByID(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *QueryHandler) ListCourses(c *gin.Context) {
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}

	var (
		courses []models.CourseDetail
		total   int
		err     error
	)
	if q := strings.TrimSpace(c.Query("query")); q != "" {
		courses, total, err = h.service.SearchCourses(c.Request.Context(), q, limit, offset)
	} else {
		courses, total, err = h.service.ListCourses(c.Request.Context(), limit, offset)
	}
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":   total,
		"courses": courses,
	})
}

func (h *QueryHandler) SearchCourses(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.BadRequest(c, "q is required")
		return
	}
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}

	courses, total, err := h.service.SearchCourses(c.Request.Context(), q, limit, offset)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":   total,
		"courses": courses,
	})
}

func pagination(c *gin.Context) (limit, offset int, ok bool) {
	limit = 10
	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			response.BadRequest(c, "limit must be a positive integer")
			return 0, 0, false
		}
		limit = v
	}

	if s := c.Query("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			response.BadRequest(c, "offset must be a non-negative integer")
			return 0, 0, false
		}
		offset = v
	}
	return limit, offset, true
}
