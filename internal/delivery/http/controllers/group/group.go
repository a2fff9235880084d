package group

import (
	"CourseMarket/internal/delivery/http/controllers/response"
	"CourseMarket/internal/models"
	"CourseMarket/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GroupService interface {
	GroupsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.GroupRoster, error)
	CreateGroup(ctx context.Context, courseID uuid.UUID, name string) (*models.Group, error)
}

type GroupHandler struct {
	log     logger.Log
	service GroupService
}

func NewGroupHandler(log logger.Log, s GroupService) *GroupHandler {
	return &GroupHandler{log: log, service: s}
}

func (h *GroupHandler) GroupsByCourse(c *gin.Context) {
	courseID, ok := response.UUIDParam(c, "course_id")
	if !ok {
		return
	}

	groups, err := h.service.GroupsByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

type createGroupRequest struct {
	Name string `json:"name"`
}

// CreateGroup adds a group by hand. An empty name gets the generated one.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	courseID, ok := response.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	var input createGroupRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	group, err := h.service.CreateGroup(c.Request.Context(), courseID, input.Name)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}
